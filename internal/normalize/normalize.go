// =============================================================================
// INFRA3 Curator - Scalar Normalizers
// =============================================================================
//
// Pure functions over a single cell value. None of them return an error:
// values that cannot be interpreted degrade to "" (text), 0 (numbers) or
// ok=false (dates), so one malformed cell never fails a conversion.
//
// =============================================================================

package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	numberRe      = regexp.MustCompile(`[0-9.,]*[0-9][0-9.,]*`)
	parenRe       = regexp.MustCompile(`\([^()]*\)`)
	spaceRe       = regexp.MustCompile(`\s+`)
	percentRe     = regexp.MustCompile(`\(\s*([0-9]+(?:[.,][0-9]+)?)\s*%\s*\)\s*$`)
	currencyRe    = regexp.MustCompile(`\b[A-Z]{3}\b`)
	blankRe       = regexp.MustCompile(`(?i)^(nan|none|nat|null|#n/a)$`)
	placeholderRe = regexp.MustCompile(`(?i)^(n/a|na|tbc|tbd|-)$`)
)

// IsBlank reports whether a cell carries no value: empty, whitespace, or one
// of the missing-value markers spreadsheet exports produce (NaN, None, ...).
func IsBlank(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || blankRe.MatchString(v)
}

// IsPlaceholder reports whether a cell holds a "not available" marker such as
// N/A. Such cells are not blank as text but carry no usable value.
func IsPlaceholder(value string) bool {
	return placeholderRe.MatchString(strings.TrimSpace(value))
}

// =============================================================================
// TEXT
// =============================================================================

// ExtractNumericalValue returns the first run of digits, commas and periods
// found in text, e.g. "USD 1,250.5m" -> "1,250.5". Returns "" when the text
// holds no digit.
func ExtractNumericalValue(text string) string {
	if IsBlank(text) {
		return ""
	}
	return numberRe.FindString(text)
}

// CleanCompanyName removes every parenthetical segment, trims the result and
// collapses runs of whitespace.
//
//	"Acme  Corp (Funders)" -> "Acme Corp"
func CleanCompanyName(name string) string {
	out := name
	// Nested parentheses are removed innermost first.
	for parenRe.MatchString(out) {
		out = parenRe.ReplaceAllString(out, "")
	}
	return CollapseSpaces(out)
}

// CollapseSpaces trims s and replaces internal whitespace runs with one space.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// CurrencyCode extracts a three-letter ISO currency code from a cell such as
// "EUR" or "EUR 120m". Cells without a code are returned trimmed.
func CurrencyCode(value string) string {
	if IsBlank(value) {
		return ""
	}
	v := strings.TrimSpace(value)
	if code := currencyRe.FindString(strings.ToUpper(v)); code != "" {
		return code
	}
	return v
}

// SplitOutsideParens splits s on sep, ignoring separators inside parentheses.
// Pieces are trimmed and empty pieces discarded.
//
//	"A, B (50%, senior), C" -> ["A", "B (50%, senior)", "C"]
func SplitOutsideParens(s string, sep rune) []string {
	var (
		parts []string
		depth int
		cur   strings.Builder
	)
	flush := func() {
		if p := strings.TrimSpace(cur.String()); p != "" {
			parts = append(parts, p)
		}
		cur.Reset()
	}
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case r == sep && depth == 0:
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return parts
}

// ExtractPercentage returns the number inside a trailing "(NN%)" suffix, or
// "" when the entry has none.
//
//	"Bank B (30%)" -> "30"
func ExtractPercentage(entry string) string {
	m := percentRe.FindStringSubmatch(entry)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], ",", ".")
}

// =============================================================================
// NUMBERS
// =============================================================================

// SafeNumeric parses a possibly comma-formatted number. Any failure,
// including blank, NaN and infinities, yields 0.
func SafeNumeric(value string) float64 {
	v := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != f || f > 1e300 || f < -1e300 {
		return 0
	}
	return f
}

// SafeDecimal is SafeNumeric for exact arithmetic. Values SafeNumeric
// rejects are zero here too.
func SafeDecimal(value string) decimal.Decimal {
	if SafeNumeric(value) == 0 {
		return decimal.Zero
	}
	v := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatDecimal renders d with at most places fractional digits and no
// trailing zeros.
func FormatDecimal(d decimal.Decimal, places int32) string {
	return d.Round(places).String()
}

// =============================================================================
// DATES
// =============================================================================

// DateLayout is the output layout of CoerceDate.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order. Day-first layouts follow month-first ones
// so ambiguous dates resolve the way the source exports write them.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006/01/02",
	"01/02/2006",
	"01/02/2006 15:04",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"02/01/2006",
	"02.01.2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
	"2-Jan-06",
	"Jan-2006",
	"January 2006",
}

// CoerceDate converts a source date cell to "YYYY-MM-DD", dropping any time
// of day. Excel serial numbers (raw cell values) are accepted. Blank,
// placeholder and unparseable values return ok=false.
func CoerceDate(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if IsBlank(v) || IsPlaceholder(v) {
		return "", false
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		// Serials outside 1900..9999 are not dates.
		if serial < 1 || serial > 2958465 {
			return "", false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return "", false
		}
		return t.Format(DateLayout), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(DateLayout), true
		}
	}
	return "", false
}

// =============================================================================
// COUNTERPARTY TAGS
// =============================================================================

// counterpartyMarkers are matched against the parenthetical text of a bidder
// entry in this order; the first match wins.
var counterpartyMarkers = []struct {
	marker string
	tag    string
}{
	{"funders", "Debt Provider"},
	{"lenders", "Debt Provider"},
	{"sponsors", "Sponsor"},
	{"sponsor", "Sponsor"},
	{"bidders", "Sponsor"},
	{"bidder", "Sponsor"},
	{"grantor", "Awarding Authority"},
	{"authority", "Awarding Authority"},
	{"public", "Awarding Authority"},
	{"vendor", "Divestor"},
	{"seller", "Divestor"},
}

// CounterpartyTag derives the Client Counterparty from the parenthetical
// suffix of a company entry: "Acme Corp (Funders)" -> "Debt Provider".
// Returns "" when the entry has no recognised marker.
func CounterpartyTag(entry string) string {
	parens := strings.ToLower(strings.Join(parenRe.FindAllString(entry, -1), " "))
	if parens == "" {
		return ""
	}
	for _, m := range counterpartyMarkers {
		if strings.Contains(parens, m.marker) {
			return m.tag
		}
	}
	return ""
}
