package converter

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/infra3-curator/internal/lookup"
	"github.com/ginjaninja78/infra3-curator/internal/normalize"
	"github.com/ginjaninja78/infra3-curator/internal/types"
)

// =============================================================================
// TRANCHE SLOTS
// =============================================================================

// Group identifies which source column group a tranche came from. It is the
// letter part of the Tranche Upload ID suffix.
type Group string

const (
	GroupLoan          Group = "L"
	GroupCapitalMarket Group = "CM"
	GroupEquity        Group = "E"
)

// Tranche classification values.
const (
	TypeDebt   = "Debt"
	TypeEquity = "Equity"
	TypeLoan   = "Loan"
	TypeBond   = "Bond"

	tertiaryCommercialBond = "Commercial Bond"
	tertiaryEquity         = "Equity"
	esgIslamic             = "Islamic Finance"
)

// valuePlaces is the rounding applied to the pro-rata tranche value.
const valuePlaces = 4

// trancheSlot is one numbered column group present in the source schema.
type trancheSlot struct {
	group  Group
	index  int
	kind   string // tertiary type column; empty for capital-market and equity
	tenor  string
	volume string
	// parties lists lenders, underwriters or equity providers.
	parties string
}

// suffix returns the Tranche Upload ID suffix of the slot: "L1", "CM2", "E".
func (s trancheSlot) suffix() string {
	if s.group == GroupEquity {
		return string(GroupEquity)
	}
	return string(s.group) + strconv.Itoa(s.index)
}

// trancheID builds "{transaction id}-{suffix}".
func (s trancheSlot) trancheID(row types.SourceRow) string {
	return row.Get(ColTransactionID) + "-" + s.suffix()
}

// trancheSlots lists the slot groups the source schema carries, in emission
// order: loans 1..N, capital-market debt 1..N, then equity. A loan slot needs
// its type, tenor and volume columns; a capital-market slot its volume column;
// equity the provider column.
func trancheSlots(src *types.SourceTable, opts Options) []trancheSlot {
	var slots []trancheSlot

	for i := 1; i <= opts.TrancheSlots; i++ {
		if !src.Has(srcLoanType(i)) || !src.Has(srcLoanTenor(i)) || !src.Has(srcLoanVolume(i)) {
			continue
		}
		slots = append(slots, trancheSlot{
			group:   GroupLoan,
			index:   i,
			kind:    srcLoanType(i),
			tenor:   srcLoanTenor(i),
			volume:  srcLoanVolume(i),
			parties: srcLoanLenders(i),
		})
	}

	for i := 1; i <= opts.CapitalMarketSlots; i++ {
		if !src.Has(srcCMVolume(i)) {
			continue
		}
		slots = append(slots, trancheSlot{
			group:   GroupCapitalMarket,
			index:   i,
			tenor:   srcCMTenor(i),
			volume:  srcCMVolume(i),
			parties: srcCMUnderwriters(i),
		})
	}

	if src.Has(srcEquityProvider) {
		slots = append(slots, trancheSlot{
			group:   GroupEquity,
			volume:  srcEquityUSD,
			parties: srcEquityProvider,
		})
	}

	return slots
}

// materialized reports whether row fills the slot's triggering fields.
func (s trancheSlot) materialized(row types.SourceRow) bool {
	switch s.group {
	case GroupLoan:
		return cell(row, s.kind) != "" || cell(row, s.tenor) != "" || cell(row, s.volume) != ""
	case GroupCapitalMarket:
		return cell(row, s.volume) != ""
	default:
		return cell(row, s.parties) != ""
	}
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Classification is the derived type of a tranche.
type Classification struct {
	Primary   string
	Secondary string
}

// ParseTrancheID splits the suffix of a Tranche Upload ID into its group and
// index. Equity tranches have index 0.
func ParseTrancheID(id string) (Group, int, bool) {
	dash := strings.LastIndex(id, "-")
	if dash < 0 {
		return "", 0, false
	}
	suffix := id[dash+1:]

	if suffix == string(GroupEquity) {
		return GroupEquity, 0, true
	}
	for _, g := range []Group{GroupCapitalMarket, GroupLoan} {
		digits, found := strings.CutPrefix(suffix, string(g))
		if !found || digits == "" {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil || n < 1 {
			return "", 0, false
		}
		return g, n, true
	}
	return "", 0, false
}

// Classify derives the primary and secondary type of a tranche from its ID.
// Only the first classifiedSlots loan and capital-market slots count as debt;
// every other tranche classifies as equity.
func Classify(trancheID string, classifiedSlots int) Classification {
	group, index, ok := ParseTrancheID(trancheID)
	if ok && index >= 1 && index <= classifiedSlots {
		switch group {
		case GroupLoan:
			return Classification{Primary: TypeDebt, Secondary: TypeLoan}
		case GroupCapitalMarket:
			return Classification{Primary: TypeDebt, Secondary: TypeBond}
		}
	}
	return Classification{Primary: TypeEquity, Secondary: TypeEquity}
}

// =============================================================================
// TRANSFORMER
// =============================================================================

// TransformTranches emits one Tranches record per materialized slot of each
// source row. Loan slots whose tertiary type normalises to blank are dropped.
func TransformTranches(src *types.SourceTable, opts Options) *types.Table {
	out := types.NewTable(SheetTranches, TrancheColumns)

	for _, slot := range trancheSlots(src, opts) {
		for _, row := range src.Rows {
			if !slot.materialized(row) {
				continue
			}

			id := slot.trancheID(row)
			raw := rawTertiaryType(slot, row)

			esg := ""
			if strings.Contains(strings.ToLower(raw), "islamic") {
				esg = esgIslamic
			}

			tertiary := lookup.TrancheType(raw)
			if slot.group == GroupLoan && tertiary == "" {
				continue
			}
			if slot.group == GroupCapitalMarket {
				tertiary = tertiaryCommercialBond
			}

			class := Classify(id, opts.ClassifiedSlots)

			tenor := ""
			if slot.tenor != "" {
				tenor = normalize.ExtractNumericalValue(cell(row, slot.tenor))
			}

			out.Append(map[string]string{
				ColTransactionID:         row.Get(ColTransactionID),
				ColTrancheID:             id,
				"Tranche Primary Type":   class.Primary,
				"Tranche Secondary Type": class.Secondary,
				"Tranche Tertiary Type":  tertiary,
				ColValue:                 trancheValue(row, cell(row, slot.volume)),
				"Tenor":                  tenor,
				"Tranche ESG Type":       esg,
			})
		}
	}

	return out
}

func rawTertiaryType(slot trancheSlot, row types.SourceRow) string {
	switch slot.group {
	case GroupLoan:
		return cell(row, slot.kind)
	case GroupCapitalMarket:
		return tertiaryCommercialBond
	default:
		return tertiaryEquity
	}
}

// trancheValue allocates the local-currency transaction size pro rata to
// the tranche's share of the USD transaction size:
//
//	value = trancheUSD / transactionUSD * transactionLocal
//
// The value is blank when either USD figure is missing or zero, or when the
// local size is missing.
func trancheValue(row types.SourceRow, trancheUSD string) string {
	usd := normalize.SafeDecimal(normalize.ExtractNumericalValue(trancheUSD))
	total := normalize.SafeDecimal(normalize.ExtractNumericalValue(cell(row, srcSizeUSD)))
	if usd.IsZero() || total.IsZero() {
		return ""
	}
	localText := normalize.ExtractNumericalValue(cell(row, srcSizeLocal))
	if localText == "" {
		return ""
	}
	local := normalize.SafeDecimal(localText)
	return normalize.FormatDecimal(usd.Div(total).Mul(local), valuePlaces)
}
