package converter

import (
	"strings"

	"github.com/ginjaninja78/infra3-curator/internal/lookup"
	"github.com/ginjaninja78/infra3-curator/internal/normalize"
	"github.com/ginjaninja78/infra3-curator/internal/types"
)

// eventSource pairs a source date column with the event it records. A
// dynamic event takes its label from the row's current status instead.
type eventSource struct {
	dateColumn string
	label      string
	dynamic    bool
}

// eventSources are processed in this order; the order decides which of two
// duplicate rows survives deduplication.
var eventSources = []eventSource{
	{dateColumn: "Current status date", dynamic: true},
	{dateColumn: "Financial close", label: "Financial Close"},
	{dateColumn: "Transaction Launch", label: "Announced"},
	{dateColumn: "RFP returned", label: "Request for Proposals"},
	{dateColumn: "Preferred Proponents", label: "Preferred Bidder"},
	{dateColumn: "Expressions of Interest", label: "Expression of Interest"},
	{dateColumn: "RFQ returned", label: "Request for Qualifications"},
	{dateColumn: "Shortlisted proponents", label: "Shortlist"},
}

// TransformEvents emits one Events record per non-blank event date. Dates
// are coerced to YYYY-MM-DD; rows whose date is blank, "N/A" or unparseable
// are not emitted, and identical records are kept once.
func TransformEvents(src *types.SourceTable) *types.Table {
	out := types.NewTable(SheetEvents, EventColumns)
	seen := make(map[string]bool)

	for _, es := range eventSources {
		if !src.Has(es.dateColumn) {
			continue
		}

		for _, row := range src.Rows {
			date, ok := normalize.CoerceDate(row.Get(es.dateColumn))
			if !ok {
				continue
			}

			label := es.label
			if es.dynamic {
				label = currentStatusLabel(row)
			}

			rec := map[string]string{
				ColTransactionID: row.Get(ColTransactionID),
				"Event Date":     date,
				"Event Type":     lookup.EventType(label),
				"Event Title":    "",
			}

			key := strings.Join([]string{rec[ColTransactionID], rec["Event Date"], rec["Event Type"], rec["Event Title"]}, "\x00")
			if seen[key] {
				continue
			}
			seen[key] = true
			out.Append(rec)
		}
	}

	return out
}

// currentStatusLabel prefers the lower-case "Current status" column, which
// is the one paired with "Current status date" in source exports.
func currentStatusLabel(row types.SourceRow) string {
	if s := cell(row, srcStatusAlt); s != "" {
		return s
	}
	return cell(row, srcStatus)
}
