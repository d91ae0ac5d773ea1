package converter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/infra3-curator/internal/types"
)

// pipelineHeaders is a trimmed-down source schema: two loan slots, one
// capital-market slot and the equity group.
var pipelineHeaders = []string{
	"Transaction Upload ID",
	"Transaction Name",
	"Current Status",
	"Finance Type",
	"Type",
	"Transaction Currency",
	"Transaction size (m)",
	"Transaction size USD(m)",
	"Geography",
	"Sector",
	"Sub-Sector",
	"PPP",
	"Duration",
	"Delivery Model",
	"SPV",
	"Current status",
	"Current status date",
	"Financial close",
	"RFP returned",
	"Legal Advisors",
	"Vendors",
	"Grantors",
	"Loan Debt Tranche 1 Type",
	"Tranche 1 Tenor",
	"Tranche 1 Volume USD (m)",
	"Tranche 1 Lenders",
	"Loan Debt Tranche 2 Type",
	"Tranche 2 Tenor",
	"Tranche 2 Volume USD (m)",
	"Tranche 2 Lenders",
	"Capital Market Debt 1 Volume USD (m)",
	"Capital Market Debt 1 Tenor",
	"Capital Market Debt 1 Underwriters",
	"Equity Providers at FC",
	"Equity at FC USD (m)",
}

// northRoad is a fully populated transaction.
var northRoad = map[string]string{
	"Transaction Upload ID":                "T1",
	"Transaction Name":                     "  North  Road and Bridge ",
	"Current Status":                       "Financial close",
	"Finance Type":                         "Project Finance",
	"Type":                                 "Greenfield",
	"Transaction Currency":                 "EUR",
	"Transaction size (m)":                 "800",
	"Transaction size USD(m)":              "400",
	"Geography":                            "USA",
	"Sector":                               "Transport",
	"Sub-Sector":                           "Toll Road",
	"PPP":                                  "Yes",
	"Duration":                             "25 years",
	"Delivery Model":                       "DBFOM",
	"SPV":                                  "North Road SPV Ltd",
	"Current status":                       "Financial close",
	"Current status date":                  "44197",
	"Financial close":                      "44197",
	"RFP returned":                         "N/A",
	"Legal Advisors":                       "Law LLP (Funders); Tech Co ; ",
	"Vendors":                              "Seller Inc",
	"Grantors":                             "Ministry of Roads (Grantor)",
	"Loan Debt Tranche 1 Type":             "Senior Debt",
	"Tranche 1 Tenor":                      "18 years",
	"Tranche 1 Volume USD (m)":             "100",
	"Tranche 1 Lenders":                    "Bank A, Bank B (30%), Bank C",
	"Loan Debt Tranche 2 Type":             "Other",
	"Tranche 2 Tenor":                      "5",
	"Tranche 2 Volume USD (m)":             "50",
	"Tranche 2 Lenders":                    "Bank D",
	"Capital Market Debt 1 Volume USD (m)": "200",
	"Capital Market Debt 1 Tenor":          "30",
	"Capital Market Debt 1 Underwriters":   "Underwriter X",
	"Equity Providers at FC":               "Equity Partner (60%), Sponsor Two",
	"Equity at FC USD (m)":                 "100",
}

// gulfPlant has an Islamic facility, no USD size and mostly blank cells.
var gulfPlant = map[string]string{
	"Transaction Upload ID":    "T2",
	"Transaction Name":         "Gulf Plant",
	"Current Status":           "nan",
	"Transaction size USD(m)":  "0",
	"Geography":                "SAUDI ARABIA",
	"Sector":                   "Power",
	"Current status date":      "",
	"Financial close":          "N/A",
	"Loan Debt Tranche 1 Type": "Islamic Facility",
	"Tranche 1 Volume USD (m)": "50",
}

// source builds a SourceTable with pipelineHeaders from records keyed by
// header.
func source(t *testing.T, records ...map[string]string) *types.SourceTable {
	t.Helper()
	return sourceWith(t, pipelineHeaders, records...)
}

func sourceWith(t *testing.T, headers []string, records ...map[string]string) *types.SourceTable {
	t.Helper()
	raw := make([][]string, 0, len(records))
	for _, rec := range records {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = rec[h]
		}
		raw = append(raw, cells)
	}
	src := types.NewSourceTable(headers, raw)
	require.Len(t, src.Rows, len(records))
	return src
}

// rowsFor returns the records of table whose Transaction Upload ID is id, as
// column -> value maps.
func rowsFor(table *types.Table, id string) []map[string]string {
	var out []map[string]string
	for i := range table.Rows {
		if table.Value(i, ColTransactionID) != id {
			continue
		}
		rec := make(map[string]string, len(table.Columns))
		for _, c := range table.Columns {
			rec[c] = table.Value(i, c)
		}
		out = append(out, rec)
	}
	return out
}
