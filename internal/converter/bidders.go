package converter

import (
	"strings"

	"github.com/ginjaninja78/infra3-curator/internal/normalize"
	"github.com/ginjaninja78/infra3-curator/internal/types"
)

// bidderSources maps role-bearing source columns to the INFRA3 role type.
var bidderSources = []struct {
	column   string
	roleType string
}{
	{"Legal Advisors", "Adviser"},
	{"Technical Advisors", "Adviser"},
	{"Financial Advisors", "Adviser"},
	{"Vendors", "Divestor"},
	{"Grantors", "Awarding Authority"},
}

// TransformBidders emits one Bidders_Any record per company named in the
// advisor, vendor and grantor columns. Entries are semicolon separated; a
// parenthetical suffix such as "(Funders)" sets the Client Counterparty and
// is removed from the company name.
func TransformBidders(src *types.SourceTable) *types.Table {
	out := types.NewTable(SheetBidders, BidderColumns)

	for _, bs := range bidderSources {
		if !src.Has(bs.column) {
			continue
		}

		for _, row := range src.Rows {
			value := cell(row, bs.column)
			if value == "" {
				continue
			}

			for _, entry := range strings.Split(value, ";") {
				entry = strings.TrimSpace(entry)
				company := normalize.CleanCompanyName(entry)
				if company == "" {
					continue
				}

				out.Append(map[string]string{
					ColTransactionID:      row.Get(ColTransactionID),
					"Role Type":           bs.roleType,
					ColCompany:            company,
					"Client Counterparty": normalize.CounterpartyTag(entry),
				})
			}
		}
	}

	return out
}
