package converter

import (
	"strings"

	"github.com/ginjaninja78/infra3-curator/internal/lookup"
	"github.com/ginjaninja78/infra3-curator/internal/normalize"
	"github.com/ginjaninja78/infra3-curator/internal/types"
)

// Static Transaction sheet values.
const (
	assetClassInfrastructure = "Infrastructure"
	activeFlag               = "TRUE"
)

// TransformTransactions maps every source row onto one Transaction record,
// preserving row order.
func TransformTransactions(src *types.SourceTable) *types.Table {
	out := types.NewTable(SheetTransaction, TransactionColumns)

	for _, row := range src.Rows {
		sectors := lookup.Sectors(cell(row, srcSector), cell(row, srcSubSector))

		out.Append(map[string]string{
			ColTransactionID:                     row.Get(ColTransactionID),
			"Transaction Name":                   transactionName(cell(row, srcName)),
			"Transaction Asset Class":            assetClassInfrastructure,
			"Transaction Status":                 lookup.Status(currentStatus(row)),
			"Finance Type":                       cell(row, srcFinanceType),
			"Transaction Type":                   lookup.TransactionType(cell(row, srcType)),
			"Transaction Local Currency":         normalize.CurrencyCode(cell(row, srcCurrency)),
			"Transaction Value (Local Currency)": normalize.ExtractNumericalValue(cell(row, srcSizeLocal)),
			"Region - Country":                   lookup.Country(cell(row, srcGeography)),
			"Any Level Sectors":                  joinNonEmpty(", ", sectors.Sector, sectors.SubSector),
			"PPP":                                cell(row, srcPPP),
			"Concession Period":                  normalize.ExtractNumericalValue(cell(row, srcDuration)),
			"Contract":                           lookup.Contract(cell(row, srcDeliveryModel)),
			"SPV":                                cell(row, srcSPV),
			"Active":                             activeFlag,
		})
	}

	return out
}

// transactionName trims and collapses whitespace and writes "and" as "&".
func transactionName(name string) string {
	return strings.ReplaceAll(normalize.CollapseSpaces(name), " and ", " & ")
}

// currentStatus reads the status column under either capitalisation used by
// source exports.
func currentStatus(row types.SourceRow) string {
	if s := cell(row, srcStatus); s != "" {
		return s
	}
	return cell(row, srcStatusAlt)
}

// cell returns the trimmed value of column, or "" for absent columns and
// missing-value markers.
func cell(row types.SourceRow, column string) string {
	v := row.Get(column)
	if normalize.IsBlank(v) {
		return ""
	}
	return v
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
