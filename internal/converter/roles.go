package converter

import (
	"github.com/ginjaninja78/infra3-curator/internal/normalize"
	"github.com/ginjaninja78/infra3-curator/internal/types"
)

// TransformTrancheRoles emits one Tranche_Roles_Any record per lender,
// underwriter or equity provider named in a tranche slot's party list.
// Lists are comma separated; commas inside parentheses do not split, and a
// trailing "(NN%)" becomes the record's Percentage.
//
// The role type is back-filled from tranches, so the Tranches sheet must be
// built first. Company names are cleaned after the join.
func TransformTrancheRoles(src *types.SourceTable, tranches *types.Table, opts Options) *types.Table {
	roles := generateTrancheRoles(src, opts)
	roles = EnrichTrancheRoles(roles, tranches)

	company := roles.ColumnIndex(ColCompany)
	for _, row := range roles.Rows {
		row[company] = normalize.CleanCompanyName(row[company])
	}
	return roles
}

// generateTrancheRoles builds role records with raw company entries and a
// blank role type.
func generateTrancheRoles(src *types.SourceTable, opts Options) *types.Table {
	out := types.NewTable(SheetTrancheRoles, TrancheRoleColumns)

	for _, slot := range trancheSlots(src, opts) {
		if !src.Has(slot.parties) {
			continue
		}

		for _, row := range src.Rows {
			parties := cell(row, slot.parties)
			if parties == "" {
				continue
			}

			id := slot.trancheID(row)
			for _, entry := range normalize.SplitOutsideParens(parties, ',') {
				if normalize.CleanCompanyName(entry) == "" {
					continue
				}
				out.Append(map[string]string{
					ColTransactionID: row.Get(ColTransactionID),
					ColTrancheID:     id,
					ColCompany:       entry,
					ColPercentage:    normalize.ExtractPercentage(entry),
				})
			}
		}
	}

	return out
}
