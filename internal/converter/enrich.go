package converter

import (
	"github.com/ginjaninja78/infra3-curator/internal/types"
)

// Tranche role types.
const (
	RoleSponsor      = "Sponsor"
	RoleBondArranger = "Bond Arranger"
	RoleDebtProvider = "Debt Provider"
)

// RoleTypeFor maps a tranche classification onto the role its parties play.
// Equity wins over Bond, Bond over Loan; anything else yields "".
func RoleTypeFor(c Classification) string {
	switch {
	case c.Primary == TypeEquity || c.Secondary == TypeEquity:
		return RoleSponsor
	case c.Secondary == TypeBond:
		return RoleBondArranger
	case c.Secondary == TypeLoan:
		return RoleDebtProvider
	default:
		return ""
	}
}

// trancheIndex maps Tranche Upload ID to the classification recorded in the
// Tranches sheet. The first record wins if an ID repeats.
func trancheIndex(tranches *types.Table) map[string]Classification {
	idx := make(map[string]Classification, len(tranches.Rows))
	for i := range tranches.Rows {
		id := tranches.Value(i, ColTrancheID)
		if _, dup := idx[id]; dup {
			continue
		}
		idx[id] = Classification{
			Primary:   tranches.Value(i, "Tranche Primary Type"),
			Secondary: tranches.Value(i, "Tranche Secondary Type"),
		}
	}
	return idx
}

// EnrichTrancheRoles returns a copy of roles with Tranche Role Type filled
// from the matching Tranches record. Roles whose tranche was not emitted keep
// a blank role type.
func EnrichTrancheRoles(roles, tranches *types.Table) *types.Table {
	idx := trancheIndex(tranches)

	out := types.NewTable(roles.Name, roles.Columns)
	idCol := roles.ColumnIndex(ColTrancheID)
	typeCol := roles.ColumnIndex("Tranche Role Type")

	for _, row := range roles.Rows {
		enriched := append(types.Row(nil), row...)
		if class, ok := idx[row[idCol]]; ok {
			enriched[typeCol] = RoleTypeFor(class)
		} else {
			enriched[typeCol] = ""
		}
		out.Rows = append(out.Rows, enriched)
	}
	return out
}
