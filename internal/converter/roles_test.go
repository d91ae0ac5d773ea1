package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/infra3-curator/internal/types"
)

func TestTransformTrancheRoles(t *testing.T) {
	src := source(t, northRoad, gulfPlant)
	opts := DefaultOptions()
	tranches := TransformTranches(src, opts)

	out := TransformTrancheRoles(src, tranches, opts)
	assert.Equal(t, SheetTrancheRoles, out.Name)
	assert.Equal(t, TrancheRoleColumns, out.Columns)

	assert.Equal(t,
		[]string{"Bank A", "Bank B", "Bank C", "Bank D", "Underwriter X", "Equity Partner", "Sponsor Two"},
		out.Column(ColCompany))
	assert.Equal(t,
		[]string{"T1-L1", "T1-L1", "T1-L1", "T1-L2", "T1-CM1", "T1-E", "T1-E"},
		out.Column(ColTrancheID))
	assert.Equal(t,
		[]string{RoleDebtProvider, RoleDebtProvider, RoleDebtProvider, "", RoleBondArranger, RoleSponsor, RoleSponsor},
		out.Column("Tranche Role Type"),
		"roles on a dropped tranche keep a blank type")
	assert.Equal(t,
		[]string{"", "30", "", "", "", "60", ""},
		out.Column(ColPercentage))

	for _, v := range out.Column(ColValue) {
		assert.Equal(t, "", v)
	}
	assert.Empty(t, rowsFor(out, "T2"))
}

func TestTransformTrancheRolesUnclassified(t *testing.T) {
	src := source(t, northRoad)
	opts := DefaultOptions()
	opts.ClassifiedSlots = 0
	tranches := TransformTranches(src, opts)

	out := TransformTrancheRoles(src, tranches, opts)
	require.NotEmpty(t, out.Rows)
	assert.Equal(t, RoleSponsor, out.Value(0, "Tranche Role Type"), "equity classification wins")
}

func TestTransformTrancheRolesSkipsEmptyCompanies(t *testing.T) {
	rec := map[string]string{
		"Transaction Upload ID":    "T10",
		"Loan Debt Tranche 1 Type": "Term Loan",
		"Tranche 1 Volume USD (m)": "10",
		"Tranche 1 Lenders":        "(60%), , Bank E (Agent, 40%)",
	}
	src := source(t, rec)
	tranches := TransformTranches(src, DefaultOptions())

	out := TransformTrancheRoles(src, tranches, DefaultOptions())
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "Bank E", out.Value(0, ColCompany))
	assert.Equal(t, "", out.Value(0, ColPercentage), "only a bare (NN%) suffix counts")
}

func TestRoleTypeFor(t *testing.T) {
	tests := []struct {
		name string
		in   Classification
		want string
	}{
		{"equity", Classification{TypeEquity, TypeEquity}, RoleSponsor},
		{"equity secondary", Classification{TypeDebt, TypeEquity}, RoleSponsor},
		{"bond", Classification{TypeDebt, TypeBond}, RoleBondArranger},
		{"loan", Classification{TypeDebt, TypeLoan}, RoleDebtProvider},
		{"unknown", Classification{"Mezzanine", "Other"}, ""},
		{"empty", Classification{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleTypeFor(tt.in))
		})
	}
}

func TestEnrichTrancheRolesDoesNotMutate(t *testing.T) {
	tranches := types.NewTable(SheetTranches, TrancheColumns)
	tranches.Append(map[string]string{
		ColTrancheID:             "T1-CM1",
		"Tranche Primary Type":   TypeDebt,
		"Tranche Secondary Type": TypeBond,
	})

	roles := types.NewTable(SheetTrancheRoles, TrancheRoleColumns)
	roles.Append(map[string]string{ColTrancheID: "T1-CM1", ColCompany: "X"})
	roles.Append(map[string]string{ColTrancheID: "T1-L9", ColCompany: "Y", "Tranche Role Type": "stale"})

	out := EnrichTrancheRoles(roles, tranches)

	assert.Equal(t, []string{RoleBondArranger, ""}, out.Column("Tranche Role Type"))
	assert.Equal(t, []string{"", "stale"}, roles.Column("Tranche Role Type"), "input is left untouched")
}
