package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowsDenyByDefault(t *testing.T) {
	table := Default()

	// Every (role, resource, action) triple not explicitly granted in the
	// table must come back as a plain deny, never an error and never true.
	for _, role := range Roles() {
		for _, resource := range Resources() {
			actions, err := ActionsFor(resource)
			require.NoError(t, err)
			for _, action := range actions {
				got, err := table.Allows(role, resource, action)
				require.NoError(t, err, "role=%s resource=%s action=%s", role, resource, action)

				want := defaultTable[role][resource][action]
				assert.Equal(t, want, got, "role=%s resource=%s action=%s", role, resource, action)
			}
		}
	}
}

func TestAllowsKnownScenarios(t *testing.T) {
	table := Default()

	cases := []struct {
		name     string
		role     Role
		resource Resource
		action   Action
		want     bool
	}{
		{"data entry has no purchase order access", RoleDataEntry, ResourcePurchaseOrders, ActionRead, false},
		{"manager may delete clients", RoleManager, ResourceClients, ActionDelete, true},
		{"purchasing may read items but not update", RolePurchasing, ResourceItems, ActionUpdate, false},
		{"purchasing may export items", RolePurchasing, ResourceItems, ActionExport, true},
		{"it admin may create system settings", RoleITAdmin, ResourceSystemSettings, ActionCreate, true},
		{"accounting is read only on purchase orders", RoleAccounting, ResourcePurchaseOrders, ActionUpdate, false},
		{"accounting may export reports", RoleAccounting, ResourceReports, ActionExport, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := table.Allows(tc.role, tc.resource, tc.action)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAllowsUnknownRoleIsAnError(t *testing.T) {
	table := Default()

	// Contrast with a legitimate deny: an unconfigured role must fail loud,
	// not return false and look like "no access".
	got, err := table.Allows(Role("auditor"), ResourceClients, ActionRead)
	require.ErrorIs(t, err, ErrUnknownRole)
	assert.False(t, got)
}

func TestAllowsUnknownResourceAndAction(t *testing.T) {
	table := Default()

	_, err := table.Allows(RoleManager, Resource("invoices"), ActionRead)
	assert.ErrorIs(t, err, ErrUnknownResource)

	// import is not a relevant action for users
	_, err = table.Allows(RoleManager, ResourceUsers, ActionImport)
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = table.Allows(RoleManager, ResourceItems, Action("approve"))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestAllowsIsIdempotent(t *testing.T) {
	table := Default()

	first, err := table.Allows(RolePurchasing, ResourceSuppliers, ActionCreate)
	require.NoError(t, err)
	second, err := table.Allows(RolePurchasing, ResourceSuppliers, ActionCreate)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConvenienceWrappers(t *testing.T) {
	table := Default()

	ok, err := table.CanRead(RoleAccounting, ResourceQuotations)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = table.CanCreate(RoleAccounting, ResourceQuotations)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = table.CanUpdate(RoleDataEntry, ResourceItems)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = table.CanDelete(RoleDataEntry, ResourceItems)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = table.CanExport(RoleManager, ResourceClients)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = table.CanImport(RoleITAdmin, ResourceQuotations)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	incomplete := Table{
		RoleManager: defaultTable[RoleManager],
	}
	assert.ErrorIs(t, incomplete.Validate(), ErrUnknownRole)
}

func TestManagerAndITAdminCarryIdenticalGrants(t *testing.T) {
	// Duplicated data by choice, not a hierarchy. This pins the current
	// behavior so a future divergence is a deliberate edit.
	table := Default()
	for _, resource := range Resources() {
		actions, err := ActionsFor(resource)
		require.NoError(t, err)
		for _, action := range actions {
			m, err := table.Allows(RoleManager, resource, action)
			require.NoError(t, err)
			a, err := table.Allows(RoleITAdmin, resource, action)
			require.NoError(t, err)
			assert.Equal(t, m, a, "resource=%s action=%s", resource, action)
		}
	}
}
