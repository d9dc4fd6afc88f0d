package authz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPermissionsAreTotal(t *testing.T) {
	table := Default()

	for _, role := range Roles() {
		set, err := table.DefaultPermissions(role)
		require.NoError(t, err)

		// Every relevant (resource, action) pair is present, granted or not.
		count := 0
		for _, resource := range Resources() {
			actions, err := ActionsFor(resource)
			require.NoError(t, err)
			for _, action := range actions {
				allowed, ok := set[Code(resource, action)]
				require.True(t, ok, "role=%s missing code %s", role, Code(resource, action))

				want, err := table.Allows(role, resource, action)
				require.NoError(t, err)
				assert.Equal(t, want, allowed)
				count++
			}
		}
		assert.Len(t, set, count)
	}
}

func TestDefaultPermissionsUnknownRole(t *testing.T) {
	_, err := Default().DefaultPermissions(Role("auditor"))
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestEffectivePermissionsOverridePrecedence(t *testing.T) {
	table := Default()

	// The stored bag wins wholesale, even where it conflicts with the
	// role's defaults in both directions.
	bag := PermissionSet{
		Code(ResourcePurchaseOrders, ActionDelete): true,  // data_entry default: false
		Code(ResourceQuotations, ActionRead):       false, // data_entry default: true
	}
	raw, err := json.Marshal(bag)
	require.NoError(t, err)

	set, err := table.EffectivePermissions(RoleDataEntry, string(raw))
	require.NoError(t, err)
	assert.Equal(t, bag, set)

	id := Identity{Role: RoleDataEntry, Permissions: set}

	allowed, err := table.Decide(id, ResourcePurchaseOrders, ActionDelete)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = table.Decide(id, ResourceQuotations, ActionRead)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestEffectivePermissionsAbsentFallsBack(t *testing.T) {
	table := Default()

	defaults, err := table.DefaultPermissions(RolePurchasing)
	require.NoError(t, err)

	set, err := table.EffectivePermissions(RolePurchasing, "")
	require.NoError(t, err)
	assert.Equal(t, defaults, set)

	set, err = table.EffectivePermissions(RolePurchasing, "   ")
	require.NoError(t, err)
	assert.Equal(t, defaults, set)
}

func TestEffectivePermissionsMalformedFallsBack(t *testing.T) {
	table := Default()

	defaults, err := table.DefaultPermissions(RoleAccounting)
	require.NoError(t, err)

	// The error surfaces for logging but the returned set is still the
	// usable role defaults, never a silent deny-all or allow-all.
	set, err := table.EffectivePermissions(RoleAccounting, "{not json")
	assert.ErrorIs(t, err, ErrMalformedOverride)
	assert.Equal(t, defaults, set)
}

func TestEffectivePermissionsMalformedUnknownRole(t *testing.T) {
	_, err := Default().EffectivePermissions(Role("auditor"), "{not json")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestDecideWithoutOverrideUsesTable(t *testing.T) {
	table := Default()
	id := Identity{Role: RoleManager}

	allowed, err := table.Decide(id, ResourceClients, ActionDelete)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = table.Decide(id, ResourceReports, ActionExport)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestDecideUnknownRoleEvenWithOverride(t *testing.T) {
	id := Identity{
		Role:        Role("auditor"),
		Permissions: PermissionSet{Code(ResourceClients, ActionRead): true},
	}
	_, err := Default().Decide(id, ResourceClients, ActionRead)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestDecideUnknownResource(t *testing.T) {
	id := Identity{Role: RoleManager}
	_, err := Default().Decide(id, Resource("invoices"), ActionRead)
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestCodeRoundTrip(t *testing.T) {
	code := Code(ResourcePurchaseOrders, ActionExport)
	assert.Equal(t, "purchase_orders.export", code)

	resource, action, err := SplitCode(code)
	require.NoError(t, err)
	assert.Equal(t, ResourcePurchaseOrders, resource)
	assert.Equal(t, ActionExport, action)

	_, _, err = SplitCode("nodot")
	assert.Error(t, err)
}
