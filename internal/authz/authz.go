// Package authz holds the role/resource/action permission model. It is pure
// lookup logic over an immutable table: no database, no HTTP, no side effects.
// Route guards and the UI feed decide what a deny means; this package only
// answers allow/deny.
package authz

import (
	"errors"
	"fmt"
)

// Role is a fixed identity category. The set is closed: adding a role means
// adding a complete row to the default table.
type Role string

const (
	RoleManager    Role = "manager"
	RoleITAdmin    Role = "it_admin"
	RoleDataEntry  Role = "data_entry"
	RolePurchasing Role = "purchasing"
	RoleAccounting Role = "accounting"
)

// Roles returns all recognized roles in declaration order.
func Roles() []Role {
	return []Role{RoleManager, RoleITAdmin, RoleDataEntry, RolePurchasing, RoleAccounting}
}

// Resource is a protectable business entity category.
type Resource string

const (
	ResourceQuotations     Resource = "quotations"
	ResourceItems          Resource = "items"
	ResourcePurchaseOrders Resource = "purchase_orders"
	ResourceClients        Resource = "clients"
	ResourceSuppliers      Resource = "suppliers"
	ResourceUsers          Resource = "users"
	ResourceReports        Resource = "reports"
	ResourceSystemSettings Resource = "system_settings"
)

// Resources returns all recognized resources in declaration order.
func Resources() []Resource {
	return []Resource{
		ResourceQuotations,
		ResourceItems,
		ResourcePurchaseOrders,
		ResourceClients,
		ResourceSuppliers,
		ResourceUsers,
		ResourceReports,
		ResourceSystemSettings,
	}
}

// Action is an operation verb applied to a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
	ActionImport Action = "import"
)

var (
	// ErrUnknownRole marks a configuration error: the role was never
	// registered in the table. Distinct from a legitimate deny so that
	// operators can tell "no access" from "never configured".
	ErrUnknownRole = errors.New("authz: unknown role")

	// ErrUnknownResource marks a caller programming error: the requested
	// resource is not part of the enumerated set.
	ErrUnknownResource = errors.New("authz: unknown resource")

	// ErrUnknownAction marks a caller programming error: the requested
	// action is not valid for the resource.
	ErrUnknownAction = errors.New("authz: unknown action")

	// ErrMalformedOverride marks a data-integrity error in a user's stored
	// permission bag. Callers recover by using the role defaults that are
	// returned alongside it; the error exists for operator visibility.
	ErrMalformedOverride = errors.New("authz: malformed permission override")
)

// Grants maps each action to an explicit allow. A missing action is a deny,
// never an allow.
type Grants map[Action]bool

// Table is the full role → resource → grants mapping. It is built once at
// process start and must not be mutated afterwards; evaluation is then safe
// from any number of goroutines without locking.
type Table map[Role]map[Resource]Grants

// actionsByResource lists the action set relevant to each resource.
// read/create/update/delete apply everywhere; export and import only where
// the business supports them.
var actionsByResource = map[Resource][]Action{
	ResourceQuotations:     {ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionExport, ActionImport},
	ResourceItems:          {ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionExport, ActionImport},
	ResourcePurchaseOrders: {ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionExport},
	ResourceClients:        {ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionExport},
	ResourceSuppliers:      {ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionExport},
	ResourceUsers:          {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
	ResourceReports:        {ActionRead, ActionExport},
	ResourceSystemSettings: {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
}

// ActionsFor returns the action set relevant to a resource, or
// ErrUnknownResource for a resource outside the enumerated set.
func ActionsFor(resource Resource) ([]Action, error) {
	actions, ok := actionsByResource[resource]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
	return actions, nil
}

func validAction(resource Resource, action Action) bool {
	for _, a := range actionsByResource[resource] {
		if a == action {
			return true
		}
	}
	return false
}

// Allows reports whether the role may perform the action on the resource.
// A recognized triple without an explicit grant is a plain deny (false, nil).
// An unconfigured role returns ErrUnknownRole; a resource or action outside
// the enumerated sets returns ErrUnknownResource/ErrUnknownAction so that
// typos in callers fail loudly instead of looking like a deny.
func (t Table) Allows(role Role, resource Resource, action Action) (bool, error) {
	row, ok := t[role]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if _, ok := actionsByResource[resource]; !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
	if !validAction(resource, action) {
		return false, fmt.Errorf("%w: %q on %q", ErrUnknownAction, action, resource)
	}
	return row[resource][action], nil
}

// CanRead is a convenience wrapper over Allows.
func (t Table) CanRead(role Role, resource Resource) (bool, error) {
	return t.Allows(role, resource, ActionRead)
}

// CanCreate is a convenience wrapper over Allows.
func (t Table) CanCreate(role Role, resource Resource) (bool, error) {
	return t.Allows(role, resource, ActionCreate)
}

// CanUpdate is a convenience wrapper over Allows.
func (t Table) CanUpdate(role Role, resource Resource) (bool, error) {
	return t.Allows(role, resource, ActionUpdate)
}

// CanDelete is a convenience wrapper over Allows.
func (t Table) CanDelete(role Role, resource Resource) (bool, error) {
	return t.Allows(role, resource, ActionDelete)
}

// CanExport is a convenience wrapper over Allows.
func (t Table) CanExport(role Role, resource Resource) (bool, error) {
	return t.Allows(role, resource, ActionExport)
}

// CanImport is a convenience wrapper over Allows.
func (t Table) CanImport(role Role, resource Resource) (bool, error) {
	return t.Allows(role, resource, ActionImport)
}

// Validate checks the table invariant that every recognized role has a row.
// Rows may be sparse (missing resources and actions are denies), but a role
// with no row at all is a configuration error. Called once at startup.
func (t Table) Validate() error {
	for _, role := range Roles() {
		if _, ok := t[role]; !ok {
			return fmt.Errorf("%w: %q has no table row", ErrUnknownRole, role)
		}
	}
	return nil
}
