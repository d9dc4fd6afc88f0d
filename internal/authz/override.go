package authz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PermissionSet is a flat bag of permission codes ("items.update") to allow
// flags. It is the serialized form stored per user: seeded from the role's
// defaults at creation time and editable by an administrator afterwards.
// A user's stored set may drift from later changes to the role defaults;
// that drift is what allows per-user customization.
type PermissionSet map[string]bool

// Code builds the permission code for a resource/action pair.
func Code(resource Resource, action Action) string {
	return string(resource) + "." + string(action)
}

// SplitCode parses a permission code back into its resource/action pair.
func SplitCode(code string) (Resource, Action, error) {
	resource, action, ok := strings.Cut(code, ".")
	if !ok {
		return "", "", fmt.Errorf("authz: invalid permission code %q", code)
	}
	return Resource(resource), Action(action), nil
}

// DefaultPermissions materializes the role's table row as a permission set,
// total over every (resource, relevant action) pair. Ungranted pairs are
// present with an explicit false.
func (t Table) DefaultPermissions(role Role) (PermissionSet, error) {
	row, ok := t[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	set := make(PermissionSet)
	for _, resource := range Resources() {
		for _, action := range actionsByResource[resource] {
			set[Code(resource, action)] = row[resource][action]
		}
	}
	return set, nil
}

// EffectivePermissions resolves one user's permission set. A stored bag that
// parses is authoritative wholesale; it is not merged with role defaults.
// An empty bag falls back to the role defaults, computed fresh. A bag that
// fails to parse also falls back to role defaults, but additionally returns
// ErrMalformedOverride so the caller can log it; the returned set stays
// usable in that case.
func (t Table) EffectivePermissions(role Role, stored string) (PermissionSet, error) {
	if strings.TrimSpace(stored) == "" {
		return t.DefaultPermissions(role)
	}

	var set PermissionSet
	if err := json.Unmarshal([]byte(stored), &set); err != nil {
		defaults, defErr := t.DefaultPermissions(role)
		if defErr != nil {
			return nil, defErr
		}
		return defaults, fmt.Errorf("%w: %v", ErrMalformedOverride, err)
	}
	return set, nil
}

// Identity is the input to a permission check: a role plus the user's
// resolved permission set when one is stored. A nil Permissions means the
// user has no override and the role defaults apply.
type Identity struct {
	Role        Role
	Permissions PermissionSet
}

// Decide reports whether the identity may perform the action on the
// resource. The role must be configured even when an override is present,
// so an unconfigured role surfaces as ErrUnknownRole at check time rather
// than hiding behind the bag.
func (t Table) Decide(id Identity, resource Resource, action Action) (bool, error) {
	if _, ok := t[id.Role]; !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownRole, id.Role)
	}
	if _, ok := actionsByResource[resource]; !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
	if !validAction(resource, action) {
		return false, fmt.Errorf("%w: %q on %q", ErrUnknownAction, action, resource)
	}
	if id.Permissions != nil {
		return id.Permissions[Code(resource, action)], nil
	}
	return t.Allows(id.Role, resource, action)
}
