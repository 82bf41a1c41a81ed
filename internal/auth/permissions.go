package auth

// Permissions are the four action gates of an entity screen.
// The zero value grants nothing, which makes unknown roles harmless.
type Permissions struct {
	CanView   bool
	CanCreate bool
	CanEdit   bool
	CanDelete bool
}

// PermissionSet maps roles to their permissions on one screen.
// It is defined statically per screen and never mutated at runtime.
type PermissionSet map[Role]Permissions

// Knows reports whether the role is declared in this set.
func (ps PermissionSet) Knows(r Role) bool {
	_, ok := ps[r]

	return ok
}

// For returns the permissions of the role. Roles absent from the set get
// the zero value: every action denied.
func (ps PermissionSet) For(r Role) Permissions {
	return ps[r]
}

// FullAccess grants all four actions.
func FullAccess() Permissions {
	return Permissions{CanView: true, CanCreate: true, CanEdit: true, CanDelete: true}
}

// ReadOnly grants viewing only.
func ReadOnly() Permissions {
	return Permissions{CanView: true}
}
