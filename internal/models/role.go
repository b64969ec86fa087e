package models

// Role is the capability level assigned to a user. Capabilities are totally
// ordered: admin > editor > viewer.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// CanEdit reports whether the role is allowed to perform write operations.
func (r Role) CanEdit() bool {
	return r == RoleAdmin || r == RoleEditor
}

// CanAdmin reports whether the role is allowed to manage users.
func (r Role) CanAdmin() bool {
	return r == RoleAdmin
}
