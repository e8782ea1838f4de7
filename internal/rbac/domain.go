package rbac

import "time"

// Role is one of the fixed application roles. Roles are not user-defined;
// capability comes from the static role to permission mapping below.
type Role string

const (
	// RoleAdmin grants every permission, including user management and
	// menu type deletion.
	RoleAdmin Role = "admin"
	// RolePCP (meal planning staff) grants edit capability on menus and
	// master data.
	RolePCP Role = "pcp"
	// RoleUser grants read-only access.
	RoleUser Role = "user"
)

// IsValid reports whether the role is a known application role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RolePCP, RoleUser:
		return true
	default:
		return false
	}
}

// UserRole links a user to a role. A user may hold zero or more roles.
type UserRole struct {
	ID        int64
	UserID    int64
	Role      Role
	CreatedAt time.Time
}

// Principal describes the authenticated actor.
type Principal interface {
	GetID() int64
}
