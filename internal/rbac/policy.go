package rbac

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/merenda-app/merenda/internal/platform/db"
	"github.com/merenda-app/merenda/internal/shared"
)

// ErrRoleInvalid indicates an unknown role name.
var ErrRoleInvalid = errors.New("rbac: invalid role")

// ErrAlreadyAssigned indicates the user already holds the role.
var ErrAlreadyAssigned = errors.New("rbac: role already assigned")

// rolePermissions is the single source of truth for what each role may do.
var rolePermissions = map[Role][]string{
	RoleAdmin: shared.AllScopes(),
	RolePCP: {
		shared.PermMenusView,
		shared.PermMenusEdit,
		shared.PermMasterdataView,
		shared.PermMasterdataEdit,
		shared.PermReportsView,
		shared.PermReportsExport,
	},
	RoleUser: {
		shared.PermMenusView,
		shared.PermMasterdataView,
		shared.PermReportsView,
	},
}

// Policy resolves role assignments into effective permissions. Every mutating
// route consults it through the middleware; handlers never check roles directly.
type Policy struct {
	pool *pgxpool.Pool
}

// NewPolicy constructs a Policy backed by the provided pool.
func NewPolicy(pool *pgxpool.Pool) *Policy {
	return &Policy{pool: pool}
}

// RolesForUser returns the roles held by a user.
func (p *Policy) RolesForUser(ctx context.Context, userID int64) ([]Role, error) {
	rows, err := p.pool.Query(ctx, `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		roles = append(roles, Role(raw))
	}
	return roles, rows.Err()
}

// EffectivePermissions returns the deduplicated permission names for a user.
func (p *Policy) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	roles, err := p.RolesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return PermissionsForRoles(roles), nil
}

// Allows reports whether the user holds the given permission.
func (p *Policy) Allows(ctx context.Context, userID int64, perm string) (bool, error) {
	granted, err := p.EffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	perm = strings.ToLower(strings.TrimSpace(perm))
	for _, g := range granted {
		if g == perm {
			return true, nil
		}
	}
	return false, nil
}

// AssignRole grants a role to a user.
func (p *Policy) AssignRole(ctx context.Context, userID int64, role Role) error {
	if !role.IsValid() {
		return ErrRoleInvalid
	}
	_, err := p.pool.Exec(ctx, `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, userID, string(role))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrAlreadyAssigned
		}
		return err
	}
	return nil
}

// RemoveRole revokes a role from a user.
func (p *Policy) RemoveRole(ctx context.Context, userID int64, role Role) error {
	if !role.IsValid() {
		return ErrRoleInvalid
	}
	_, err := p.pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role = $2`, userID, string(role))
	return err
}

// PermissionsForRoles unions the permission sets of the given roles.
func PermissionsForRoles(roles []Role) []string {
	seen := make(map[string]struct{})
	var perms []string
	for _, role := range roles {
		for _, perm := range rolePermissions[role] {
			if _, ok := seen[perm]; ok {
				continue
			}
			seen[perm] = struct{}{}
			perms = append(perms, perm)
		}
	}
	return perms
}
