package users

import (
	"context"

	"github.com/merenda-app/merenda/internal/rbac"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
}

// RolePort grants and revokes role assignments.
type RolePort interface {
	AssignRole(ctx context.Context, userID int64, role rbac.Role) error
	RemoveRole(ctx context.Context, userID int64, role rbac.Role) error
}

// Service handles user management logic.
type Service struct {
	repo  RepositoryPort
	roles RolePort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, roles RolePort) *Service {
	return &Service{repo: repo, roles: roles}
}

// ListUsers returns all users with their roles.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// AssignRole grants a role to a user.
func (s *Service) AssignRole(ctx context.Context, userID int64, role rbac.Role) error {
	return s.roles.AssignRole(ctx, userID, role)
}

// RemoveRole revokes a role from a user.
func (s *Service) RemoveRole(ctx context.Context, userID int64, role rbac.Role) error {
	return s.roles.RemoveRole(ctx, userID, role)
}
