package service

import (
	"context"
	"net/http"

	"go-todo-rbac-service/internal/apperr"
	"go-todo-rbac-service/internal/domain"
	"go-todo-rbac-service/internal/repository"
)

// RoleService exposes the closed role catalogue. Roles are seeded at startup
// and never mutated through the API.
type RoleService struct {
	roles repository.RoleRepository
}

func NewRoleService(roles repository.RoleRepository) *RoleService {
	return &RoleService{roles: roles}
}

func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.List()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
	return roles, nil
}

func (s *RoleService) Get(ctx context.Context, slug string) (*domain.Role, error) {
	role, err := s.roles.FindBySlug(slug)
	if err != nil {
		return nil, mapRoleError(err)
	}
	return role, nil
}
