package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-todo-rbac-service/internal/domain"
	"go-todo-rbac-service/internal/observability"
)

var ErrRoleNotFound = errors.New("role not found")

type RoleRepository interface {
	List() ([]domain.Role, error)
	FindBySlug(slug string) (*domain.Role, error)
}

type GormRoleRepository struct{ db *gorm.DB }

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

func (r *GormRoleRepository) List() ([]domain.Role, error) {
	var roles []domain.Role
	err := r.db.Preload("Permissions", func(db *gorm.DB) *gorm.DB {
		return db.Order("name asc")
	}).Order("slug asc").Find(&roles).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "role", "list", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "role", "list", "success")
	return roles, nil
}

func (r *GormRoleRepository) FindBySlug(slug string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.Preload("Permissions").Where("slug = ?", slug).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "role", "find_by_slug", "not_found")
			return nil, ErrRoleNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "role", "find_by_slug", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "role", "find_by_slug", "success")
	return &role, nil
}
