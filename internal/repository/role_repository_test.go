package repository

import (
	"errors"
	"testing"

	"go-todo-rbac-service/internal/domain"
)

func TestRoleRepositoryListAndFind(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewRoleRepository(db)

	admin := seedRoleForTest(t, db, domain.RoleAdmin, "Administrator")
	seedRoleForTest(t, db, domain.RoleUser, "User")
	perm := domain.Permission{Name: "users:manage"}
	if err := db.Create(&perm).Error; err != nil {
		t.Fatalf("create permission: %v", err)
	}
	if err := db.Model(&admin).Association("Permissions").Append(&perm); err != nil {
		t.Fatalf("attach permission: %v", err)
	}

	roles, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(roles))
	}

	found, err := repo.FindBySlug(domain.RoleAdmin)
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if len(found.Permissions) != 1 || found.Permissions[0].Name != "users:manage" {
		t.Fatalf("expected permission preloaded, got %+v", found.Permissions)
	}

	if _, err := repo.FindBySlug("owner"); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}
