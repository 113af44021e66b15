package database

import (
	"gorm.io/gorm"

	"go-todo-rbac-service/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Permission{},
		&domain.Role{},
		&domain.User{},
		&domain.Todo{},
	)
}
