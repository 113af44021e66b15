package database

import (
	"errors"

	"gorm.io/gorm"

	"go-todo-rbac-service/internal/domain"
	"go-todo-rbac-service/internal/security"
)

type SeedReport struct {
	Noop               bool
	CreatedPermissions int
	CreatedRoles       int
	CreatedUsers       int
}

type seedRole struct {
	slug        string
	title       string
	permissions []string
}

var seedRoles = []seedRole{
	{slug: domain.RoleAdmin, title: "Administrator", permissions: []string{"users:manage", "roles:manage", "todos:manage"}},
	{slug: domain.RoleModerator, title: "Moderator", permissions: []string{"todos:manage"}},
	{slug: domain.RoleUser, title: "User", permissions: []string{"todos:read"}},
}

// SeedSync makes sure the closed role set, its permissions and the bootstrap
// admin account exist. Safe to run repeatedly; the second run is a noop.
func SeedSync(db *gorm.DB, bootstrapAdminEmail string) (SeedReport, error) {
	report := SeedReport{}

	permsByName := map[string]domain.Permission{}
	for _, spec := range seedRoles {
		for _, name := range spec.permissions {
			if _, seen := permsByName[name]; seen {
				continue
			}
			perm, created, err := ensurePermission(db, name)
			if err != nil {
				return report, err
			}
			if created {
				report.CreatedPermissions++
			}
			permsByName[name] = perm
		}
	}

	for _, spec := range seedRoles {
		created, err := ensureRole(db, spec, permsByName)
		if err != nil {
			return report, err
		}
		if created {
			report.CreatedRoles++
		}
	}

	if bootstrapAdminEmail != "" {
		created, err := ensureAdminUser(db, bootstrapAdminEmail)
		if err != nil {
			return report, err
		}
		if created {
			report.CreatedUsers++
		}
	}

	report.Noop = report.CreatedPermissions == 0 && report.CreatedRoles == 0 && report.CreatedUsers == 0
	return report, nil
}

func ensurePermission(db *gorm.DB, name string) (domain.Permission, bool, error) {
	var perm domain.Permission
	err := db.Where("name = ?", name).First(&perm).Error
	if err == nil {
		return perm, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return perm, false, err
	}
	perm = domain.Permission{Name: name}
	if err := db.Create(&perm).Error; err != nil {
		return perm, false, err
	}
	return perm, true, nil
}

func ensureRole(db *gorm.DB, spec seedRole, permsByName map[string]domain.Permission) (bool, error) {
	var role domain.Role
	err := db.Where("slug = ?", spec.slug).First(&role).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	role = domain.Role{Slug: spec.slug, Title: spec.title}
	for _, name := range spec.permissions {
		role.Permissions = append(role.Permissions, permsByName[name])
	}
	if err := db.Create(&role).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ensureAdminUser creates the bootstrap admin with a well-known development
// password. Deployments are expected to rotate it immediately.
func ensureAdminUser(db *gorm.DB, email string) (bool, error) {
	var count int64
	if err := db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	var adminRole domain.Role
	if err := db.Where("slug = ?", domain.RoleAdmin).First(&adminRole).Error; err != nil {
		return false, err
	}

	user := domain.User{
		Name:           "Admin",
		Username:       "admin",
		Email:          email,
		PasswordDigest: security.HashPassword("AdminPassword123!"),
		IsActive:       true,
		IsSuperuser:    true,
		RoleID:         adminRole.ID,
	}
	if err := db.Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}
