package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-todo-rbac-service/internal/domain"
	"go-todo-rbac-service/internal/observability"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already exists")
)

type UserRepository interface {
	List(page PageRequest) (PageResult[domain.User], error)
	FindByID(id uint) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	FindByUsernameOrEmail(value string) (*domain.User, error)
	Create(user *domain.User) error
	Update(user *domain.User) error
	Delete(id uint) error
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) List(page PageRequest) (PageResult[domain.User], error) {
	page = normalizePageRequest(page)

	var total int64
	if err := r.db.Model(&domain.User{}).Count(&total).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "list", "error")
		return PageResult[domain.User]{}, err
	}

	var users []domain.User
	err := r.db.Preload("Role.Permissions").
		Order("id asc").
		Offset((page.Page - 1) * page.PageSize).
		Limit(page.PageSize).
		Find(&users).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "list", "error")
		return PageResult[domain.User]{}, err
	}

	observability.RecordRepositoryOperation(context.Background(), "user", "list", "success")
	return PageResult[domain.User]{
		Items:      users,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      total,
		TotalPages: calcTotalPages(total, page.PageSize),
	}, nil
}

func (r *GormUserRepository) FindByID(id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.Preload("Role.Permissions").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "user", "find_by_id", "not_found")
			return nil, ErrUserNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "user", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "find_by_id", "success")
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	err := r.db.Preload("Role.Permissions").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "user", "find_by_email", "not_found")
			return nil, ErrUserNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "user", "find_by_email", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "find_by_email", "success")
	return &user, nil
}

// FindByUsernameOrEmail matches either column, case-sensitive as stored.
func (r *GormUserRepository) FindByUsernameOrEmail(value string) (*domain.User, error) {
	var user domain.User
	err := r.db.Preload("Role.Permissions").
		Where("username = ? OR email = ?", value, value).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "user", "find_by_login", "not_found")
			return nil, ErrUserNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "user", "find_by_login", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "find_by_login", "success")
	return &user, nil
}

func (r *GormUserRepository) Create(user *domain.User) error {
	var existing int64
	if err := r.db.Model(&domain.User{}).Where("email = ?", user.Email).Count(&existing).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "create", "error")
		return err
	}
	if existing > 0 {
		observability.RecordRepositoryOperation(context.Background(), "user", "create", "conflict")
		return ErrEmailTaken
	}
	if err := r.db.Create(user).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "create", "success")
	return nil
}

func (r *GormUserRepository) Update(user *domain.User) error {
	res := r.db.Model(&domain.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"name":            user.Name,
		"username":        user.Username,
		"email":           user.Email,
		"password_digest": user.PasswordDigest,
		"is_active":       user.IsActive,
		"is_superuser":    user.IsSuperuser,
		"avatar_key":      user.AvatarKey,
		"role_id":         user.RoleID,
	})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "user", "update", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "update", "success")
	return nil
}

func (r *GormUserRepository) Delete(id uint) error {
	res := r.db.Delete(&domain.User{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "user", "delete", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "delete", "success")
	return nil
}
