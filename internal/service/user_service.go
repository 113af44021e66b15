package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"

	"go-todo-rbac-service/internal/apperr"
	"go-todo-rbac-service/internal/domain"
	"go-todo-rbac-service/internal/repository"
	"go-todo-rbac-service/internal/security"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AvatarStore is the slice of the object store the user flows need.
type AvatarStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// WelcomeNotifier greets newly registered users. Failures never block the
// registration itself.
type WelcomeNotifier interface {
	NotifyWelcome(ctx context.Context, user *domain.User)
}

type CreateUserInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleSlug string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type UpdateUserInput struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	RoleSlug *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

const (
	avatarURLTTL   = 15 * time.Minute
	maxAvatarBytes = 5 << 20
)

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

type UserService struct {
	users    repository.UserRepository
	roles    repository.RoleRepository
	avatars  AvatarStore
	notifier WelcomeNotifier
	logger   *slog.Logger
}

func NewUserService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	avatars AvatarStore,
	notifier WelcomeNotifier,
	logger *slog.Logger,
) *UserService {
	return &UserService{users: users, roles: roles, avatars: avatars, notifier: notifier, logger: logger}
}

func (s *UserService) List(ctx context.Context, page repository.PageRequest) (repository.PageResult[domain.User], error) {
	result, err := s.users.List(page)
	if err != nil {
		return result, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
	return result, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, mapUserError(err)
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if !emailPattern.MatchString(in.Email) {
		return nil, apperr.New(apperr.KindInvalidStructure, http.StatusBadRequest, "email_invalid")
	}
	if err := checkPasswordStrength(in.Password); err != nil {
		return nil, err
	}

	roleSlug := in.RoleSlug
	if roleSlug == "" {
		roleSlug = domain.RoleUser
	}
	role, err := s.roles.FindBySlug(roleSlug)
	if err != nil {
		return nil, mapRoleError(err)
	}

	user := &domain.User{
		Name:           in.Name,
		Username:       in.Username,
		Email:          in.Email,
		PasswordDigest: security.HashPassword(in.Password),
		IsActive:       in.IsActive,
		RoleID:         role.ID,
	}
	if err := s.users.Create(user); err != nil {
		return nil, mapUserError(err)
	}
	user.Role = *role

	s.notifier.NotifyWelcome(ctx, user)
	s.logger.InfoContext(ctx, "user created", "user_id", user.ID, "role", role.Slug)
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, mapUserError(err)
	}

	if in.Email != nil {
		if !emailPattern.MatchString(*in.Email) {
			return nil, apperr.New(apperr.KindInvalidStructure, http.StatusBadRequest, "email_invalid")
		}
		user.Email = *in.Email
	}
	if in.Password != nil {
		if security.IsPasswordDigest(*in.Password) {
			// Already a digest, store it verbatim.
			user.PasswordDigest = *in.Password
		} else {
			if err := checkPasswordStrength(*in.Password); err != nil {
				return nil, err
			}
			user.PasswordDigest = security.HashPassword(*in.Password)
		}
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.RoleSlug != nil {
		role, err := s.roles.FindBySlug(*in.RoleSlug)
		if err != nil {
			return nil, mapRoleError(err)
		}
		user.RoleID = role.ID
		user.Role = *role
	}

	if err := s.users.Update(user); err != nil {
		return nil, mapUserError(err)
	}
	return s.Get(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.users.Delete(id); err != nil {
		return mapUserError(err)
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

// UploadAvatar stores the image and records its object key on the user.
// Returns the stored key.
func (s *UserService) UploadAvatar(ctx context.Context, id uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if size > maxAvatarBytes {
		return "", apperr.New(apperr.KindInvalidStructure, http.StatusBadRequest, "generic_error")
	}
	if !allowedAvatarTypes[contentType] {
		return "", apperr.New(apperr.KindInvalidStructure, http.StatusBadRequest, "generic_error")
	}

	user, err := s.users.FindByID(id)
	if err != nil {
		return "", mapUserError(err)
	}

	key := uuid.NewString() + filepath.Ext(filename)
	if err := s.avatars.Put(ctx, key, reader, size, contentType); err != nil {
		return "", apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}

	user.AvatarKey = key
	if err := s.users.Update(user); err != nil {
		return "", mapUserError(err)
	}
	s.logger.InfoContext(ctx, "avatar stored", "user_id", id, "key", key)
	return key, nil
}

// AvatarURL returns a short-lived download link for the user's avatar.
func (s *UserService) AvatarURL(ctx context.Context, id uint) (string, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return "", mapUserError(err)
	}
	if user.AvatarKey == "" {
		return "", apperr.New(apperr.KindNotFound, http.StatusNotFound, "user_not_found")
	}
	url, err := s.avatars.PresignedGetURL(ctx, user.AvatarKey, avatarURLTTL)
	if err != nil {
		return "", apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
	return url, nil
}

func checkPasswordStrength(password string) error {
	if len(password) < 6 {
		return apperr.New(apperr.KindInvalidStructure, http.StatusBadRequest, "password_too_weak")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperr.New(apperr.KindInvalidStructure, http.StatusBadRequest, "password_too_weak")
	}
	return nil
}

func mapUserError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrUserNotFound):
		return apperr.Wrap(apperr.KindNotFound, http.StatusNotFound, "user_not_found", err)
	case errors.Is(err, repository.ErrEmailTaken):
		return apperr.Wrap(apperr.KindInvalidStructure, http.StatusBadRequest, "email_exists", err)
	default:
		return apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
}

func mapRoleError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrRoleNotFound):
		return apperr.Wrap(apperr.KindNotFound, http.StatusNotFound, "role_not_found", err)
	default:
		return apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
}
