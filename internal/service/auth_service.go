// Package service implements the application use cases on top of the
// repositories, the session directory and the object store. Services return
// classified errors; handlers only translate and serialize them.
package service

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"go-todo-rbac-service/internal/apperr"
	"go-todo-rbac-service/internal/domain"
	"go-todo-rbac-service/internal/observability"
	"go-todo-rbac-service/internal/security"
	"go-todo-rbac-service/internal/session"
)

// UserDirectory is the slice of the user repository the auth flow needs.
type UserDirectory interface {
	FindByUsernameOrEmail(value string) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
}

// TokenPair is the issued access/refresh pair plus the message key describing
// which lifecycle step produced it.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Detail       string `json:"-"`
}

type AuthService struct {
	users     UserDirectory
	codec     *security.TokenCodec
	dir       *session.Directory
	pairer    *session.Pairer
	validator *session.Validator
	logger    *slog.Logger
}

func NewAuthService(
	users UserDirectory,
	codec *security.TokenCodec,
	dir *session.Directory,
	pairer *session.Pairer,
	validator *session.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		codec:     codec,
		dir:       dir,
		pairer:    pairer,
		validator: validator,
		logger:    logger,
	}
}

// Issue authenticates a basic credential and mints a linked token pair.
// scheme must be "basic" (any case); credential is the base64 user:password
// blob exactly as it appears after the scheme in the Authorization header.
func (s *AuthService) Issue(ctx context.Context, scheme, credential string) (*TokenPair, error) {
	if !strings.EqualFold(scheme, "basic") {
		observability.RecordAuthEvent(ctx, "issue", "rejected")
		return nil, apperr.New(apperr.KindInvalidType, http.StatusUnauthorized, "not_basic_token")
	}

	decoded, err := base64.StdEncoding.DecodeString(credential)
	if err != nil {
		observability.RecordAuthEvent(ctx, "issue", "rejected")
		return nil, apperr.Wrap(apperr.KindInvalidStructure, http.StatusUnauthorized, "invalid_credentials", err)
	}
	// The payload must split into exactly two parts on ":".
	payload := string(decoded)
	if strings.Count(payload, ":") != 1 {
		observability.RecordAuthEvent(ctx, "issue", "rejected")
		return nil, apperr.New(apperr.KindInvalidStructure, http.StatusUnauthorized, "invalid_credentials")
	}
	login, password, _ := strings.Cut(payload, ":")
	if login == "" {
		observability.RecordAuthEvent(ctx, "issue", "rejected")
		return nil, apperr.New(apperr.KindInvalidStructure, http.StatusUnauthorized, "invalid_credentials")
	}

	user, err := s.users.FindByUsernameOrEmail(login)
	if err != nil {
		observability.RecordAuthEvent(ctx, "issue", "rejected")
		return nil, apperr.Wrap(apperr.KindInvalidCredentials, http.StatusUnauthorized, "invalid_credentials", err)
	}
	if !user.IsActive {
		observability.RecordAuthEvent(ctx, "issue", "rejected")
		return nil, apperr.New(apperr.KindInactiveUser, http.StatusNotAcceptable, "inactive_user")
	}
	if !security.ComparePassword(password, user.PasswordDigest) {
		observability.RecordAuthEvent(ctx, "issue", "rejected")
		return nil, apperr.New(apperr.KindInvalidCredentials, http.StatusUnauthorized, "invalid_credentials")
	}

	pair, err := s.mintPair(ctx, user.Email)
	if err != nil {
		observability.RecordAuthEvent(ctx, "issue", "error")
		return nil, err
	}
	pair.Detail = "jwt_generated"

	observability.RecordAuthEvent(ctx, "issue", "success")
	s.logger.InfoContext(ctx, "token pair issued", "user_id", user.ID)
	return pair, nil
}

// Refresh mints a replacement access token for a live refresh token. The old
// access token is revoked on a best-effort basis; the refresh token itself
// keeps its original expiry and record.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if _, err := s.codec.Decode(refreshToken); err != nil {
		observability.RecordAuthEvent(ctx, "refresh", "rejected")
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.KindExpiredSignature, http.StatusBadRequest, "jwt_expired", err)
		}
		return nil, apperr.Wrap(apperr.KindInvalidAccessToken, http.StatusBadRequest, "jwt_invalid_access_token", err)
	}

	record, found, err := s.dir.Lookup(ctx, refreshToken)
	if err != nil {
		observability.RecordAuthEvent(ctx, "refresh", "error")
		return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
	recordType, _ := record["type"].(string)
	if !found || recordType != security.TokenTypeRefresh {
		observability.RecordAuthEvent(ctx, "refresh", "rejected")
		return nil, apperr.New(apperr.KindNotFound, http.StatusUnauthorized, "user_not_found")
	}
	email, _ := record["email"].(string)
	oldAccess, _ := record["pair"].(string)

	accessTTL, err := s.dir.TTLFor(security.TokenTypeAccess)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
	accessToken, err := s.codec.Encode(map[string]any{
		"sub":  security.SubjectAlias(email),
		"type": security.TokenTypeAccess,
		"jti":  uuid.NewString(),
	}, accessTTL)
	if err != nil {
		observability.RecordAuthEvent(ctx, "refresh", "error")
		return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}

	// The superseded access token may already be gone; that is fine.
	if err := s.dir.RevokeMany(ctx, []string{oldAccess}); err != nil {
		s.logger.WarnContext(ctx, "stale access token revocation failed", "error", err)
	}

	if err := s.dir.Register(ctx, accessToken, email, security.TokenTypeAccess, nil); err != nil {
		observability.RecordAuthEvent(ctx, "refresh", "error")
		return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
	if err := s.pairer.Link(ctx, accessToken, refreshToken, email); err != nil {
		observability.RecordAuthEvent(ctx, "refresh", "error")
		return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}

	observability.RecordAuthEvent(ctx, "refresh", "success")
	observability.RecordSessionLifecycleEvent(ctx, "rotate_access", "success")
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Detail:       "jwt_refreshed",
	}, nil
}

// Revoke tears down the pair behind a bearer access token. Both halves go
// together; a second call on the same pair reports AlreadyRevoked.
func (s *AuthService) Revoke(ctx context.Context, authorizationHeader string) error {
	_, token, err := security.SplitAuthHeader(authorizationHeader)
	if err != nil {
		observability.RecordAuthEvent(ctx, "revoke", "rejected")
		return apperr.Wrap(apperr.KindInvalidHeader, http.StatusUnauthorized, "jwt_invalid_header", err)
	}

	claims, err := s.validator.Validate(ctx, token, security.TokenTypeAccess)
	if err != nil {
		observability.RecordAuthEvent(ctx, "revoke", "rejected")
		return err
	}

	alias, _ := claims["sub"].(string)
	record, found, err := s.dir.LookupAliased(ctx, token, alias)
	if err != nil {
		observability.RecordAuthEvent(ctx, "revoke", "error")
		return apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
	if !found {
		observability.RecordAuthEvent(ctx, "revoke", "rejected")
		return apperr.New(apperr.KindNotFound, http.StatusUnauthorized, "user_not_found")
	}
	refreshToken, _ := record["pair"].(string)

	revoked, err := s.pairer.RevokePair(ctx, token, refreshToken)
	if err != nil {
		observability.RecordAuthEvent(ctx, "revoke", "rejected")
		return err
	}
	if !revoked {
		observability.RecordAuthEvent(ctx, "revoke", "error")
		return apperr.New(apperr.KindNotRevoked, http.StatusUnauthorized, "jwt_not_revoked")
	}

	observability.RecordAuthEvent(ctx, "revoke", "success")
	observability.RecordSessionLifecycleEvent(ctx, "revoke_pair", "success")
	s.logger.InfoContext(ctx, "token pair revoked")
	return nil
}

// mintPair encodes, registers and links a fresh access/refresh pair for the
// identifier.
func (s *AuthService) mintPair(ctx context.Context, email string) (*TokenPair, error) {
	alias := security.SubjectAlias(email)

	accessTTL, err := s.dir.TTLFor(security.TokenTypeAccess)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
	refreshTTL, err := s.dir.TTLFor(security.TokenTypeRefresh)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}

	// exp has whole-second precision; jti keeps tokens minted within the
	// same second distinct so rotation always replaces the old token.
	accessToken, err := s.codec.Encode(map[string]any{"sub": alias, "type": security.TokenTypeAccess, "jti": uuid.NewString()}, accessTTL)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
	refreshToken, err := s.codec.Encode(map[string]any{"sub": alias, "type": security.TokenTypeRefresh, "jti": uuid.NewString()}, refreshTTL)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}

	if err := s.dir.Register(ctx, accessToken, email, security.TokenTypeAccess, nil); err != nil {
		return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
	if err := s.dir.Register(ctx, refreshToken, email, security.TokenTypeRefresh, nil); err != nil {
		return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
	if err := s.pairer.Link(ctx, accessToken, refreshToken, email); err != nil {
		return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}

	observability.RecordSessionLifecycleEvent(ctx, "mint_pair", "success")
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
