package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"go-todo-rbac-service/internal/apperr"
	"go-todo-rbac-service/internal/domain"
	"go-todo-rbac-service/internal/http/response"
	"go-todo-rbac-service/internal/observability"
	"go-todo-rbac-service/internal/security"
	"go-todo-rbac-service/internal/service"
	"go-todo-rbac-service/internal/session"
)

type userCtxKey struct{}

// Authenticator resolves the bearer token on each request to its session
// record and the user behind it, and enforces role gates. Rejections for
// insufficient role render as 404 so gated routes stay invisible.
type Authenticator struct {
	dir    *session.Directory
	users  service.UserDirectory
	logger *slog.Logger
}

func NewAuthenticator(dir *session.Directory, users service.UserDirectory, logger *slog.Logger) *Authenticator {
	return &Authenticator{dir: dir, users: users, logger: logger}
}

// resolve authenticates the request and returns the user. The token must
// carry a live session record whose identifier maps to a known user.
func (a *Authenticator) resolve(r *http.Request) (*domain.User, error) {
	ctx := r.Context()

	_, token, err := security.SplitAuthHeader(r.Header.Get("Authorization"))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidHeader, http.StatusUnauthorized, "jwt_invalid_header", err)
	}

	record, found, err := a.dir.Lookup(ctx, token)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindGeneric, http.StatusInternalServerError, "generic_error", err)
	}
	if !found {
		return nil, apperr.New(apperr.KindInvalidToken, http.StatusUnauthorized, "jwt_invalid")
	}
	email, _ := record["email"].(string)
	if email == "" {
		return nil, apperr.New(apperr.KindNotFound, http.StatusUnauthorized, "user_not_found")
	}

	user, err := a.users.FindByEmail(email)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, http.StatusNotFound, "user_not_found", err)
	}
	return user, nil
}

// RequireUser admits any authenticated user.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return a.require(next, nil, "")
}

// RequireModerator admits moderators and admins.
func (a *Authenticator) RequireModerator(next http.Handler) http.Handler {
	return a.require(next, []string{domain.RoleModerator, domain.RoleAdmin}, "only_moderators")
}

// RequireAdmin admits admins only.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.require(next, []string{domain.RoleAdmin}, "only_admin")
}

func (a *Authenticator) require(next http.Handler, roles []string, rejectionKey string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.resolve(r)
		if err != nil {
			observability.RecordAuthEvent(r.Context(), "guard", "rejected")
			response.AppError(w, r, err)
			return
		}
		if len(roles) > 0 && !hasRole(user, roles) {
			observability.RecordAuthEvent(r.Context(), "guard", "forbidden")
			a.logger.WarnContext(r.Context(), "role gate rejected user",
				"user_id", user.ID, "role", user.Role.Slug, "path", r.URL.Path)
			// 404, not 403: gated resources do not admit their existence.
			response.AppError(w, r, apperr.New(apperr.KindNotFound, http.StatusNotFound, rejectionKey))
			return
		}
		ctx := context.WithValue(r.Context(), userCtxKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func hasRole(user *domain.User, roles []string) bool {
	for _, slug := range roles {
		if user.Role.Slug == slug {
			return true
		}
	}
	return false
}

// UserFromContext returns the authenticated user placed by a guard.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userCtxKey{}).(*domain.User)
	return user, ok
}
