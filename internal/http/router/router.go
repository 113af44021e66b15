// Package router assembles the chi route tree and its middleware chain.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"go-todo-rbac-service/internal/http/handler"
	"go-todo-rbac-service/internal/http/middleware"
)

type Dependencies struct {
	Logger        *slog.Logger
	CORSOrigins   []string
	Auth          *middleware.Authenticator
	AuthHandler   *handler.AuthHandler
	UserHandler   *handler.UserHandler
	TodoHandler   *handler.TodoHandler
	RoleHandler   *handler.RoleHandler
	HealthHandler *handler.HealthHandler
}

func New(dep Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   dep.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "Refreshtoken", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Locale)
	r.Use(requestLogger(dep.Logger))

	r.Get("/hc", dep.HealthHandler.Check)
	r.Mount("/debug", chimiddleware.Profiler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/", dep.AuthHandler.Issue)
			auth.Put("/", dep.AuthHandler.Refresh)
			auth.Delete("/", dep.AuthHandler.Revoke)
		})

		api.Route("/users", func(users chi.Router) {
			users.With(dep.Auth.RequireUser).Get("/", dep.UserHandler.List)
			users.With(dep.Auth.RequireUser).Get("/me", dep.UserHandler.Me)
			users.With(dep.Auth.RequireUser).Get("/{id}", dep.UserHandler.Get)
			users.With(dep.Auth.RequireUser).Get("/{id}/avatar", dep.UserHandler.AvatarURL)
			users.With(dep.Auth.RequireAdmin).Post("/", dep.UserHandler.Create)
			users.With(dep.Auth.RequireAdmin).Put("/{id}", dep.UserHandler.Update)
			users.With(dep.Auth.RequireAdmin).Patch("/{id}", dep.UserHandler.Update)
			users.With(dep.Auth.RequireAdmin).Delete("/{id}", dep.UserHandler.Delete)
			users.With(dep.Auth.RequireAdmin).Post("/{id}/avatar", dep.UserHandler.UploadAvatar)
		})

		api.Route("/roles", func(roles chi.Router) {
			roles.With(dep.Auth.RequireUser).Get("/", dep.RoleHandler.List)
			roles.With(dep.Auth.RequireUser).Get("/{slug}", dep.RoleHandler.Get)
		})

		api.Route("/todos", func(todos chi.Router) {
			todos.With(dep.Auth.RequireUser).Get("/", dep.TodoHandler.List)
			todos.With(dep.Auth.RequireUser).Get("/{id}", dep.TodoHandler.Get)
			todos.With(dep.Auth.RequireModerator).Post("/", dep.TodoHandler.Create)
			todos.With(dep.Auth.RequireModerator).Put("/{id}", dep.TodoHandler.Update)
			todos.With(dep.Auth.RequireModerator).Delete("/{id}", dep.TodoHandler.Delete)
		})
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logger == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
