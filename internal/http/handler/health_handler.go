package handler

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"go-todo-rbac-service/internal/http/response"
)

// HealthHandler reports liveness plus the readiness of the two backing
// stores.
type HealthHandler struct {
	db          *gorm.DB
	redisClient redis.UniversalClient
	appName     string
	appVersion  string
}

func NewHealthHandler(db *gorm.DB, redisClient redis.UniversalClient, appName, appVersion string) *HealthHandler {
	return &HealthHandler{db: db, redisClient: redisClient, appName: appName, appVersion: appVersion}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}
	healthy := true

	if sqlDB, err := h.db.DB(); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else if err := sqlDB.PingContext(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, r, status, map[string]any{
		"app":     h.appName,
		"version": h.appVersion,
		"healthy": healthy,
		"checks":  checks,
	})
}
