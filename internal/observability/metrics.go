package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("go-todo-rbac-service")

	repositoryOps metric.Int64Counter
	authEvents    metric.Int64Counter
	sessionEvents metric.Int64Counter
)

func init() {
	repositoryOps, _ = meter.Int64Counter("repository_operations_total",
		metric.WithDescription("Repository operations by entity, operation and outcome"))
	authEvents, _ = meter.Int64Counter("auth_events_total",
		metric.WithDescription("Authentication operations by operation and outcome"))
	sessionEvents, _ = meter.Int64Counter("session_lifecycle_events_total",
		metric.WithDescription("Session record lifecycle events by operation and outcome"))
}

func RecordRepositoryOperation(ctx context.Context, entity, operation, outcome string) {
	if repositoryOps == nil {
		return
	}
	repositoryOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func RecordAuthEvent(ctx context.Context, operation, outcome string) {
	if authEvents == nil {
		return
	}
	authEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func RecordSessionLifecycleEvent(ctx context.Context, operation, outcome string) {
	if sessionEvents == nil {
		return
	}
	sessionEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}
