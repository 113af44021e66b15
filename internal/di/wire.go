//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"go-todo-rbac-service/internal/app"
)

func InitializeApp() (*app.App, error) {
	panic(wire.Build(
		ConfigSet,
		ObservabilitySet,
		RuntimeInfraSet,
		SecuritySet,
		RepositorySet,
		ServiceSet,
		HTTPSet,
		AppSet,
	))
}

func InitializeMigrationRunner() (*MigrationRunner, error) {
	panic(wire.Build(
		ConfigSet,
		ObservabilitySet,
		provideOpenDB,
		NewMigrationRunner,
	))
}
