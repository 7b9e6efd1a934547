package router

import (
	userapp "user-registry/internal/application"
	"user-registry/internal/container"
	pginfra "user-registry/internal/infrastructure/postgres"
	handlers "user-registry/internal/interface/http"
	"user-registry/internal/router/modules"
)

func buildUserModule() *modules.UserModule {
	repo := pginfra.NewUserRepository(container.GetPGPool())

	// The rabbit publisher is optional; a typed nil would dodge the
	// service's nil guard, so only pass it when configured.
	var pub userapp.EventPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	service := userapp.NewService(
		repo,
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		container.GetConfig().ESUsersIndex,
		pub,
	)

	handler := handlers.NewUserHandler(service, container.GetLogger())

	return modules.NewUserModule(handler)
}

// InitModules wires all feature modules into the registry. Called once
// during startup.
func InitModules(r *Registry) {
	r.Add(buildUserModule())
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
