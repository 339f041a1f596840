//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"livepoll/internal"
	"livepoll/internal/archive"
	"livepoll/internal/controllers"
	"livepoll/internal/providers"
	"livepoll/internal/services"
	"livepoll/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewIdentityProvider,
		providers.NewAccessGate,

		services.NewPollService,
		archive.NewZstdCompressor,
		archive.NewFileManager,
		controllers.NewApiController,
		controllers.NewAdminController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
