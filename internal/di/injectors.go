//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"lifestats/internal"
	"lifestats/internal/controllers"
	"lifestats/internal/loaders"
	"lifestats/internal/providers"
	"lifestats/internal/services"
	"lifestats/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		loaders.NewZstdCompressor,
		services.NewDataRoot,
		services.NewExportService,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
