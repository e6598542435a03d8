//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"chronicle/internal"
	"chronicle/internal/controllers"
	"chronicle/internal/daycache"
	"chronicle/internal/gemini"
	"chronicle/internal/providers"
	"chronicle/internal/services"
	"chronicle/internal/store"
	"chronicle/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewSystemClock,

		store.NewZstdCompressor,
		store.NewFileStore,
		wire.Bind(new(store.KVStore), new(*store.FileStore)),
		store.NewImageArchive,
		store.NewScheduler,

		daycache.New,
		gemini.NewClient,

		services.NewChronicleService,
		services.NewViewService,

		controllers.NewChronicleController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
