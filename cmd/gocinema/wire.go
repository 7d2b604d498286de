//go:build wireinject

package main

import (
	"github.com/amaumene/gocinema/internal/api"
	"github.com/amaumene/gocinema/internal/config"
	"github.com/amaumene/gocinema/internal/controllers"
	"github.com/amaumene/gocinema/internal/models"
	"github.com/amaumene/gocinema/internal/services/tmdb"
	"github.com/google/wire"
)

func initializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		provideLogger,
		provideTracerProvider,
		provideDatabase,
		provideTMDBClient,
		provideSlider,
		provideSuggester,
		provideScheduler,
		controllers.NewCatalogSession,
		controllers.NewUserLibrary,
		api.NewServer,
		wire.Bind(new(controllers.MovieAPI), new(*tmdb.Client)),
		wire.Bind(new(controllers.Storage), new(*models.Database)),
		wire.Bind(new(controllers.DetailsResolver), new(*controllers.CatalogSession)),
		wire.Bind(new(controllers.PopularSource), new(*controllers.CatalogSession)),
		wire.Bind(new(controllers.SuggestionSource), new(*controllers.CatalogSession)),
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
