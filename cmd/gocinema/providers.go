package main

import (
	"context"

	"github.com/amaumene/gocinema/internal/api"
	"github.com/amaumene/gocinema/internal/config"
	"github.com/amaumene/gocinema/internal/controllers"
	"github.com/amaumene/gocinema/internal/models"
	"github.com/amaumene/gocinema/internal/scheduler"
	"github.com/amaumene/gocinema/internal/services/tmdb"
	"github.com/amaumene/gocinema/internal/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// App is the assembled dependency graph
type App struct {
	Config    *config.Config
	Logger    *logrus.Logger
	DB        *models.Database
	Tracing   *sdktrace.TracerProvider
	Client    *tmdb.Client
	Catalog   *controllers.CatalogSession
	Library   *controllers.UserLibrary
	Slider    *controllers.Slider
	Suggester *controllers.Suggester
	Scheduler *scheduler.Scheduler
	Server    *api.Server
}

func provideLogger(cfg *config.Config) *logrus.Logger {
	return utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

func provideTracerProvider(logger *logrus.Logger) (*sdktrace.TracerProvider, func()) {
	tp := utils.NewTracerProvider(logger)
	otel.SetTracerProvider(tp)

	return tp, func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Warn("Failed to shut down tracer provider")
		}
	}
}

func provideDatabase(cfg *config.Config, logger *logrus.Logger) (*models.Database, func(), error) {
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return nil, nil, err
	}
	logger.WithField("path", cfg.DatabaseFile).Debug("Database initialized")

	return db, func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Error("Failed to close database")
		}
	}, nil
}

// provideTMDBClient takes the tracer provider so spans are exported from the
// first request on
func provideTMDBClient(cfg *config.Config, logger *logrus.Logger, _ *sdktrace.TracerProvider) (*tmdb.Client, error) {
	return tmdb.NewClient(cfg, logger)
}

func provideSlider(source controllers.PopularSource, cfg *config.Config, logger *logrus.Logger) *controllers.Slider {
	return controllers.NewSlider(source, cfg.SliderTransition, logger)
}

func provideSuggester(source controllers.SuggestionSource, cfg *config.Config, logger *logrus.Logger) (*controllers.Suggester, func()) {
	s := controllers.NewSuggester(source, cfg.SuggestionDebounce, logger)
	return s, s.Close
}

func provideScheduler(catalog *controllers.CatalogSession, slider *controllers.Slider, cfg *config.Config, logger *logrus.Logger) *scheduler.Scheduler {
	return scheduler.NewScheduler(catalog, slider, cfg.SliderInterval, logger)
}
