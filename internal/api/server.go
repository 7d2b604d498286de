package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/amaumene/gocinema/internal/api/handlers"
	"github.com/amaumene/gocinema/internal/api/middleware"
	"github.com/amaumene/gocinema/internal/config"
	"github.com/amaumene/gocinema/internal/controllers"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	app     *fiber.App
	addr    string
	catalog *controllers.CatalogSession
	library *controllers.UserLibrary
	slider  *controllers.Slider
	logger  *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	catalog *controllers.CatalogSession,
	library *controllers.UserLibrary,
	slider *controllers.Slider,
	logger *logrus.Logger,
) *Server {
	s := &Server{
		addr:    ":" + cfg.ServerPort,
		catalog: catalog,
		library: library,
		slider:  slider,
		logger:  logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "gocinema",
		Immutable:             true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})
	s.app.Use(recover.New())
	s.app.Use(middleware.Logging(logger))
	s.setupRoutes(cfg)

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg *config.Config) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	s.app.Get("/health", healthHandler.Handle)

	statusHandler := handlers.NewStatusHandler(s.catalog, s.library, s.logger)
	s.app.Get("/status", statusHandler.Handle)

	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	catalogHandler := handlers.NewCatalogHandler(s.catalog, s.library, s.slider, cfg.ImagePlaceholderURL, s.logger)
	libraryHandler := handlers.NewLibraryHandler(s.library, cfg.ImagePlaceholderURL, s.logger)

	api := s.app.Group("/api")
	api.Get("/genres", catalogHandler.Genres)
	api.Get("/popular", catalogHandler.Popular)
	api.Get("/suggestions", catalogHandler.Suggestions)

	slider := api.Group("/slider")
	slider.Get("/", catalogHandler.Slider)
	slider.Post("/next", catalogHandler.SliderNext)
	slider.Post("/prev", catalogHandler.SliderPrev)

	filters := api.Group("/filters")
	filters.Get("/", catalogHandler.Filters)
	filters.Patch("/", catalogHandler.UpdateFilters)
	filters.Post("/apply", catalogHandler.ApplyFilters)
	filters.Post("/reset", catalogHandler.ResetFilters)

	search := api.Group("/search")
	search.Get("/", catalogHandler.SearchResults)
	search.Post("/", catalogHandler.SubmitSearch)
	search.Post("/more", catalogHandler.MoreSearch)

	movies := api.Group("/movies")
	movies.Get("/", catalogHandler.Movies)
	movies.Post("/more", catalogHandler.MoreMovies)
	movies.Get("/:id", catalogHandler.Details)
	movies.Get("/:id/recommendations", catalogHandler.Recommendations)
	movies.Post("/:id/favorite", libraryHandler.ToggleFavorite)
	movies.Post("/:id/watchlist", libraryHandler.ToggleWatchlist)
	movies.Get("/:id/reviews", libraryHandler.Reviews)
	movies.Post("/:id/reviews", libraryHandler.AddReview)

	api.Get("/favorites", libraryHandler.Favorites)
	api.Get("/watchlist", libraryHandler.Watchlist)
}

func errorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if code >= fiber.StatusInternalServerError {
			logger.WithError(err).WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			}).Error("Request error")
		}

		return c.Status(code).JSON(handlers.ErrorResponse{Error: message})
	}
}

// App returns the underlying fiber application
func (s *Server) App() *fiber.App {
	return s.app
}

// Start serves until ctx is done, then shuts the server down. It is the only
// shutdown path for a started server.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.logger.WithField("addr", ln.Addr().String()).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.app.Listener(ln); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		err := s.shutdown()
		// Listener may not have registered ln yet when shutdown ran
		_ = ln.Close()
		return err
	}
}

func (s *Server) shutdown() error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(shutdownCtx)
}
