package handlers

import (
	"github.com/amaumene/gocinema/internal/controllers"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// StatusHandler handles status requests
type StatusHandler struct {
	catalog *controllers.CatalogSession
	library *controllers.UserLibrary
	logger  *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(catalog *controllers.CatalogSession, library *controllers.UserLibrary, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		catalog: catalog,
		library: library,
		logger:  logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	CatalogMovies int    `json:"catalog_movies"`
	CatalogPage   int    `json:"catalog_page"`
	CatalogError  string `json:"catalog_error,omitempty"`
	SearchResults int    `json:"search_results"`
	SearchQuery   string `json:"search_query,omitempty"`
	Popular       int    `json:"popular"`
	Genres        int    `json:"genres"`
	Favorites     int    `json:"favorites"`
	Watchlist     int    `json:"watchlist"`
	Reviewed      int    `json:"reviewed"`
}

// Handle handles the status endpoint
func (h *StatusHandler) Handle(c *fiber.Ctx) error {
	catalog := h.catalog.Catalog()
	search := h.catalog.SearchResults()

	return c.JSON(StatusResponse{
		CatalogMovies: len(catalog.Movies),
		CatalogPage:   catalog.Cursor.Page,
		CatalogError:  catalog.Error,
		SearchResults: len(search.Movies),
		SearchQuery:   search.Query,
		Popular:       len(h.catalog.Popular()),
		Genres:        len(h.catalog.Genres()),
		Favorites:     len(h.library.Favorites()),
		Watchlist:     len(h.library.Watchlist()),
		Reviewed:      h.library.ReviewedCount(),
	})
}
