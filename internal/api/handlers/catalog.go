package handlers

import (
	"errors"

	"github.com/amaumene/gocinema/internal/controllers"
	"github.com/amaumene/gocinema/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// CatalogHandler exposes the browsing session
type CatalogHandler struct {
	catalog     *controllers.CatalogSession
	library     *controllers.UserLibrary
	slider      *controllers.Slider
	placeholder string
	logger      *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	catalog *controllers.CatalogSession,
	library *controllers.UserLibrary,
	slider *controllers.Slider,
	placeholder string,
	logger *logrus.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		catalog:     catalog,
		library:     library,
		slider:      slider,
		placeholder: placeholder,
		logger:      logger,
	}
}

// FiltersResponse holds both filter states
type FiltersResponse struct {
	Pending models.FilterState `json:"pending"`
	Active  models.FilterState `json:"active"`
}

// SliderResponse is the visible slider window
type SliderResponse struct {
	Index         int                  `json:"index"`
	Transitioning bool                 `json:"transitioning"`
	Moved         bool                 `json:"moved"`
	Movies        []models.MovieRecord `json:"movies"`
}

// SearchRequest submits a new query
type SearchRequest struct {
	Query string `json:"query"`
}

// DetailsResponse combines a movie with the user's library state
type DetailsResponse struct {
	Movie         models.MovieRecord `json:"movie"`
	IsFavorite    bool               `json:"isFavorite"`
	IsWatchlisted bool               `json:"isWatchlisted"`
	Reviews       []models.Review    `json:"reviews"`
	AverageRating float64            `json:"averageRating"`
}

// Genres returns the genre vocabulary
func (h *CatalogHandler) Genres(c *fiber.Ctx) error {
	return c.JSON(h.catalog.Genres())
}

// Popular returns the popular snapshot
func (h *CatalogHandler) Popular(c *fiber.Ctx) error {
	return c.JSON(withPlaceholders(h.catalog.Popular(), h.placeholder))
}

// Slider returns the visible slider window
func (h *CatalogHandler) Slider(c *fiber.Ctx) error {
	return c.JSON(h.sliderState(false))
}

// SliderNext moves the slider forward
func (h *CatalogHandler) SliderNext(c *fiber.Ctx) error {
	return c.JSON(h.sliderState(h.slider.Next()))
}

// SliderPrev moves the slider back
func (h *CatalogHandler) SliderPrev(c *fiber.Ctx) error {
	return c.JSON(h.sliderState(h.slider.Prev()))
}

func (h *CatalogHandler) sliderState(moved bool) SliderResponse {
	return SliderResponse{
		Index:         h.slider.Index(),
		Transitioning: h.slider.Transitioning(),
		Moved:         moved,
		Movies:        withPlaceholders(h.slider.Visible(), h.placeholder),
	}
}

// Movies returns the filtered catalog
func (h *CatalogHandler) Movies(c *fiber.Ctx) error {
	return c.JSON(listWithPlaceholders(h.catalog.Catalog(), h.placeholder))
}

// MoreMovies loads the next catalog page
func (h *CatalogHandler) MoreMovies(c *fiber.Ctx) error {
	if err := h.catalog.LoadMoreMovies(c.UserContext()); err != nil {
		return fetchFailed(c, err)
	}
	return h.Movies(c)
}

// Filters returns the pending and active filters
func (h *CatalogHandler) Filters(c *fiber.Ctx) error {
	return c.JSON(FiltersResponse{
		Pending: h.catalog.PendingFilters(),
		Active:  h.catalog.ActiveFilters(),
	})
}

// UpdateFilters merges a partial update into the pending filters
func (h *CatalogHandler) UpdateFilters(c *fiber.Ctx) error {
	var update models.FilterUpdate
	if err := c.BodyParser(&update); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid filter update")
	}

	if _, err := h.catalog.UpdatePendingFilters(update); err != nil {
		if errors.Is(err, controllers.ErrUnknownSort) {
			return errorJSON(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return h.Filters(c)
}

// ApplyFilters commits the pending filters and reloads the catalog
func (h *CatalogHandler) ApplyFilters(c *fiber.Ctx) error {
	if err := h.catalog.ApplyFilters(c.UserContext()); err != nil {
		return fetchFailed(c, err)
	}
	return h.Movies(c)
}

// ResetFilters restores the default filters and reloads the catalog
func (h *CatalogHandler) ResetFilters(c *fiber.Ctx) error {
	if err := h.catalog.ResetFilters(c.UserContext()); err != nil {
		return fetchFailed(c, err)
	}
	return h.Movies(c)
}

// SearchResults returns the search slot
func (h *CatalogHandler) SearchResults(c *fiber.Ctx) error {
	return c.JSON(listWithPlaceholders(h.catalog.SearchResults(), h.placeholder))
}

// SubmitSearch starts a new query
func (h *CatalogHandler) SubmitSearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid search request")
	}

	if err := h.catalog.Search(c.UserContext(), req.Query, 1); err != nil {
		return fetchFailed(c, err)
	}
	return h.SearchResults(c)
}

// MoreSearch loads the next page of the current query
func (h *CatalogHandler) MoreSearch(c *fiber.Ctx) error {
	if err := h.catalog.LoadMoreSearchResults(c.UserContext()); err != nil {
		return fetchFailed(c, err)
	}
	return h.SearchResults(c)
}

// Suggestions returns title candidates for the q parameter
func (h *CatalogHandler) Suggestions(c *fiber.Ctx) error {
	return c.JSON(h.catalog.GetSuggestions(c.UserContext(), c.Query("q")))
}

// Details returns a movie with its library state
func (h *CatalogHandler) Details(c *fiber.Ctx) error {
	id, ok := movieID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	movie, err := h.catalog.GetDetails(c.UserContext(), id)
	if err != nil {
		return fetchFailed(c, err)
	}

	return c.JSON(DetailsResponse{
		Movie:         movie.WithPlaceholder(h.placeholder),
		IsFavorite:    h.library.IsFavorite(id),
		IsWatchlisted: h.library.IsWatchlisted(id),
		Reviews:       h.library.Reviews(id),
		AverageRating: h.library.AverageRating(id),
	})
}

// Recommendations returns movies recommended for a movie
func (h *CatalogHandler) Recommendations(c *fiber.Ctx) error {
	id, ok := movieID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	records, err := h.catalog.GetRecommendations(c.UserContext(), id)
	if err != nil {
		return fetchFailed(c, err)
	}
	return c.JSON(withPlaceholders(records, h.placeholder))
}
