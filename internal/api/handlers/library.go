package handlers

import (
	"errors"

	"github.com/amaumene/gocinema/internal/controllers"
	"github.com/amaumene/gocinema/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LibraryHandler exposes favorites, watchlist and reviews
type LibraryHandler struct {
	library     *controllers.UserLibrary
	placeholder string
	logger      *logrus.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(library *controllers.UserLibrary, placeholder string, logger *logrus.Logger) *LibraryHandler {
	return &LibraryHandler{
		library:     library,
		placeholder: placeholder,
		logger:      logger,
	}
}

// ToggleResponse reports the membership after a toggle
type ToggleResponse struct {
	ID     int  `json:"id"`
	Member bool `json:"member"`
}

// ReviewsResponse lists the reviews of a movie
type ReviewsResponse struct {
	ID            int             `json:"id"`
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"averageRating"`
}

// ToggleFavorite flips the favorite state of a movie
func (h *LibraryHandler) ToggleFavorite(c *fiber.Ctx) error {
	id, ok := movieID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid movie ID")
	}
	return c.JSON(ToggleResponse{ID: id, Member: h.library.ToggleFavorite(id)})
}

// ToggleWatchlist flips the watchlist state of a movie
func (h *LibraryHandler) ToggleWatchlist(c *fiber.Ctx) error {
	id, ok := movieID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid movie ID")
	}
	return c.JSON(ToggleResponse{ID: id, Member: h.library.ToggleWatchlist(id)})
}

// Reviews lists the reviews of a movie
func (h *LibraryHandler) Reviews(c *fiber.Ctx) error {
	id, ok := movieID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid movie ID")
	}
	return c.JSON(h.reviews(id))
}

// AddReview records a review for a movie
func (h *LibraryHandler) AddReview(c *fiber.Ctx) error {
	id, ok := movieID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid movie ID")
	}

	var input models.ReviewInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid review")
	}

	if _, err := h.library.AddReview(id, input); err != nil {
		if errors.Is(err, controllers.ErrInvalidRating) {
			return errorJSON(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		h.logger.WithError(err).WithField("movie_id", id).Error("Failed to add review")
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return c.Status(fiber.StatusCreated).JSON(h.reviews(id))
}

func (h *LibraryHandler) reviews(id int) ReviewsResponse {
	return ReviewsResponse{
		ID:            id,
		Reviews:       h.library.Reviews(id),
		AverageRating: h.library.AverageRating(id),
	}
}

// Favorites returns the resolved favorite movies
func (h *LibraryHandler) Favorites(c *fiber.Ctx) error {
	return c.JSON(withPlaceholders(h.library.ResolveFavorites(c.UserContext()), h.placeholder))
}

// Watchlist returns the resolved watchlisted movies
func (h *LibraryHandler) Watchlist(c *fiber.Ctx) error {
	return c.JSON(withPlaceholders(h.library.ResolveWatchlist(c.UserContext()), h.placeholder))
}
