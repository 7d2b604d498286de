package handlers

import (
	"errors"
	"strconv"

	"github.com/amaumene/gocinema/internal/controllers"
	"github.com/amaumene/gocinema/internal/models"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func errorJSON(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(ErrorResponse{Error: message})
}

// fetchFailed answers a remote failure with its user-facing message
func fetchFailed(c *fiber.Ctx, err error) error {
	var fetchErr *controllers.FetchError
	if errors.As(err, &fetchErr) {
		return errorJSON(c, fiber.StatusBadGateway, fetchErr.Message)
	}
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

// movieID parses the :id route parameter
func movieID(c *fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func withPlaceholders(records []models.MovieRecord, placeholder string) []models.MovieRecord {
	out := make([]models.MovieRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r.WithPlaceholder(placeholder))
	}
	return out
}

func listWithPlaceholders(state models.ListState, placeholder string) models.ListState {
	state.Movies = withPlaceholders(state.Movies, placeholder)
	return state
}
