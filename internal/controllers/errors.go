package controllers

import "errors"

var (
	// ErrUnknownSort is returned when a filter update names an unmapped sort key
	ErrUnknownSort = errors.New("unknown sort option")
	// ErrInvalidRating is returned when a review rating is outside 1-5
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// User-facing messages of failed remote fetches
const (
	MsgFetchMovies     = "Error fetching movies. Please try again later."
	MsgSearchMovies    = "Error searching movies. Please try again."
	MsgMovieDetails    = "Failed to load movie details"
	MsgRecommendations = "Failed to load recommendations"
)

// FetchError wraps a remote failure with the message shown to the user
type FetchError struct {
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
