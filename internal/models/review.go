package models

// Review bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Review is one user rating of a movie
type Review struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Date    string `json:"date"` // ISO-8601 submission time
}

// ReviewInput is what a user submits; the date is assigned on submission
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ValidRating reports whether r is a storable star rating
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
