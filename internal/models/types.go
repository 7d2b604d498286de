package models

// SortKey represents a catalog ordering selectable by the user
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortRating     SortKey = "rating"
	SortNewest     SortKey = "newest"
	SortTitle      SortKey = "title"
)

// SortOption pairs a display label with the remote sort_by value
type SortOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SortOptions maps each sort key to its remote query value
var SortOptions = map[SortKey]SortOption{
	SortPopularity: {Label: "Most Popular", Value: "popularity.desc"},
	SortRating:     {Label: "Highest Rated", Value: "vote_average.desc"},
	SortNewest:     {Label: "Release Date", Value: "release_date.desc"},
	SortTitle:      {Label: "Title A-Z", Value: "title.asc"},
}

// Valid reports whether the key has a remote mapping
func (k SortKey) Valid() bool {
	_, ok := SortOptions[k]
	return ok
}

// SortBy returns the remote sort_by value, falling back to popularity
func (k SortKey) SortBy() string {
	if opt, ok := SortOptions[k]; ok {
		return opt.Value
	}
	return SortOptions[SortPopularity].Value
}

// Slot identifies an independently paginated result list
type Slot string

const (
	SlotCatalog Slot = "catalog"
	SlotSearch  Slot = "search"
)

// Storage keys of the persisted library collections
const (
	KeyFavorites = "favorites"
	KeyWatchlist = "watchlist"
	KeyReviews   = "userReviews"
)
