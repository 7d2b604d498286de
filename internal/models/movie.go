package models

import "time"

// MovieRecord is a normalized movie built from a raw API payload
type MovieRecord struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ReleaseDate  *time.Time `json:"releaseDate,omitempty"` // nil when unknown
	ReleaseYear  int        `json:"releaseYear,omitempty"`
	Rating       float64    `json:"rating"`
	VoteCount    int        `json:"voteCount"`
	Popularity   float64    `json:"popularity"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	BackdropURL  string     `json:"backdropUrl"`
	Genres       []string   `json:"genre"`
	Runtime      int        `json:"runtime,omitempty"` // minutes
	Duration     string     `json:"duration"`
	Cast         []string   `json:"cast"`
	Director     string     `json:"director"`
	TrailerURL   string     `json:"trailerUrl,omitempty"`
}

// WithPlaceholder returns a copy whose missing images point at placeholder
func (m MovieRecord) WithPlaceholder(placeholder string) MovieRecord {
	if m.ThumbnailURL == "" {
		m.ThumbnailURL = placeholder
	}
	if m.BackdropURL == "" {
		m.BackdropURL = m.ThumbnailURL
	}
	return m
}

// Genre is an entry of the remote genre vocabulary
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Suggestion is a lightweight search candidate
type Suggestion struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year,omitempty"`
}

// PageCursor tracks the position of a paginated list
type PageCursor struct {
	Page    int  `json:"page"`
	HasMore bool `json:"hasMore"`
}

// ListState is a read-only snapshot of one slot
type ListState struct {
	Movies  []MovieRecord `json:"movies"`
	Cursor  PageCursor    `json:"cursor"`
	Query   string        `json:"query,omitempty"`
	Loading bool          `json:"loading"`
	Error   string        `json:"error,omitempty"`
}
