package tmdb

import (
	"fmt"
	"strings"
	"time"

	"github.com/amaumene/gocinema/internal/models"
)

const (
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
	youtubeWatchURL     = "https://www.youtube.com/watch?v="

	// PosterSize is the size token used for thumbnails
	PosterSize = "w500"
	// BackdropSize is the size token used for backdrops
	BackdropSize = "original"

	maxCast = 10
)

// ImageResolver composes absolute image URLs from path fragments
type ImageResolver struct {
	BaseURL string
}

// URL returns the absolute URL of path at the given size, or "" when the
// movie has no such image
func (r ImageResolver) URL(path, size string) string {
	if path == "" {
		return ""
	}
	base := r.BaseURL
	if base == "" {
		base = defaultImageBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + size + path
}

// FormatRecord normalizes a raw payload into a MovieRecord
func (c *Client) FormatRecord(raw *Movie) models.MovieRecord {
	return Format(raw, c.images)
}

// Format normalizes a raw payload into a MovieRecord using images to resolve
// poster and backdrop paths
func Format(raw *Movie, images ImageResolver) models.MovieRecord {
	record := models.MovieRecord{
		ID:           raw.ID,
		Title:        raw.Title,
		Description:  raw.Overview,
		Rating:       raw.VoteAverage,
		VoteCount:    raw.VoteCount,
		Popularity:   raw.Popularity,
		ThumbnailURL: images.URL(raw.PosterPath, PosterSize),
		BackdropURL:  images.URL(raw.BackdropPath, BackdropSize),
		Genres:       make([]string, 0, len(raw.Genres)),
		Cast:         []string{},
		Runtime:      raw.Runtime,
	}

	if date, ok := parseReleaseDate(raw.ReleaseDate); ok {
		record.ReleaseDate = &date
		record.ReleaseYear = date.Year()
	}

	for _, g := range raw.Genres {
		record.Genres = append(record.Genres, g.Name)
	}

	if raw.Runtime > 0 {
		record.Duration = fmt.Sprintf("%d min", raw.Runtime)
	}

	if raw.Credits != nil {
		for i, actor := range raw.Credits.Cast {
			if i == maxCast {
				break
			}
			record.Cast = append(record.Cast, actor.Name)
		}
		for _, member := range raw.Credits.Crew {
			if member.Job == "Director" {
				record.Director = member.Name
				break
			}
		}
	}

	if raw.Videos != nil {
		record.TrailerURL = TrailerURL(raw.Videos.Results)
	}

	return record
}

// SelectTrailer picks the representative video of a movie:
//  1. an official YouTube trailer whose name mentions "official"
//  2. any YouTube trailer
//  3. any YouTube video
//
// It returns nil when no video is hosted on YouTube.
func SelectTrailer(videos []Video) *Video {
	var anyTrailer, anyVideo *Video

	for i := range videos {
		v := &videos[i]
		if v.Site != "YouTube" {
			continue
		}
		if v.Type == "Trailer" && v.Official && strings.Contains(strings.ToLower(v.Name), "official") {
			return v
		}
		if v.Type == "Trailer" && anyTrailer == nil {
			anyTrailer = v
		}
		if anyVideo == nil {
			anyVideo = v
		}
	}

	if anyTrailer != nil {
		return anyTrailer
	}
	return anyVideo
}

// TrailerURL returns the watch URL of the selected trailer, or ""
func TrailerURL(videos []Video) string {
	v := SelectTrailer(videos)
	if v == nil {
		return ""
	}
	return youtubeWatchURL + v.Key
}

// ToSuggestion reduces a search hit to a suggestion
func ToSuggestion(raw *Movie) models.Suggestion {
	s := models.Suggestion{
		ID:    raw.ID,
		Title: raw.Title,
	}
	if date, ok := parseReleaseDate(raw.ReleaseDate); ok {
		s.Year = date.Year()
	}
	return s
}

func parseReleaseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	date, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
