package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// DiscoverParams are the query parameters of /discover/movie.
// Empty strings are omitted from the request.
type DiscoverParams struct {
	Page           int
	SortBy         string
	GenreIDs       string // comma separated
	ReleaseDateLTE string // YYYY-MM-DD upper bound
	ReleaseDateGTE string // YYYY-MM-DD lower bound
}

func (p DiscoverParams) values() url.Values {
	page := p.Page
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("sort_by", p.SortBy)
	if p.GenreIDs != "" {
		params.Set("with_genres", p.GenreIDs)
	}
	if p.ReleaseDateLTE != "" {
		params.Set("release_date.lte", p.ReleaseDateLTE)
	}
	if p.ReleaseDateGTE != "" {
		params.Set("release_date.gte", p.ReleaseDateGTE)
	}
	params.Set("include_adult", "false")
	params.Set("include_video", "false")
	return params
}

// DiscoverMovies retrieves one page of the filtered, sorted catalog
func (c *Client) DiscoverMovies(ctx context.Context, p DiscoverParams) (*PagedResponse, error) {
	var page PagedResponse
	if err := c.doRequest(ctx, "discover", "/discover/movie", p.values(), &page); err != nil {
		return nil, fmt.Errorf("failed to discover movies: %w", err)
	}
	return &page, nil
}

// SearchMovies runs a free-text title search
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*PagedResponse, error) {
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")
	params.Set("language", c.language)

	var result PagedResponse
	if err := c.doRequest(ctx, "search", "/search/movie", params, &result); err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return &result, nil
}

// GetMovieDetails retrieves a movie with credits and videos. The dedicated
// videos endpoint is queried too and its results are appended, since the two
// listings do not always overlap.
func (c *Client) GetMovieDetails(ctx context.Context, id int) (*Movie, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,videos,reviews")

	var movie Movie
	if err := c.doRequest(ctx, "details", fmt.Sprintf("/movie/%d", id), params, &movie); err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}

	videos, err := c.GetMovieVideos(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := &VideoList{}
	if movie.Videos != nil {
		merged.Results = append(merged.Results, movie.Videos.Results...)
	}
	merged.Results = append(merged.Results, videos.Results...)
	movie.Videos = merged

	return &movie, nil
}

// GetMovieVideos retrieves the videos-only listing of a movie
func (c *Client) GetMovieVideos(ctx context.Context, id int) (*VideoList, error) {
	var videos VideoList
	if err := c.doRequest(ctx, "videos", fmt.Sprintf("/movie/%d/videos", id), nil, &videos); err != nil {
		return nil, fmt.Errorf("failed to get videos for movie %d: %w", id, err)
	}
	return &videos, nil
}

// GetGenres retrieves the movie genre vocabulary
func (c *Client) GetGenres(ctx context.Context) ([]Genre, error) {
	var list GenreList
	if err := c.doRequest(ctx, "genres", "/genre/movie/list", nil, &list); err != nil {
		return nil, fmt.Errorf("failed to get genres: %w", err)
	}
	return list.Genres, nil
}

// GetRecommendations retrieves movies the API recommends for a movie
func (c *Client) GetRecommendations(ctx context.Context, id, page int) (*PagedResponse, error) {
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var result PagedResponse
	if err := c.doRequest(ctx, "recommendations", fmt.Sprintf("/movie/%d/recommendations", id), params, &result); err != nil {
		return nil, fmt.Errorf("failed to get recommendations for movie %d: %w", id, err)
	}
	return &result, nil
}
