package controllers

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/amaumene/gocinema/internal/models"
	"github.com/amaumene/gocinema/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// fakeAPI is a programmable MovieAPI that records every call
type fakeAPI struct {
	mu             sync.Mutex
	discoverCalls  []tmdb.DiscoverParams
	searchCalls    []string
	detailCalls    []int
	discover       func(p tmdb.DiscoverParams) (*tmdb.PagedResponse, error)
	search         func(query string, page int) (*tmdb.PagedResponse, error)
	details        func(id int) (*tmdb.Movie, error)
	recommendation func(id, page int) (*tmdb.PagedResponse, error)
	genres         []tmdb.Genre
	genresErr      error
}

func (f *fakeAPI) DiscoverMovies(ctx context.Context, p tmdb.DiscoverParams) (*tmdb.PagedResponse, error) {
	f.mu.Lock()
	f.discoverCalls = append(f.discoverCalls, p)
	fn := f.discover
	f.mu.Unlock()
	return fn(p)
}

func (f *fakeAPI) SearchMovies(ctx context.Context, query string, page int) (*tmdb.PagedResponse, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, query)
	fn := f.search
	f.mu.Unlock()
	return fn(query, page)
}

func (f *fakeAPI) GetMovieDetails(ctx context.Context, id int) (*tmdb.Movie, error) {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, id)
	fn := f.details
	f.mu.Unlock()
	return fn(id)
}

func (f *fakeAPI) GetGenres(ctx context.Context) ([]tmdb.Genre, error) {
	return f.genres, f.genresErr
}

func (f *fakeAPI) GetRecommendations(ctx context.Context, id, page int) (*tmdb.PagedResponse, error) {
	return f.recommendation(id, page)
}

func (f *fakeAPI) FormatRecord(raw *tmdb.Movie) models.MovieRecord {
	return tmdb.Format(raw, tmdb.ImageResolver{})
}

func (f *fakeAPI) discoverCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.discoverCalls)
}

func (f *fakeAPI) lastDiscover() tmdb.DiscoverParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.discoverCalls[len(f.discoverCalls)-1]
}

func (f *fakeAPI) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searchCalls)
}

// pageOf builds a response for page out of total holding ids
func pageOf(page, total int, ids ...int) *tmdb.PagedResponse {
	results := make([]tmdb.Movie, 0, len(ids))
	for _, id := range ids {
		results = append(results, tmdb.Movie{ID: id, Title: "Movie"})
	}
	return &tmdb.PagedResponse{Page: page, TotalPages: total, Results: results}
}

func idRange(from, to int) []int {
	ids := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		ids = append(ids, i)
	}
	return ids
}

func recordIDs(records []models.MovieRecord) []int {
	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func newTestSession(api *fakeAPI) *CatalogSession {
	s := NewCatalogSession(api, newTestLogger())
	s.now = func() time.Time { return fixedNow }
	return s
}
