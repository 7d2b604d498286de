package controllers

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/amaumene/gocinema/internal/metrics"
	"github.com/amaumene/gocinema/internal/models"
	"github.com/amaumene/gocinema/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

const maxSuggestions = 5

// MovieAPI is the remote catalog the session reads from
type MovieAPI interface {
	DiscoverMovies(ctx context.Context, p tmdb.DiscoverParams) (*tmdb.PagedResponse, error)
	SearchMovies(ctx context.Context, query string, page int) (*tmdb.PagedResponse, error)
	GetMovieDetails(ctx context.Context, id int) (*tmdb.Movie, error)
	GetGenres(ctx context.Context) ([]tmdb.Genre, error)
	GetRecommendations(ctx context.Context, id, page int) (*tmdb.PagedResponse, error)
	FormatRecord(raw *tmdb.Movie) models.MovieRecord
}

// slotState is one independently paginated list. generation is bumped by
// every page-1 request; a response is applied only if the generation it was
// issued under is still current.
type slotState struct {
	movies     []models.MovieRecord
	cursor     models.PageCursor
	query      string
	generation uint64
	inFlight   int
	err        string
}

func (st *slotState) begin(page int) uint64 {
	if page == 1 {
		st.generation++
		st.inFlight = 0
	}
	st.inFlight++
	st.err = ""
	return st.generation
}

func (st *slotState) snapshot() models.ListState {
	movies := make([]models.MovieRecord, len(st.movies))
	copy(movies, st.movies)
	return models.ListState{
		Movies:  movies,
		Cursor:  st.cursor,
		Query:   st.query,
		Loading: st.inFlight > 0,
		Error:   st.err,
	}
}

// CatalogSession owns remote browsing state: the filtered catalog, search
// results, the popular snapshot and the genre vocabulary
type CatalogSession struct {
	api    MovieAPI
	logger *logrus.Logger
	now    func() time.Time

	mu         sync.Mutex
	catalog    slotState
	search     slotState
	popular    []models.MovieRecord
	popularGen uint64
	genres     []models.Genre
	pending    models.FilterState
	active     models.FilterState
}

// NewCatalogSession creates a session with default filters and empty lists
func NewCatalogSession(api MovieAPI, logger *logrus.Logger) *CatalogSession {
	return &CatalogSession{
		api:     api,
		logger:  logger,
		now:     time.Now,
		popular: []models.MovieRecord{},
		genres:  []models.Genre{},
		pending: models.DefaultFilters(),
		active:  models.DefaultFilters(),
	}
}

func (s *CatalogSession) today() string {
	return s.now().UTC().Format(time.DateOnly)
}

func (s *CatalogSession) formatAll(raw []tmdb.Movie) []models.MovieRecord {
	records := make([]models.MovieRecord, 0, len(raw))
	for i := range raw {
		records = append(records, s.api.FormatRecord(&raw[i]))
	}
	return records
}

// LoadGenres fetches the genre vocabulary. Failures are logged and leave
// the vocabulary as it was.
func (s *CatalogSession) LoadGenres(ctx context.Context) {
	raw, err := s.api.GetGenres(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch genres")
		return
	}

	genres := make([]models.Genre, 0, len(raw))
	for _, g := range raw {
		genres = append(genres, models.Genre{ID: g.ID, Name: g.Name})
	}

	s.mu.Lock()
	s.genres = genres
	s.mu.Unlock()

	s.logger.WithField("count", len(genres)).Debug("Genres loaded")
}

// LoadPopular fetches the first page of popular movies released from today
// on. It ignores the user's filters. Failures are logged.
func (s *CatalogSession) LoadPopular(ctx context.Context) {
	s.mu.Lock()
	s.popularGen++
	gen := s.popularGen
	s.mu.Unlock()

	resp, err := s.api.DiscoverMovies(ctx, tmdb.DiscoverParams{
		Page:           1,
		SortBy:         models.SortPopularity.SortBy(),
		ReleaseDateGTE: s.today(),
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch popular movies")
		return
	}
	records := s.formatAll(resp.Results)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.popularGen {
		metrics.StaleResponses.WithLabelValues("popular").Inc()
		return
	}
	s.popular = records
}

// resolveGenreIDsLocked maps genre names to a comma separated id list in
// vocabulary order. Names missing from the vocabulary are dropped.
func (s *CatalogSession) resolveGenreIDsLocked(names []string) string {
	if len(names) == 0 {
		return ""
	}

	selected := make(map[string]bool, len(names))
	for _, name := range names {
		selected[name] = true
	}

	var ids []string
	for _, g := range s.genres {
		if selected[g.Name] {
			ids = append(ids, strconv.Itoa(g.ID))
		}
	}
	return strings.Join(ids, ",")
}

// prepareCatalogLocked builds the discovery query for page from the active
// filters and registers the request with the catalog slot
func (s *CatalogSession) prepareCatalogLocked(page int) (tmdb.DiscoverParams, uint64) {
	params := tmdb.DiscoverParams{
		Page:     page,
		SortBy:   s.active.Sort.SortBy(),
		GenreIDs: s.resolveGenreIDsLocked(s.active.Genres),
	}
	if s.active.HideUnreleased {
		params.ReleaseDateLTE = s.today()
	}
	return params, s.catalog.begin(page)
}

// FetchCatalog loads a page of the catalog using the active filters. Page 1
// replaces the list, later pages append to it.
func (s *CatalogSession) FetchCatalog(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	params, ticket := s.prepareCatalogLocked(page)
	s.mu.Unlock()

	return s.runCatalog(ctx, params, ticket)
}

// LoadMoreMovies fetches the next catalog page unless a request is in flight,
// the last page was reached or the latest page 1 failed
func (s *CatalogSession) LoadMoreMovies(ctx context.Context) error {
	s.mu.Lock()
	if s.catalog.inFlight > 0 || !s.catalog.cursor.HasMore {
		s.mu.Unlock()
		return nil
	}
	params, ticket := s.prepareCatalogLocked(s.catalog.cursor.Page + 1)
	s.mu.Unlock()

	return s.runCatalog(ctx, params, ticket)
}

func (s *CatalogSession) runCatalog(ctx context.Context, params tmdb.DiscoverParams, ticket uint64) error {
	s.logger.WithFields(logrus.Fields{
		"page":    params.Page,
		"sort_by": params.SortBy,
		"genres":  params.GenreIDs,
	}).Debug("Fetching catalog page")

	resp, err := s.api.DiscoverMovies(ctx, params)
	return s.complete(models.SlotCatalog, &s.catalog, ticket, params.Page, resp, err, MsgFetchMovies)
}

// Search runs a title search. Page 1 starts a new query and replaces the
// results, later pages append.
func (s *CatalogSession) Search(ctx context.Context, query string, page int) error {
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	if page == 1 {
		s.search.query = query
	}
	ticket := s.search.begin(page)
	s.mu.Unlock()

	return s.runSearch(ctx, query, page, ticket)
}

// LoadMoreSearchResults fetches the next page of the current query
func (s *CatalogSession) LoadMoreSearchResults(ctx context.Context) error {
	s.mu.Lock()
	if s.search.inFlight > 0 || !s.search.cursor.HasMore || s.search.query == "" {
		s.mu.Unlock()
		return nil
	}
	query := s.search.query
	page := s.search.cursor.Page + 1
	ticket := s.search.begin(page)
	s.mu.Unlock()

	return s.runSearch(ctx, query, page, ticket)
}

func (s *CatalogSession) runSearch(ctx context.Context, query string, page int, ticket uint64) error {
	s.logger.WithFields(logrus.Fields{
		"query": query,
		"page":  page,
	}).Debug("Searching movies")

	resp, err := s.api.SearchMovies(ctx, query, page)
	return s.complete(models.SlotSearch, &s.search, ticket, page, resp, err, MsgSearchMovies)
}

// complete applies a finished request to its slot, unless a newer page-1
// request superseded it
func (s *CatalogSession) complete(slot models.Slot, st *slotState, ticket uint64, page int, resp *tmdb.PagedResponse, err error, message string) error {
	var records []models.MovieRecord
	if err == nil {
		records = s.formatAll(resp.Results)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket != st.generation {
		metrics.StaleResponses.WithLabelValues(string(slot)).Inc()
		s.logger.WithFields(logrus.Fields{
			"slot": slot,
			"page": page,
		}).Debug("Discarding superseded response")
		return nil
	}

	st.inFlight--
	if st.inFlight < 0 {
		st.inFlight = 0
	}

	if err != nil {
		st.err = message
		// the list still belongs to the previous filters or query, so there is
		// nothing left to continue
		if page == 1 {
			st.cursor.HasMore = false
		}
		s.logger.WithError(err).WithFields(logrus.Fields{
			"slot": slot,
			"page": page,
		}).Error("Failed to fetch movies")
		return &FetchError{Message: message, Err: err}
	}

	if page == 1 {
		st.movies = records
	} else {
		st.movies = append(st.movies, records...)
	}

	current := resp.Page
	if current < 1 {
		current = page
	}
	if page > 1 && current < st.cursor.Page {
		current = st.cursor.Page
	}
	st.cursor = models.PageCursor{Page: current, HasMore: resp.HasMore()}

	return nil
}

// GetSuggestions returns up to five title candidates for query. Queries
// shorter than two characters and remote failures yield an empty list.
func (s *CatalogSession) GetSuggestions(ctx context.Context, query string) []models.Suggestion {
	trimmed := strings.TrimSpace(query)
	if len([]rune(trimmed)) <= 1 {
		return []models.Suggestion{}
	}

	resp, err := s.api.SearchMovies(ctx, trimmed, 1)
	if err != nil {
		s.logger.WithError(err).WithField("query", trimmed).Warn("Failed to fetch suggestions")
		return []models.Suggestion{}
	}

	n := len(resp.Results)
	if n > maxSuggestions {
		n = maxSuggestions
	}

	suggestions := make([]models.Suggestion, 0, n)
	for i := 0; i < n; i++ {
		suggestions = append(suggestions, tmdb.ToSuggestion(&resp.Results[i]))
	}
	return suggestions
}

// GetDetails fetches and formats one movie with credits and videos
func (s *CatalogSession) GetDetails(ctx context.Context, id int) (models.MovieRecord, error) {
	raw, err := s.api.GetMovieDetails(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("movie_id", id).Error("Failed to fetch movie details")
		return models.MovieRecord{}, &FetchError{Message: MsgMovieDetails, Err: err}
	}
	return s.api.FormatRecord(raw), nil
}

// GetRecommendations returns the first page of movies recommended for id
func (s *CatalogSession) GetRecommendations(ctx context.Context, id int) ([]models.MovieRecord, error) {
	resp, err := s.api.GetRecommendations(ctx, id, 1)
	if err != nil {
		s.logger.WithError(err).WithField("movie_id", id).Error("Failed to fetch recommendations")
		return nil, &FetchError{Message: MsgRecommendations, Err: err}
	}
	return s.formatAll(resp.Results), nil
}

// UpdatePendingFilters merges update into the pending filters. The active
// filters and the catalog are not touched.
func (s *CatalogSession) UpdatePendingFilters(update models.FilterUpdate) (models.FilterState, error) {
	if update.Sort != nil && !update.Sort.Valid() {
		return models.FilterState{}, ErrUnknownSort
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = update.Merge(s.pending)
	return s.pending.Clone(), nil
}

// ApplyFilters makes the pending filters active and reloads the first page
func (s *CatalogSession) ApplyFilters(ctx context.Context) error {
	s.mu.Lock()
	s.active = s.pending.Clone()
	s.mu.Unlock()

	return s.FetchCatalog(ctx, 1)
}

// ResetFilters restores the default filters, pending and active, and reloads
// the first page
func (s *CatalogSession) ResetFilters(ctx context.Context) error {
	s.mu.Lock()
	s.pending = models.DefaultFilters()
	s.active = models.DefaultFilters()
	s.mu.Unlock()

	return s.FetchCatalog(ctx, 1)
}

// PendingFilters returns a copy of the filters being edited
func (s *CatalogSession) PendingFilters() models.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Clone()
}

// ActiveFilters returns a copy of the filters driving the catalog
func (s *CatalogSession) ActiveFilters() models.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.Clone()
}

// Catalog returns a snapshot of the filtered catalog
func (s *CatalogSession) Catalog() models.ListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.snapshot()
}

// SearchResults returns a snapshot of the search slot
func (s *CatalogSession) SearchResults() models.ListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search.snapshot()
}

// Popular returns the popular snapshot
func (s *CatalogSession) Popular() []models.MovieRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	popular := make([]models.MovieRecord, len(s.popular))
	copy(popular, s.popular)
	return popular
}

// Genres returns the genre vocabulary
func (s *CatalogSession) Genres() []models.Genre {
	s.mu.Lock()
	defer s.mu.Unlock()
	genres := make([]models.Genre, len(s.genres))
	copy(genres, s.genres)
	return genres
}
