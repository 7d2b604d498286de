package controllers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amaumene/gocinema/internal/models"
	"github.com/amaumene/gocinema/internal/services/tmdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCatalogReplacesOnFirstPageAndAppendsAfter(t *testing.T) {
	api := &fakeAPI{discover: func(p tmdb.DiscoverParams) (*tmdb.PagedResponse, error) {
		start := (p.Page-1)*20 + 1
		return pageOf(p.Page, 3, idRange(start, start+19)...), nil
	}}
	s := newTestSession(api)
	ctx := context.Background()

	require.NoError(t, s.FetchCatalog(ctx, 1))
	require.NoError(t, s.FetchCatalog(ctx, 1))
	assert.Len(t, s.Catalog().Movies, 20)

	require.NoError(t, s.LoadMoreMovies(ctx))
	state := s.Catalog()
	assert.Len(t, state.Movies, 40)
	assert.Equal(t, 21, state.Movies[20].ID)
	assert.Equal(t, models.PageCursor{Page: 2, HasMore: true}, state.Cursor)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
}

func TestLoadMoreMoviesStopsOnLastPage(t *testing.T) {
	api := &fakeAPI{discover: func(p tmdb.DiscoverParams) (*tmdb.PagedResponse, error) {
		return pageOf(p.Page, 1, 1, 2), nil
	}}
	s := newTestSession(api)
	ctx := context.Background()

	require.NoError(t, s.LoadMoreMovies(ctx))
	assert.Zero(t, api.discoverCount(), "nothing loaded yet, nothing to continue")

	require.NoError(t, s.FetchCatalog(ctx, 1))
	assert.False(t, s.Catalog().Cursor.HasMore)

	require.NoError(t, s.LoadMoreMovies(ctx))
	assert.Equal(t, 1, api.discoverCount())
}

func TestPendingFiltersDoNotFetchUntilApplied(t *testing.T) {
	api := &fakeAPI{
		discover: func(p tmdb.DiscoverParams) (*tmdb.PagedResponse, error) {
			return pageOf(1, 1, 1), nil
		},
		genres: []tmdb.Genre{{ID: 28, Name: "Action"}, {ID: 18, Name: "Drama"}, {ID: 35, Name: "Comedy"}},
	}
	s := newTestSession(api)
	ctx := context.Background()
	s.LoadGenres(ctx)

	genres := []string{"Comedy", "Action", "Western"}
	hide := true
	sort := models.SortRating
	pending, err := s.UpdatePendingFilters(models.FilterUpdate{Genres: &genres, HideUnreleased: &hide, Sort: &sort})
	require.NoError(t, err)

	assert.Equal(t, models.SortRating, pending.Sort)
	assert.Equal(t, models.DefaultFilters(), s.ActiveFilters())
	assert.Zero(t, api.discoverCount())

	require.NoError(t, s.ApplyFilters(ctx))
	p := api.lastDiscover()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, "vote_average.desc", p.SortBy)
	assert.Equal(t, "28,35", p.GenreIDs)
	assert.Equal(t, "2024-05-01", p.ReleaseDateLTE)
	assert.Empty(t, p.ReleaseDateGTE)

	// editing pending after apply leaves active alone
	hide = false
	_, err = s.UpdatePendingFilters(models.FilterUpdate{HideUnreleased: &hide})
	require.NoError(t, err)
	assert.True(t, s.ActiveFilters().HideUnreleased)
}

func TestResetFiltersRestoresDefaults(t *testing.T) {
	api := &fakeAPI{
		discover: func(p tmdb.DiscoverParams) (*tmdb.PagedResponse, error) {
			return pageOf(1, 1, 1), nil
		},
		genres: []tmdb.Genre{{ID: 28, Name: "Action"}},
	}
	s := newTestSession(api)
	ctx := context.Background()
	s.LoadGenres(ctx)

	genres := []string{"Action"}
	hide := true
	sort := models.SortRating
	_, err := s.UpdatePendingFilters(models.FilterUpdate{Genres: &genres, HideUnreleased: &hide, Sort: &sort})
	require.NoError(t, err)
	require.NoError(t, s.ApplyFilters(ctx))

	require.NoError(t, s.ResetFilters(ctx))
	assert.Equal(t, models.DefaultFilters(), s.PendingFilters())
	assert.Equal(t, models.DefaultFilters(), s.ActiveFilters())

	p := api.lastDiscover()
	assert.Equal(t, "popularity.desc", p.SortBy)
	assert.Empty(t, p.GenreIDs)
	assert.Empty(t, p.ReleaseDateLTE)
}

func TestUpdatePendingFiltersRejectsUnknownSort(t *testing.T) {
	s := newTestSession(&fakeAPI{})

	sort := models.SortKey("random")
	_, err := s.UpdatePendingFilters(models.FilterUpdate{Sort: &sort})
	assert.ErrorIs(t, err, ErrUnknownSort)
	assert.Equal(t, models.SortPopularity, s.PendingFilters().Sort)
}

func TestStaleFirstPageIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{discover: func(p tmdb.DiscoverParams) (*tmdb.PagedResponse, error) {
		if p.SortBy == "popularity.desc" {
			<-release
			return pageOf(1, 5, 1, 2, 3), nil
		}
		return pageOf(1, 1, 9), nil
	}}
	s := newTestSession(api)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.FetchCatalog(ctx, 1) }()
	require.Eventually(t, func() bool { return api.discoverCount() == 1 }, time.Second, time.Millisecond)
	assert.True(t, s.Catalog().Loading)

	sort := models.SortTitle
	_, err := s.UpdatePendingFilters(models.FilterUpdate{Sort: &sort})
	require.NoError(t, err)
	require.NoError(t, s.ApplyFilters(ctx))
	assert.Equal(t, []int{9}, recordIDs(s.Catalog().Movies))

	close(release)
	require.NoError(t, <-done)

	state := s.Catalog()
	assert.Equal(t, []int{9}, recordIDs(state.Movies))
	assert.Equal(t, models.PageCursor{Page: 1, HasMore: false}, state.Cursor)
	assert.False(t, state.Loading)
}

func TestFetchFailureKeepsPreviousData(t *testing.T) {
	fail := false
	api := &fakeAPI{discover: func(p tmdb.DiscoverParams) (*tmdb.PagedResponse, error) {
		if fail {
			return nil, errors.New("connection reset")
		}
		return pageOf(p.Page, 2, 1, 2, 3), nil
	}}
	s := newTestSession(api)
	ctx := context.Background()

	require.NoError(t, s.FetchCatalog(ctx, 1))
	fail = true

	err := s.LoadMoreMovies(ctx)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, MsgFetchMovies, fetchErr.Message)

	state := s.Catalog()
	assert.Equal(t, MsgFetchMovies, state.Error)
	assert.Len(t, state.Movies, 3)
	assert.Equal(t, 1, state.Cursor.Page)
	assert.False(t, state.Loading)

	fail = false
	require.NoError(t, s.LoadMoreMovies(ctx))
	assert.Empty(t, s.Catalog().Error)
	assert.Len(t, s.Catalog().Movies, 6)
}

func TestSearchUsesItsOwnSlot(t *testing.T) {
	api := &fakeAPI{
		discover: func(p tmdb.DiscoverParams) (*tmdb.PagedResponse, error) {
			return pageOf(1, 1, 100), nil
		},
		search: func(query string, page int) (*tmdb.PagedResponse, error) {
			return pageOf(page, 2, page*10, page*10+1), nil
		},
	}
	s := newTestSession(api)
	ctx := context.Background()

	require.NoError(t, s.FetchCatalog(ctx, 1))
	require.NoError(t, s.Search(ctx, "matrix", 1))
	require.NoError(t, s.LoadMoreSearchResults(ctx))
	require.NoError(t, s.LoadMoreSearchResults(ctx))

	results := s.SearchResults()
	assert.Equal(t, "matrix", results.Query)
	assert.Equal(t, []int{10, 11, 20, 21}, recordIDs(results.Movies))
	assert.Equal(t, models.PageCursor{Page: 2, HasMore: false}, results.Cursor)
	assert.Equal(t, 2, api.searchCount())

	assert.Equal(t, []int{100}, recordIDs(s.Catalog().Movies))

	require.NoError(t, s.Search(ctx, "alien", 1))
	assert.Equal(t, []int{10, 11}, recordIDs(s.SearchResults().Movies))
}

func TestSearchFailureMessage(t *testing.T) {
	api := &fakeAPI{search: func(query string, page int) (*tmdb.PagedResponse, error) {
		return nil, errors.New("timeout")
	}}
	s := newTestSession(api)

	err := s.Search(context.Background(), "", 1)
	require.Error(t, err)
	assert.Equal(t, 1, api.searchCount(), "explicit submission is dispatched even when empty")
	assert.Equal(t, MsgSearchMovies, s.SearchResults().Error)
}

func TestGetSuggestions(t *testing.T) {
	fail := false
	api := &fakeAPI{search: func(query string, page int) (*tmdb.PagedResponse, error) {
		if fail {
			return nil, errors.New("boom")
		}
		resp := pageOf(1, 1, idRange(1, 7)...)
		resp.Results[0].ReleaseDate = "1999-03-31"
		return resp, nil
	}}
	s := newTestSession(api)
	ctx := context.Background()

	assert.Empty(t, s.GetSuggestions(ctx, "m"))
	assert.Empty(t, s.GetSuggestions(ctx, "  m  "))
	assert.Zero(t, api.searchCount())

	suggestions := s.GetSuggestions(ctx, " ma ")
	require.Len(t, suggestions, 5)
	assert.Equal(t, 1999, suggestions[0].Year)
	assert.Zero(t, suggestions[1].Year)
	assert.Equal(t, []string{"ma"}, api.searchCalls)

	fail = true
	suggestions = s.GetSuggestions(ctx, "matrix")
	assert.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}

func TestLoadPopularIgnoresFilters(t *testing.T) {
	api := &fakeAPI{discover: func(p tmdb.DiscoverParams) (*tmdb.PagedResponse, error) {
		return pageOf(1, 10, 1, 2, 3), nil
	}}
	s := newTestSession(api)
	ctx := context.Background()

	hide := true
	sort := models.SortRating
	_, err := s.UpdatePendingFilters(models.FilterUpdate{HideUnreleased: &hide, Sort: &sort})
	require.NoError(t, err)
	require.NoError(t, s.ApplyFilters(ctx))

	s.LoadPopular(ctx)
	p := api.lastDiscover()
	assert.Equal(t, "popularity.desc", p.SortBy)
	assert.Equal(t, "2024-05-01", p.ReleaseDateGTE)
	assert.Empty(t, p.ReleaseDateLTE)
	assert.Len(t, s.Popular(), 3)
}

func TestLoadFailuresAreNonFatal(t *testing.T) {
	api := &fakeAPI{
		discover: func(p tmdb.DiscoverParams) (*tmdb.PagedResponse, error) {
			return nil, errors.New("down")
		},
		genresErr: errors.New("down"),
	}
	s := newTestSession(api)
	ctx := context.Background()

	s.LoadGenres(ctx)
	s.LoadPopular(ctx)
	assert.Empty(t, s.Genres())
	assert.Empty(t, s.Popular())
}

func TestGetDetails(t *testing.T) {
	api := &fakeAPI{details: func(id int) (*tmdb.Movie, error) {
		if id == 404 {
			return nil, &tmdb.StatusError{StatusCode: 404}
		}
		return &tmdb.Movie{ID: id, Title: "The Matrix", Runtime: 136}, nil
	}}
	s := newTestSession(api)
	ctx := context.Background()

	record, err := s.GetDetails(ctx, 603)
	require.NoError(t, err)
	assert.Equal(t, "136 min", record.Duration)

	_, err = s.GetDetails(ctx, 404)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, MsgMovieDetails, fetchErr.Message)

	var statusErr *tmdb.StatusError
	assert.True(t, errors.As(err, &statusErr))
}

func TestGetRecommendations(t *testing.T) {
	api := &fakeAPI{recommendation: func(id, page int) (*tmdb.PagedResponse, error) {
		if id == 0 {
			return nil, errors.New("bad id")
		}
		return pageOf(page, 1, 604, 605), nil
	}}
	s := newTestSession(api)
	ctx := context.Background()

	records, err := s.GetRecommendations(ctx, 603)
	require.NoError(t, err)
	assert.Equal(t, []int{604, 605}, recordIDs(records))

	_, err = s.GetRecommendations(ctx, 0)
	assert.Error(t, err)
}

func TestFailedFirstPageStopsCatalogPaging(t *testing.T) {
	api := &fakeAPI{discover: func(p tmdb.DiscoverParams) (*tmdb.PagedResponse, error) {
		if p.SortBy == "title.asc" && p.Page == 1 {
			return nil, errors.New("timeout")
		}
		return pageOf(p.Page, 5, p.Page*100+1, p.Page*100+2), nil
	}}
	s := newTestSession(api)
	ctx := context.Background()

	require.NoError(t, s.FetchCatalog(ctx, 1))
	assert.True(t, s.Catalog().Cursor.HasMore)

	sort := models.SortTitle
	_, err := s.UpdatePendingFilters(models.FilterUpdate{Sort: &sort})
	require.NoError(t, err)
	require.Error(t, s.ApplyFilters(ctx))

	calls := api.discoverCount()
	require.NoError(t, s.LoadMoreMovies(ctx))
	assert.Equal(t, calls, api.discoverCount(), "a page of the new sort must not follow the old list")

	state := s.Catalog()
	assert.Equal(t, []int{101, 102}, recordIDs(state.Movies))
	assert.Equal(t, models.PageCursor{Page: 1, HasMore: false}, state.Cursor)
	assert.Equal(t, MsgFetchMovies, state.Error)
}

func TestFailedFirstPageStopsSearchPaging(t *testing.T) {
	api := &fakeAPI{search: func(query string, page int) (*tmdb.PagedResponse, error) {
		if query == "alien" {
			return nil, errors.New("timeout")
		}
		return pageOf(page, 5, page*10, page*10+1), nil
	}}
	s := newTestSession(api)
	ctx := context.Background()

	require.NoError(t, s.Search(ctx, "matrix", 1))
	require.Error(t, s.Search(ctx, "alien", 1))

	require.NoError(t, s.LoadMoreSearchResults(ctx))
	assert.Equal(t, 2, api.searchCount())

	results := s.SearchResults()
	assert.Equal(t, []int{10, 11}, recordIDs(results.Movies))
	assert.False(t, results.Cursor.HasMore)
	assert.Equal(t, MsgSearchMovies, results.Error)
}

func TestFailedLaterPageKeepsPaging(t *testing.T) {
	fail := false
	api := &fakeAPI{discover: func(p tmdb.DiscoverParams) (*tmdb.PagedResponse, error) {
		if fail {
			return nil, errors.New("timeout")
		}
		return pageOf(p.Page, 5, p.Page), nil
	}}
	s := newTestSession(api)
	ctx := context.Background()

	require.NoError(t, s.FetchCatalog(ctx, 1))
	fail = true
	require.Error(t, s.LoadMoreMovies(ctx))
	assert.Equal(t, models.PageCursor{Page: 1, HasMore: true}, s.Catalog().Cursor)
}

func TestStaleSearchIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{search: func(query string, page int) (*tmdb.PagedResponse, error) {
		if query == "ma" {
			<-release
			return pageOf(1, 4, 1, 2, 3), nil
		}
		return pageOf(1, 1, 42), nil
	}}
	s := newTestSession(api)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.Search(ctx, "ma", 1) }()
	require.Eventually(t, func() bool { return api.searchCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, s.Search(ctx, "mat", 1))

	close(release)
	require.NoError(t, <-done)

	results := s.SearchResults()
	assert.Equal(t, "mat", results.Query)
	assert.Equal(t, []int{42}, recordIDs(results.Movies))
	assert.Equal(t, models.PageCursor{Page: 1, HasMore: false}, results.Cursor)
	assert.False(t, results.Loading)
}
