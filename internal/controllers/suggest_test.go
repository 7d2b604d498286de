package controllers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amaumene/gocinema/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 20 * time.Millisecond

type fakeSuggestions struct {
	mu      sync.Mutex
	queries []string
	block   map[string]chan struct{}
	started chan string
}

func newFakeSuggestions() *fakeSuggestions {
	return &fakeSuggestions{block: map[string]chan struct{}{}, started: make(chan string, 16)}
}

func (f *fakeSuggestions) GetSuggestions(ctx context.Context, query string) []models.Suggestion {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	wait := f.block[query]
	f.mu.Unlock()

	f.started <- query
	if wait != nil {
		<-wait
	}
	return []models.Suggestion{{ID: len(query), Title: query}}
}

func (f *fakeSuggestions) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.queries...)
}

func TestSuggesterShortQueryClearsWithoutLookup(t *testing.T) {
	source := newFakeSuggestions()
	s := NewSuggester(source, testDelay, newTestLogger())
	defer s.Close()

	var got []models.Suggestion
	called := false
	s.OnSuggestions(func(query string, suggestions []models.Suggestion) {
		called = true
		got = suggestions
	})

	s.Update("m")
	assert.True(t, called)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	time.Sleep(3 * testDelay)
	assert.Empty(t, source.calls())
}

func TestSuggesterDebouncesTyping(t *testing.T) {
	source := newFakeSuggestions()
	s := NewSuggester(source, testDelay, newTestLogger())
	defer s.Close()

	s.Update("ma")
	s.Update("mat")
	s.Update("matr")

	select {
	case q := <-source.started:
		assert.Equal(t, "matr", q)
	case <-time.After(time.Second):
		t.Fatal("suggestions were never requested")
	}

	require.Eventually(t, func() bool { return len(s.Suggestions()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, "matr", s.Suggestions()[0].Title)

	time.Sleep(3 * testDelay)
	assert.Equal(t, []string{"matr"}, source.calls())
}

func TestSuggesterShortQueryCancelsPendingLookup(t *testing.T) {
	source := newFakeSuggestions()
	s := NewSuggester(source, testDelay, newTestLogger())
	defer s.Close()

	s.Update("ma")
	s.Update("m")

	time.Sleep(3 * testDelay)
	assert.Empty(t, source.calls())
	assert.Empty(t, s.Suggestions())
}

func TestSuggesterDropsSupersededResults(t *testing.T) {
	source := newFakeSuggestions()
	release := make(chan struct{})
	source.block["ma"] = release

	s := NewSuggester(source, testDelay, newTestLogger())
	defer s.Close()

	s.Update("ma")
	select {
	case <-source.started:
	case <-time.After(time.Second):
		t.Fatal("first lookup never started")
	}

	s.Update("mat")
	select {
	case <-source.started:
	case <-time.After(time.Second):
		t.Fatal("second lookup never started")
	}
	require.Eventually(t, func() bool { return len(s.Suggestions()) == 1 }, time.Second, time.Millisecond)

	close(release)
	time.Sleep(3 * testDelay)

	suggestions := s.Suggestions()
	require.Len(t, suggestions, 1)
	assert.Equal(t, "mat", suggestions[0].Title)
}

func TestSuggesterCloseDropsPendingLookup(t *testing.T) {
	source := newFakeSuggestions()
	s := NewSuggester(source, testDelay, newTestLogger())

	s.Update("matrix")
	s.Close()

	time.Sleep(3 * testDelay)
	assert.Empty(t, source.calls())
	assert.Empty(t, s.Suggestions())
}
