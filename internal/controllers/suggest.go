package controllers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/amaumene/gocinema/internal/metrics"
	"github.com/amaumene/gocinema/internal/models"
	"github.com/bep/debounce"
	"github.com/sirupsen/logrus"
)

// SuggestionSource answers suggestion queries
type SuggestionSource interface {
	GetSuggestions(ctx context.Context, query string) []models.Suggestion
}

// SuggestionHandler receives the suggestions of the latest query
type SuggestionHandler func(query string, suggestions []models.Suggestion)

// Suggester debounces keystrokes into suggestion lookups. Results of a query
// that was superseded while in flight are dropped.
type Suggester struct {
	source    SuggestionSource
	debounced func(f func())
	logger    *logrus.Logger
	ctx       context.Context
	cancel    context.CancelFunc

	mu          sync.Mutex
	generation  uint64
	suggestions []models.Suggestion
	handler     SuggestionHandler
}

// NewSuggester creates a suggester that waits delay after the last Update
// before dispatching
func NewSuggester(source SuggestionSource, delay time.Duration, logger *logrus.Logger) *Suggester {
	ctx, cancel := context.WithCancel(context.Background())
	return &Suggester{
		source:      source,
		debounced:   debounce.New(delay),
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		suggestions: []models.Suggestion{},
	}
}

// OnSuggestions registers the handler called whenever suggestions change
func (s *Suggester) OnSuggestions(handler SuggestionHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// Update records a new value of the search input
func (s *Suggester) Update(query string) {
	trimmed := strings.TrimSpace(query)

	s.mu.Lock()
	s.generation++
	gen := s.generation

	if len([]rune(trimmed)) <= 1 {
		// replaces any lookup still waiting on the timer
		s.debounced(func() {})
		s.suggestions = []models.Suggestion{}
		handler := s.handler
		s.mu.Unlock()

		if handler != nil {
			handler(query, []models.Suggestion{})
		}
		return
	}
	s.mu.Unlock()

	s.debounced(func() {
		s.dispatch(gen, trimmed)
	})
}

func (s *Suggester) dispatch(gen uint64, query string) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	results := s.source.GetSuggestions(s.ctx, query)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		metrics.StaleResponses.WithLabelValues("suggestions").Inc()
		s.logger.WithField("query", query).Debug("Discarding superseded suggestions")
		return
	}
	s.suggestions = results
	handler := s.handler
	s.mu.Unlock()

	if handler != nil {
		handler(query, results)
	}
}

// Suggestions returns the suggestions of the latest completed query
func (s *Suggester) Suggestions() []models.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Suggestion{}, s.suggestions...)
}

// Close stops pending lookups
func (s *Suggester) Close() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()

	s.debounced(func() {})
	s.cancel()
}
