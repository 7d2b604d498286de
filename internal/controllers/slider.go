package controllers

import (
	"sync"
	"time"

	"github.com/amaumene/gocinema/internal/models"
	"github.com/sirupsen/logrus"
)

const sliderWindow = 5

// PopularSource provides the movies shown by the slider
type PopularSource interface {
	Popular() []models.MovieRecord
}

// Slider is the promotional carousel over the popular movies. Manual and
// automatic moves share one transition guard.
type Slider struct {
	source     PopularSource
	transition time.Duration
	logger     *logrus.Logger

	mu            sync.Mutex
	index         int
	transitioning bool
}

// NewSlider creates a slider whose moves lock out further moves for transition
func NewSlider(source PopularSource, transition time.Duration, logger *logrus.Logger) *Slider {
	return &Slider{
		source:     source,
		transition: transition,
		logger:     logger,
	}
}

// Next moves one movie forward, wrapping to the start once the last full
// window is shown. It returns false if a transition is still running.
func (s *Slider) Next() bool {
	return s.move(func(index, n int) int {
		if index+1 >= n-(sliderWindow-1) {
			return 0
		}
		return index + 1
	})
}

// Prev moves one movie back, wrapping to the last full window
func (s *Slider) Prev() bool {
	return s.move(func(index, n int) int {
		if index-1 < 0 {
			if n < sliderWindow {
				return 0
			}
			return n - sliderWindow
		}
		return index - 1
	})
}

// Advance is the timer-driven move
func (s *Slider) Advance() bool {
	moved := s.Next()
	if !moved {
		s.logger.Debug("Skipping slider auto-advance, transition in progress")
	}
	return moved
}

func (s *Slider) move(next func(index, n int) int) bool {
	n := len(s.source.Popular())
	if n == 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.transitioning {
		return false
	}

	s.index = next(s.index, n)
	s.transitioning = true
	time.AfterFunc(s.transition, func() {
		s.mu.Lock()
		s.transitioning = false
		s.mu.Unlock()
	})
	return true
}

// Index returns the position of the first visible movie
func (s *Slider) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Transitioning reports whether a move is still animating
func (s *Slider) Transitioning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitioning
}

// Visible returns the movies in the current window
func (s *Slider) Visible() []models.MovieRecord {
	popular := s.source.Popular()

	s.mu.Lock()
	index := s.index
	if index >= len(popular) {
		index = 0
	}
	s.mu.Unlock()

	end := index + sliderWindow
	if end > len(popular) {
		end = len(popular)
	}
	return popular[index:end]
}
