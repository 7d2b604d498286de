package controllers

import (
	"testing"
	"time"

	"github.com/amaumene/gocinema/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticPopular []models.MovieRecord

func (p staticPopular) Popular() []models.MovieRecord {
	return p
}

func popularOf(n int) staticPopular {
	movies := make(staticPopular, 0, n)
	for i := 0; i < n; i++ {
		movies = append(movies, models.MovieRecord{ID: i})
	}
	return movies
}

// settle waits for the running transition to finish
func settle(t *testing.T, s *Slider) {
	t.Helper()
	require.Eventually(t, func() bool { return !s.Transitioning() }, time.Second, time.Millisecond)
}

func TestSliderNextWrapsAfterLastFullWindow(t *testing.T) {
	s := NewSlider(popularOf(7), time.Millisecond, newTestLogger())

	var seen []int
	for i := 0; i < 4; i++ {
		require.True(t, s.Next())
		seen = append(seen, s.Index())
		settle(t, s)
	}
	assert.Equal(t, []int{1, 2, 0, 1}, seen)
}

func TestSliderPrevWrapsToLastFullWindow(t *testing.T) {
	s := NewSlider(popularOf(7), time.Millisecond, newTestLogger())

	require.True(t, s.Prev())
	assert.Equal(t, 2, s.Index())
	settle(t, s)

	require.True(t, s.Prev())
	assert.Equal(t, 1, s.Index())
}

func TestSliderShortList(t *testing.T) {
	s := NewSlider(popularOf(3), time.Millisecond, newTestLogger())

	require.True(t, s.Next())
	assert.Zero(t, s.Index())
	settle(t, s)

	require.True(t, s.Prev())
	assert.Zero(t, s.Index())
	assert.Len(t, s.Visible(), 3)
}

func TestSliderTransitionGuard(t *testing.T) {
	s := NewSlider(popularOf(10), time.Hour, newTestLogger())

	assert.True(t, s.Next())
	assert.True(t, s.Transitioning())
	assert.False(t, s.Next())
	assert.False(t, s.Prev())
	assert.False(t, s.Advance())
	assert.Equal(t, 1, s.Index())
}

func TestSliderEmptyDoesNotMove(t *testing.T) {
	s := NewSlider(popularOf(0), time.Millisecond, newTestLogger())

	assert.False(t, s.Next())
	assert.False(t, s.Advance())
	assert.False(t, s.Transitioning())
	assert.Empty(t, s.Visible())
}

func TestSliderVisibleWindow(t *testing.T) {
	s := NewSlider(popularOf(10), time.Millisecond, newTestLogger())

	require.True(t, s.Advance())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, recordIDs(s.Visible()))
}
