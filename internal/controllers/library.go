package controllers

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/amaumene/gocinema/internal/metrics"
	"github.com/amaumene/gocinema/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	resolveConcurrency = 4
	reviewDateLayout   = "2006-01-02T15:04:05.000Z07:00"
)

// Storage is a synchronous string key-value store
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
}

// DetailsResolver turns a movie id into a full record
type DetailsResolver interface {
	GetDetails(ctx context.Context, id int) (models.MovieRecord, error)
}

// UserLibrary owns the user's favorites, watchlist and reviews. Every
// mutation rewrites the affected collection to storage.
type UserLibrary struct {
	store    Storage
	resolver DetailsResolver
	logger   *logrus.Logger
	now      func() time.Time

	mu        sync.RWMutex
	favorites []int
	watchlist []int
	reviews   map[int][]models.Review
}

// NewUserLibrary creates a library and loads its collections from store
func NewUserLibrary(store Storage, resolver DetailsResolver, logger *logrus.Logger) *UserLibrary {
	l := &UserLibrary{
		store:     store,
		resolver:  resolver,
		logger:    logger,
		now:       time.Now,
		favorites: []int{},
		watchlist: []int{},
		reviews:   map[int][]models.Review{},
	}
	l.load()
	return l
}

func (l *UserLibrary) load() {
	var favorites, watchlist []int
	if l.readJSON(models.KeyFavorites, &favorites) {
		l.favorites = dedupe(favorites)
	}
	if l.readJSON(models.KeyWatchlist, &watchlist) {
		l.watchlist = dedupe(watchlist)
	}

	var reviews map[int][]models.Review
	if l.readJSON(models.KeyReviews, &reviews) {
		for id, list := range reviews {
			for _, r := range list {
				if !models.ValidRating(r.Rating) {
					l.logger.WithFields(logrus.Fields{
						"movie_id": id,
						"rating":   r.Rating,
					}).Warn("Dropping stored review with invalid rating")
					continue
				}
				l.reviews[id] = append(l.reviews[id], r)
			}
		}
	}

	l.logger.WithFields(logrus.Fields{
		"favorites": len(l.favorites),
		"watchlist": len(l.watchlist),
		"reviewed":  len(l.reviews),
	}).Debug("Library loaded")
}

// readJSON decodes key into dst. It returns false when the key is missing or
// unreadable, in which case the caller keeps its empty default.
func (l *UserLibrary) readJSON(key string, dst interface{}) bool {
	raw, ok, err := l.store.GetItem(key)
	if err != nil {
		l.logger.WithError(err).WithField("key", key).Warn("Failed to read library collection")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		l.logger.WithError(err).WithField("key", key).Warn("Ignoring corrupt library collection")
		return false
	}
	return true
}

// persistLocked writes one collection. Failures only affect durability and
// are logged.
func (l *UserLibrary) persistLocked(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err == nil {
		err = l.store.SetItem(key, string(data))
	}
	if err != nil {
		metrics.StorageWriteFailures.WithLabelValues(key).Inc()
		l.logger.WithError(err).WithField("key", key).Error("Failed to persist library collection")
	}
}

func dedupe(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func toggle(ids []int, id int) ([]int, bool) {
	for i, existing := range ids {
		if existing == id {
			out := make([]int, 0, len(ids)-1)
			out = append(out, ids[:i]...)
			return append(out, ids[i+1:]...), false
		}
	}
	out := make([]int, len(ids), len(ids)+1)
	copy(out, ids)
	return append(out, id), true
}

func contains(ids []int, id int) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

// ToggleFavorite flips the favorite membership of id and returns the new state
func (l *UserLibrary) ToggleFavorite(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	var member bool
	l.favorites, member = toggle(l.favorites, id)
	l.persistLocked(models.KeyFavorites, l.favorites)
	return member
}

// ToggleWatchlist flips the watchlist membership of id and returns the new state
func (l *UserLibrary) ToggleWatchlist(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	var member bool
	l.watchlist, member = toggle(l.watchlist, id)
	l.persistLocked(models.KeyWatchlist, l.watchlist)
	return member
}

// IsFavorite reports whether id is a favorite
func (l *UserLibrary) IsFavorite(id int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return contains(l.favorites, id)
}

// IsWatchlisted reports whether id is on the watchlist
func (l *UserLibrary) IsWatchlisted(id int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return contains(l.watchlist, id)
}

// Favorites returns the favorite ids
func (l *UserLibrary) Favorites() []int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]int{}, l.favorites...)
}

// Watchlist returns the watchlisted ids
func (l *UserLibrary) Watchlist() []int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]int{}, l.watchlist...)
}

// AddReview appends a review for id. Ratings outside 1-5 are rejected and
// nothing is stored.
func (l *UserLibrary) AddReview(id int, input models.ReviewInput) (models.Review, error) {
	if !models.ValidRating(input.Rating) {
		return models.Review{}, ErrInvalidRating
	}

	review := models.Review{
		Rating:  input.Rating,
		Comment: input.Comment,
		Date:    l.now().UTC().Format(reviewDateLayout),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.reviews[id] = append(l.reviews[id], review)
	l.persistLocked(models.KeyReviews, l.reviews)
	return review, nil
}

// Reviews returns the reviews of id in submission order
func (l *UserLibrary) Reviews(id int) []models.Review {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.Review{}, l.reviews[id]...)
}

// ReviewedCount returns how many movies have at least one review
func (l *UserLibrary) ReviewedCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.reviews)
}

// AverageRating returns the mean rating of id rounded to one decimal, or 0
// when the movie has no reviews
func (l *UserLibrary) AverageRating(id int) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	reviews := l.reviews[id]
	if len(reviews) == 0 {
		return 0
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

// ResolveFavorites fetches the full record of every favorite
func (l *UserLibrary) ResolveFavorites(ctx context.Context) []models.MovieRecord {
	return l.resolve(ctx, models.KeyFavorites, l.Favorites())
}

// ResolveWatchlist fetches the full record of every watchlisted movie
func (l *UserLibrary) ResolveWatchlist(ctx context.Context) []models.MovieRecord {
	return l.resolve(ctx, models.KeyWatchlist, l.Watchlist())
}

// resolve looks up ids concurrently, keeping their order. Ids that fail to
// resolve are logged and left out.
func (l *UserLibrary) resolve(ctx context.Context, collection string, ids []int) []models.MovieRecord {
	if len(ids) == 0 {
		return []models.MovieRecord{}
	}

	found := make([]*models.MovieRecord, len(ids))

	var g errgroup.Group
	g.SetLimit(resolveConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			record, err := l.resolver.GetDetails(ctx, id)
			if err != nil {
				l.logger.WithError(err).WithFields(logrus.Fields{
					"collection": collection,
					"movie_id":   id,
				}).Warn("Dropping movie that failed to resolve")
				return nil
			}
			found[i] = &record
			return nil
		})
	}
	_ = g.Wait()

	records := make([]models.MovieRecord, 0, len(ids))
	for _, record := range found {
		if record != nil {
			records = append(records, *record)
		}
	}
	return records
}
