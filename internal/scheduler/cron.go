package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Catalog is the session state loaded at startup
type Catalog interface {
	LoadGenres(ctx context.Context)
	LoadPopular(ctx context.Context)
	FetchCatalog(ctx context.Context, page int) error
}

// Advancer is moved forward on every slider tick
type Advancer interface {
	Advance() bool
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	catalog  Catalog
	slider   Advancer
	interval time.Duration
	logger   *logrus.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewScheduler creates a new scheduler
func NewScheduler(catalog Catalog, slider Advancer, interval time.Duration, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		catalog:  catalog,
		slider:   slider,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start registers the slider job and loads the initial session state in the
// background
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.WithField("slider_interval", s.interval).Info("Starting scheduler")

	if s.interval <= 0 {
		return fmt.Errorf("invalid slider interval %s", s.interval)
	}

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		s.runAdvance()
	})
	if err != nil {
		return fmt.Errorf("failed to add slider job: %w", err)
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	s.logger.Info("Scheduler started")

	go func() {
		defer close(s.done)
		s.Bootstrap(s.ctx)
	}()

	return nil
}

// Bootstrap loads genres, the popular movies and the first catalog page
func (s *Scheduler) Bootstrap(ctx context.Context) {
	s.logger.Info("Loading initial catalog")

	s.catalog.LoadGenres(ctx)
	s.catalog.LoadPopular(ctx)
	if err := s.catalog.FetchCatalog(ctx, 1); err != nil {
		s.logger.WithError(err).Error("Initial catalog load failed")
		return
	}

	s.logger.Info("Initial catalog loaded")
}

// Stop stops the scheduler and waits for the running bootstrap
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

func (s *Scheduler) runAdvance() {
	if s.slider.Advance() {
		s.logger.Debug("Slider advanced")
	}
}
