package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Thyago-vibe/posto-mobile/internal/config"
	"github.com/Thyago-vibe/posto-mobile/internal/service/closing"
)

// ClosingLister enumerates the closings whose aggregates the sweeper
// refreshes.
type ClosingLister interface {
	ListTodayClosingIDs(ctx context.Context, date string) ([]uint, error)
}

// Scheduler periodically re-derives the parent closing aggregates for the
// current day. The recompute is idempotent and derived purely from the
// child records, so running it redundantly is safe and papers over any
// submission whose final aggregate write was lost to a network drop.
type Scheduler struct {
	cron       *cron.Cron
	closingSvc *closing.Service
	closings   ClosingLister
	cfg        config.SchedulerConfig
	location   *time.Location
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SchedulerConfig, location *time.Location, closingSvc *closing.Service, closings ClosingLister, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.Local
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(location)),
		closingSvc: closingSvc,
		closings:   closings,
		cfg:        cfg,
		location:   location,
		logger:     logger,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("resync_cron", s.cfg.ResyncCron))

	if _, err := s.cron.AddFunc(s.cfg.ResyncCron, s.resyncAggregates); err != nil {
		s.logger.Error("failed to schedule aggregate resync", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) resyncAggregates() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	today := time.Now().In(s.location).Format("2006-01-02")
	ids, err := s.closings.ListTodayClosingIDs(ctx, today)
	if err != nil {
		s.logger.Error("failed listing closings for resync", zap.Error(err))
		return
	}

	for _, id := range ids {
		if err := s.closingSvc.RecomputeAggregate(ctx, id); err != nil {
			s.logger.Error("aggregate resync failed",
				zap.Uint("closing_id", id),
				zap.Error(err))
		}
	}

	if len(ids) > 0 {
		s.logger.Info("aggregate resync completed",
			zap.String("date", today),
			zap.Int("closings", len(ids)))
	}
}
