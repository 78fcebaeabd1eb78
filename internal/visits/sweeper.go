package visits

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper runs the retention purge once at start and then on a fixed interval.
type Sweeper struct {
	svc       *Service
	interval  time.Duration
	retention int
	observer  Observer
	logger    zerolog.Logger
}

func NewSweeper(svc *Service, interval time.Duration, retentionDays int, logger zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &Sweeper{
		svc:       svc,
		interval:  interval,
		retention: retentionDays,
		observer:  svc.observer,
		logger:    logger,
	}
}

// Run blocks until ctx is cancelled. A failed sweep is logged and retried on
// the next tick.
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Int("retention_days", s.retention).Msg("sweeper: started")
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("sweeper: stopped")
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce purges relative to today and reports the outcome.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	res, err := s.svc.PurgeOlderThan(ctx, s.svc.Today(), s.retention)
	s.observer.SweepFinished(res.Total(), err)
	if err != nil {
		s.logger.Error().Err(err).Msg("sweeper: purge failed")
		return 0, err
	}
	s.logger.Info().Int64("deleted", res.Total()).Msg("sweeper: purge finished")
	return res.Total(), nil
}
