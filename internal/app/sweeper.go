package app

import (
	"context"
	"time"

	"github.com/survivorfc/lastman/internal/platform/logging"
	"github.com/survivorfc/lastman/internal/usecase"
)

// Sweeper periodically runs the post-deadline auto-pick sweep. The sweep is
// a no-op until the active gameweek's deadline has passed, so a short
// interval only costs a settings read.
type Sweeper struct {
	autopick *usecase.AutoPickService
	interval time.Duration
	workers  int
	logger   *logging.Logger
}

func NewSweeper(autopick *usecase.AutoPickService, interval time.Duration, workers int, logger *logging.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Sweeper{
		autopick: autopick,
		interval: interval,
		workers:  workers,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "autopick sweeper started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("autopick sweeper stopped")
			return
		case <-ticker.C:
			result, err := s.autopick.SweepActiveGameweek(ctx, s.workers)
			if err != nil {
				s.logger.ErrorContext(ctx, "autopick sweep failed", "error", err)
				continue
			}
			if result.AssignedCount > 0 || result.FailedCount > 0 {
				s.logger.InfoContext(ctx, "autopick sweep finished",
					"gameweek", result.Gameweek,
					"assigned", result.AssignedCount,
					"skipped", result.SkippedCount,
					"failed", result.FailedCount,
				)
			}
		}
	}
}
