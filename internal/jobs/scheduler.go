// Package jobs runs the background maintenance tasks: a settlement sweep
// behind the round clock and a daily history prune.
package jobs

import (
	"context"

	"github.com/ninelive/colorclash-backend/internal/repositories"
	"github.com/ninelive/colorclash-backend/internal/services"
	"github.com/robfig/cron/v3"
	"golang.org/x/exp/slog"
)

// Scheduler owns the cron jobs.
type Scheduler struct {
	cron        *cron.Cron
	gameService services.GameService
	resultRepo  repositories.RoundResultRepository
	retention   int
}

// NewScheduler creates the job scheduler. retention is the number of round
// results kept by the daily prune.
func NewScheduler(gameService services.GameService, resultRepo repositories.RoundResultRepository, retention int) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithSeconds()),
		gameService: gameService,
		resultRepo:  resultRepo,
		retention:   retention,
	}
}

// Start registers and starts all background jobs.
func (s *Scheduler) Start(ctx context.Context) {
	// Settlement sweep every five seconds. The round engine settles rounds
	// itself; this catches anything stranded by a crash or restart.
	_, err := s.cron.AddFunc("*/5 * * * * *", func() {
		settled, err := s.gameService.SweepExpired(ctx)
		if err != nil {
			slog.Error("settlement sweep failed", "error", err)
			return
		}
		if settled > 0 {
			slog.Info("settlement sweep recovered rounds", "settled", settled)
		}
	})
	if err != nil {
		slog.Error("failed to register settlement sweep", "error", err)
	}

	// Daily history prune at 03:00.
	_, err = s.cron.AddFunc("0 0 3 * * *", func() {
		removed, err := s.resultRepo.Prune(ctx, s.retention)
		if err != nil {
			slog.Error("history prune failed", "error", err)
			return
		}
		if removed > 0 {
			slog.Info("history pruned", "removed", removed, "kept", s.retention)
		}
	})
	if err != nil {
		slog.Error("failed to register history prune", "error", err)
	}

	s.cron.Start()
	slog.Info("job scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("job scheduler stopped")
}
