// Package worker runs scheduled auto-apply sweeps.
package worker

import (
	"context"
	"errors"
	"time"

	"jobpilot/internal/autoapply"
	"jobpilot/internal/domain"
	"jobpilot/internal/infra"
)

// Trigger labels batches started by the worker.
const Trigger = "worker"

const defaultInterval = time.Hour

// BatchRunner runs one auto-apply batch.
type BatchRunner interface {
	Run(ctx context.Context, req autoapply.Request) (*autoapply.Result, error)
}

// SweepStats counts the outcome of one sweep.
type SweepStats struct {
	Users        int
	Applications int
	Skipped      int
	Errors       int
}

// Worker sweeps every user with auto-apply enabled on a fixed interval.
type Worker struct {
	Preferences domain.PreferencesRepository
	Runner      BatchRunner
	Logger      infra.Logger
	Interval    time.Duration
}

// Run sweeps immediately and then once per interval until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	interval := w.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	w.Logger.Info().Dur("interval", interval).Msg("worker: started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := w.Sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.Logger.Error().Err(err).Msg("worker: sweep failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Sweep runs one batch per opted-in user, sequentially. Per-user failures
// are logged and counted; only listing users or cancellation aborts.
func (w *Worker) Sweep(ctx context.Context) (SweepStats, error) {
	var stats SweepStats
	userIDs, err := w.Preferences.ListAutoApplyUsers(ctx)
	if err != nil {
		return stats, err
	}
	for _, id := range userIDs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Users++
		log := w.Logger.With().Str("user_id", id).Logger()
		res, err := w.Runner.Run(ctx, autoapply.Request{UserID: id, Trigger: Trigger})
		switch {
		case errors.Is(err, domain.ErrMissingCV), errors.Is(err, domain.ErrMissingPreferences), errors.Is(err, domain.ErrQuotaExceeded):
			stats.Skipped++
			log.Info().Err(err).Msg("worker: user skipped")
		case err != nil:
			stats.Errors++
			log.Error().Err(err).Msg("worker: batch failed")
		default:
			stats.Applications += res.Applications
			log.Info().Int("sent", res.Applications).Int("failed", res.Failed).Int("skipped", res.Skipped).Msg("worker: batch done")
		}
	}
	w.Logger.Info().
		Int("users", stats.Users).
		Int("applications", stats.Applications).
		Int("skipped", stats.Skipped).
		Int("errors", stats.Errors).
		Msg("worker: sweep finished")
	return stats, nil
}
