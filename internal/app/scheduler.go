package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the background jobs: watchlist alert sweeps and daily
// portfolio value snapshots.
type Scheduler struct {
	app  *App
	cron *cron.Cron
}

// NewScheduler registers the cron jobs from the scheduler config.
func NewScheduler(a *App) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{app: a, cron: c}

	if spec := a.Config.Scheduler.AlertSpec; spec != "" {
		if _, err := c.AddFunc(spec, s.runAlertSweep); err != nil {
			return nil, err
		}
	}
	if spec := a.Config.Scheduler.SnapshotSpec; spec != "" {
		if _, err := c.AddFunc(spec, s.runSnapshots); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Start begins the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.app.Logger.Info().
		Str("alert_spec", s.app.Config.Scheduler.AlertSpec).
		Str("snapshot_spec", s.app.Config.Scheduler.SnapshotSpec).
		Msg("Scheduler started")
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		s.app.Logger.Warn().Msg("Scheduler stop timed out waiting for running jobs")
	}
}

func (s *Scheduler) runAlertSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.app.AlertService.Sweep(ctx); err != nil {
		s.app.Logger.Error().Err(err).Msg("Alert sweep failed")
	}
}

func (s *Scheduler) runSnapshots() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	users, err := s.app.Storage.Users().List(ctx)
	if err != nil {
		s.app.Logger.Error().Err(err).Msg("Snapshot run failed to list users")
		return
	}

	for _, user := range users {
		if _, err := s.app.PortfolioService.RecordSnapshot(ctx, user.UserID); err != nil {
			s.app.Logger.Error().Err(err).
				Str("user_id", user.UserID).
				Msg("Failed to record portfolio snapshot")
		}
	}

	s.app.Logger.Info().Int("users", len(users)).Msg("Portfolio snapshots recorded")
}
