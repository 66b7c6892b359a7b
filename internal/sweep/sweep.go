package sweep

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"refakat-backend/config"
	"refakat-backend/internal/store"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom,
// month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Service runs the notification auto-cleanup on a schedule.
type Service struct {
	cfg   *config.SweepConfig
	store store.Store
}

// NewService creates a new sweep service.
func NewService(cfg *config.SweepConfig, s store.Store) *Service {
	return &Service{cfg: cfg, store: s}
}

// Run starts the cron scheduler and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		log.Println("Sweep is disabled. Not starting.")
		return
	}

	schedule, err := cronParser.Parse(s.cfg.Schedule)
	if err != nil {
		log.Printf("Invalid sweep schedule %q: %v. Sweep not started.", s.cfg.Schedule, err)
		return
	}

	log.Printf("Starting sweep service with schedule %q...", s.cfg.Schedule)
	for {
		next := schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-timer.C:
			s.SweepOnce(ctx)
		case <-ctx.Done():
			timer.Stop()
			log.Println("Sweep service shutting down")
			return
		}
	}
}

// SweepOnce runs one auto-cleanup pass and logs its report.
func (s *Service) SweepOnce(ctx context.Context) {
	report, err := s.store.AutoCleanup(ctx, store.SweepOptions{
		PerUserMax: s.cfg.PerUserMax,
		Retention:  time.Duration(s.cfg.RetentionDays) * 24 * time.Hour,
	})
	if err != nil {
		log.Printf("Sweep run failed: %v", err)
		if report == nil {
			return
		}
	}
	log.Printf("Sweep %s cleaned %d notifications (%d users, %d expired)",
		report.RunID, report.TotalCleaned, len(report.Results), report.OldDeleted)
}
