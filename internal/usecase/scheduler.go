package usecase

import (
	"context"
	"log/slog"
	"time"

	"CredibilityScanner/internal/ports"
)

// Scheduler wires the ticker driver with the feed scan use case.
type Scheduler struct {
	driver  ports.Scheduler
	scanner *FeedScanner
	logger  *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring scans.
func NewScheduler(driver ports.Scheduler, scanner *FeedScanner, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, scanner: scanner, logger: logger}
}

// Start registers the feed scan with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.scanner == nil {
		return nil
	}

	job := func(trigger time.Time) {
		items, err := s.scanner.ScanAll(ctx)
		if s.logger == nil {
			return
		}
		if err != nil {
			s.logger.Error("scheduled scan failed", "trigger", trigger, "error", err)
			return
		}
		s.logger.Info("scheduled scan finished", "trigger", trigger, "scored", len(items))
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
