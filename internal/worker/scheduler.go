// Package worker runs periodic background maintenance for the service.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// Runner is one unit of background work.
type Runner interface {
	RunOnce(ctx context.Context) error
}

type Scheduler struct {
	Runner   Runner
	Interval time.Duration
}

func (s *Scheduler) Run(ctx context.Context) {
	if s.Runner == nil || s.Interval <= 0 {
		return
	}

	// Run immediately at startup.
	if err := s.Runner.RunOnce(ctx); err != nil {
		slog.Error("initial run failed", "err", err)
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Runner.RunOnce(ctx); err != nil {
				slog.Error("scheduled run failed", "err", err)
			}
		}
	}
}
