// Package scheduler wires up the cron jobs that periodically trigger the
// ingest and analytics cycles.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps robfig/cron around a single named job.
type Scheduler struct {
	cron *cron.Cron
	name string
	spec string // cron spec, e.g. "@every 6h"
	job  func(context.Context)
}

// New creates a Scheduler that fires job every intervalHours hours.
func New(name string, intervalHours int, job func(context.Context)) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		name: name,
		spec: fmt.Sprintf("@every %dh", intervalHours),
		job:  job,
	}
}

// Start registers the job and starts the scheduler. Also runs the job
// immediately so the data set is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] %s cron started — spec: %s", s.name, s.spec)

	// Run immediately on startup (non-blocking)
	go s.run(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Printf("[scheduler] %s cron stopped", s.name)
}

func (s *Scheduler) run(ctx context.Context) {
	log.Printf("[scheduler] %s cycle started", s.name)
	s.job(ctx)
	log.Printf("[scheduler] %s cycle complete", s.name)
}
