// Package scheduler runs periodic jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron runner with a seconds field.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a scheduler that evaluates schedules in loc.
func New(loc *time.Location) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// Schedule registers job under a six-field cron spec
// (second minute hour dom month dow) or a descriptor such as "@every 1h".
func (s *Scheduler) Schedule(spec string, job func()) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return 0, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return id, nil
}

// ScheduleInterval registers job to run every interval, rounded down to
// whole seconds.
func (s *Scheduler) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	seconds := int(interval / time.Second)
	if seconds <= 0 {
		return 0, fmt.Errorf("interval must be at least one second")
	}
	return s.Schedule(fmt.Sprintf("@every %ds", seconds), job)
}

// Next returns the next activation time of an entry.
func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// DigestFunc renders a digest.
type DigestFunc func(ctx context.Context) (string, error)

// DigestJob returns a job that builds a digest and logs it. Each run is
// bounded by timeout.
func DigestJob(build DigestFunc, timeout time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		digest, err := build(ctx)
		if err != nil {
			log.Printf("scheduler: digest failed: %v", err)
			return
		}
		log.Printf("scheduler: %s", digest)
	}
}
