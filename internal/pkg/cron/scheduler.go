package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a named function run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// Scheduler runs registered jobs on tickers until stopped.
type Scheduler struct {
	jobs   []Job
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	logger *slog.Logger
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{logger: logger}
}

func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{Name: name, Interval: interval, Fn: fn})
	s.logger.Info("cron job registered", "name", name, "interval", interval)
}

// Jobs returns a copy of the registered jobs.
func (s *Scheduler) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Job(nil), s.jobs...)
}

// Start runs every job once immediately and then on its interval. Jobs stop when ctx
// is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(ctx, job)
	}

	s.logger.Info("cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels all jobs and waits for running executions to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	s.logger.Info("cron scheduler stopped")
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.executeJob(ctx, job)

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(ctx, job)
		}
	}
}

func (s *Scheduler) executeJob(ctx context.Context, job Job) {
	start := time.Now()
	if err := job.Fn(ctx); err != nil {
		s.logger.Error("cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Debug("cron job completed", "name", job.Name, "duration", time.Since(start))
}

// RunOnce runs all jobs once, in registration order.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, job := range s.Jobs() {
		s.executeJob(ctx, job)
	}
}
