// Package jobs runs the periodic background work on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled task. Spec uses the standard five-field cron syntax.
type Job struct {
	Name    string
	Spec    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler in the given IANA timezone. Overlapping
// runs of the same job are skipped and panics are recovered.
func NewScheduler(timezone string) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid cron timezone %q: %w", timezone, err)
	}

	logger := cronLogger{log: slog.Default().With("component", "cron")}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (s *Scheduler) Register(job Job) error {
	if _, err := s.cron.AddJob(job.Spec, cron.FuncJob(func() { s.run(job) })); err != nil {
		return fmt.Errorf("failed to schedule %s (%q): %w", job.Name, job.Spec, err)
	}
	slog.Info("job scheduled", "job", job.Name, "spec", job.Spec)
	return nil
}

func (s *Scheduler) run(job Job) {
	ctx := s.ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := job.Run(ctx)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		slog.Error("job failed", "job", job.Name, "error", err.Error(), "latency_ms", latency)
		return
	}
	slog.Info("job finished", "job", job.Name, "latency_ms", latency)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them up to timeout.
func (s *Scheduler) Stop(timeout time.Duration) {
	s.cancel()
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-time.After(timeout):
		slog.Warn("cron jobs still running at shutdown")
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append([]interface{}{"error", err.Error()}, keysAndValues...)...)
}
