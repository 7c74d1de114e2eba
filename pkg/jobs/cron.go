package jobs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/metrics"
)

// Job is a named unit of scheduled work
type Job struct {
	Name     string
	Schedule string
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

// CronManager manages scheduled jobs
type CronManager struct {
	cron    *cron.Cron
	jobs    map[string]Job
	logger  logger.Logger
	metrics *metrics.Metrics
}

// cronLogger adapts Logger to the cron library's logger
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// NewCronManager creates a new cron manager. Overlapping runs of the same
// job are skipped.
func NewCronManager(log logger.Logger, m *metrics.Metrics) *CronManager {
	cl := cronLogger{log: log}
	return &CronManager{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		jobs:    make(map[string]Job),
		logger:  log,
		metrics: m,
	}
}

// Add registers job on its schedule
func (cm *CronManager) Add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("job needs a name and a run function")
	}
	if _, ok := cm.jobs[job.Name]; ok {
		return fmt.Errorf("job %s already registered", job.Name)
	}
	if job.Timeout <= 0 {
		job.Timeout = 30 * time.Minute
	}

	if _, err := cm.cron.AddFunc(job.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), job.Timeout)
		defer cancel()
		cm.execute(ctx, job)
	}); err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", job.Schedule, job.Name, err)
	}

	cm.jobs[job.Name] = job
	cm.logger.Info("cron job registered", "job", job.Name, "schedule", job.Schedule)
	return nil
}

func (cm *CronManager) execute(ctx context.Context, job Job) error {
	start := time.Now()
	cm.logger.Info("running scheduled job", "job", job.Name)

	err := job.Run(ctx)
	cm.metrics.RecordJobRun(job.Name, err)
	if err != nil {
		cm.logger.Error("scheduled job failed", "job", job.Name, "error", err)
		return err
	}

	cm.logger.Info("scheduled job completed", "job", job.Name, "duration", time.Since(start).String())
	return nil
}

// RunNow executes a registered job immediately, outside its schedule
func (cm *CronManager) RunNow(ctx context.Context, name string) error {
	job, ok := cm.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job: %s", name)
	}
	ctx, cancel := context.WithTimeout(ctx, job.Timeout)
	defer cancel()
	return cm.execute(ctx, job)
}

// Jobs returns the registered job names, sorted
func (cm *CronManager) Jobs() []string {
	names := make([]string, 0, len(cm.jobs))
	for name := range cm.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start starts the cron scheduler
func (cm *CronManager) Start() {
	cm.logger.Info("starting cron scheduler", "jobs", len(cm.jobs))
	cm.cron.Start()
}

// Stop stops the scheduler and waits for running jobs until ctx expires
func (cm *CronManager) Stop(ctx context.Context) error {
	cm.logger.Info("stopping cron scheduler")
	done := cm.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
