// Package jobs holds background schedules that run inside the server.
package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"soa-backend/internal/metrics"
	"soa-backend/internal/timeutil"
)

// Sweeper removes run directories older than a cutoff
type Sweeper interface {
	Sweep(maxAge time.Duration, now time.Time) (int, error)
}

type JanitorConfig struct {
	Schedule string
	MaxAge   time.Duration
}

// Janitor deletes working directories left behind by crashed runs
type Janitor struct {
	sweeper Sweeper
	cfg     JanitorConfig
	logger  *zap.Logger
	cron    *cron.Cron
}

func NewJanitor(sweeper Sweeper, cfg JanitorConfig, logger *zap.Logger) *Janitor {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 30m"
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 6 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Janitor{sweeper: sweeper, cfg: cfg, logger: logger}
}

// RunOnce sweeps immediately and returns how many directories were removed
func (j *Janitor) RunOnce() int {
	removed, err := j.sweeper.Sweep(j.cfg.MaxAge, timeutil.Now())
	if err != nil {
		j.logger.Error("workdir sweep failed", zap.Error(err))
		return 0
	}
	if removed > 0 {
		metrics.WorkdirsSwept.Add(float64(removed))
		j.logger.Info("stale workdirs removed", zap.Int("count", removed), zap.Duration("max_age", j.cfg.MaxAge))
	}
	return removed
}

// Start schedules the sweep on the configured cron schedule
func (j *Janitor) Start() error {
	c := cron.New(cron.WithLocation(timeutil.Local))
	if _, err := c.AddFunc(j.cfg.Schedule, func() { j.RunOnce() }); err != nil {
		return fmt.Errorf("unable to schedule workdir janitor: %w", err)
	}
	c.Start()
	j.cron = c
	j.logger.Info("workdir janitor started", zap.String("schedule", j.cfg.Schedule))
	return nil
}

// Stop halts the schedule and waits for a running sweep
func (j *Janitor) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}
