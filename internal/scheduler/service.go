package scheduler

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"maintenance-orchestrator/config"
	"maintenance-orchestrator/internal/assignment"
)

const defaultInterval = 5 * time.Minute

// Jobs is the batch work the runner triggers on every tick.
type Jobs interface {
	GenerateDueRequests(ctx context.Context) (*Promotion, error)
	AutoAssignAll(ctx context.Context) (*assignment.Result, error)
}

// Runner drives the periodic promotion of due schedules and, optionally,
// auto-assignment of the requests waiting for a technician.
type Runner struct {
	cfg  config.SchedulerConfig
	jobs Jobs
}

// NewRunner creates a runner for the given jobs.
func NewRunner(cfg config.SchedulerConfig, jobs Jobs) *Runner {
	return &Runner{cfg: cfg, jobs: jobs}
}

// Run executes one cycle immediately and then one per interval until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	if !r.cfg.Enabled {
		log.Info("scheduler is disabled; not starting")
		return
	}
	interval := r.cfg.Interval
	if interval <= 0 {
		interval = time.Duration(r.cfg.IntervalSeconds) * time.Second
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	log.WithField("interval", interval).Info("starting scheduler")

	r.RunOnce(ctx)

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("scheduler shutting down")
			return
		case <-timer.C:
			r.RunOnce(ctx)
			timer.Reset(interval)
		}
	}
}

// RunOnce performs a single scheduler cycle. Errors are logged, never returned:
// the next tick retries.
func (r *Runner) RunOnce(ctx context.Context) {
	promotion, err := r.jobs.GenerateDueRequests(ctx)
	if err != nil {
		log.WithError(err).Error("due request generation failed")
	} else {
		log.WithFields(log.Fields{
			"created": len(promotion.Created),
			"skipped": len(promotion.Skipped),
		}).Debug("scheduler cycle: promotion done")
	}

	if !r.cfg.AutoAssign || ctx.Err() != nil {
		return
	}
	result, err := r.jobs.AutoAssignAll(ctx)
	if err != nil {
		log.WithError(err).Error("auto-assignment failed")
		return
	}
	log.WithFields(log.Fields{
		"assigned": len(result.Assigned),
		"skipped":  len(result.Skipped),
	}).Debug("scheduler cycle: auto-assignment done")
}
