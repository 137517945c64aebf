package scheduler

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/model"
	"maintenance-orchestrator/internal/store"
	"maintenance-orchestrator/internal/workflow"
)

// DateLayout is the storage format of every calendar date in the ledger.
const DateLayout = "2006-01-02"

// Skip reports a schedule that could not be promoted in this run.
type Skip struct {
	ScheduleID int64  `json:"scheduleId"`
	DeviceID   int64  `json:"deviceId"`
	Kind       string `json:"kind"`
	Reason     string `json:"reason"`
}

// Promotion is the outcome of one PromoteDue run.
type Promotion struct {
	Created []model.MaintenanceRequest `json:"created"`
	Skipped []Skip                     `json:"skipped"`
}

// Generator turns due maintenance schedules into maintenance requests.
type Generator struct {
	store store.Store
	loc   *time.Location
}

// NewGenerator creates a generator that evaluates due dates in loc.
func NewGenerator(st store.Store, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{store: st, loc: loc}
}

// PromoteDue creates one periodic request for every PENDING schedule dated
// on or before now. Each schedule is promoted in its own transaction; a
// schedule that another run promoted first is silently left alone, and a
// schedule that fails for any other reason is reported in Skipped.
// The batch stops early only when ctx is cancelled.
func (g *Generator) PromoteDue(ctx context.Context, now time.Time) (*Promotion, error) {
	day := now.In(g.loc).Format(DateLayout)
	due, err := g.store.ListDueSchedules(ctx, day)
	if err != nil {
		return nil, err
	}

	result := &Promotion{Created: []model.MaintenanceRequest{}, Skipped: []Skip{}}
	for _, sched := range due {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		req, err := g.promote(ctx, sched, day, now)
		switch {
		case err == nil:
			result.Created = append(result.Created, *req)
		case apperr.Is(err, apperr.KindConflict):
			log.WithField("schedule_id", sched.ID).Debug("schedule already promoted by a concurrent run")
		default:
			log.WithError(err).WithFields(log.Fields{
				"schedule_id": sched.ID,
				"device_id":   sched.DeviceID,
			}).Warn("skipping due schedule")
			result.Skipped = append(result.Skipped, Skip{
				ScheduleID: sched.ID,
				DeviceID:   sched.DeviceID,
				Kind:       apperr.GetKind(err).String(),
				Reason:     err.Error(),
			})
		}
	}

	log.WithFields(log.Fields{
		"day":     day,
		"due":     len(due),
		"created": len(result.Created),
		"skipped": len(result.Skipped),
	}).Info("due schedule promotion finished")
	return result, nil
}

func (g *Generator) promote(ctx context.Context, sched model.MaintenanceSchedule, day string, now time.Time) (*model.MaintenanceRequest, error) {
	if err := workflow.CheckSchedule(sched.Status, model.ScheduleRequestCreated); err != nil {
		return nil, err
	}

	var created *model.MaintenanceRequest
	err := g.store.Tx(ctx, func(tx store.Store) error {
		device, err := tx.GetDevice(ctx, sched.DeviceID)
		if err != nil {
			return err
		}

		// A schedule promoted late targets the day it was promoted.
		target := sched.ScheduledDate
		if target < day {
			target = day
		}
		scheduleID := sched.ID
		req := &model.MaintenanceRequest{
			DeviceID:   device.ID,
			Priority:   model.PriorityMedium,
			Kind:       model.KindPeriodic,
			Status:     model.RequestAwaitingAssignment,
			Stage:      model.StageNone,
			Location:   device.Location,
			Note:       sched.Note,
			TargetDate: target,
			ScheduleID: &scheduleID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.CreateRequest(ctx, req); err != nil {
			return err
		}
		if err := tx.MarkScheduleRequestCreated(ctx, sched.ID, req.ID); err != nil {
			return err
		}
		created = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
