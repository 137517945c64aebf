package orchestrator

import (
	"context"

	"maintenance-orchestrator/internal/assignment"
	"maintenance-orchestrator/internal/model"
	"maintenance-orchestrator/internal/notification"
	"maintenance-orchestrator/internal/parse"
	"maintenance-orchestrator/internal/scheduler"
	"maintenance-orchestrator/internal/workflow"
)

// systemActor is recorded as the actor of batch jobs.
const systemActor int64 = 0

// GenerateDueRequests promotes every due schedule using the server clock.
func (o *Orchestrator) GenerateDueRequests(ctx context.Context) (*scheduler.Promotion, error) {
	res, err := o.generator.PromoteDue(ctx, o.now())
	if res != nil {
		for _, req := range res.Created {
			o.notify(notification.Notice{
				Event:     "PROMOTE_SCHEDULE",
				RequestID: req.ID,
				Title:     "Bảo trì định kỳ",
				Body:      "periodic request created from schedule",
			})
		}
	}
	return res, err
}

// AutoAssignAll assigns every request awaiting assignment that has an
// eligible technician.
func (o *Orchestrator) AutoAssignAll(ctx context.Context) (*assignment.Result, error) {
	res, err := o.engine.AssignAllPending(ctx, systemActor)
	if res != nil {
		for _, a := range res.Assigned {
			o.notifyAssigned(ctx, a, systemActor)
		}
	}
	return res, err
}

// AssignOne assigns a single request.
func (o *Orchestrator) AssignOne(ctx context.Context, requestID, actor int64) (*model.Assignment, error) {
	a, err := o.engine.AssignOne(ctx, requestID, actor)
	if err != nil {
		return nil, err
	}
	o.notifyAssigned(ctx, *a, actor)
	return a, nil
}

func (o *Orchestrator) notifyAssigned(ctx context.Context, a model.Assignment, actor int64) {
	when := ""
	if slot, err := o.store.GetSlot(ctx, a.AvailabilityID); err == nil {
		when = " on " + slot.WorkDate + " " + parse.FormatClock(slot.StartMinute) + "-" + parse.FormatClock(slot.EndMinute)
	}
	o.notify(requestNotice(workflow.EventProposeAssignment, a.RequestID, a.TechnicianID, actor,
		"Phân công mới", "request %d assigned to you%s", a.RequestID, when))
}
