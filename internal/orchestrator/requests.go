package orchestrator

import (
	"context"
	"time"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/model"
	"maintenance-orchestrator/internal/notification"
	"maintenance-orchestrator/internal/store"
	"maintenance-orchestrator/internal/workflow"
)

// RequestDetail is a request together with everything recorded against it.
type RequestDetail struct {
	Request       *model.MaintenanceRequest `json:"request"`
	Assignment    *model.Assignment         `json:"assignment,omitempty"`
	Survey        *model.Survey             `json:"survey,omitempty"`
	Plan          *model.MaintenancePlan    `json:"plan,omitempty"`
	Rejections    []model.RejectionRecord   `json:"rejections"`
	AllowedEvents []workflow.Event          `json:"allowedEvents"`
}

// CreateInternalRequest raises a new request awaiting assignment.
func (o *Orchestrator) CreateInternalRequest(ctx context.Context, actor int64, in CreateRequestInput) (*model.MaintenanceRequest, error) {
	if err := o.check(in); err != nil {
		return nil, err
	}

	device, err := o.store.GetDevice(ctx, in.DeviceID)
	if err != nil {
		return nil, err
	}
	if in.IssueID != nil {
		if _, err := o.store.GetIssue(ctx, *in.IssueID); err != nil {
			return nil, err
		}
	}
	if err := o.checkCreator(ctx, in); err != nil {
		return nil, err
	}

	location := in.Location
	if location == "" {
		location = device.Location
	}
	attachments := in.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	req := &model.MaintenanceRequest{
		DeviceID:            device.ID,
		IssueID:             in.IssueID,
		CreatedByEmployeeID: in.CreatedByEmployeeID,
		CreatedByCustomerID: in.CreatedByCustomerID,
		Priority:            in.Priority,
		Kind:                in.Kind,
		Status:              model.RequestAwaitingAssignment,
		Stage:               model.StageNone,
		Location:            location,
		Attachments:         attachments,
		Note:                in.Note,
		TargetDate:          in.TargetDate,
		CreatedBy:           actor,
		UpdatedBy:           actor,
	}
	if err := o.store.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	o.notify(notification.Notice{
		Event:     "CREATE_REQUEST",
		RequestID: req.ID,
		Actor:     actor,
		Title:     "Yêu cầu bảo trì mới",
		Body:      "request created for device " + device.Code,
	})
	return req, nil
}

func (o *Orchestrator) checkCreator(ctx context.Context, in CreateRequestInput) error {
	if in.CreatedByEmployeeID != nil {
		ok, err := o.store.EmployeeExists(ctx, *in.CreatedByEmployeeID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("employee %d not found", *in.CreatedByEmployeeID)
		}
		return nil
	}
	ok, err := o.store.CustomerExists(ctx, *in.CreatedByCustomerID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("customer %d not found", *in.CreatedByCustomerID)
	}
	return nil
}

// GetRequest loads a request with its live assignment, survey, latest plan
// and rejection history.
func (o *Orchestrator) GetRequest(ctx context.Context, requestID int64) (*RequestDetail, error) {
	req, err := o.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	detail := &RequestDetail{
		Request:       req,
		AllowedEvents: workflow.Allowed(workflow.StateOf(req)),
	}

	assignment, err := o.store.ActiveAssignment(ctx, requestID)
	if detail.Assignment, err = optional(assignment, err); err != nil {
		return nil, err
	}
	survey, err := o.store.GetSurvey(ctx, requestID)
	if detail.Survey, err = optional(survey, err); err != nil {
		return nil, err
	}
	plan, err := o.store.LatestPlan(ctx, requestID)
	if detail.Plan, err = optional(plan, err); err != nil {
		return nil, err
	}
	if detail.Rejections, err = o.store.ListRequestRejections(ctx, requestID); err != nil {
		return nil, err
	}
	if detail.AllowedEvents == nil {
		detail.AllowedEvents = []workflow.Event{}
	}
	return detail, nil
}

// optional turns a NotFound result into a nil value.
func optional[T any](v *T, err error) (*T, error) {
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, nil
	}
	return v, err
}

// ListRejections returns the rejection history of one subject.
func (o *Orchestrator) ListRejections(ctx context.Context, subject model.SubjectType, subjectID int64) ([]model.RejectionRecord, error) {
	switch subject {
	case model.SubjectAssignment, model.SubjectPlan, model.SubjectAcceptance:
	default:
		return nil, apperr.Validation("unknown rejection subject %q", subject)
	}
	return o.store.ListRejections(ctx, subject, subjectID)
}

// ListRequestRejections returns every rejection recorded against a request.
func (o *Orchestrator) ListRequestRejections(ctx context.Context, requestID int64) ([]model.RejectionRecord, error) {
	if _, err := o.store.GetRequest(ctx, requestID); err != nil {
		return nil, err
	}
	return o.store.ListRequestRejections(ctx, requestID)
}

// CancelRequest moves a non-terminal request to HUY. A live assignment is
// released and its slot returned to AVAILABLE in the same transaction.
func (o *Orchestrator) CancelRequest(ctx context.Context, requestID, actor int64) (*model.MaintenanceRequest, error) {
	var (
		out        *model.MaintenanceRequest
		technician int64
	)
	err := o.store.Tx(ctx, func(tx store.Store) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		at := o.now()
		if out, err = o.machine.Apply(ctx, tx, req, workflow.Command{Event: workflow.EventCancel, Actor: actor, At: at}); err != nil {
			return err
		}
		if err := withdrawPendingPlan(ctx, tx, requestID, actor, at); err != nil {
			return err
		}

		a, err := tx.ActiveAssignment(ctx, requestID)
		if a, err = optional(a, err); err != nil || a == nil {
			return err
		}
		technician = a.TechnicianID
		return releaseAssignment(ctx, tx, a, at)
	})
	if err != nil {
		return nil, err
	}

	o.notify(requestNotice(workflow.EventCancel, requestID, technician, actor,
		"Yêu cầu đã huỷ", "request %d cancelled", requestID))
	return out, nil
}

// withdrawPendingPlan decides a plan still awaiting approval as REJECTED so
// that a cancelled request leaves nothing in the approval queue. No rejection
// record is written: the cancellation itself is the reason.
func withdrawPendingPlan(ctx context.Context, tx store.Store, requestID, actor int64, at time.Time) error {
	plan, err := tx.LatestPlan(ctx, requestID)
	if plan, err = optional(plan, err); err != nil || plan == nil {
		return err
	}
	if plan.Status != model.PlanPendingApproval {
		return nil
	}
	if err := workflow.CheckPlan(plan.Status, model.PlanRejected, workflow.EventCancel); err != nil {
		return err
	}
	return tx.SetPlanStatus(ctx, plan.ID, plan.Status, model.PlanRejected, &actor, at)
}

// releaseAssignment deactivates a and frees the slot it consumed.
func releaseAssignment(ctx context.Context, tx store.Store, a *model.Assignment, at time.Time) error {
	if err := tx.ReleaseAssignment(ctx, a.ID, at); err != nil {
		return err
	}
	return tx.SetSlotStatus(ctx, a.AvailabilityID, model.SlotBusy, model.SlotAvailable)
}
