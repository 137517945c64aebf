package orchestrator

import (
	"context"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/approval"
	"maintenance-orchestrator/internal/model"
	"maintenance-orchestrator/internal/store"
	"maintenance-orchestrator/internal/workflow"
)

// ConfirmAssignment records the technician's acceptance of a proposed assignment.
func (o *Orchestrator) ConfirmAssignment(ctx context.Context, requestID, actor int64) (*model.Assignment, error) {
	var a *model.Assignment
	err := o.store.Tx(ctx, func(tx store.Store) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if _, err := workflow.Next(workflow.StateOf(req), workflow.EventConfirmAssignment); err != nil {
			return err
		}
		if a, err = tx.ActiveAssignment(ctx, requestID); err != nil {
			return err
		}

		at := o.now()
		if _, err := o.machine.Apply(ctx, tx, req, workflow.Command{Event: workflow.EventConfirmAssignment, Actor: actor, At: at}); err != nil {
			return err
		}
		if err := tx.ConfirmAssignment(ctx, a.ID, at); err != nil {
			return err
		}
		a.ConfirmedAt = &at
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.notify(requestNotice(workflow.EventConfirmAssignment, requestID, 0, actor,
		"Đã xác nhận phân công", "technician %d confirmed request %d", a.TechnicianID, requestID))
	return a, nil
}

// RejectAssignment re-opens a proposed or confirmed assignment: the request
// goes back to CHO_PHAN_CONG, the assignment is deactivated and its slot is
// released, all in one transaction.
func (o *Orchestrator) RejectAssignment(ctx context.Context, requestID, actor int64, in RejectInput) (*model.MaintenanceRequest, error) {
	if err := o.check(in); err != nil {
		return nil, err
	}

	var (
		out *model.MaintenanceRequest
		a   *model.Assignment
	)
	err := o.store.Tx(ctx, func(tx store.Store) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if _, err := workflow.Next(workflow.StateOf(req), workflow.EventRejectAssignment); err != nil {
			return err
		}
		if a, err = tx.ActiveAssignment(ctx, requestID); err != nil {
			return err
		}

		at := o.now()
		out, err = o.machine.Apply(ctx, tx, req, workflow.Command{
			Event:     workflow.EventRejectAssignment,
			Actor:     actor,
			At:        at,
			Rejection: &workflow.Rejection{SubjectID: a.ID, Reason: in.Reason, Note: in.Note},
		})
		if err != nil {
			return err
		}
		return releaseAssignment(ctx, tx, a, at)
	})
	if err != nil {
		return nil, err
	}

	o.notify(requestNotice(workflow.EventRejectAssignment, requestID, a.TechnicianID, actor,
		"Phân công bị từ chối", "assignment of request %d rejected: %s", requestID, in.Reason))
	return out, nil
}

// StartMaintenance moves a confirmed request into maintenance, awaiting survey.
func (o *Orchestrator) StartMaintenance(ctx context.Context, requestID, actor int64) (*model.MaintenanceRequest, error) {
	out, err := o.apply(ctx, requestID, workflow.Command{Event: workflow.EventStartMaintenance, Actor: actor})
	if err != nil {
		return nil, err
	}
	o.notify(requestNotice(workflow.EventStartMaintenance, requestID, 0, actor,
		"Bắt đầu bảo trì", "maintenance started on request %d", requestID))
	return out, nil
}

// SubmitSurvey records the inspection result and advances the request to DA_KHAO_SAT.
func (o *Orchestrator) SubmitSurvey(ctx context.Context, requestID, actor int64, in SurveyInput) (*model.Survey, error) {
	if err := o.check(in); err != nil {
		return nil, err
	}

	survey := &model.Survey{
		TechnicianID: in.TechnicianID,
		SurveyDate:   in.SurveyDate,
		Cause:        in.Cause,
		DamageLevel:  in.DamageLevel,
		ActualKind:   in.ActualKind,
		Description:  in.Description,
		Attachments:  in.Attachments,
	}
	if survey.Attachments == nil {
		survey.Attachments = []string{}
	}

	err := o.store.Tx(ctx, func(tx store.Store) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if survey.TechnicianID == 0 {
			a, err := tx.ActiveAssignment(ctx, requestID)
			if err != nil {
				return err
			}
			survey.TechnicianID = a.TechnicianID
		} else if _, err := tx.GetTechnician(ctx, survey.TechnicianID); err != nil {
			return err
		}

		_, err = o.machine.Apply(ctx, tx, req, workflow.Command{
			Event:  workflow.EventSubmitSurvey,
			Actor:  actor,
			At:     o.now(),
			Survey: survey,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	o.notify(requestNotice(workflow.EventSubmitSurvey, requestID, 0, actor,
		"Đã khảo sát", "survey recorded for request %d (damage %s)", requestID, survey.DamageLevel))
	return survey, nil
}

// SubmitPlan records the next plan revision and puts it up for approval.
func (o *Orchestrator) SubmitPlan(ctx context.Context, requestID, actor int64, in PlanInput) (*model.MaintenancePlan, error) {
	if err := o.check(in); err != nil {
		return nil, err
	}
	plan, err := o.gate.Submit(ctx, requestID, actor, approval.Draft{
		Solution:      in.Solution,
		UsesMaterials: in.UsesMaterials,
		Note:          in.Note,
		Tasks:         in.Tasks,
	})
	if err != nil {
		return nil, err
	}
	o.notify(requestNotice(workflow.EventSubmitPlan, requestID, 0, actor,
		"Kế hoạch chờ phê duyệt", "plan revision %d of request %d awaits approval", plan.Revision, requestID))
	return plan, nil
}

// ApprovePlan approves a plan awaiting approval.
func (o *Orchestrator) ApprovePlan(ctx context.Context, planID, actor int64) (*model.MaintenancePlan, error) {
	plan, err := o.gate.Approve(ctx, planID, actor)
	if err != nil {
		return nil, err
	}
	o.notify(requestNotice(workflow.EventApprovePlan, plan.RequestID, o.assignedTechnician(ctx, plan.RequestID), actor,
		"Kế hoạch đã được duyệt", "plan revision %d of request %d approved", plan.Revision, plan.RequestID))
	return plan, nil
}

// RejectPlan rejects a plan awaiting approval; the request waits for a new revision.
func (o *Orchestrator) RejectPlan(ctx context.Context, planID, actor int64, in RejectInput) (*model.MaintenancePlan, error) {
	if err := o.check(in); err != nil {
		return nil, err
	}
	plan, err := o.gate.Reject(ctx, planID, actor, in.Reason, in.Note)
	if err != nil {
		return nil, err
	}
	o.notify(requestNotice(workflow.EventRejectPlan, plan.RequestID, o.assignedTechnician(ctx, plan.RequestID), actor,
		"Kế hoạch bị từ chối", "plan revision %d of request %d rejected: %s", plan.Revision, plan.RequestID, in.Reason))
	return plan, nil
}

// UpdateExecutionTask changes one task of the approved plan. The first
// update starts execution; completing the last open task hands the request
// over for acceptance.
func (o *Orchestrator) UpdateExecutionTask(ctx context.Context, taskID, actor int64, in TaskUpdateInput) (*model.ExecutionTask, error) {
	if err := o.check(in); err != nil {
		return nil, err
	}
	if in.Done == nil && in.Note == nil && in.Attachments == nil {
		return nil, apperr.Validation("nothing to update")
	}

	var (
		task     *model.ExecutionTask
		finished bool
	)
	err := o.store.Tx(ctx, func(tx store.Store) error {
		var err error
		if task, err = tx.GetTask(ctx, taskID); err != nil {
			return err
		}
		// Concurrent updates to tasks of one plan queue on the plan row, so
		// the last one to finish sees every other task done.
		plan, err := tx.LockPlan(ctx, task.PlanID)
		if err != nil {
			return err
		}
		if task, err = tx.GetTask(ctx, taskID); err != nil {
			return err
		}
		if plan.Status != model.PlanApproved {
			return taskNotEditable("plan", string(plan.Status), "")
		}
		req, err := tx.GetRequest(ctx, task.RequestID)
		if err != nil {
			return err
		}

		at := o.now()
		switch req.Stage {
		case model.StagePlanApproved:
			if req, err = o.machine.Apply(ctx, tx, req, workflow.Command{Event: workflow.EventStartExecution, Actor: actor, At: at}); err != nil {
				return err
			}
		case model.StageExecuting:
		default:
			return taskNotEditable("task", string(req.Status), string(req.Stage))
		}

		if in.Done != nil {
			task.Done = *in.Done
			task.CompletedAt = nil
			if task.Done {
				task.CompletedAt = &at
			}
		}
		if in.Note != nil {
			task.Note = *in.Note
		}
		if in.Attachments != nil {
			task.Attachments = in.Attachments
		}
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}

		open, err := tx.CountOpenTasks(ctx, plan.ID)
		if err != nil || open > 0 {
			return err
		}
		_, err = o.machine.Apply(ctx, tx, req, workflow.Command{Event: workflow.EventCompleteExecution, Actor: actor, At: at})
		finished = err == nil
		return err
	})
	if err != nil {
		return nil, err
	}

	if finished {
		o.notify(requestNotice(workflow.EventCompleteExecution, task.RequestID, 0, actor,
			"Chờ nghiệm thu", "every task of request %d is done; awaiting acceptance", task.RequestID))
	}
	return task, nil
}

func taskNotEditable(entity, state, stage string) error {
	return apperr.InvalidTransition(apperr.TransitionDetails{
		Entity: entity,
		State:  state,
		Stage:  stage,
		Event:  "UPDATE_TASK",
	})
}

// AcceptRequest signs off a finished request. A request spawned by a
// schedule completes that schedule too.
func (o *Orchestrator) AcceptRequest(ctx context.Context, requestID, actor int64) (*model.MaintenanceRequest, error) {
	var out *model.MaintenanceRequest
	err := o.store.Tx(ctx, func(tx store.Store) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if out, err = o.machine.Apply(ctx, tx, req, workflow.Command{Event: workflow.EventAccept, Actor: actor, At: o.now()}); err != nil {
			return err
		}
		if req.ScheduleID == nil {
			return nil
		}

		sched, err := tx.GetSchedule(ctx, *req.ScheduleID)
		if err != nil {
			return err
		}
		if err := workflow.CheckSchedule(sched.Status, model.ScheduleCompleted); err != nil {
			return err
		}
		return tx.CompleteSchedule(ctx, sched.ID)
	})
	if err != nil {
		return nil, err
	}

	o.notify(requestNotice(workflow.EventAccept, requestID, o.assignedTechnician(ctx, requestID), actor,
		"Đã nghiệm thu", "request %d accepted and completed", requestID))
	return out, nil
}

// RejectAcceptance sends a request back to execution and re-opens every task
// of its plan. Task notes and attachments are kept.
func (o *Orchestrator) RejectAcceptance(ctx context.Context, requestID, actor int64, in RejectInput) (*model.MaintenanceRequest, error) {
	if err := o.check(in); err != nil {
		return nil, err
	}

	var out *model.MaintenanceRequest
	err := o.store.Tx(ctx, func(tx store.Store) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if _, err := workflow.Next(workflow.StateOf(req), workflow.EventRejectAcceptance); err != nil {
			return err
		}
		plan, err := tx.LatestPlan(ctx, requestID)
		if err != nil {
			return err
		}

		out, err = o.machine.Apply(ctx, tx, req, workflow.Command{
			Event:     workflow.EventRejectAcceptance,
			Actor:     actor,
			At:        o.now(),
			Rejection: &workflow.Rejection{SubjectID: requestID, Reason: in.Reason, Note: in.Note},
		})
		if err != nil {
			return err
		}
		return tx.ReopenTasks(ctx, plan.ID)
	})
	if err != nil {
		return nil, err
	}

	o.notify(requestNotice(workflow.EventRejectAcceptance, requestID, o.assignedTechnician(ctx, requestID), actor,
		"Nghiệm thu không đạt", "acceptance of request %d rejected: %s", requestID, in.Reason))
	return out, nil
}

// apply runs a payload-free event against a request in its own transaction.
func (o *Orchestrator) apply(ctx context.Context, requestID int64, cmd workflow.Command) (*model.MaintenanceRequest, error) {
	var out *model.MaintenanceRequest
	err := o.store.Tx(ctx, func(tx store.Store) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if cmd.At.IsZero() {
			cmd.At = o.now()
		}
		out, err = o.machine.Apply(ctx, tx, req, cmd)
		return err
	})
	return out, err
}

// assignedTechnician returns the technician holding the request, or 0.
func (o *Orchestrator) assignedTechnician(ctx context.Context, requestID int64) int64 {
	a, err := o.store.ActiveAssignment(ctx, requestID)
	if err != nil {
		return 0
	}
	return a.TechnicianID
}
