// Package approval governs the approval of maintenance plans.
package approval

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/model"
	"maintenance-orchestrator/internal/store"
	"maintenance-orchestrator/internal/workflow"
)

// Draft is the content of a new plan revision.
type Draft struct {
	Solution      string
	UsesMaterials bool
	Note          string
	Tasks         []string
}

// Gate submits, approves and rejects plan revisions. Every decision is
// committed in one transaction with the matching request transition.
type Gate struct {
	store   store.Store
	machine *workflow.Machine
	now     func() time.Time
}

// NewGate creates an approval gate.
func NewGate(st store.Store, machine *workflow.Machine) *Gate {
	return &Gate{store: st, machine: machine, now: time.Now}
}

// WithClock replaces the clock used to stamp submissions and decisions.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	if now != nil {
		g.now = now
	}
	return g
}

// Submit records the next plan revision for a surveyed request (or one whose
// previous plan was rejected) and puts it up for approval.
func (g *Gate) Submit(ctx context.Context, requestID, actor int64, d Draft) (*model.MaintenancePlan, error) {
	if strings.TrimSpace(d.Solution) == "" {
		return nil, apperr.Validation("plan solution is required")
	}
	if len(d.Tasks) == 0 {
		return nil, apperr.Validation("plan needs at least one execution task")
	}

	var plan *model.MaintenancePlan
	err := g.store.Tx(ctx, func(tx store.Store) error {
		req, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}

		revision := 1
		prev, err := tx.LatestPlan(ctx, requestID)
		switch {
		case err == nil:
			revision = prev.Revision + 1
		case !apperr.Is(err, apperr.KindNotFound):
			return err
		}

		plan = &model.MaintenancePlan{
			Revision:      revision,
			Solution:      d.Solution,
			UsesMaterials: d.UsesMaterials,
			CreatedBy:     actor,
			Note:          d.Note,
			Status:        model.PlanDraft,
		}
		for i, title := range d.Tasks {
			plan.Tasks = append(plan.Tasks, model.ExecutionTask{Seq: i + 1, Title: title})
		}

		if _, err := g.machine.Apply(ctx, tx, req, workflow.Command{
			Event: workflow.EventSubmitPlan,
			Actor: actor,
			At:    g.now(),
			Plan:  plan,
		}); err != nil {
			return err
		}

		if err := workflow.CheckPlan(plan.Status, model.PlanPendingApproval, workflow.EventSubmitPlan); err != nil {
			return err
		}
		if err := tx.SetPlanStatus(ctx, plan.ID, model.PlanDraft, model.PlanPendingApproval, nil, time.Time{}); err != nil {
			return err
		}
		plan.Status = model.PlanPendingApproval
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"request_id": requestID,
		"plan_id":    plan.ID,
		"revision":   plan.Revision,
	}).Info("plan submitted for approval")
	return plan, nil
}

// Approve accepts a plan awaiting approval; the request becomes ready for execution.
func (g *Gate) Approve(ctx context.Context, planID, actor int64) (*model.MaintenancePlan, error) {
	return g.decide(ctx, planID, actor, model.PlanApproved, workflow.Command{
		Event: workflow.EventApprovePlan,
	})
}

// Reject turns a plan awaiting approval down. The request stays in
// maintenance and waits for a new revision.
func (g *Gate) Reject(ctx context.Context, planID, actor int64, reason, note string) (*model.MaintenancePlan, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperr.Validation("a rejection reason is required")
	}
	return g.decide(ctx, planID, actor, model.PlanRejected, workflow.Command{
		Event:     workflow.EventRejectPlan,
		Rejection: &workflow.Rejection{SubjectID: planID, Reason: reason, Note: note},
	})
}

func (g *Gate) decide(ctx context.Context, planID, actor int64, to model.PlanStatus, cmd workflow.Command) (*model.MaintenancePlan, error) {
	at := g.now()
	cmd.Actor = actor
	cmd.At = at

	var plan *model.MaintenancePlan
	err := g.store.Tx(ctx, func(tx store.Store) error {
		var err error
		plan, err = tx.GetPlan(ctx, planID)
		if err != nil {
			return err
		}
		if err := workflow.CheckPlan(plan.Status, to, cmd.Event); err != nil {
			return err
		}
		req, err := tx.GetRequest(ctx, plan.RequestID)
		if err != nil {
			return err
		}

		if err := tx.SetPlanStatus(ctx, plan.ID, plan.Status, to, &actor, at); err != nil {
			return err
		}
		if _, err := g.machine.Apply(ctx, tx, req, cmd); err != nil {
			return err
		}

		plan.Status = to
		plan.DecidedBy = &actor
		plan.DecidedAt = &at
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"plan_id":    plan.ID,
		"request_id": plan.RequestID,
		"status":     plan.Status,
		"actor":      actor,
	}).Info("plan decided")
	return plan, nil
}
