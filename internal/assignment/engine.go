// Package assignment selects technicians for maintenance requests and
// commits the assignment together with the availability slot it consumes.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/model"
	"maintenance-orchestrator/internal/store"
	"maintenance-orchestrator/internal/workflow"
)

const dateLayout = "2006-01-02"

var errSlotTaken = errors.New("availability slot already claimed")

// Options tunes the engine.
type Options struct {
	// Location is the timezone calendar dates are evaluated in.
	Location *time.Location
	// LookaheadDays bounds the nearest-date search for requests without a target date.
	LookaheadDays int
	Now           func() time.Time
}

// Skipped is a request assignAllPending could not assign.
type Skipped struct {
	RequestID int64  `json:"requestId"`
	Kind      string `json:"kind"`
	Reason    string `json:"reason"`
}

// Result summarises a batch assignment run.
type Result struct {
	Assigned []model.Assignment `json:"assigned"`
	Skipped  []Skipped          `json:"skipped"`
}

// Engine is the auto-assignment engine.
type Engine struct {
	store   store.Store
	machine *workflow.Machine
	opts    Options
}

// NewEngine creates an engine over the given ledger.
func NewEngine(st store.Store, machine *workflow.Machine, opts Options) *Engine {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.LookaheadDays <= 0 {
		opts.LookaheadDays = 14
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{store: st, machine: machine, opts: opts}
}

// AssignOne proposes the best eligible technician for a request that is
// awaiting assignment. The chosen slot becomes BUSY and the request moves to
// DANG_PHAN_CONG in one transaction. When another caller claims a candidate
// slot first, the next candidate is tried.
func (e *Engine) AssignOne(ctx context.Context, requestID, actor int64) (*model.Assignment, error) {
	req, err := e.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if _, err := workflow.Next(workflow.StateOf(req), workflow.EventProposeAssignment); err != nil {
		return nil, err
	}

	required, err := e.requiredSkills(ctx, req)
	if err != nil {
		return nil, err
	}

	from, to := e.window(req)
	slots, err := e.store.ListSlots(ctx, from, to)
	if err != nil {
		return nil, err
	}
	counts, err := e.store.CountActiveAssignments(ctx)
	if err != nil {
		return nil, err
	}

	candidates := Eligible(slots, required)
	if from != to {
		candidates = NearestDate(candidates)
	}
	Rank(candidates, counts)
	if len(candidates) == 0 {
		return nil, apperr.NoEligibleTechnician(req.ID, noCandidateReason(from, to, required))
	}

	for _, slot := range candidates {
		a, err := e.claim(ctx, req, slot, actor)
		if errors.Is(err, errSlotTaken) {
			log.WithFields(log.Fields{
				"request_id": req.ID,
				"slot_id":    slot.ID,
			}).Debug("candidate slot claimed concurrently; trying next")
			continue
		}
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"request_id":    req.ID,
			"technician_id": a.TechnicianID,
			"slot_id":       a.AvailabilityID,
			"work_date":     slot.WorkDate,
		}).Info("technician assigned")
		return a, nil
	}
	return nil, apperr.Conflict("every eligible slot for request %d was claimed concurrently", req.ID)
}

func (e *Engine) claim(ctx context.Context, req *model.MaintenanceRequest, slot model.TechnicianAvailability, actor int64) (*model.Assignment, error) {
	a := &model.Assignment{
		TechnicianID:   slot.TechnicianID,
		AvailabilityID: slot.ID,
		AssignedBy:     actor,
		AssignedAt:     e.opts.Now(),
	}
	err := e.store.Tx(ctx, func(tx store.Store) error {
		if err := tx.SetSlotStatus(ctx, slot.ID, model.SlotAvailable, model.SlotBusy); err != nil {
			if apperr.Is(err, apperr.KindConflict) {
				return errSlotTaken
			}
			return err
		}
		_, err := e.machine.Apply(ctx, tx, req, workflow.Command{
			Event:      workflow.EventProposeAssignment,
			Actor:      actor,
			At:         a.AssignedAt,
			Assignment: a,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// AssignAllPending runs AssignOne over every request awaiting assignment,
// oldest first. A failed request is recorded and the batch moves on; it only
// stops early when ctx is cancelled, and every assignment made before that
// stays committed.
func (e *Engine) AssignAllPending(ctx context.Context, actor int64) (*Result, error) {
	ids, err := e.store.ListRequestIDsByStatus(ctx, model.RequestAwaitingAssignment)
	if err != nil {
		return nil, err
	}

	result := &Result{Assigned: []model.Assignment{}, Skipped: []Skipped{}}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		a, err := e.AssignOne(ctx, id, actor)
		if err != nil {
			log.WithError(err).WithField("request_id", id).Warn("request not assigned")
			result.Skipped = append(result.Skipped, Skipped{
				RequestID: id,
				Kind:      apperr.GetKind(err).String(),
				Reason:    err.Error(),
			})
			continue
		}
		result.Assigned = append(result.Assigned, *a)
	}

	log.WithFields(log.Fields{
		"pending":  len(ids),
		"assigned": len(result.Assigned),
		"skipped":  len(result.Skipped),
	}).Info("auto-assignment finished")
	return result, nil
}

func (e *Engine) requiredSkills(ctx context.Context, req *model.MaintenanceRequest) ([]string, error) {
	if req.IssueID == nil {
		return nil, nil
	}
	issue, err := e.store.GetIssue(ctx, *req.IssueID)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(issue.Skills))
	for _, s := range issue.Skills {
		codes = append(codes, s.Code)
	}
	return codes, nil
}

// window returns the inclusive date range to search: the target date alone,
// or today through the lookahead horizon.
func (e *Engine) window(req *model.MaintenanceRequest) (string, string) {
	if req.TargetDate != "" {
		return req.TargetDate, req.TargetDate
	}
	today := e.opts.Now().In(e.opts.Location)
	return today.Format(dateLayout), today.AddDate(0, 0, e.opts.LookaheadDays).Format(dateLayout)
}

func noCandidateReason(from, to string, required []string) string {
	when := "on " + from
	if from != to {
		when = fmt.Sprintf("between %s and %s", from, to)
	}
	if len(required) == 0 {
		return "no active technician has an available slot " + when
	}
	return fmt.Sprintf("no active technician with skills [%s] has an available slot %s",
		strings.Join(required, ","), when)
}
