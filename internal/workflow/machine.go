package workflow

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/model"
	"maintenance-orchestrator/internal/store"
)

// Rejection carries the reason for a backward transition.
type Rejection struct {
	SubjectID int64
	Reason    string
	Note      string
}

// Command is one event plus the payload its side effect needs.
// Forward events that create a sub-object carry exactly that object;
// rejection events carry a Rejection; all other events carry nothing.
type Command struct {
	Event      Event
	Actor      int64
	At         time.Time
	Assignment *model.Assignment
	Survey     *model.Survey
	Plan       *model.MaintenancePlan
	Rejection  *Rejection
}

// Machine commits request transitions against the ledger.
type Machine struct {
	now func() time.Time
}

// NewMachine creates a machine that stamps transitions with the wall clock.
func NewMachine() *Machine {
	return &Machine{now: time.Now}
}

// Apply moves req through cmd.Event and writes the event's side effect.
// It must run inside st's transaction so that a failed side effect rolls
// the status change back. req is not modified; the updated copy is returned.
func (m *Machine) Apply(ctx context.Context, st store.Store, req *model.MaintenanceRequest, cmd Command) (*model.MaintenanceRequest, error) {
	next, err := Transition(req, cmd.Event)
	if err != nil {
		return nil, err
	}
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	at := cmd.At
	if at.IsZero() {
		at = m.now()
	}

	from := store.StateChange{Status: req.Status, Stage: req.Stage}
	to := store.StateChange{Status: next.Status, Stage: next.Stage, Actor: cmd.Actor, At: at}
	if err := st.TransitionRequest(ctx, req.ID, from, to); err != nil {
		return nil, err
	}
	next.UpdatedBy = cmd.Actor
	switch next.Status {
	case model.RequestCompleted:
		next.CompletedAt = &at
	case model.RequestCancelled:
		next.CancelledAt = &at
	}

	if err := m.writeSideEffect(ctx, st, req, cmd, at); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"request_id": req.ID,
		"event":      cmd.Event,
		"from":       formatState(StateOf(req)),
		"to":         formatState(StateOf(next)),
		"actor":      cmd.Actor,
	}).Debug("request transition committed")
	return next, nil
}

func (m *Machine) writeSideEffect(ctx context.Context, st store.Store, req *model.MaintenanceRequest, cmd Command, at time.Time) error {
	if subject, ok := RejectionSubject(cmd.Event); ok {
		return st.AppendRejection(ctx, &model.RejectionRecord{
			RequestID:   req.ID,
			SubjectType: subject,
			SubjectID:   cmd.Rejection.SubjectID,
			Reason:      strings.TrimSpace(cmd.Rejection.Reason),
			Note:        cmd.Rejection.Note,
			RejectedBy:  cmd.Actor,
			RejectedAt:  at,
		})
	}

	switch cmd.Event {
	case EventProposeAssignment:
		cmd.Assignment.RequestID = req.ID
		cmd.Assignment.Active = true
		if cmd.Assignment.AssignedAt.IsZero() {
			cmd.Assignment.AssignedAt = at
		}
		return st.CreateAssignment(ctx, cmd.Assignment)
	case EventSubmitSurvey:
		cmd.Survey.RequestID = req.ID
		return st.CreateSurvey(ctx, cmd.Survey)
	case EventSubmitPlan:
		cmd.Plan.RequestID = req.ID
		for i := range cmd.Plan.Tasks {
			cmd.Plan.Tasks[i].RequestID = req.ID
		}
		return st.CreatePlan(ctx, cmd.Plan)
	}
	return nil
}

// validate checks that the command carries exactly the payload its event needs.
func (c Command) validate() error {
	var want string
	switch c.Event {
	case EventProposeAssignment:
		want = "assignment"
	case EventSubmitSurvey:
		want = "survey"
	case EventSubmitPlan:
		want = "plan"
	case EventRejectAssignment, EventRejectPlan, EventRejectAcceptance:
		want = "rejection"
	}

	have := map[string]bool{
		"assignment": c.Assignment != nil,
		"survey":     c.Survey != nil,
		"plan":       c.Plan != nil,
		"rejection":  c.Rejection != nil,
	}
	for name, present := range have {
		if present && name != want {
			return apperr.Validation("event %s does not accept a %s", c.Event, name)
		}
	}
	if want != "" && !have[want] {
		return apperr.Validation("event %s requires a %s", c.Event, want)
	}
	if want == "rejection" && strings.TrimSpace(c.Rejection.Reason) == "" {
		return apperr.Validation("a rejection reason is required")
	}
	return nil
}

func formatState(s State) string {
	if s.Stage == model.StageNone {
		return string(s.Status)
	}
	return string(s.Status) + "/" + string(s.Stage)
}
