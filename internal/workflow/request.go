package workflow

import (
	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/model"
)

// Event is something that happens to a maintenance request.
type Event string

const (
	EventProposeAssignment Event = "PROPOSE_ASSIGNMENT"
	EventConfirmAssignment Event = "CONFIRM_ASSIGNMENT"
	EventRejectAssignment  Event = "REJECT_ASSIGNMENT"
	EventStartMaintenance  Event = "START_MAINTENANCE"
	EventSubmitSurvey      Event = "SUBMIT_SURVEY"
	EventSubmitPlan        Event = "SUBMIT_PLAN"
	EventApprovePlan       Event = "APPROVE_PLAN"
	EventRejectPlan        Event = "REJECT_PLAN"
	EventStartExecution    Event = "START_EXECUTION"
	EventCompleteExecution Event = "COMPLETE_EXECUTION"
	EventAccept            Event = "ACCEPT"
	EventRejectAcceptance  Event = "REJECT_ACCEPTANCE"
	EventCancel            Event = "CANCEL"
)

// Events lists every request event.
var Events = []Event{
	EventProposeAssignment,
	EventConfirmAssignment,
	EventRejectAssignment,
	EventStartMaintenance,
	EventSubmitSurvey,
	EventSubmitPlan,
	EventApprovePlan,
	EventRejectPlan,
	EventStartExecution,
	EventCompleteExecution,
	EventAccept,
	EventRejectAcceptance,
	EventCancel,
}

// State is a request's position in the workflow.
type State struct {
	Status model.RequestStatus
	Stage  model.MaintenanceStage
}

// StateOf returns the current state of req.
func StateOf(req *model.MaintenanceRequest) State {
	return State{Status: req.Status, Stage: req.Stage}
}

type edge struct {
	from  State
	event Event
}

func at(status model.RequestStatus) State {
	return State{Status: status}
}

func maint(stage model.MaintenanceStage) State {
	return State{Status: model.RequestInMaintenance, Stage: stage}
}

// requestTransitions is the complete request transition table except for
// EventCancel, which is legal from every non-terminal state.
var requestTransitions = map[edge]State{
	{at(model.RequestAwaitingAssignment), EventProposeAssignment}: at(model.RequestAssigning),
	{at(model.RequestAssigning), EventConfirmAssignment}:          at(model.RequestConfirmed),
	{at(model.RequestAssigning), EventRejectAssignment}:           at(model.RequestAwaitingAssignment),
	{at(model.RequestConfirmed), EventRejectAssignment}:           at(model.RequestAwaitingAssignment),

	{at(model.RequestConfirmed), EventStartMaintenance}: maint(model.StageAwaitingSurvey),
	{at(model.RequestConfirmed), EventSubmitSurvey}:     maint(model.StageSurveyed),

	{maint(model.StageAwaitingSurvey), EventSubmitSurvey}: maint(model.StageSurveyed),
	{maint(model.StageSurveyed), EventSubmitPlan}:         maint(model.StagePlanned),
	{maint(model.StagePlanRejected), EventSubmitPlan}:     maint(model.StagePlanned),
	{maint(model.StagePlanned), EventApprovePlan}:         maint(model.StagePlanApproved),
	{maint(model.StagePlanned), EventRejectPlan}:          maint(model.StagePlanRejected),

	{maint(model.StagePlanApproved), EventStartExecution}:    maint(model.StageExecuting),
	{maint(model.StageExecuting), EventCompleteExecution}:    maint(model.StageAwaitingAcceptance),
	{maint(model.StageAwaitingAcceptance), EventAccept}:      {Status: model.RequestCompleted, Stage: model.StageAccepted},
	{maint(model.StageAwaitingAcceptance), EventRejectAcceptance}: maint(model.StageExecuting),
}

// Next returns the state reached from s on ev, or an InvalidTransition error.
func Next(s State, ev Event) (State, error) {
	if ev == EventCancel {
		if s.Status.Terminal() || !knownState(s) {
			return State{}, invalid(s, ev)
		}
		return State{Status: model.RequestCancelled, Stage: s.Stage}, nil
	}
	to, ok := requestTransitions[edge{from: s, event: ev}]
	if !ok {
		return State{}, invalid(s, ev)
	}
	return to, nil
}

// Transition returns a copy of req moved to the state reached on ev.
// req itself is never modified.
func Transition(req *model.MaintenanceRequest, ev Event) (*model.MaintenanceRequest, error) {
	to, err := Next(StateOf(req), ev)
	if err != nil {
		return nil, err
	}
	out := *req
	out.Status = to.Status
	out.Stage = to.Stage
	return &out, nil
}

// Allowed lists the events legal from s.
func Allowed(s State) []Event {
	var events []Event
	for _, ev := range Events {
		if _, err := Next(s, ev); err == nil {
			events = append(events, ev)
		}
	}
	return events
}

// RejectionSubject returns the subject tag a backward event must record,
// or false when ev is a forward event.
func RejectionSubject(ev Event) (model.SubjectType, bool) {
	switch ev {
	case EventRejectAssignment:
		return model.SubjectAssignment, true
	case EventRejectPlan:
		return model.SubjectPlan, true
	case EventRejectAcceptance:
		return model.SubjectAcceptance, true
	}
	return "", false
}

// knownState reports whether s appears anywhere in the table.
func knownState(s State) bool {
	if s.Status == model.RequestInMaintenance {
		return s.Stage != model.StageNone && s.Stage != model.StageAccepted
	}
	if s.Status == model.RequestCompleted || s.Status == model.RequestCancelled {
		return true
	}
	for _, status := range model.RequestStatuses {
		if s.Status == status {
			return s.Stage == model.StageNone
		}
	}
	return false
}

func invalid(s State, ev Event) error {
	return apperr.InvalidTransition(apperr.TransitionDetails{
		Entity: "request",
		State:  string(s.Status),
		Stage:  string(s.Stage),
		Event:  string(ev),
	})
}
