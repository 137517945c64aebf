package workflow

import (
	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/model"
)

var planTransitions = map[model.PlanStatus][]model.PlanStatus{
	model.PlanDraft:           {model.PlanPendingApproval},
	model.PlanPendingApproval: {model.PlanApproved, model.PlanRejected},
}

// CheckPlan validates a plan status change.
func CheckPlan(from, to model.PlanStatus, ev Event) error {
	if contains(planTransitions[from], to) {
		return nil
	}
	return apperr.InvalidTransition(apperr.TransitionDetails{Entity: "plan", State: string(from), Event: string(ev)})
}

var scheduleTransitions = map[model.ScheduleStatus][]model.ScheduleStatus{
	model.SchedulePending:        {model.ScheduleRequestCreated},
	model.ScheduleRequestCreated: {model.ScheduleCompleted},
}

// CheckSchedule validates a schedule status change.
func CheckSchedule(from, to model.ScheduleStatus) error {
	if contains(scheduleTransitions[from], to) {
		return nil
	}
	return apperr.InvalidTransition(apperr.TransitionDetails{Entity: "schedule", State: string(from), Event: string(to)})
}

var slotTransitions = map[model.AvailabilityStatus][]model.AvailabilityStatus{
	model.SlotAvailable: {model.SlotBusy, model.SlotOffline, model.SlotOnLeave},
	model.SlotBusy:      {model.SlotAvailable},
	model.SlotOffline:   {model.SlotAvailable, model.SlotOnLeave},
	model.SlotOnLeave:   {model.SlotAvailable, model.SlotOffline},
}

// CheckSlot validates an availability slot status change.
func CheckSlot(from, to model.AvailabilityStatus) error {
	if contains(slotTransitions[from], to) {
		return nil
	}
	return apperr.InvalidTransition(apperr.TransitionDetails{Entity: "availability", State: string(from), Event: string(to)})
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
