// Package workflow is the single authority on legal status transitions.
//
// Each entity with a status (request, plan, schedule, availability slot) has
// one transition table here. Request transitions are applied through
// Machine.Apply, which commits the new (status, stage) with a conditional
// update and writes exactly one side effect: the sub-object created by a
// forward event or the RejectionRecord required by a backward one.
package workflow
