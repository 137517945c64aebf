// Package orchestrator is the entry point of the maintenance core. It
// validates arguments, dispatches to the state machine, the schedule
// generator, the assignment engine and the approval gate, and emits
// fire-and-forget notices. It holds no state of its own.
package orchestrator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/approval"
	"maintenance-orchestrator/internal/assignment"
	"maintenance-orchestrator/internal/notification"
	"maintenance-orchestrator/internal/scheduler"
	"maintenance-orchestrator/internal/store"
	"maintenance-orchestrator/internal/workflow"
)

// Notifier receives notices about committed workflow events.
type Notifier interface {
	Dispatch(n notification.Notice)
}

// Options configures an Orchestrator.
type Options struct {
	Location      *time.Location
	LookaheadDays int
	Notifier      Notifier
	Now           func() time.Time
}

// Orchestrator is the facade over the maintenance core.
type Orchestrator struct {
	store     store.Store
	machine   *workflow.Machine
	generator *scheduler.Generator
	engine    *assignment.Engine
	gate      *approval.Gate
	notifier  Notifier
	validate  *validator.Validate
	now       func() time.Time
}

// New wires the core components over one ledger.
func New(st store.Store, opts Options) *Orchestrator {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	machine := workflow.NewMachine()
	return &Orchestrator{
		store:     st,
		machine:   machine,
		generator: scheduler.NewGenerator(st, opts.Location),
		engine: assignment.NewEngine(st, machine, assignment.Options{
			Location:      opts.Location,
			LookaheadDays: opts.LookaheadDays,
			Now:           opts.Now,
		}),
		gate:     approval.NewGate(st, machine).WithClock(opts.Now),
		notifier: opts.Notifier,
		validate: newValidator(),
		now:      opts.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// check validates an input struct and converts failures into a Validation error.
func (o *Orchestrator) check(in any) error {
	err := o.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.KindValidation, "invalid input", err)
	}

	fields := make([]FieldError, 0, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		names = append(names, fe.Field())
	}
	return apperr.Validation("invalid fields: %s", strings.Join(names, ", ")).WithDetails(fields)
}

func (o *Orchestrator) notify(n notification.Notice) {
	if o.notifier == nil {
		return
	}
	o.notifier.Dispatch(n)
}

func requestNotice(ev workflow.Event, requestID, technicianID, actor int64, title, format string, args ...any) notification.Notice {
	return notification.Notice{
		Event:        string(ev),
		RequestID:    requestID,
		TechnicianID: technicianID,
		Actor:        actor,
		Title:        title,
		Body:         fmt.Sprintf(format, args...),
	}
}
