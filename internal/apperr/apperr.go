// Package apperr defines the error taxonomy of the orchestrator core.
// Every operation returns these typed errors; the HTTP layer maps them to
// status codes and batch jobs use them to decide between skip and abort.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound indicates a referenced device, schedule, technician or request is missing.
	KindNotFound
	// KindValidation indicates malformed input.
	KindValidation
	// KindConflict indicates a concurrent update won the race; the caller may retry.
	KindConflict
	// KindInvalidTransition indicates the event is not legal for the current state.
	KindInvalidTransition
	// KindNoEligibleTechnician indicates assignment cannot proceed right now.
	KindNoEligibleTechnician
	// KindInternal indicates an unexpected storage or programming error.
	KindInternal
)

var kindNames = map[Kind]string{
	KindUnknown:              "unknown",
	KindNotFound:             "not_found",
	KindValidation:           "validation",
	KindConflict:             "conflict",
	KindInvalidTransition:    "invalid_transition",
	KindNoEligibleTechnician: "no_eligible_technician",
	KindInternal:             "internal",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error is a domain error with a typed Kind.
type Error struct {
	Kind    Kind
	Message string
	Op      string // Operation that failed (optional)
	Err     error  // Underlying error (optional)
	Details any    // Additional details for response (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict, KindNoEligibleTechnician:
		return http.StatusConflict
	case KindInvalidTransition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp sets the failing operation and returns the error.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails attaches response details and returns the error.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// NotFound creates a not found error.
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

// Validation creates a validation error.
func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// Conflict creates a conflict error.
func Conflict(format string, args ...any) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...))
}

// NoEligibleTechnician creates an assignment failure for the given request.
func NoEligibleTechnician(requestID int64, reason string) *Error {
	return New(KindNoEligibleTechnician, fmt.Sprintf("no eligible technician for request %d: %s", requestID, reason)).
		WithDetails(map[string]any{"requestId": requestID, "reason": reason})
}

// Internal wraps an unexpected error.
func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// TransitionDetails names the state an illegal event was attempted from.
type TransitionDetails struct {
	Entity string `json:"entity"`
	State  string `json:"state"`
	Stage  string `json:"stage,omitempty"`
	Event  string `json:"event"`
}

// InvalidTransition creates an error for an event that is not legal in the given state.
func InvalidTransition(d TransitionDetails) *Error {
	state := d.State
	if d.Stage != "" {
		state = fmt.Sprintf("%s/%s", d.State, d.Stage)
	}
	return New(KindInvalidTransition, fmt.Sprintf("%s: event %s is not allowed in state %s", d.Entity, d.Event, state)).
		WithDetails(d)
}

// GetKind extracts the error kind from anywhere in err's chain.
// Returns KindUnknown if no *Error is found.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err carries the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// From returns err as an *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("unexpected error", err)
}
