package domain

import (
	"fmt"
	"net/http"
)

// Kind classifies an expected failure.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidation
	KindForbidden
	KindConflict
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_error"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Problem describes why an operation did not succeed. It is the only
// failure carrier that crosses layer boundaries.
type Problem struct {
	Kind    Kind
	Message string
	// Status is the HTTP status hint. Zero means "derive from Kind".
	Status int
	cause  error
}

func (p *Problem) Error() string {
	if p.cause != nil {
		return fmt.Sprintf("%s: %v", p.Message, p.cause)
	}
	return p.Message
}

// Unwrap exposes the infrastructure error behind an Unexpected problem.
func (p *Problem) Unwrap() error { return p.cause }

// StatusCode resolves the status hint for transport adapters.
func (p *Problem) StatusCode() int {
	if p.Status != 0 {
		return p.Status
	}
	switch p.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(msg string) *Problem { return &Problem{Kind: KindNotFound, Message: msg} }

func ValidationError(msg string) *Problem { return &Problem{Kind: KindValidation, Message: msg} }

func Forbidden(msg string) *Problem { return &Problem{Kind: KindForbidden, Message: msg} }

func Conflict(msg string) *Problem {
	return &Problem{Kind: KindConflict, Message: msg, Status: http.StatusConflict}
}

func Failure(msg string, statusHint int) *Problem {
	return &Problem{Kind: KindFailure, Message: msg, Status: statusHint}
}

// Unexpected wraps an infrastructure error (store down, decode failure).
// The cause is kept for logging and never rendered to clients.
func Unexpected(err error) *Problem {
	return &Problem{Kind: KindFailure, Message: "internal server error", Status: http.StatusInternalServerError, cause: err}
}

// Outcome is the return type of every pipeline-visible operation: either a
// value or a Problem, never both.
type Outcome[T any] struct {
	value   T
	problem *Problem
}

// Unit is the payload of commands that return nothing.
type Unit struct{}

// Result is the Outcome of a command.
type Result = Outcome[Unit]

func Ok[T any](v T) Outcome[T] { return Outcome[T]{value: v} }

// Done is the successful Result.
func Done() Result { return Outcome[Unit]{} }

// Fail builds a failed Outcome. A nil problem is treated as an unknown failure
// so that a failed Outcome can never be mistaken for success.
func Fail[T any](p *Problem) Outcome[T] {
	if p == nil {
		p = Failure("unknown failure", http.StatusInternalServerError)
	}
	return Outcome[T]{problem: p}
}

func (o Outcome[T]) IsOk() bool { return o.problem == nil }

// Value returns the payload; the zero value when the Outcome failed.
func (o Outcome[T]) Value() T { return o.value }

func (o Outcome[T]) Problem() *Problem { return o.problem }

// Unpack returns the value and the problem as a plain error.
func (o Outcome[T]) Unpack() (T, error) {
	if o.problem != nil {
		return o.value, o.problem
	}
	return o.value, nil
}

// Rebind carries a failure across payload types. Kind, message and status
// are preserved; only the payload type changes. Rebinding a successful
// Outcome yields the zero value of U.
func Rebind[U, T any](o Outcome[T]) Outcome[U] {
	return Outcome[U]{problem: o.problem}
}

// Map applies fn to a successful payload and passes failures through.
func Map[T, U any](o Outcome[T], fn func(T) U) Outcome[U] {
	if o.problem != nil {
		return Outcome[U]{problem: o.problem}
	}
	return Ok(fn(o.value))
}
