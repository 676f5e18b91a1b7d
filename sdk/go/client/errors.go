package client

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError is returned when kubectl exits non-zero or times out.
// The poll engine never retries it.
type TransportError struct {
	Args     []string
	ExitCode int
	Output   string
	TimedOut bool
}

func (e *TransportError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("kubectl %s: timed out", strings.Join(e.Args, " "))
	}
	return fmt.Sprintf("kubectl %s: exit code %d: %s", strings.Join(e.Args, " "), e.ExitCode, strings.TrimSpace(e.Output))
}

// MalformedResponseError is returned when kubectl output does not have the expected shape.
type MalformedResponseError struct {
	// What describes the shape that was expected
	What   string
	Output string
	Cause  error
}

func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("malformed response: expected %s", e.What)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		if len(out) > 512 {
			out = out[:512] + "..."
		}
		msg += fmt.Sprintf(" (output: %s)", out)
	}
	return msg
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// ShapeError is returned when an expectation is compared with an observed value of a different variant.
type ShapeError struct {
	Expected Expectation
	Observed Observed
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("cannot compare expectation %s with observed %T %s", e.Expected, e.Observed, describe(e.Observed))
}

// AssertionError is returned when a check still fails after its retry budget is spent.
type AssertionError struct {
	Description string
	Resource    ResourceRef
	Expected    Expectation
	Observed    Observed
	Attempts    int
	// Detail is an optional diff between expected and observed
	Detail string
}

func (e *AssertionError) Error() string {
	msg := fmt.Sprintf("%s: %s: expected %s, observed %s after %d attempt(s)",
		e.Description, e.Resource, e.Expected, describe(e.Observed), e.Attempts)
	if e.Detail != "" {
		msg += "\n" + e.Detail
	}
	return msg
}

func describe(o Observed) string {
	if o == nil {
		return "<nothing>"
	}
	return o.String()
}

// IsTransport reports whether err is or wraps a TransportError.
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsMalformed reports whether err is or wraps a MalformedResponseError.
func IsMalformed(err error) bool {
	var target *MalformedResponseError
	return errors.As(err, &target)
}

// IsAssertion reports whether err is or wraps an AssertionError.
func IsAssertion(err error) bool {
	var target *AssertionError
	return errors.As(err, &target)
}

// IsShape reports whether err is or wraps a ShapeError.
func IsShape(err error) bool {
	var target *ShapeError
	return errors.As(err, &target)
}
