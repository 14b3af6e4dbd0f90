package order

import (
	"errors"
	"fmt"
	"strings"

	"printflow/internal/pkg/errs"
)

// ErrInvalidTransition is the sentinel error wrapped by InvalidTransitionError.
// Use errors.Is to classify transition failures regardless of the concrete pair.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status represents the lifecycle state of a print order.
// It implements a state machine with a fixed forward-only workflow:
//
//	pending ──> validated ──> processing ──> completed
//
// Completed is a terminal state with no transitions out. Same-state and
// skip-ahead transitions are rejected. Quantities are reserved against the
// monthly quota at creation time, so status changes never touch quota.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status assigned when an order is admitted.
	// Orders in this status await review by an administrator.
	Pending

	// Validated indicates the order has been reviewed and approved.
	Validated

	// Processing indicates the order is being printed.
	Processing

	// Completed indicates the order has been fulfilled.
	// This is a final state with no further transitions allowed.
	Completed
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Validated:  "validated",
		Processing: "processing",
		Completed:  "completed",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "pending",
		Validated:  "validated",
		Processing: "processing",
		Completed:  "completed",
	}
}

// getAllowedTransitions returns the explicit allowed-transition table.
// Any (current, requested) pair absent from this table is invalid,
// including same-state transitions. Completed maps to an empty set.
func getAllowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:    {Validated},
		Validated:  {Processing},
		Processing: {Completed},
		Completed:  {},
	}
}

// StatusFromString parses a status from its persisted/wire representation.
// Accepted values are "pending", "validated", "processing" and "completed".
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Pending, Validated, Processing, Completed.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%d is not a valid status", s),
		)
	}
	return nil
}

// String returns the lowercase name of the status, matching its persisted
// representation. It implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// AllowedNext returns the set of statuses this status may transition to.
// The returned slice is empty for the terminal Completed status and for
// invalid statuses.
func (s Status) AllowedNext() []Status {
	next, ok := getAllowedTransitions()[s]
	if !ok {
		return nil
	}
	return next
}

// CanTransitionTo reports whether a transition to target is allowed
// from the current status.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range s.AllowedNext() {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo performs a validated transition to the target status.
//
// Returns:
//   - (target, nil) when the transition is allowed
//   - (0, *InvalidTransitionError) otherwise; the error enumerates the
//     allowed next statuses, which is empty for the terminal state
func (s Status) TransitionTo(target Status) (Status, error) {
	if s.CanTransitionTo(target) {
		return target, nil
	}

	return 0, &InvalidTransitionError{
		Current:   s,
		Requested: target,
		Allowed:   s.AllowedNext(),
	}
}

// IsActive reports whether the status counts toward an agent's active
// workload. Pending, Validated and Processing are active; Completed is not.
func (s Status) IsActive() bool {
	return s == Pending || s == Validated || s == Processing
}

// InvalidTransitionError is returned when a status change request is not
// present in the allowed-transition table. It carries the current status,
// the requested status and the allowed next set for a precise user-facing
// message.
type InvalidTransitionError struct {
	Current   Status
	Requested Status
	Allowed   []Status
}

func (e *InvalidTransitionError) Error() string {
	allowed := "none"
	if len(e.Allowed) > 0 {
		names := make([]string, len(e.Allowed))
		for i, s := range e.Allowed {
			names[i] = s.String()
		}
		allowed = strings.Join(names, ", ")
	}
	return fmt.Sprintf("invalid status transition from %q to %q (allowed: %s)",
		e.Current, e.Requested, allowed)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
