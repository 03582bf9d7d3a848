package appointment

import "github.com/BruksfildServices01/service-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusReserved  Status = "RESERVED"
	StatusCancelled Status = "CANCELLED"
	StatusPaid      Status = "PAID"
)

func InitialStatus() Status {
	return StatusReserved
}

func (s Status) Valid() bool {
	switch s {
	case StatusReserved, StatusCancelled, StatusPaid:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusPaid
}

// ===============================
// Transitions
// ===============================

// AllowedTransitions lists the targets reachable from s.
func AllowedTransitions(s Status) []Status {
	switch s {
	case StatusReserved:
		return []Status{StatusCancelled, StatusPaid}
	default:
		return nil
	}
}

func CanTransition(from, to Status) error {
	for _, allowed := range AllowedTransitions(from) {
		if allowed == to {
			return nil
		}
	}
	return httperr.BadRequest("invalid_state_transition",
		"appointment cannot move from %s to %s", from, to)
}

// CanEdit guards customer, notes and time changes.
func CanEdit(current Status) error {
	if current != StatusReserved {
		return httperr.BadRequest("invalid_state",
			"appointment in %s can no longer be edited", current)
	}
	return nil
}
