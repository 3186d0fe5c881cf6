package model

import "slices"

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
	StatusCancelled  = "cancelled"
	StatusNoShow     = "no_show"

	PaymentStatusNotPaid   = "not_paid"
	PaymentStatusCompleted = "completed"

	SourceDirect  = "direct"
	SourcePackage = "package"
)

var Statuses = []string{
	StatusPending,
	StatusConfirmed,
	StatusCheckedIn,
	StatusCheckedOut,
	StatusCancelled,
	StatusNoShow,
}

// RoomHoldingStatuses are the statuses under which a booking keeps its room
// occupied for its date range. The overlap probe and the exclusion
// constraint use the same set.
var RoomHoldingStatuses = []string{
	StatusPending,
	StatusConfirmed,
	StatusCheckedIn,
	StatusCheckedOut,
}

// InFlightStatuses are the non-terminal statuses. A room, user or hotel with
// an in-flight booking cannot be soft-deleted.
var InFlightStatuses = []string{
	StatusPending,
	StatusConfirmed,
	StatusCheckedIn,
}

var statusTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn: {StatusCheckedOut},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	return slices.Contains(statusTransitions[from], to)
}

// IsTerminalStatus reports whether no further transition leaves the status.
func IsTerminalStatus(status string) bool {
	return len(statusTransitions[status]) == 0
}
