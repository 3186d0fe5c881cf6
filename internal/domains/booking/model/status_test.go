package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{name: "pending to confirmed", from: StatusPending, to: StatusConfirmed, want: true},
		{name: "pending to cancelled", from: StatusPending, to: StatusCancelled, want: true},
		{name: "pending to no show", from: StatusPending, to: StatusNoShow, want: true},
		{name: "pending cannot skip to checked in", from: StatusPending, to: StatusCheckedIn, want: false},
		{name: "confirmed to checked in", from: StatusConfirmed, to: StatusCheckedIn, want: true},
		{name: "confirmed to cancelled", from: StatusConfirmed, to: StatusCancelled, want: true},
		{name: "confirmed to no show", from: StatusConfirmed, to: StatusNoShow, want: true},
		{name: "confirmed cannot revert to pending", from: StatusConfirmed, to: StatusPending, want: false},
		{name: "checked in to checked out", from: StatusCheckedIn, to: StatusCheckedOut, want: true},
		{name: "checked in cannot cancel", from: StatusCheckedIn, to: StatusCancelled, want: false},
		{name: "checked out is final", from: StatusCheckedOut, to: StatusCheckedIn, want: false},
		{name: "cancelled is final", from: StatusCancelled, to: StatusPending, want: false},
		{name: "no show is final", from: StatusNoShow, to: StatusConfirmed, want: false},
		{name: "unknown status goes nowhere", from: "lost", to: StatusConfirmed, want: false},
		{name: "no self transition", from: StatusPending, to: StatusPending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminalStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{name: "pending is live", status: StatusPending, want: false},
		{name: "confirmed is live", status: StatusConfirmed, want: false},
		{name: "checked in is live", status: StatusCheckedIn, want: false},
		{name: "checked out is terminal", status: StatusCheckedOut, want: true},
		{name: "cancelled is terminal", status: StatusCancelled, want: true},
		{name: "no show is terminal", status: StatusNoShow, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTerminalStatus(tt.status))
		})
	}
}

func TestStatusSets(t *testing.T) {
	for _, status := range InFlightStatuses {
		assert.Contains(t, RoomHoldingStatuses, status, "every in-flight status holds its room")
		assert.False(t, IsTerminalStatus(status), "in-flight statuses must allow a next step")
	}

	assert.Contains(t, RoomHoldingStatuses, StatusCheckedOut)
	assert.NotContains(t, RoomHoldingStatuses, StatusCancelled)
	assert.NotContains(t, RoomHoldingStatuses, StatusNoShow)
}
