package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from TicketStatus
		to   TicketStatus
		want bool
	}{
		{TicketStatusPending, TicketStatusConfirmed, true},
		{TicketStatusPending, TicketStatusCancelled, true},
		{TicketStatusPending, TicketStatusUsed, false},
		{TicketStatusConfirmed, TicketStatusUsed, true},
		{TicketStatusConfirmed, TicketStatusCancelled, true},
		{TicketStatusConfirmed, TicketStatusPending, false},
		{TicketStatusUsed, TicketStatusCancelled, false},
		{TicketStatusUsed, TicketStatusConfirmed, false},
		{TicketStatusCancelled, TicketStatusConfirmed, false},
		{TicketStatusCancelled, TicketStatusUsed, false},
		{TicketStatus("BOGUS"), TicketStatusUsed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTicketStatus_HoldsCapacity(t *testing.T) {
	assert.True(t, TicketStatusPending.HoldsCapacity())
	assert.True(t, TicketStatusConfirmed.HoldsCapacity())
	assert.False(t, TicketStatusUsed.HoldsCapacity())
	assert.False(t, TicketStatusCancelled.HoldsCapacity())
}

func TestTicketStatusesTo(t *testing.T) {
	assert.Equal(t, []TicketStatus{TicketStatusPending}, TicketStatusesTo(TicketStatusConfirmed))
	assert.Equal(t, []TicketStatus{TicketStatusPending, TicketStatusConfirmed}, TicketStatusesTo(TicketStatusCancelled))
	assert.Equal(t, []TicketStatus{TicketStatusConfirmed}, TicketStatusesTo(TicketStatusUsed))
	assert.Empty(t, TicketStatusesTo(TicketStatusPending))
}

func TestOutstandingTicketStatuses(t *testing.T) {
	assert.Equal(t, []TicketStatus{TicketStatusPending, TicketStatusConfirmed}, OutstandingTicketStatuses())
}
