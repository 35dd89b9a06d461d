package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatus_CanTransitionTo(t *testing.T) {
	all := []TicketStatus{StatusReserved, StatusPaid, StatusUsed, StatusCancelled, StatusExpired}

	allowed := map[TicketStatus]map[TicketStatus]bool{
		StatusReserved: {StatusPaid: true, StatusCancelled: true, StatusExpired: true},
		StatusPaid:     {StatusUsed: true, StatusCancelled: true, StatusExpired: true},
		StatusUsed:      {},
		StatusCancelled: {},
		StatusExpired:   {},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			got := from.CanTransitionTo(to)
			assert.Equal(t, want, got, "transition %s -> %s", from, to)
		}
	}
}

func TestTicketStatus_CanTransitionTo_SelfLoops(t *testing.T) {
	for _, s := range []TicketStatus{StatusReserved, StatusPaid, StatusUsed, StatusCancelled, StatusExpired} {
		assert.False(t, s.CanTransitionTo(s), "self transition %s", s)
	}
}

func TestTicketStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   TicketStatus
		terminal bool
	}{
		{StatusReserved, false},
		{StatusPaid, false},
		{StatusUsed, true},
		{StatusCancelled, true},
		{StatusExpired, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestTicketStatus_HoldsInventory(t *testing.T) {
	tests := []struct {
		status TicketStatus
		holds  bool
	}{
		{StatusReserved, true},
		{StatusPaid, true},
		{StatusUsed, true},
		{StatusCancelled, false},
		{StatusExpired, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.holds, tt.status.HoldsInventory())
		})
	}
}

func TestNewTicketStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TicketStatus
		wantErr bool
	}{
		{"reserved", "reserved", StatusReserved, false},
		{"paid", "paid", StatusPaid, false},
		{"used", "used", StatusUsed, false},
		{"cancelled", "cancelled", StatusCancelled, false},
		{"expired", "expired", StatusExpired, false},
		{"unknown value", "refunded", "", true},
		{"empty", "", "", true},
		{"case sensitive", "Paid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTicketStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
