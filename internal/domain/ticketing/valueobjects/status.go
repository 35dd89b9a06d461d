package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusReserved  TicketStatus = "reserved"
	StatusPaid      TicketStatus = "paid"
	StatusUsed      TicketStatus = "used"
	StatusCancelled TicketStatus = "cancelled"
	StatusExpired   TicketStatus = "expired"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusReserved:  true,
	StatusPaid:      true,
	StatusUsed:      true,
	StatusCancelled: true,
	StatusExpired:   true,
}

// ticketStatusTransitions is the full lifecycle table. Used, cancelled and
// expired are terminal.
var ticketStatusTransitions = map[TicketStatus][]TicketStatus{
	StatusReserved: {
		StatusPaid,
		StatusCancelled,
		StatusExpired,
	},
	StatusPaid: {
		StatusUsed,
		StatusCancelled,
		StatusExpired,
	},
	StatusUsed:      {},
	StatusCancelled: {},
	StatusExpired:   {},
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) CanTransitionTo(newStatus TicketStatus) bool {
	allowedTransitions, ok := ticketStatusTransitions[ts]
	if !ok {
		return false
	}

	for _, allowed := range allowedTransitions {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted.
func (ts TicketStatus) IsTerminal() bool {
	allowed, ok := ticketStatusTransitions[ts]
	return ok && len(allowed) == 0
}

// HoldsInventory reports whether a ticket in this status consumes one unit
// of its class's sold count.
func (ts TicketStatus) HoldsInventory() bool {
	return ts == StatusReserved || ts == StatusPaid || ts == StatusUsed
}

func (ts TicketStatus) IsReserved() bool {
	return ts == StatusReserved
}

func (ts TicketStatus) IsPaid() bool {
	return ts == StatusPaid
}

func (ts TicketStatus) IsUsed() bool {
	return ts == StatusUsed
}

func (ts TicketStatus) IsCancelled() bool {
	return ts == StatusCancelled
}

func (ts TicketStatus) IsExpired() bool {
	return ts == StatusExpired
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
