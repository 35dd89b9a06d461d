package ticketing

import (
	"context"
	"time"

	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/shared/query"
)

type TicketRepository interface {
	Save(ctx context.Context, t *Ticket) error
	Update(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, ticketID uint) (*Ticket, error)
	GetByGUID(ctx context.Context, guid string) (*Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*Ticket, int64, error)

	// QRCodeExists reports whether any ticket already carries the token.
	// Used by the mint-with-retry loop on payment confirmation.
	QRCodeExists(ctx context.Context, qrCode string) (bool, error)

	// TransitionStatus flips the status only when the current value matches
	// from, as a single conditional update stamped with at. Returns false
	// when the row was not in the expected state, which callers treat as a
	// lost race.
	TransitionStatus(ctx context.Context, ticketID uint, from, to vo.TicketStatus, at time.Time) (bool, error)

	// ListExpiredHolding returns tickets still holding inventory whose
	// admission window has closed.
	ListExpiredHolding(ctx context.Context, now time.Time, limit int) ([]*Ticket, error)

	// ListStaleReservations returns reserved tickets whose payment hold
	// lapsed before cutoff.
	ListStaleReservations(ctx context.Context, cutoff time.Time, limit int) ([]*Ticket, error)
}

type TicketFilter struct {
	UserID    *uint
	ClassID   *uint
	Status    *vo.TicketStatus
	EventKind *vo.EventKind
	EventID   *uint
	query.PageFilter
	query.SortFilter
}

type TicketClassRepository interface {
	Save(ctx context.Context, c *TicketClass) error
	Update(ctx context.Context, c *TicketClass) error
	GetByID(ctx context.Context, classID uint) (*TicketClass, error)
	GetBySID(ctx context.Context, sid string) (*TicketClass, error)
	ListByEvent(ctx context.Context, event vo.EventRef) ([]*TicketClass, error)

	// ReserveUnit atomically increments the sold count when capacity
	// remains and the sale window is open. Returns ErrSoldOut or
	// ErrNotOnSale on rejection; both are terminal for the caller.
	ReserveUnit(ctx context.Context, classID uint, now time.Time) error

	// ReleaseUnit decrements the sold count, floored at zero. Idempotent
	// with respect to double release of the same ticket.
	ReleaseUnit(ctx context.Context, classID uint, now time.Time) error
}

type ScanLogRepository interface {
	Append(ctx context.Context, entry *ScanLogEntry) error
	GetLastByTicketID(ctx context.Context, ticketID uint) (*ScanLogEntry, error)
	ListByTicketID(ctx context.Context, ticketID uint) ([]*ScanLogEntry, error)
}
