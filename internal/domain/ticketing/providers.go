package ticketing

import (
	"context"
	"time"

	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
)

// EventWindow is the schedule of the event a ticket admits to. The ticket
// validity window is derived from it at reservation time.
type EventWindow struct {
	Title    string
	StartsAt time.Time
	EndsAt   time.Time
}

// EventProvider resolves event references against the event catalog.
type EventProvider interface {
	// GetEventWindow returns ErrEventNotFound when the reference points at
	// nothing.
	GetEventWindow(ctx context.Context, ref vo.EventRef) (*EventWindow, error)
}

// Attendee is the resolved identity of a ticket holder, used for delivery.
type Attendee struct {
	ID    uint
	Name  string
	Email string
}

// IdentityProvider resolves user IDs to deliverable attendee records.
type IdentityProvider interface {
	Resolve(ctx context.Context, userID uint) (*Attendee, error)
}

// DeliveryPayload carries everything the delivery channel needs to hand the
// attendee their ticket after payment.
type DeliveryPayload struct {
	Attendee   *Attendee
	Ticket     *Ticket
	Class      *TicketClass
	EventTitle string
	QRImage    []byte
}

// TicketDelivery sends the paid ticket to its holder. Implementations must
// tolerate being called off the request path.
type TicketDelivery interface {
	Deliver(ctx context.Context, payload *DeliveryPayload) error
}

// QRPayload is the plaintext content sealed inside a QR token.
type QRPayload struct {
	TicketGUID string
	TicketCode string
	ClassID    uint
	UserID     uint
	IssuedAt   time.Time
}

// QRCodec seals QR payloads into opaque tokens and opens them back up.
// Decode returns ErrQRCodeInvalid for anything tampered with, truncated,
// sealed under another key, or older than the configured maximum age.
type QRCodec interface {
	Encode(payload *QRPayload) (string, error)
	Decode(token string, now time.Time) (*QRPayload, error)
}

// TicketEvent is published on every lifecycle transition.
type TicketEvent struct {
	TicketID   uint      `json:"ticket_id"`
	TicketGUID string    `json:"ticket_guid"`
	ClassID    uint      `json:"class_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher fans ticket lifecycle changes out to interested consumers.
type EventPublisher interface {
	PublishTicketChange(ctx context.Context, event TicketEvent) error
}
