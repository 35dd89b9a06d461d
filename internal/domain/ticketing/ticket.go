package ticketing

import (
	"fmt"
	"time"

	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
)

// placeholderQRPrefix marks the QR field of a ticket that has not been paid
// yet. The real encrypted token replaces it on payment confirmation.
const placeholderQRPrefix = "pending:"

// Ticket is a single admission right moving through the
// reserved -> paid -> used lifecycle. Status changes go through the
// transition table; the persistence layer additionally guards the
// paid -> used and reserved -> paid edges with conditional updates.
type Ticket struct {
	id           uint
	guid         string
	code         string
	userID       uint
	classID      uint
	event        vo.EventRef
	status       vo.TicketStatus
	qrCode       string
	validFrom    time.Time
	validUntil   time.Time
	cancelReason *string
	reservedAt   time.Time
	paidAt       *time.Time
	usedAt       *time.Time
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewReservedTicket creates a ticket in the reserved state with a
// placeholder QR value.
func NewReservedTicket(
	guid string,
	code string,
	userID uint,
	classID uint,
	event vo.EventRef,
	validFrom, validUntil time.Time,
	now time.Time,
) (*Ticket, error) {
	if len(guid) == 0 {
		return nil, fmt.Errorf("ticket guid is required")
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("ticket code is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if classID == 0 {
		return nil, fmt.Errorf("ticket class ID is required")
	}
	if event.IsZero() {
		return nil, fmt.Errorf("event reference is required")
	}
	if !validUntil.After(validFrom) {
		return nil, fmt.Errorf("valid until must be after valid from")
	}

	return &Ticket{
		guid:       guid,
		code:       code,
		userID:     userID,
		classID:    classID,
		event:      event,
		status:     vo.StatusReserved,
		qrCode:     placeholderQRPrefix + guid,
		validFrom:  validFrom,
		validUntil: validUntil,
		reservedAt: now,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructTicket(
	id uint,
	guid string,
	code string,
	userID uint,
	classID uint,
	event vo.EventRef,
	status vo.TicketStatus,
	qrCode string,
	validFrom, validUntil time.Time,
	cancelReason *string,
	reservedAt time.Time,
	paidAt, usedAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if len(guid) == 0 {
		return nil, fmt.Errorf("ticket guid is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid ticket status: %s", status)
	}

	return &Ticket{
		id:           id,
		guid:         guid,
		code:         code,
		userID:       userID,
		classID:      classID,
		event:        event,
		status:       status,
		qrCode:       qrCode,
		validFrom:    validFrom,
		validUntil:   validUntil,
		cancelReason: cancelReason,
		reservedAt:   reservedAt,
		paidAt:       paidAt,
		usedAt:       usedAt,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (t *Ticket) ID() uint              { return t.id }
func (t *Ticket) GUID() string          { return t.guid }
func (t *Ticket) Code() string          { return t.code }
func (t *Ticket) UserID() uint          { return t.userID }
func (t *Ticket) ClassID() uint         { return t.classID }
func (t *Ticket) Event() vo.EventRef    { return t.event }
func (t *Ticket) Status() vo.TicketStatus { return t.status }
func (t *Ticket) QRCode() string        { return t.qrCode }
func (t *Ticket) ValidFrom() time.Time  { return t.validFrom }
func (t *Ticket) ValidUntil() time.Time { return t.validUntil }
func (t *Ticket) CancelReason() *string { return t.cancelReason }
func (t *Ticket) ReservedAt() time.Time { return t.reservedAt }
func (t *Ticket) PaidAt() *time.Time    { return t.paidAt }
func (t *Ticket) UsedAt() *time.Time    { return t.usedAt }
func (t *Ticket) Version() int          { return t.version }
func (t *Ticket) CreatedAt() time.Time  { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time  { return t.updatedAt }

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

// HasFinalQR reports whether the ticket carries a minted QR token rather
// than the reservation placeholder.
func (t *Ticket) HasFinalQR() bool {
	return t.qrCode != "" && t.qrCode != placeholderQRPrefix+t.guid
}

// ConfirmPayment transitions reserved -> paid and installs the minted,
// globally unique QR token.
func (t *Ticket) ConfirmPayment(qrToken string, now time.Time) error {
	if len(qrToken) == 0 {
		return fmt.Errorf("qr token is required")
	}
	if !t.status.CanTransitionTo(vo.StatusPaid) {
		return ErrInvalidTransition(t.status.String(), vo.StatusPaid.String())
	}

	t.status = vo.StatusPaid
	t.qrCode = qrToken
	t.paidAt = &now
	t.updatedAt = now
	t.version++
	return nil
}

// MarkUsed transitions paid -> used at scan time.
func (t *Ticket) MarkUsed(now time.Time) error {
	if !t.status.CanTransitionTo(vo.StatusUsed) {
		return ErrInvalidTransition(t.status.String(), vo.StatusUsed.String())
	}

	t.status = vo.StatusUsed
	t.usedAt = &now
	t.updatedAt = now
	t.version++
	return nil
}

// Cancel transitions reserved/paid -> cancelled with a mandatory reason.
func (t *Ticket) Cancel(reason string, now time.Time) error {
	if len(reason) == 0 {
		return ErrMissingCancelReason
	}
	if t.status.IsUsed() {
		return ErrTicketAlreadyUsed
	}
	if t.status.IsCancelled() {
		return ErrTicketAlreadyCancelled
	}
	if !t.status.CanTransitionTo(vo.StatusCancelled) {
		return ErrInvalidTransition(t.status.String(), vo.StatusCancelled.String())
	}

	t.status = vo.StatusCancelled
	t.cancelReason = &reason
	t.updatedAt = now
	t.version++
	return nil
}

// Expire transitions reserved/paid -> expired during the sweep.
func (t *Ticket) Expire(now time.Time) error {
	if !t.status.CanTransitionTo(vo.StatusExpired) {
		return ErrInvalidTransition(t.status.String(), vo.StatusExpired.String())
	}

	t.status = vo.StatusExpired
	t.updatedAt = now
	t.version++
	return nil
}

// IsWithinValidity reports whether now falls inside the admission window.
func (t *Ticket) IsWithinValidity(now time.Time) bool {
	return !now.Before(t.validFrom) && !now.After(t.validUntil)
}

// HoldsInventory reports whether this ticket currently consumes one unit of
// its class's sold count.
func (t *Ticket) HoldsInventory() bool {
	return t.status.HoldsInventory()
}
