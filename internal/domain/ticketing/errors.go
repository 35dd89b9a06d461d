package ticketing

import (
	"errors"
	"fmt"
)

var (
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTicketClassNotFound = errors.New("ticket class not found")
	ErrEventNotFound       = errors.New("event not found")

	ErrSoldOut   = errors.New("ticket class sold out")
	ErrNotOnSale = errors.New("ticket class not on sale")

	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrMissingCancelReason     = errors.New("cancellation reason is required")
	ErrTicketAlreadyUsed       = errors.New("ticket already used")
	ErrTicketAlreadyCancelled  = errors.New("ticket already cancelled")

	ErrQRCodeCollision = errors.New("qr code generation exhausted retries")
	ErrQRCodeInvalid   = errors.New("invalid qr code")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
