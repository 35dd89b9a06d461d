package usecases

import (
	"context"
)

// AvailabilityCache is a short-lived cache of remaining units per ticket
// class, fronting the authoritative sold count in the database.
type AvailabilityCache interface {
	Get(ctx context.Context, classID uint) (remaining int, ok bool, err error)
	Set(ctx context.Context, classID uint, remaining int) error
	Invalidate(ctx context.Context, classID uint) error
}

// QRImageRenderer turns an opaque QR token into a scannable PNG.
type QRImageRenderer interface {
	RenderPNG(token string, size int) ([]byte, error)
}

// TransactionManager runs fn atomically; repositories called with the derived
// context join the same transaction.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
