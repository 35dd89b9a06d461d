package usecases

import (
	"context"
	"time"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
)

type GetAvailabilityQuery struct {
	ClassID uint
}

type AvailabilityResult struct {
	ClassID   uint
	SID       string
	Name      string
	Capacity  int
	Remaining int
	OnSale    bool
	SoldOut   bool
	SaleStart time.Time
	SaleEnd   time.Time
}

// GetAvailabilityUseCase answers "how many are left". The remaining count is
// advisory and may briefly lag the ledger; reservation itself re-checks
// atomically.
type GetAvailabilityUseCase struct {
	classRepo    ticketing.TicketClassRepository
	availability AvailabilityCache
	clock        ticketing.Clock
	logger       logger.Interface
}

func NewGetAvailabilityUseCase(
	classRepo ticketing.TicketClassRepository,
	availability AvailabilityCache,
	clock ticketing.Clock,
	logger logger.Interface,
) *GetAvailabilityUseCase {
	return &GetAvailabilityUseCase{
		classRepo:    classRepo,
		availability: availability,
		clock:        clock,
		logger:       logger,
	}
}

func (uc *GetAvailabilityUseCase) Execute(ctx context.Context, query GetAvailabilityQuery) (*AvailabilityResult, error) {
	if query.ClassID == 0 {
		return nil, errors.NewValidationError("ticket class ID is required")
	}

	class, err := uc.classRepo.GetByID(ctx, query.ClassID)
	if err != nil {
		return nil, err
	}

	remaining := class.Remaining()
	if uc.availability != nil {
		if cached, ok, cacheErr := uc.availability.Get(ctx, query.ClassID); cacheErr == nil && ok {
			remaining = cached
		} else {
			if cacheErr != nil {
				uc.logger.Debugw("availability cache read failed", "class_id", query.ClassID, "error", cacheErr)
			}
			if setErr := uc.availability.Set(ctx, query.ClassID, remaining); setErr != nil {
				uc.logger.Debugw("availability cache write failed", "class_id", query.ClassID, "error", setErr)
			}
		}
	}

	now := uc.clock.Now()
	return &AvailabilityResult{
		ClassID:   class.ID(),
		SID:       class.SID(),
		Name:      class.Name(),
		Capacity:  class.Capacity(),
		Remaining: remaining,
		OnSale:    class.IsOnSale(now),
		SoldOut:   remaining == 0,
		SaleStart: class.SaleStart(),
		SaleEnd:   class.SaleEnd(),
	}, nil
}
