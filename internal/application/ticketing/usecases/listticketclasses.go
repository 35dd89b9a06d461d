package usecases

import (
	"context"
	"time"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
)

type ListTicketClassesQuery struct {
	EventKind string
	EventID   uint
}

type TicketClassSummary struct {
	ClassID    uint
	SID        string
	Name       string
	Capacity   int
	Remaining  int
	OnSale     bool
	PriceCents int64
	Currency   string
	Perks      string
	Benefits   map[string]interface{}
	SaleStart  time.Time
	SaleEnd    time.Time
}

type ListTicketClassesUseCase struct {
	classRepo ticketing.TicketClassRepository
	clock     ticketing.Clock
	logger    logger.Interface
}

func NewListTicketClassesUseCase(
	classRepo ticketing.TicketClassRepository,
	clock ticketing.Clock,
	logger logger.Interface,
) *ListTicketClassesUseCase {
	return &ListTicketClassesUseCase{classRepo: classRepo, clock: clock, logger: logger}
}

func (uc *ListTicketClassesUseCase) Execute(ctx context.Context, query ListTicketClassesQuery) ([]*TicketClassSummary, error) {
	kind, err := vo.NewEventKind(query.EventKind)
	if err != nil {
		return nil, errors.NewValidationError("invalid event kind")
	}
	eventRef, err := vo.NewEventRef(kind, query.EventID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	classes, err := uc.classRepo.ListByEvent(ctx, eventRef)
	if err != nil {
		uc.logger.Errorw("failed to list ticket classes", "event", eventRef.String(), "error", err)
		return nil, err
	}

	now := uc.clock.Now()
	summaries := make([]*TicketClassSummary, 0, len(classes))
	for _, class := range classes {
		summaries = append(summaries, &TicketClassSummary{
			ClassID:    class.ID(),
			SID:        class.SID(),
			Name:       class.Name(),
			Capacity:   class.Capacity(),
			Remaining:  class.Remaining(),
			OnSale:     class.IsOnSale(now),
			PriceCents: class.PriceCents(),
			Currency:   class.Currency(),
			Perks:      class.Perks(),
			Benefits:   class.Benefits(),
			SaleStart:  class.SaleStart(),
			SaleEnd:    class.SaleEnd(),
		})
	}
	return summaries, nil
}
