package usecases

import (
	"context"
	"time"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
)

// sweepBatchSize caps how many tickets a single sweep pass loads.
const sweepBatchSize = 500

type SweepExpiredResult struct {
	ExpiredTickets  int
	ReleasedHolds   int
	ExaminedTickets int
	SweptAt         time.Time
}

// SweepExpiredUseCase moves lapsed tickets to expired and returns their
// inventory. It covers two populations: tickets whose admission window has
// closed while still holding a unit, and reservations whose payment hold
// lapsed. Each transition is a conditional update, so overlapping sweeps and
// concurrent user actions never double-release a unit.
type SweepExpiredUseCase struct {
	ticketRepo   ticketing.TicketRepository
	classRepo    ticketing.TicketClassRepository
	txManager    TransactionManager
	availability AvailabilityCache
	publisher    ticketing.EventPublisher
	clock        ticketing.Clock
	holdTTL      time.Duration
	logger       logger.Interface
}

func NewSweepExpiredUseCase(
	ticketRepo ticketing.TicketRepository,
	classRepo ticketing.TicketClassRepository,
	txManager TransactionManager,
	availability AvailabilityCache,
	publisher ticketing.EventPublisher,
	clock ticketing.Clock,
	holdTTL time.Duration,
	logger logger.Interface,
) *SweepExpiredUseCase {
	return &SweepExpiredUseCase{
		ticketRepo:   ticketRepo,
		classRepo:    classRepo,
		txManager:    txManager,
		availability: availability,
		publisher:    publisher,
		clock:        clock,
		holdTTL:      holdTTL,
		logger:       logger,
	}
}

func (uc *SweepExpiredUseCase) Execute(ctx context.Context) (*SweepExpiredResult, error) {
	now := uc.clock.Now()
	result := &SweepExpiredResult{SweptAt: now}

	lapsed, err := uc.ticketRepo.ListExpiredHolding(ctx, now, sweepBatchSize)
	if err != nil {
		uc.logger.Errorw("failed to list lapsed tickets", "error", err)
		return nil, err
	}
	for _, ticket := range lapsed {
		result.ExaminedTickets++
		if uc.expireOne(ctx, ticket, now) {
			result.ExpiredTickets++
		}
	}

	cutoff := now.Add(-uc.holdTTL)
	stale, err := uc.ticketRepo.ListStaleReservations(ctx, cutoff, sweepBatchSize)
	if err != nil {
		uc.logger.Errorw("failed to list stale reservations", "error", err)
		return nil, err
	}
	for _, ticket := range stale {
		result.ExaminedTickets++
		if uc.expireOne(ctx, ticket, now) {
			result.ExpiredTickets++
			result.ReleasedHolds++
		}
	}

	if result.ExpiredTickets > 0 {
		uc.logger.Infow("sweep completed",
			"examined", result.ExaminedTickets,
			"expired", result.ExpiredTickets,
			"released_holds", result.ReleasedHolds)
	}

	return result, nil
}

// expireOne flips a single ticket to expired and releases its unit. Returns
// false when another actor already moved the ticket out of its status.
func (uc *SweepExpiredUseCase) expireOne(ctx context.Context, ticket *ticketing.Ticket, now time.Time) bool {
	fromStatus := ticket.Status()
	if !fromStatus.CanTransitionTo(vo.StatusExpired) {
		return false
	}

	var flipped bool
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		ok, err := uc.ticketRepo.TransitionStatus(txCtx, ticket.ID(), fromStatus, vo.StatusExpired, now)
		if err != nil {
			return err
		}
		flipped = ok
		if !ok {
			return nil
		}
		if fromStatus.HoldsInventory() {
			return uc.classRepo.ReleaseUnit(txCtx, ticket.ClassID(), now)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to expire ticket",
			"ticket_id", ticket.ID(), "from_status", fromStatus.String(), "error", err)
		return false
	}
	if !flipped {
		return false
	}

	uc.invalidateAvailability(ctx, ticket.ClassID())
	uc.publishChange(ctx, ticket, fromStatus, vo.StatusExpired, now)
	return true
}

func (uc *SweepExpiredUseCase) invalidateAvailability(ctx context.Context, classID uint) {
	if uc.availability == nil {
		return
	}
	if err := uc.availability.Invalidate(ctx, classID); err != nil {
		uc.logger.Warnw("failed to invalidate availability cache", "class_id", classID, "error", err)
	}
}

func (uc *SweepExpiredUseCase) publishChange(ctx context.Context, t *ticketing.Ticket, from, to vo.TicketStatus, at time.Time) {
	if uc.publisher == nil {
		return
	}
	event := ticketing.TicketEvent{
		TicketID:   t.ID(),
		TicketGUID: t.GUID(),
		ClassID:    t.ClassID(),
		FromStatus: from.String(),
		ToStatus:   to.String(),
		OccurredAt: at,
	}
	if err := uc.publisher.PublishTicketChange(ctx, event); err != nil {
		uc.logger.Warnw("failed to publish ticket change", "ticket_id", t.ID(), "error", err)
	}
}
