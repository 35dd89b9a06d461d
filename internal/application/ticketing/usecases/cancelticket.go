package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
)

type CancelTicketCommand struct {
	TicketGUID string
	Reason     string
}

type CancelTicketResult struct {
	TicketID    uint
	GUID        string
	Status      string
	Reason      string
	CancelledAt time.Time
}

type CancelTicketUseCase struct {
	ticketRepo   ticketing.TicketRepository
	classRepo    ticketing.TicketClassRepository
	txManager    TransactionManager
	availability AvailabilityCache
	publisher    ticketing.EventPublisher
	clock        ticketing.Clock
	logger       logger.Interface
}

func NewCancelTicketUseCase(
	ticketRepo ticketing.TicketRepository,
	classRepo ticketing.TicketClassRepository,
	txManager TransactionManager,
	availability AvailabilityCache,
	publisher ticketing.EventPublisher,
	clock ticketing.Clock,
	logger logger.Interface,
) *CancelTicketUseCase {
	return &CancelTicketUseCase{
		ticketRepo:   ticketRepo,
		classRepo:    classRepo,
		txManager:    txManager,
		availability: availability,
		publisher:    publisher,
		clock:        clock,
		logger:       logger,
	}
}

func (uc *CancelTicketUseCase) Execute(ctx context.Context, cmd CancelTicketCommand) (*CancelTicketResult, error) {
	uc.logger.Infow("executing cancel ticket use case", "guid", cmd.TicketGUID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid cancel ticket command", "error", err)
		return nil, err
	}

	ticket, err := uc.ticketRepo.GetByGUID(ctx, cmd.TicketGUID)
	if err != nil {
		uc.logger.Errorw("ticket lookup failed", "guid", cmd.TicketGUID, "error", err)
		return nil, err
	}

	fromStatus := ticket.Status()
	heldInventory := ticket.HoldsInventory()
	now := uc.clock.Now()

	if err := ticket.Cancel(cmd.Reason, now); err != nil {
		switch {
		case stderrors.Is(err, ticketing.ErrMissingCancelReason):
			return nil, errors.NewValidationError("cancellation reason is required")
		case stderrors.Is(err, ticketing.ErrTicketAlreadyUsed):
			return nil, errors.NewConflictError("ticket has already been used")
		case stderrors.Is(err, ticketing.ErrTicketAlreadyCancelled):
			return nil, errors.NewConflictError("ticket is already cancelled")
		default:
			return nil, errors.NewConflictError(err.Error())
		}
	}

	// The status flip and the inventory release commit together, so a
	// cancelled ticket never keeps a unit held.
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.ticketRepo.Update(txCtx, ticket); err != nil {
			return err
		}
		if heldInventory {
			return uc.classRepo.ReleaseUnit(txCtx, ticket.ClassID(), now)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("cancellation transaction failed", "guid", cmd.TicketGUID, "error", err)
		return nil, err
	}

	uc.invalidateAvailability(ctx, ticket.ClassID())
	uc.publishChange(ctx, ticket, fromStatus, vo.StatusCancelled)

	uc.logger.Infow("ticket cancelled",
		"ticket_id", ticket.ID(), "guid", ticket.GUID(), "from_status", fromStatus.String())

	return &CancelTicketResult{
		TicketID:    ticket.ID(),
		GUID:        ticket.GUID(),
		Status:      ticket.Status().String(),
		Reason:      cmd.Reason,
		CancelledAt: now,
	}, nil
}

func (uc *CancelTicketUseCase) validateCommand(cmd CancelTicketCommand) error {
	if len(cmd.TicketGUID) == 0 {
		return errors.NewValidationError("ticket GUID is required")
	}
	if len(cmd.Reason) == 0 {
		return errors.NewValidationError("cancellation reason is required")
	}
	if len(cmd.Reason) > 500 {
		return errors.NewValidationError("cancellation reason exceeds maximum length of 500 characters")
	}
	return nil
}

func (uc *CancelTicketUseCase) invalidateAvailability(ctx context.Context, classID uint) {
	if uc.availability == nil {
		return
	}
	if err := uc.availability.Invalidate(ctx, classID); err != nil {
		uc.logger.Warnw("failed to invalidate availability cache", "class_id", classID, "error", err)
	}
}

func (uc *CancelTicketUseCase) publishChange(ctx context.Context, t *ticketing.Ticket, from, to vo.TicketStatus) {
	if uc.publisher == nil {
		return
	}
	event := ticketing.TicketEvent{
		TicketID:   t.ID(),
		TicketGUID: t.GUID(),
		ClassID:    t.ClassID(),
		FromStatus: from.String(),
		ToStatus:   to.String(),
		OccurredAt: uc.clock.Now(),
	}
	if err := uc.publisher.PublishTicketChange(ctx, event); err != nil {
		uc.logger.Warnw("failed to publish ticket change", "ticket_id", t.ID(), "error", err)
	}
}
