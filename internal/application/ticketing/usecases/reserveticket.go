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

// Admission opens one hour before the event starts and closes 24 hours after,
// covering late arrivals and multi-session days.
const (
	admissionLead = time.Hour
	admissionTail = 24 * time.Hour
)

type ReserveTicketCommand struct {
	UserID  uint
	ClassID uint
}

type ReserveTicketResult struct {
	TicketID   uint
	GUID       string
	Code       string
	Status     string
	ValidFrom  time.Time
	ValidUntil time.Time
	ExpiresAt  time.Time
	ReservedAt time.Time
}

type ReserveTicketUseCase struct {
	ticketRepo    ticketing.TicketRepository
	classRepo     ticketing.TicketClassRepository
	eventProvider ticketing.EventProvider
	codeGen       ticketing.CodeGenerator
	txManager     TransactionManager
	availability  AvailabilityCache
	publisher     ticketing.EventPublisher
	clock         ticketing.Clock
	holdTTL       time.Duration
	logger        logger.Interface
}

func NewReserveTicketUseCase(
	ticketRepo ticketing.TicketRepository,
	classRepo ticketing.TicketClassRepository,
	eventProvider ticketing.EventProvider,
	codeGen ticketing.CodeGenerator,
	txManager TransactionManager,
	availability AvailabilityCache,
	publisher ticketing.EventPublisher,
	clock ticketing.Clock,
	holdTTL time.Duration,
	logger logger.Interface,
) *ReserveTicketUseCase {
	return &ReserveTicketUseCase{
		ticketRepo:    ticketRepo,
		classRepo:     classRepo,
		eventProvider: eventProvider,
		codeGen:       codeGen,
		txManager:     txManager,
		availability:  availability,
		publisher:     publisher,
		clock:         clock,
		holdTTL:       holdTTL,
		logger:        logger,
	}
}

func (uc *ReserveTicketUseCase) Execute(ctx context.Context, cmd ReserveTicketCommand) (*ReserveTicketResult, error) {
	uc.logger.Infow("executing reserve ticket use case", "user_id", cmd.UserID, "class_id", cmd.ClassID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid reserve ticket command", "error", err)
		return nil, err
	}

	class, err := uc.classRepo.GetByID(ctx, cmd.ClassID)
	if err != nil {
		uc.logger.Errorw("ticket class lookup failed", "class_id", cmd.ClassID, "error", err)
		return nil, err
	}

	window, err := uc.eventProvider.GetEventWindow(ctx, class.Event())
	if err != nil {
		uc.logger.Errorw("event lookup failed", "event", class.Event().String(), "error", err)
		return nil, errors.NewNotFoundError("event not found")
	}

	now := uc.clock.Now()

	guid := uc.codeGen.NewGUID()
	code, err := uc.codeGen.NewCode()
	if err != nil {
		return nil, errors.NewInternalError("failed to generate ticket code", err.Error())
	}

	ticket, err := ticketing.NewReservedTicket(
		guid, code, cmd.UserID, class.ID(), class.Event(),
		window.StartsAt.Add(-admissionLead),
		window.StartsAt.Add(admissionTail),
		now,
	)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	// The conditional increment and the ticket insert commit or roll back
	// together, so a failed insert never leaks a held unit.
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.classRepo.ReserveUnit(txCtx, class.ID(), now); err != nil {
			return err
		}
		return uc.ticketRepo.Save(txCtx, ticket)
	})
	if err != nil {
		switch {
		case stderrors.Is(err, ticketing.ErrSoldOut):
			uc.logger.Infow("reservation rejected, class sold out", "class_id", class.ID())
			return nil, errors.NewConflictError("ticket class is sold out")
		case stderrors.Is(err, ticketing.ErrNotOnSale):
			uc.logger.Infow("reservation rejected, class not on sale", "class_id", class.ID())
			return nil, errors.NewConflictError("ticket class is not on sale")
		default:
			uc.logger.Errorw("reservation transaction failed", "class_id", class.ID(), "error", err)
			return nil, err
		}
	}

	uc.invalidateAvailability(ctx, class.ID())
	uc.publishChange(ctx, ticket, "", vo.StatusReserved)

	uc.logger.Infow("ticket reserved",
		"ticket_id", ticket.ID(), "guid", ticket.GUID(), "class_id", class.ID(), "user_id", cmd.UserID)

	return &ReserveTicketResult{
		TicketID:   ticket.ID(),
		GUID:       ticket.GUID(),
		Code:       ticket.Code(),
		Status:     ticket.Status().String(),
		ValidFrom:  ticket.ValidFrom(),
		ValidUntil: ticket.ValidUntil(),
		ExpiresAt:  now.Add(uc.holdTTL),
		ReservedAt: ticket.ReservedAt(),
	}, nil
}

func (uc *ReserveTicketUseCase) validateCommand(cmd ReserveTicketCommand) error {
	if cmd.UserID == 0 {
		return errors.NewValidationError("user ID is required")
	}
	if cmd.ClassID == 0 {
		return errors.NewValidationError("ticket class ID is required")
	}
	return nil
}

func (uc *ReserveTicketUseCase) invalidateAvailability(ctx context.Context, classID uint) {
	if uc.availability == nil {
		return
	}
	if err := uc.availability.Invalidate(ctx, classID); err != nil {
		uc.logger.Warnw("failed to invalidate availability cache", "class_id", classID, "error", err)
	}
}

func (uc *ReserveTicketUseCase) publishChange(ctx context.Context, t *ticketing.Ticket, from, to vo.TicketStatus) {
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
