package usecases

import (
	"context"
	"time"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
)

type CreateTicketClassCommand struct {
	Name       string
	EventKind  string
	EventID    uint
	Capacity   int
	SaleStart  time.Time
	SaleEnd    time.Time
	PriceCents int64
	Currency   string
	Perks      string
	Benefits   map[string]interface{}
}

type CreateTicketClassResult struct {
	ClassID   uint
	SID       string
	Name      string
	Capacity  int
	CreatedAt time.Time
}

type CreateTicketClassUseCase struct {
	classRepo     ticketing.TicketClassRepository
	eventProvider ticketing.EventProvider
	codeGen       ticketing.CodeGenerator
	logger        logger.Interface
}

func NewCreateTicketClassUseCase(
	classRepo ticketing.TicketClassRepository,
	eventProvider ticketing.EventProvider,
	codeGen ticketing.CodeGenerator,
	logger logger.Interface,
) *CreateTicketClassUseCase {
	return &CreateTicketClassUseCase{
		classRepo:     classRepo,
		eventProvider: eventProvider,
		codeGen:       codeGen,
		logger:        logger,
	}
}

func (uc *CreateTicketClassUseCase) Execute(ctx context.Context, cmd CreateTicketClassCommand) (*CreateTicketClassResult, error) {
	uc.logger.Infow("executing create ticket class use case",
		"name", cmd.Name, "event_kind", cmd.EventKind, "event_id", cmd.EventID, "capacity", cmd.Capacity)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid create ticket class command", "error", err)
		return nil, err
	}

	kind, err := vo.NewEventKind(cmd.EventKind)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	eventRef, err := vo.NewEventRef(kind, cmd.EventID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if _, err := uc.eventProvider.GetEventWindow(ctx, eventRef); err != nil {
		uc.logger.Errorw("event lookup failed", "event", eventRef.String(), "error", err)
		return nil, errors.NewNotFoundError("event not found")
	}

	sid, err := uc.codeGen.NewClassSID()
	if err != nil {
		return nil, errors.NewInternalError("failed to generate class ID", err.Error())
	}

	class, err := ticketing.NewTicketClass(
		sid, cmd.Name, eventRef, cmd.Capacity,
		cmd.SaleStart, cmd.SaleEnd, cmd.PriceCents, cmd.Currency,
	)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if cmd.Perks != "" {
		class.SetPerks(cmd.Perks)
	}
	if len(cmd.Benefits) > 0 {
		class.SetBenefits(cmd.Benefits)
	}

	if err := uc.classRepo.Save(ctx, class); err != nil {
		uc.logger.Errorw("failed to save ticket class", "error", err)
		return nil, err
	}

	uc.logger.Infow("ticket class created", "class_id", class.ID(), "sid", class.SID())

	return &CreateTicketClassResult{
		ClassID:   class.ID(),
		SID:       class.SID(),
		Name:      class.Name(),
		Capacity:  class.Capacity(),
		CreatedAt: class.CreatedAt(),
	}, nil
}

func (uc *CreateTicketClassUseCase) validateCommand(cmd CreateTicketClassCommand) error {
	if len(cmd.Name) == 0 {
		return errors.NewValidationError("name is required")
	}
	if len(cmd.Name) > 200 {
		return errors.NewValidationError("name exceeds maximum length of 200 characters")
	}
	if cmd.EventID == 0 {
		return errors.NewValidationError("event ID is required")
	}
	if cmd.Capacity <= 0 {
		return errors.NewValidationError("capacity must be positive")
	}
	if cmd.PriceCents < 0 {
		return errors.NewValidationError("price cannot be negative")
	}
	if !cmd.SaleEnd.After(cmd.SaleStart) {
		return errors.NewValidationError("sale end must be after sale start")
	}
	return nil
}
