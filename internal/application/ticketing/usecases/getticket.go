package usecases

import (
	"context"
	"time"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
)

type GetTicketQuery struct {
	TicketGUID string
}

type TicketDetail struct {
	TicketID     uint
	GUID         string
	Code         string
	Status       string
	EventKind    string
	EventID      uint
	ClassID      uint
	UserID       uint
	QRCode       string
	HasFinalQR   bool
	ValidFrom    time.Time
	ValidUntil   time.Time
	CancelReason *string
	ReservedAt   time.Time
	PaidAt       *time.Time
	UsedAt       *time.Time
	CreatedAt    time.Time
}

type GetTicketUseCase struct {
	ticketRepo ticketing.TicketRepository
	logger     logger.Interface
}

func NewGetTicketUseCase(ticketRepo ticketing.TicketRepository, logger logger.Interface) *GetTicketUseCase {
	return &GetTicketUseCase{ticketRepo: ticketRepo, logger: logger}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*TicketDetail, error) {
	if len(query.TicketGUID) == 0 {
		return nil, errors.NewValidationError("ticket GUID is required")
	}

	ticket, err := uc.ticketRepo.GetByGUID(ctx, query.TicketGUID)
	if err != nil {
		uc.logger.Debugw("ticket lookup failed", "guid", query.TicketGUID, "error", err)
		return nil, err
	}

	return toTicketDetail(ticket), nil
}

func toTicketDetail(t *ticketing.Ticket) *TicketDetail {
	detail := &TicketDetail{
		TicketID:     t.ID(),
		GUID:         t.GUID(),
		Code:         t.Code(),
		Status:       t.Status().String(),
		EventKind:    t.Event().Kind.String(),
		EventID:      t.Event().ID,
		ClassID:      t.ClassID(),
		UserID:       t.UserID(),
		HasFinalQR:   t.HasFinalQR(),
		ValidFrom:    t.ValidFrom(),
		ValidUntil:   t.ValidUntil(),
		CancelReason: t.CancelReason(),
		ReservedAt:   t.ReservedAt(),
		PaidAt:       t.PaidAt(),
		UsedAt:       t.UsedAt(),
		CreatedAt:    t.CreatedAt(),
	}
	// The placeholder value never leaves the system.
	if t.HasFinalQR() {
		detail.QRCode = t.QRCode()
	}
	return detail
}
