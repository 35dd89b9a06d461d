package usecases

import (
	"context"
	"time"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
	"github.com/nrjbutsecond/tessera/internal/shared/goroutine"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
)

// qrMintRetries bounds the uniqueness retry loop when minting a QR token.
const qrMintRetries = 5

// qrImageSize is the PNG edge length in pixels for delivered QR images.
const qrImageSize = 256

type ConfirmPaymentCommand struct {
	TicketGUID string
}

type ConfirmPaymentResult struct {
	TicketID uint
	GUID     string
	Code     string
	Status   string
	QRCode   string
	PaidAt   time.Time
}

type ConfirmPaymentUseCase struct {
	ticketRepo ticketing.TicketRepository
	classRepo  ticketing.TicketClassRepository
	eventProv  ticketing.EventProvider
	identity   ticketing.IdentityProvider
	delivery   ticketing.TicketDelivery
	codec      ticketing.QRCodec
	renderer   QRImageRenderer
	publisher  ticketing.EventPublisher
	clock      ticketing.Clock
	logger     logger.Interface
}

func NewConfirmPaymentUseCase(
	ticketRepo ticketing.TicketRepository,
	classRepo ticketing.TicketClassRepository,
	eventProv ticketing.EventProvider,
	identity ticketing.IdentityProvider,
	delivery ticketing.TicketDelivery,
	codec ticketing.QRCodec,
	renderer QRImageRenderer,
	publisher ticketing.EventPublisher,
	clock ticketing.Clock,
	logger logger.Interface,
) *ConfirmPaymentUseCase {
	return &ConfirmPaymentUseCase{
		ticketRepo: ticketRepo,
		classRepo:  classRepo,
		eventProv:  eventProv,
		identity:   identity,
		delivery:   delivery,
		codec:      codec,
		renderer:   renderer,
		publisher:  publisher,
		clock:      clock,
		logger:     logger,
	}
}

func (uc *ConfirmPaymentUseCase) Execute(ctx context.Context, cmd ConfirmPaymentCommand) (*ConfirmPaymentResult, error) {
	uc.logger.Infow("executing confirm payment use case", "guid", cmd.TicketGUID)

	if len(cmd.TicketGUID) == 0 {
		return nil, errors.NewValidationError("ticket GUID is required")
	}

	ticket, err := uc.ticketRepo.GetByGUID(ctx, cmd.TicketGUID)
	if err != nil {
		uc.logger.Errorw("ticket lookup failed", "guid", cmd.TicketGUID, "error", err)
		return nil, err
	}

	if !ticket.Status().IsReserved() {
		uc.logger.Infow("payment confirmation rejected",
			"guid", cmd.TicketGUID, "status", ticket.Status().String())
		return nil, errors.NewConflictError("ticket is not awaiting payment")
	}

	now := uc.clock.Now()

	token, err := uc.mintUniqueToken(ctx, ticket, now)
	if err != nil {
		return nil, err
	}

	if err := ticket.ConfirmPayment(token, now); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}

	// Update is guarded by the version column; a concurrent confirmation or
	// cancellation makes it a no-op and surfaces as a conflict.
	if err := uc.ticketRepo.Update(ctx, ticket); err != nil {
		uc.logger.Errorw("failed to persist payment confirmation", "guid", cmd.TicketGUID, "error", err)
		return nil, err
	}

	uc.publishChange(ctx, ticket, vo.StatusReserved, vo.StatusPaid)
	uc.deliverAsync(ticket)

	uc.logger.Infow("payment confirmed", "ticket_id", ticket.ID(), "guid", ticket.GUID())

	return &ConfirmPaymentResult{
		TicketID: ticket.ID(),
		GUID:     ticket.GUID(),
		Code:     ticket.Code(),
		Status:   ticket.Status().String(),
		QRCode:   ticket.QRCode(),
		PaidAt:   now,
	}, nil
}

// mintUniqueToken seals the ticket payload and retries on the vanishingly
// unlikely token collision rather than failing the payment outright.
func (uc *ConfirmPaymentUseCase) mintUniqueToken(ctx context.Context, t *ticketing.Ticket, now time.Time) (string, error) {
	payload := &ticketing.QRPayload{
		TicketGUID: t.GUID(),
		TicketCode: t.Code(),
		ClassID:    t.ClassID(),
		UserID:     t.UserID(),
		IssuedAt:   now,
	}

	for attempt := 0; attempt < qrMintRetries; attempt++ {
		token, err := uc.codec.Encode(payload)
		if err != nil {
			uc.logger.Errorw("failed to seal qr token", "guid", t.GUID(), "error", err)
			return "", errors.NewInternalError("failed to generate QR code", err.Error())
		}

		exists, err := uc.ticketRepo.QRCodeExists(ctx, token)
		if err != nil {
			return "", err
		}
		if !exists {
			return token, nil
		}

		uc.logger.Warnw("qr token collision, retrying", "guid", t.GUID(), "attempt", attempt+1)
	}

	return "", errors.NewInternalError("failed to generate QR code", ticketing.ErrQRCodeCollision.Error())
}

func (uc *ConfirmPaymentUseCase) publishChange(ctx context.Context, t *ticketing.Ticket, from, to vo.TicketStatus) {
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

// deliverAsync sends the ticket email off the request path. Delivery failures
// are logged, not surfaced; the attendee can always refetch the QR.
func (uc *ConfirmPaymentUseCase) deliverAsync(t *ticketing.Ticket) {
	if uc.delivery == nil {
		return
	}

	goroutine.SafeGo(uc.logger, "ticket-delivery", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		attendee, err := uc.identity.Resolve(ctx, t.UserID())
		if err != nil {
			uc.logger.Warnw("delivery skipped, identity resolution failed",
				"ticket_id", t.ID(), "user_id", t.UserID(), "error", err)
			return
		}

		class, err := uc.classRepo.GetByID(ctx, t.ClassID())
		if err != nil {
			uc.logger.Warnw("delivery skipped, class lookup failed",
				"ticket_id", t.ID(), "class_id", t.ClassID(), "error", err)
			return
		}

		eventTitle := ""
		if window, err := uc.eventProv.GetEventWindow(ctx, t.Event()); err == nil {
			eventTitle = window.Title
		}

		image, err := uc.renderer.RenderPNG(t.QRCode(), qrImageSize)
		if err != nil {
			uc.logger.Warnw("delivery skipped, qr rendering failed", "ticket_id", t.ID(), "error", err)
			return
		}

		payload := &ticketing.DeliveryPayload{
			Attendee:   attendee,
			Ticket:     t,
			Class:      class,
			EventTitle: eventTitle,
			QRImage:    image,
		}
		if err := uc.delivery.Deliver(ctx, payload); err != nil {
			uc.logger.Warnw("ticket delivery failed", "ticket_id", t.ID(), "error", err)
			return
		}

		uc.logger.Infow("ticket delivered", "ticket_id", t.ID(), "email", attendee.Email)
	})
}
