package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
)

type ScanTicketCommand struct {
	Token     string
	ScannerID string
}

type ScanTicketResult struct {
	TicketID     uint
	GUID         string
	Code         string
	Status       string
	AttendeeName string
	ClassName    string
	EventTitle   string
	ScannedAt    time.Time
}

type ScanTicketUseCase struct {
	ticketRepo ticketing.TicketRepository
	classRepo  ticketing.TicketClassRepository
	scanLogs   ticketing.ScanLogRepository
	eventProv  ticketing.EventProvider
	identity   ticketing.IdentityProvider
	codec      ticketing.QRCodec
	txManager  TransactionManager
	publisher  ticketing.EventPublisher
	clock      ticketing.Clock
	logger     logger.Interface
}

func NewScanTicketUseCase(
	ticketRepo ticketing.TicketRepository,
	classRepo ticketing.TicketClassRepository,
	scanLogs ticketing.ScanLogRepository,
	eventProv ticketing.EventProvider,
	identity ticketing.IdentityProvider,
	codec ticketing.QRCodec,
	txManager TransactionManager,
	publisher ticketing.EventPublisher,
	clock ticketing.Clock,
	logger logger.Interface,
) *ScanTicketUseCase {
	return &ScanTicketUseCase{
		ticketRepo: ticketRepo,
		classRepo:  classRepo,
		scanLogs:   scanLogs,
		eventProv:  eventProv,
		identity:   identity,
		codec:      codec,
		txManager:  txManager,
		publisher:  publisher,
		clock:      clock,
		logger:     logger,
	}
}

// Execute validates a presented QR token and consumes the ticket. The
// paid -> used flip is a conditional update, so two gates scanning the same
// ticket admit exactly one holder, and the flip commits together with its
// scan-log row.
func (uc *ScanTicketUseCase) Execute(ctx context.Context, cmd ScanTicketCommand) (*ScanTicketResult, error) {
	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid scan ticket command", "error", err)
		return nil, err
	}

	now := uc.clock.Now()

	payload, err := uc.codec.Decode(cmd.Token, now)
	if err != nil {
		uc.logger.Infow("scan rejected, undecodable token", "scanner_id", cmd.ScannerID, "error", err)
		return nil, errors.NewBadRequestError("invalid QR code")
	}

	ticket, err := uc.ticketRepo.GetByGUID(ctx, payload.TicketGUID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			// A well-formed token naming no ticket is indistinguishable
			// from a forged one as far as the gate is concerned.
			uc.logger.Infow("scan rejected, unknown ticket", "guid", payload.TicketGUID, "scanner_id", cmd.ScannerID)
			return nil, errors.NewBadRequestError("invalid QR code")
		}
		return nil, err
	}

	if reject := uc.checkScannable(ctx, ticket, now); reject != nil {
		uc.logger.Infow("scan rejected",
			"guid", ticket.GUID(), "status", ticket.Status().String(), "scanner_id", cmd.ScannerID)
		return nil, reject
	}

	entry, err := ticketing.NewScanLogEntry(ticket.ID(), now, cmd.ScannerID)
	if err != nil {
		uc.logger.Errorw("failed to build scan log entry", "guid", ticket.GUID(), "error", err)
		return nil, errors.NewInternalError("failed to record scan")
	}

	// The consuming flip and its audit row are one unit. A scan with no
	// log entry would leave later duplicate presentations unreportable.
	var admitted bool
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		ok, err := uc.ticketRepo.TransitionStatus(txCtx, ticket.ID(), vo.StatusPaid, vo.StatusUsed, now)
		if err != nil {
			return err
		}
		admitted = ok
		if !ok {
			return nil
		}
		return uc.scanLogs.Append(txCtx, entry)
	})
	if err != nil {
		uc.logger.Errorw("scan transaction failed", "guid", ticket.GUID(), "error", err)
		return nil, err
	}
	if !admitted {
		// Lost the race against another gate.
		uc.logger.Infow("scan rejected, concurrent consumption", "guid", ticket.GUID(), "scanner_id", cmd.ScannerID)
		return nil, uc.alreadyUsedError(ctx, ticket)
	}

	if err := ticket.MarkUsed(now); err != nil {
		// The row already flipped; entity state is for the response only.
		uc.logger.Warnw("entity state lagged scan transition", "guid", ticket.GUID(), "error", err)
	}

	uc.publishChange(ctx, ticket, vo.StatusPaid, vo.StatusUsed)

	result := &ScanTicketResult{
		TicketID:  ticket.ID(),
		GUID:      ticket.GUID(),
		Code:      ticket.Code(),
		Status:    vo.StatusUsed.String(),
		ScannedAt: now,
	}
	uc.decorateResult(ctx, ticket, result)

	uc.logger.Infow("ticket scanned",
		"ticket_id", ticket.ID(), "guid", ticket.GUID(), "scanner_id", cmd.ScannerID)

	return result, nil
}

func (uc *ScanTicketUseCase) validateCommand(cmd ScanTicketCommand) error {
	if len(cmd.Token) == 0 {
		return errors.NewValidationError("token is required")
	}
	if len(cmd.ScannerID) == 0 {
		return errors.NewValidationError("scanner identity is required")
	}
	return nil
}

// checkScannable enforces status and validity-window rules before the
// consuming flip is attempted.
func (uc *ScanTicketUseCase) checkScannable(ctx context.Context, t *ticketing.Ticket, now time.Time) error {
	switch {
	case t.Status().IsUsed():
		return uc.alreadyUsedError(ctx, t)
	case t.Status().IsCancelled():
		return errors.NewConflictError("ticket has been cancelled")
	case t.Status().IsExpired():
		return errors.NewConflictError("ticket has expired")
	case t.Status().IsReserved():
		return errors.NewConflictError("ticket has not been paid")
	}

	if now.Before(t.ValidFrom()) {
		return errors.NewConflictError("ticket is not yet valid",
			fmt.Sprintf("valid from %s", t.ValidFrom().Format(time.RFC3339)))
	}
	if !t.IsWithinValidity(now) {
		return uc.expireLapsed(ctx, t, now)
	}
	return nil
}

// expireLapsed retires a paid ticket presented after its window closed. The
// unit goes back to inventory immediately instead of waiting for the next
// sweep.
func (uc *ScanTicketUseCase) expireLapsed(ctx context.Context, t *ticketing.Ticket, now time.Time) error {
	var flipped bool
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		ok, err := uc.ticketRepo.TransitionStatus(txCtx, t.ID(), vo.StatusPaid, vo.StatusExpired, now)
		if err != nil {
			return err
		}
		flipped = ok
		if !ok {
			// Another gate or the sweeper retired it first.
			return nil
		}
		return uc.classRepo.ReleaseUnit(txCtx, t.ClassID(), now)
	})
	if err != nil {
		uc.logger.Errorw("failed to expire lapsed ticket on scan", "guid", t.GUID(), "error", err)
	} else if flipped {
		uc.publishChange(ctx, t, vo.StatusPaid, vo.StatusExpired)
	}
	return errors.NewConflictError("ticket validity window has closed")
}

// alreadyUsedError includes the prior scan details so gate staff can tell a
// duplicate presentation from a stolen copy.
func (uc *ScanTicketUseCase) alreadyUsedError(ctx context.Context, t *ticketing.Ticket) error {
	last, err := uc.scanLogs.GetLastByTicketID(ctx, t.ID())
	if err != nil || last == nil {
		return errors.NewConflictError("ticket has already been used")
	}
	return errors.NewConflictError(
		"ticket has already been used",
		fmt.Sprintf("scanned at %s by %s", last.ScannedAt().Format(time.RFC3339), last.ScannedBy()))
}

func (uc *ScanTicketUseCase) decorateResult(ctx context.Context, t *ticketing.Ticket, result *ScanTicketResult) {
	if attendee, err := uc.identity.Resolve(ctx, t.UserID()); err == nil {
		result.AttendeeName = attendee.Name
	}
	if class, err := uc.classRepo.GetByID(ctx, t.ClassID()); err == nil {
		result.ClassName = class.Name()
	}
	if window, err := uc.eventProv.GetEventWindow(ctx, t.Event()); err == nil {
		result.EventTitle = window.Title
	}
}

func (uc *ScanTicketUseCase) publishChange(ctx context.Context, t *ticketing.Ticket, from, to vo.TicketStatus) {
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
