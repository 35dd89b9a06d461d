package mappers

import (
	"fmt"
	"time"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between Ticket domain entities and persistence models.
type TicketMapper interface {
	ToModel(t *ticketing.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticketing.Ticket, error)
	ScanLogToModel(entry *ticketing.ScanLogEntry) *models.ScanLogModel
	ScanLogToDomain(model *models.ScanLogModel) (*ticketing.ScanLogEntry, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticketing.Ticket) *models.TicketModel {
	model := &models.TicketModel{
		ID:           t.ID(),
		GUID:         t.GUID(),
		Code:         t.Code(),
		UserID:       t.UserID(),
		ClassID:      t.ClassID(),
		EventKind:    t.Event().Kind.String(),
		EventID:      t.Event().ID,
		Status:       t.Status().String(),
		QRCode:       t.QRCode(),
		ValidFrom:    t.ValidFrom().UnixMilli(),
		ValidUntil:   t.ValidUntil().UnixMilli(),
		CancelReason: t.CancelReason(),
		ReservedAt:   t.ReservedAt().UnixMilli(),
		Version:      t.Version(),
		CreatedAt:    t.CreatedAt().UnixMilli(),
		UpdatedAt:    t.UpdatedAt().UnixMilli(),
	}

	if t.PaidAt() != nil {
		paid := t.PaidAt().UnixMilli()
		model.PaidAt = &paid
	}
	if t.UsedAt() != nil {
		used := t.UsedAt().UnixMilli()
		model.UsedAt = &used
	}

	return model
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticketing.Ticket, error) {
	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket status (id=%d): %w", model.ID, err)
	}

	kind, err := vo.NewEventKind(model.EventKind)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket event kind (id=%d): %w", model.ID, err)
	}
	eventRef, err := vo.NewEventRef(kind, model.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket event ref (id=%d): %w", model.ID, err)
	}

	var paidAt, usedAt *time.Time
	if model.PaidAt != nil {
		t := convertMillisToTime(*model.PaidAt)
		paidAt = &t
	}
	if model.UsedAt != nil {
		t := convertMillisToTime(*model.UsedAt)
		usedAt = &t
	}

	return ticketing.ReconstructTicket(
		model.ID,
		model.GUID,
		model.Code,
		model.UserID,
		model.ClassID,
		eventRef,
		status,
		model.QRCode,
		convertMillisToTime(model.ValidFrom),
		convertMillisToTime(model.ValidUntil),
		model.CancelReason,
		convertMillisToTime(model.ReservedAt),
		paidAt,
		usedAt,
		model.Version,
		convertMillisToTime(model.CreatedAt),
		convertMillisToTime(model.UpdatedAt),
	)
}

func (m *TicketMapperImpl) ScanLogToModel(entry *ticketing.ScanLogEntry) *models.ScanLogModel {
	return &models.ScanLogModel{
		ID:        entry.ID(),
		TicketID:  entry.TicketID(),
		ScannedAt: entry.ScannedAt().UnixMilli(),
		ScannedBy: entry.ScannedBy(),
	}
}

func (m *TicketMapperImpl) ScanLogToDomain(model *models.ScanLogModel) (*ticketing.ScanLogEntry, error) {
	return ticketing.ReconstructScanLogEntry(
		model.ID,
		model.TicketID,
		convertMillisToTime(model.ScannedAt),
		model.ScannedBy,
	)
}

func convertMillisToTime(millis int64) time.Time {
	return time.Unix(0, millis*int64(time.Millisecond)).UTC()
}
