package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/persistence/mappers"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/persistence/models"
	"github.com/nrjbutsecond/tessera/internal/shared/db"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
)

// allowedTicketOrderByFields defines the whitelist of allowed ORDER BY fields
// to prevent SQL injection attacks.
var allowedTicketOrderByFields = map[string]bool{
	"id":          true,
	"guid":        true,
	"code":        true,
	"status":      true,
	"user_id":     true,
	"class_id":    true,
	"reserved_at": true,
	"valid_until": true,
	"created_at":  true,
	"updated_at":  true,
}

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(database *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     database,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Save(ctx context.Context, t *ticketing.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("ticket already exists")
		}
		return fmt.Errorf("failed to save ticket: %w", err)
	}

	return t.SetID(model.ID)
}

// Update writes the full row guarded by the version counter. Zero rows
// affected means a concurrent writer bumped the version first.
func (r *TicketRepository) Update(ctx context.Context, t *ticketing.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"status":        model.Status,
			"qr_code":       model.QRCode,
			"cancel_reason": model.CancelReason,
			"paid_at":       model.PaidAt,
			"used_at":       model.UsedAt,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		if errors.IsDuplicateError(result.Error) {
			return errors.NewConflictError("QR code already assigned")
		}
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError("ticket was modified concurrently")
	}

	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticketing.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, ticketID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("ticket not found")
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) GetByGUID(ctx context.Context, guid string) (*ticketing.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("guid = ?", guid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("ticket not found")
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) List(ctx context.Context, filter ticketing.TicketFilter) ([]*ticketing.Ticket, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.TicketModel{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ClassID != nil {
		query = query.Where("class_id = ?", *filter.ClassID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.EventKind != nil {
		query = query.Where("event_kind = ?", filter.EventKind.String())
	}
	if filter.EventID != nil {
		query = query.Where("event_id = ?", *filter.EventID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	query = query.Order(buildTicketOrderBy(filter.SortBy, filter.SortOrder))
	if filter.PageSize > 0 {
		query = query.Limit(filter.Limit()).Offset(filter.Offset())
	}

	var rows []models.TicketModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets := make([]*ticketing.Ticket, 0, len(rows))
	for i := range rows {
		t, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}

	return tickets, total, nil
}

func (r *TicketRepository) QRCodeExists(ctx context.Context, qrCode string) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var count int64
	if err := tx.
		Model(&models.TicketModel{}).
		Where("qr_code = ?", qrCode).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check QR code: %w", err)
	}

	return count > 0, nil
}

// TransitionStatus is the single-row compare-and-set behind every racing
// transition. The WHERE clause on the current status makes losing writers a
// zero-row no-op.
func (r *TicketRepository) TransitionStatus(ctx context.Context, ticketID uint, from, to vo.TicketStatus, at time.Time) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	atMillis := at.UTC().UnixMilli()
	updates := map[string]interface{}{
		"status":     to.String(),
		"version":    gorm.Expr("version + 1"),
		"updated_at": atMillis,
	}
	if to == vo.StatusUsed {
		updates["used_at"] = atMillis
	}

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ? AND status = ?", ticketID, from.String()).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition ticket status: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *TicketRepository) ListExpiredHolding(ctx context.Context, now time.Time, limit int) ([]*ticketing.Ticket, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.TicketModel
	if err := tx.
		Where("status IN ?", []string{vo.StatusReserved.String(), vo.StatusPaid.String()}).
		Where("valid_until < ?", now.UnixMilli()).
		Order("valid_until ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list lapsed tickets: %w", err)
	}

	return r.toDomainSlice(rows)
}

func (r *TicketRepository) ListStaleReservations(ctx context.Context, cutoff time.Time, limit int) ([]*ticketing.Ticket, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.TicketModel
	if err := tx.
		Where("status = ?", vo.StatusReserved.String()).
		Where("reserved_at < ?", cutoff.UnixMilli()).
		Order("reserved_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list stale reservations: %w", err)
	}

	return r.toDomainSlice(rows)
}

func (r *TicketRepository) toDomainSlice(rows []models.TicketModel) ([]*ticketing.Ticket, error) {
	tickets := make([]*ticketing.Ticket, 0, len(rows))
	for i := range rows {
		t, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func buildTicketOrderBy(sortBy, sortOrder string) string {
	field := "created_at"
	if allowedTicketOrderByFields[sortBy] {
		field = sortBy
	}
	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}
	return field + " " + order
}
