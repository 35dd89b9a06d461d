package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/persistence/mappers"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/persistence/models"
	"github.com/nrjbutsecond/tessera/internal/shared/db"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
)

type TicketClassRepository struct {
	db     *gorm.DB
	mapper mappers.TicketClassMapper
}

func NewTicketClassRepository(database *gorm.DB) *TicketClassRepository {
	return &TicketClassRepository{
		db:     database,
		mapper: mappers.NewTicketClassMapper(),
	}
}

func (r *TicketClassRepository) Save(ctx context.Context, c *ticketing.TicketClass) error {
	model, err := r.mapper.ToModel(c)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("ticket class already exists")
		}
		return fmt.Errorf("failed to save ticket class: %w", err)
	}

	return c.SetID(model.ID)
}

// Update never touches sold_count; that column moves only through
// ReserveUnit and ReleaseUnit.
func (r *TicketClassRepository) Update(ctx context.Context, c *ticketing.TicketClass) error {
	model, err := r.mapper.ToModel(c)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketClassModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"capacity":    model.Capacity,
			"sale_start":  model.SaleStart,
			"sale_end":    model.SaleEnd,
			"price_cents": model.PriceCents,
			"currency":    model.Currency,
			"perks":       model.Perks,
			"benefits":    model.Benefits,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket class: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError("ticket class was modified concurrently")
	}

	return nil
}

func (r *TicketClassRepository) GetByID(ctx context.Context, classID uint) (*ticketing.TicketClass, error) {
	var model models.TicketClassModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, classID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("ticket class not found")
		}
		return nil, fmt.Errorf("failed to find ticket class: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketClassRepository) GetBySID(ctx context.Context, sid string) (*ticketing.TicketClass, error) {
	var model models.TicketClassModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("ticket class not found")
		}
		return nil, fmt.Errorf("failed to find ticket class: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketClassRepository) ListByEvent(ctx context.Context, event vo.EventRef) ([]*ticketing.TicketClass, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.TicketClassModel
	if err := tx.
		Where("event_kind = ? AND event_id = ?", event.Kind.String(), event.ID).
		Order("price_cents ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list ticket classes: %w", err)
	}

	classes := make([]*ticketing.TicketClass, 0, len(rows))
	for i := range rows {
		c, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}

	return classes, nil
}

// ReserveUnit is the inventory gate. The guarded increment either claims a
// unit inside capacity and the sale window or affects zero rows; the follow-up
// read only classifies the rejection.
func (r *TicketClassRepository) ReserveUnit(ctx context.Context, classID uint, now time.Time) error {
	tx := db.GetTxFromContext(ctx, r.db)
	nowMillis := now.UnixMilli()

	result := tx.
		Model(&models.TicketClassModel{}).
		Where("id = ? AND sold_count < capacity AND sale_start <= ? AND sale_end >= ?", classID, nowMillis, nowMillis).
		Updates(map[string]interface{}{
			"sold_count": gorm.Expr("sold_count + 1"),
			"updated_at": nowMillis,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to reserve unit: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var model models.TicketClassModel
	if err := tx.First(&model, classID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.NewNotFoundError("ticket class not found")
		}
		return fmt.Errorf("failed to classify reservation rejection: %w", err)
	}
	if model.SaleStart > nowMillis || model.SaleEnd < nowMillis {
		return ticketing.ErrNotOnSale
	}
	return ticketing.ErrSoldOut
}

// ReleaseUnit returns one unit, floored at zero so replays never drive the
// count negative.
func (r *TicketClassRepository) ReleaseUnit(ctx context.Context, classID uint, now time.Time) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketClassModel{}).
		Where("id = ? AND sold_count > 0", classID).
		Updates(map[string]interface{}{
			"sold_count": gorm.Expr("sold_count - 1"),
			"updated_at": now.UTC().UnixMilli(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to release unit: %w", result.Error)
	}

	return nil
}
