package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/persistence/mappers"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/persistence/models"
	"github.com/nrjbutsecond/tessera/internal/shared/db"
)

// ScanLogRepository is append-only; entries are never updated or deleted.
type ScanLogRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewScanLogRepository(database *gorm.DB) *ScanLogRepository {
	return &ScanLogRepository{
		db:     database,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *ScanLogRepository) Append(ctx context.Context, entry *ticketing.ScanLogEntry) error {
	model := r.mapper.ScanLogToModel(entry)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to append scan log: %w", err)
	}

	return entry.SetID(model.ID)
}

func (r *ScanLogRepository) GetLastByTicketID(ctx context.Context, ticketID uint) (*ticketing.ScanLogEntry, error) {
	var model models.ScanLogModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("scanned_at DESC").
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load last scan: %w", err)
	}

	return r.mapper.ScanLogToDomain(&model)
}

func (r *ScanLogRepository) ListByTicketID(ctx context.Context, ticketID uint) ([]*ticketing.ScanLogEntry, error) {
	var rows []models.ScanLogModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("scanned_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list scan logs: %w", err)
	}

	entries := make([]*ticketing.ScanLogEntry, 0, len(rows))
	for i := range rows {
		entry, err := r.mapper.ScanLogToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
