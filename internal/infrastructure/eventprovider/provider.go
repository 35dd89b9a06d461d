package eventprovider

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/persistence/models"
	"github.com/nrjbutsecond/tessera/internal/shared/db"
)

// Provider resolves event references against the talk event and workshop
// catalogs.
type Provider struct {
	db *gorm.DB
}

func NewProvider(database *gorm.DB) *Provider {
	return &Provider{db: database}
}

func (p *Provider) GetEventWindow(ctx context.Context, ref vo.EventRef) (*ticketing.EventWindow, error) {
	tx := db.GetTxFromContext(ctx, p.db)

	var title string
	var startsAt, endsAt int64

	switch ref.Kind {
	case vo.KindTalkEvent:
		var model models.TalkEventModel
		if err := tx.First(&model, ref.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ticketing.ErrEventNotFound
			}
			return nil, fmt.Errorf("failed to load talk event: %w", err)
		}
		title, startsAt, endsAt = model.Title, model.StartsAt, model.EndsAt

	case vo.KindWorkshop:
		var model models.WorkshopModel
		if err := tx.First(&model, ref.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ticketing.ErrEventNotFound
			}
			return nil, fmt.Errorf("failed to load workshop: %w", err)
		}
		title, startsAt, endsAt = model.Title, model.StartsAt, model.EndsAt

	default:
		return nil, ticketing.ErrEventNotFound
	}

	return &ticketing.EventWindow{
		Title:    title,
		StartsAt: time.Unix(0, startsAt*int64(time.Millisecond)).UTC(),
		EndsAt:   time.Unix(0, endsAt*int64(time.Millisecond)).UTC(),
	}, nil
}
