package identity

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/persistence/models"
	"github.com/nrjbutsecond/tessera/internal/shared/db"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
)

// Provider resolves user IDs to deliverable attendee records from the users
// table.
type Provider struct {
	db *gorm.DB
}

func NewProvider(database *gorm.DB) *Provider {
	return &Provider{db: database}
}

func (p *Provider) Resolve(ctx context.Context, userID uint) (*ticketing.Attendee, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, p.db)

	if err := tx.First(&model, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return &ticketing.Attendee{
		ID:    model.ID,
		Name:  model.Name,
		Email: model.Email,
	}, nil
}
