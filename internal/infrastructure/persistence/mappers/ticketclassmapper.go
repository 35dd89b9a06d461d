package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/persistence/models"
)

// TicketClassMapper handles the conversion between TicketClass domain
// entities and persistence models.
type TicketClassMapper interface {
	ToModel(c *ticketing.TicketClass) (*models.TicketClassModel, error)
	ToDomain(model *models.TicketClassModel) (*ticketing.TicketClass, error)
}

type TicketClassMapperImpl struct{}

func NewTicketClassMapper() TicketClassMapper {
	return &TicketClassMapperImpl{}
}

func (m *TicketClassMapperImpl) ToModel(c *ticketing.TicketClass) (*models.TicketClassModel, error) {
	model := &models.TicketClassModel{
		ID:         c.ID(),
		SID:        c.SID(),
		Name:       c.Name(),
		EventKind:  c.Event().Kind.String(),
		EventID:    c.Event().ID,
		Capacity:   c.Capacity(),
		SoldCount:  c.SoldCount(),
		SaleStart:  c.SaleStart().UnixMilli(),
		SaleEnd:    c.SaleEnd().UnixMilli(),
		PriceCents: c.PriceCents(),
		Currency:   c.Currency(),
		Perks:      c.Perks(),
		Version:    c.Version(),
		CreatedAt:  c.CreatedAt().UnixMilli(),
		UpdatedAt:  c.UpdatedAt().UnixMilli(),
	}

	benefits := c.Benefits()
	if len(benefits) > 0 {
		raw, err := json.Marshal(benefits)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal class benefits (sid=%s): %w", c.SID(), err)
		}
		model.Benefits = datatypes.JSON(raw)
	}

	return model, nil
}

func (m *TicketClassMapperImpl) ToDomain(model *models.TicketClassModel) (*ticketing.TicketClass, error) {
	kind, err := vo.NewEventKind(model.EventKind)
	if err != nil {
		return nil, fmt.Errorf("invalid class event kind (id=%d): %w", model.ID, err)
	}
	eventRef, err := vo.NewEventRef(kind, model.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid class event ref (id=%d): %w", model.ID, err)
	}

	var benefits map[string]interface{}
	if len(model.Benefits) > 0 {
		if err := json.Unmarshal(model.Benefits, &benefits); err != nil {
			return nil, fmt.Errorf("failed to unmarshal class benefits (id=%d): %w", model.ID, err)
		}
	}

	return ticketing.ReconstructTicketClass(
		model.ID,
		model.SID,
		model.Name,
		eventRef,
		model.Capacity,
		model.SoldCount,
		convertMillisToTime(model.SaleStart),
		convertMillisToTime(model.SaleEnd),
		model.PriceCents,
		model.Currency,
		model.Perks,
		benefits,
		model.Version,
		convertMillisToTime(model.CreatedAt),
		convertMillisToTime(model.UpdatedAt),
	)
}
