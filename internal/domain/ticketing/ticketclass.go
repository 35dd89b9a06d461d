package ticketing

import (
	"fmt"
	"time"

	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
)

// TicketClass is a sellable tier of admission for a single event. Capacity
// and sold count are the inventory ledger for the tier; soldCount is never
// written through this aggregate, only through the conditional updates of
// TicketClassRepository.
type TicketClass struct {
	id        uint
	sid       string
	name      string
	event     vo.EventRef
	capacity  int
	soldCount int
	saleStart time.Time
	saleEnd   time.Time
	priceCents int64
	currency  string
	perks     string
	benefits  map[string]interface{}
	version   int
	createdAt time.Time
	updatedAt time.Time
}

func NewTicketClass(
	sid string,
	name string,
	event vo.EventRef,
	capacity int,
	saleStart, saleEnd time.Time,
	priceCents int64,
	currency string,
) (*TicketClass, error) {
	if len(sid) == 0 {
		return nil, fmt.Errorf("ticket class sid is required")
	}
	if len(name) == 0 {
		return nil, fmt.Errorf("name is required")
	}
	if event.IsZero() {
		return nil, fmt.Errorf("event reference is required")
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive")
	}
	if !saleEnd.After(saleStart) {
		return nil, fmt.Errorf("sale end must be after sale start")
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}
	if len(currency) == 0 {
		currency = "USD"
	}

	now := time.Now().UTC()
	return &TicketClass{
		sid:        sid,
		name:       name,
		event:      event,
		capacity:   capacity,
		soldCount:  0,
		saleStart:  saleStart,
		saleEnd:    saleEnd,
		priceCents: priceCents,
		currency:   currency,
		benefits:   make(map[string]interface{}),
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructTicketClass(
	id uint,
	sid string,
	name string,
	event vo.EventRef,
	capacity int,
	soldCount int,
	saleStart, saleEnd time.Time,
	priceCents int64,
	currency string,
	perks string,
	benefits map[string]interface{},
	version int,
	createdAt, updatedAt time.Time,
) (*TicketClass, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket class ID cannot be zero")
	}
	if len(sid) == 0 {
		return nil, fmt.Errorf("ticket class sid is required")
	}
	if capacity < 0 || soldCount < 0 || soldCount > capacity {
		return nil, fmt.Errorf("inconsistent inventory: sold=%d capacity=%d", soldCount, capacity)
	}
	if benefits == nil {
		benefits = make(map[string]interface{})
	}

	return &TicketClass{
		id:         id,
		sid:        sid,
		name:       name,
		event:      event,
		capacity:   capacity,
		soldCount:  soldCount,
		saleStart:  saleStart,
		saleEnd:    saleEnd,
		priceCents: priceCents,
		currency:   currency,
		perks:      perks,
		benefits:   benefits,
		version:    version,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}

func (c *TicketClass) ID() uint            { return c.id }
func (c *TicketClass) SID() string         { return c.sid }
func (c *TicketClass) Name() string        { return c.name }
func (c *TicketClass) Event() vo.EventRef  { return c.event }
func (c *TicketClass) Capacity() int       { return c.capacity }
func (c *TicketClass) SoldCount() int      { return c.soldCount }
func (c *TicketClass) SaleStart() time.Time { return c.saleStart }
func (c *TicketClass) SaleEnd() time.Time  { return c.saleEnd }
func (c *TicketClass) PriceCents() int64   { return c.priceCents }
func (c *TicketClass) Currency() string    { return c.currency }
func (c *TicketClass) Perks() string       { return c.perks }
func (c *TicketClass) Version() int        { return c.version }
func (c *TicketClass) CreatedAt() time.Time { return c.createdAt }
func (c *TicketClass) UpdatedAt() time.Time { return c.updatedAt }

func (c *TicketClass) Benefits() map[string]interface{} {
	benefitsCopy := make(map[string]interface{}, len(c.benefits))
	for k, v := range c.benefits {
		benefitsCopy[k] = v
	}
	return benefitsCopy
}

func (c *TicketClass) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("ticket class ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket class ID cannot be zero")
	}
	c.id = id
	return nil
}

func (c *TicketClass) SetPerks(perks string) {
	c.perks = perks
	c.updatedAt = time.Now().UTC()
	c.version++
}

func (c *TicketClass) SetBenefits(benefits map[string]interface{}) {
	if benefits == nil {
		benefits = make(map[string]interface{})
	}
	c.benefits = benefits
	c.updatedAt = time.Now().UTC()
	c.version++
}

// IsOnSale reports whether now falls within the sale window.
func (c *TicketClass) IsOnSale(now time.Time) bool {
	return !now.Before(c.saleStart) && !now.After(c.saleEnd)
}

// Remaining returns the unsold units. The value is advisory: the
// authoritative check happens in the conditional reserve update.
func (c *TicketClass) Remaining() int {
	remaining := c.capacity - c.soldCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (c *TicketClass) IsSoldOut() bool {
	return c.soldCount >= c.capacity
}
