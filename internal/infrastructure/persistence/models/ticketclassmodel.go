package models

import "gorm.io/datatypes"

type TicketClassModel struct {
	ID         uint           `gorm:"primaryKey"`
	SID        string         `gorm:"uniqueIndex;size:50;not null"`
	Name       string         `gorm:"size:200;not null"`
	EventKind  string         `gorm:"size:20;not null;index:idx_ticket_classes_event"`
	EventID    uint           `gorm:"not null;index:idx_ticket_classes_event"`
	Capacity   int            `gorm:"not null"`
	SoldCount  int            `gorm:"not null;default:0"`
	SaleStart  int64          `gorm:"not null"`
	SaleEnd    int64          `gorm:"not null"`
	PriceCents int64          `gorm:"not null;default:0"`
	Currency   string         `gorm:"size:3;not null;default:'USD'"`
	Perks      string         `gorm:"type:text"`
	Benefits   datatypes.JSON `gorm:"type:json"`
	Version    int            `gorm:"not null;default:1"`
	CreatedAt  int64          `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt  int64          `gorm:"autoUpdateTime:milli;not null"`
}

func (TicketClassModel) TableName() string {
	return "ticket_classes"
}
