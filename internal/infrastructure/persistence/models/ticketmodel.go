package models

type TicketModel struct {
	ID           uint    `gorm:"primaryKey"`
	GUID         string  `gorm:"uniqueIndex;size:36;not null"`
	Code         string  `gorm:"uniqueIndex;size:50;not null"`
	UserID       uint    `gorm:"not null;index"`
	ClassID      uint    `gorm:"not null;index"`
	EventKind    string  `gorm:"size:20;not null;index:idx_tickets_event"`
	EventID      uint    `gorm:"not null;index:idx_tickets_event"`
	Status       string  `gorm:"size:20;not null;index"`
	QRCode       string  `gorm:"uniqueIndex;size:512;not null"`
	ValidFrom    int64   `gorm:"not null"`
	ValidUntil   int64   `gorm:"not null;index"`
	CancelReason *string `gorm:"size:500"`
	ReservedAt   int64   `gorm:"not null;index"`
	PaidAt       *int64
	UsedAt       *int64
	Version      int   `gorm:"not null;default:1"`
	CreatedAt    int64 `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt    int64 `gorm:"autoUpdateTime:milli;not null"`

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return "tickets"
}
