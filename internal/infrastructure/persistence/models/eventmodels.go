package models

// TalkEventModel and WorkshopModel are the two ticketable catalogs. They are
// owned by the events service; this schema carries the columns ticketing
// reads.

type TalkEventModel struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"size:200;not null"`
	StartsAt  int64  `gorm:"not null;index"`
	EndsAt    int64  `gorm:"not null"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (TalkEventModel) TableName() string {
	return "talk_events"
}

type WorkshopModel struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"size:200;not null"`
	StartsAt  int64  `gorm:"not null;index"`
	EndsAt    int64  `gorm:"not null"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (WorkshopModel) TableName() string {
	return "workshops"
}
