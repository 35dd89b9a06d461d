package models

type ScanLogModel struct {
	ID        uint   `gorm:"primaryKey"`
	TicketID  uint   `gorm:"not null;index"`
	ScannedAt int64  `gorm:"not null;index"`
	ScannedBy string `gorm:"size:100;not null"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
}

func (ScanLogModel) TableName() string {
	return "ticket_scan_logs"
}
