package ticketing

import (
	"fmt"
	"time"
)

// ScanLogEntry is an immutable audit record of a consuming scan. Entries are
// appended by the scan use case only and never updated or deleted.
type ScanLogEntry struct {
	id        uint
	ticketID  uint
	scannedAt time.Time
	scannedBy string
}

func NewScanLogEntry(ticketID uint, scannedAt time.Time, scannedBy string) (*ScanLogEntry, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if len(scannedBy) == 0 {
		return nil, fmt.Errorf("scanner identity is required")
	}

	return &ScanLogEntry{
		ticketID:  ticketID,
		scannedAt: scannedAt,
		scannedBy: scannedBy,
	}, nil
}

func ReconstructScanLogEntry(id, ticketID uint, scannedAt time.Time, scannedBy string) (*ScanLogEntry, error) {
	if id == 0 {
		return nil, fmt.Errorf("scan log entry ID cannot be zero")
	}
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}

	return &ScanLogEntry{
		id:        id,
		ticketID:  ticketID,
		scannedAt: scannedAt,
		scannedBy: scannedBy,
	}, nil
}

func (e *ScanLogEntry) ID() uint             { return e.id }
func (e *ScanLogEntry) TicketID() uint       { return e.ticketID }
func (e *ScanLogEntry) ScannedAt() time.Time { return e.scannedAt }
func (e *ScanLogEntry) ScannedBy() string    { return e.scannedBy }

func (e *ScanLogEntry) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("scan log entry ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("scan log entry ID cannot be zero")
	}
	e.id = id
	return nil
}
