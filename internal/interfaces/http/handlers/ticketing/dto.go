package ticketing

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nrjbutsecond/tessera/internal/application/ticketing/usecases"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
)

type CreateTicketClassRequest struct {
	Name       string                 `json:"name" binding:"required,max=120"`
	EventKind  string                 `json:"event_kind" binding:"required,event_kind"`
	EventID    uint                   `json:"event_id" binding:"required"`
	Capacity   int                    `json:"capacity" binding:"required,min=1"`
	SaleStart  time.Time              `json:"sale_start" binding:"required"`
	SaleEnd    time.Time              `json:"sale_end" binding:"required"`
	PriceCents int64                  `json:"price_cents" binding:"min=0"`
	Currency   string                 `json:"currency,omitempty"`
	Perks      string                 `json:"perks,omitempty"`
	Benefits   map[string]interface{} `json:"benefits,omitempty"`
}

func (r *CreateTicketClassRequest) ToCommand() usecases.CreateTicketClassCommand {
	return usecases.CreateTicketClassCommand{
		Name:       r.Name,
		EventKind:  r.EventKind,
		EventID:    r.EventID,
		Capacity:   r.Capacity,
		SaleStart:  r.SaleStart,
		SaleEnd:    r.SaleEnd,
		PriceCents: r.PriceCents,
		Currency:   r.Currency,
		Perks:      r.Perks,
		Benefits:   r.Benefits,
	}
}

type ReserveTicketRequest struct {
	UserID  uint `json:"user_id" binding:"required"`
	ClassID uint `json:"class_id" binding:"required"`
}

type CancelTicketRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type ScanTicketRequest struct {
	Token string `json:"token" binding:"required"`
}

type TicketClassResponse struct {
	ClassID   uint      `json:"class_id"`
	SID       string    `json:"sid"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}

type TicketClassSummaryResponse struct {
	ClassID    uint                   `json:"class_id"`
	SID        string                 `json:"sid"`
	Name       string                 `json:"name"`
	Capacity   int                    `json:"capacity"`
	Remaining  int                    `json:"remaining"`
	OnSale     bool                   `json:"on_sale"`
	PriceCents int64                  `json:"price_cents"`
	Currency   string                 `json:"currency"`
	Perks      string                 `json:"perks,omitempty"`
	Benefits   map[string]interface{} `json:"benefits,omitempty"`
	SaleStart  time.Time              `json:"sale_start"`
	SaleEnd    time.Time              `json:"sale_end"`
}

type AvailabilityResponse struct {
	ClassID   uint      `json:"class_id"`
	SID       string    `json:"sid"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Remaining int       `json:"remaining"`
	OnSale    bool      `json:"on_sale"`
	SoldOut   bool      `json:"sold_out"`
	SaleStart time.Time `json:"sale_start"`
	SaleEnd   time.Time `json:"sale_end"`
}

type ReservationResponse struct {
	TicketID   uint      `json:"ticket_id"`
	GUID       string    `json:"guid"`
	Code       string    `json:"code"`
	Status     string    `json:"status"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
	ExpiresAt  time.Time `json:"expires_at"`
	ReservedAt time.Time `json:"reserved_at"`
}

type ConfirmPaymentResponse struct {
	TicketID uint      `json:"ticket_id"`
	GUID     string    `json:"guid"`
	Code     string    `json:"code"`
	Status   string    `json:"status"`
	QRCode   string    `json:"qr_code"`
	PaidAt   time.Time `json:"paid_at"`
}

type CancelTicketResponse struct {
	TicketID    uint      `json:"ticket_id"`
	GUID        string    `json:"guid"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

type ScanTicketResponse struct {
	TicketID     uint      `json:"ticket_id"`
	GUID         string    `json:"guid"`
	Code         string    `json:"code"`
	Status       string    `json:"status"`
	AttendeeName string    `json:"attendee_name,omitempty"`
	ClassName    string    `json:"class_name,omitempty"`
	EventTitle   string    `json:"event_title,omitempty"`
	ScannedAt    time.Time `json:"scanned_at"`
}

type TicketDetailResponse struct {
	TicketID     uint       `json:"ticket_id"`
	GUID         string     `json:"guid"`
	Code         string     `json:"code"`
	Status       string     `json:"status"`
	EventKind    string     `json:"event_kind"`
	EventID      uint       `json:"event_id"`
	ClassID      uint       `json:"class_id"`
	UserID       uint       `json:"user_id"`
	QRCode       string     `json:"qr_code,omitempty"`
	ValidFrom    time.Time  `json:"valid_from"`
	ValidUntil   time.Time  `json:"valid_until"`
	CancelReason *string    `json:"cancel_reason,omitempty"`
	ReservedAt   time.Time  `json:"reserved_at"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toTicketDetailResponse(d *usecases.TicketDetail) TicketDetailResponse {
	return TicketDetailResponse{
		TicketID:     d.TicketID,
		GUID:         d.GUID,
		Code:         d.Code,
		Status:       d.Status,
		EventKind:    d.EventKind,
		EventID:      d.EventID,
		ClassID:      d.ClassID,
		UserID:       d.UserID,
		QRCode:       d.QRCode,
		ValidFrom:    d.ValidFrom,
		ValidUntil:   d.ValidUntil,
		CancelReason: d.CancelReason,
		ReservedAt:   d.ReservedAt,
		PaidAt:       d.PaidAt,
		UsedAt:       d.UsedAt,
		CreatedAt:    d.CreatedAt,
	}
}

type ListTicketsRequest struct {
	Page      int
	PageSize  int
	UserID    *uint
	ClassID   *uint
	EventID   *uint
	Status    string
	EventKind string
	SortBy    string
	SortOrder string
}

func (r *ListTicketsRequest) ToQuery() usecases.ListTicketsQuery {
	return usecases.ListTicketsQuery{
		UserID:    r.UserID,
		ClassID:   r.ClassID,
		Status:    r.Status,
		EventKind: r.EventKind,
		EventID:   r.EventID,
		Page:      r.Page,
		PageSize:  r.PageSize,
		SortBy:    r.SortBy,
		SortOrder: r.SortOrder,
	}
}

func parseListTicketsRequest(c *gin.Context) (*ListTicketsRequest, error) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	req := &ListTicketsRequest{
		Page:      page,
		PageSize:  pageSize,
		Status:    c.Query("status"),
		EventKind: c.Query("event_kind"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if userIDStr := c.Query("user_id"); userIDStr != "" {
		userID, err := strconv.ParseUint(userIDStr, 10, 32)
		if err != nil {
			return nil, errors.NewValidationError("Invalid user_id")
		}
		id := uint(userID)
		req.UserID = &id
	}

	if classIDStr := c.Query("class_id"); classIDStr != "" {
		classID, err := strconv.ParseUint(classIDStr, 10, 32)
		if err != nil {
			return nil, errors.NewValidationError("Invalid class_id")
		}
		id := uint(classID)
		req.ClassID = &id
	}

	if eventIDStr := c.Query("event_id"); eventIDStr != "" {
		eventID, err := strconv.ParseUint(eventIDStr, 10, 32)
		if err != nil {
			return nil, errors.NewValidationError("Invalid event_id")
		}
		id := uint(eventID)
		req.EventID = &id
	}

	return req, nil
}
