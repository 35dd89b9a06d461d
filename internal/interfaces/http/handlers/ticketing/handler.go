package ticketing

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nrjbutsecond/tessera/internal/application/ticketing/usecases"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
	"github.com/nrjbutsecond/tessera/internal/shared/utils"
)

type CreateTicketClassExecutor interface {
	Execute(ctx context.Context, cmd usecases.CreateTicketClassCommand) (*usecases.CreateTicketClassResult, error)
}

type ListTicketClassesExecutor interface {
	Execute(ctx context.Context, query usecases.ListTicketClassesQuery) ([]*usecases.TicketClassSummary, error)
}

type GetAvailabilityExecutor interface {
	Execute(ctx context.Context, query usecases.GetAvailabilityQuery) (*usecases.AvailabilityResult, error)
}

type ReserveTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.ReserveTicketCommand) (*usecases.ReserveTicketResult, error)
}

type ConfirmPaymentExecutor interface {
	Execute(ctx context.Context, cmd usecases.ConfirmPaymentCommand) (*usecases.ConfirmPaymentResult, error)
}

type CancelTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.CancelTicketCommand) (*usecases.CancelTicketResult, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query usecases.GetTicketQuery) (*usecases.TicketDetail, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query usecases.ListTicketsQuery) (*usecases.ListTicketsResult, error)
}

type ScanTicketExecutor interface {
	Execute(ctx context.Context, cmd usecases.ScanTicketCommand) (*usecases.ScanTicketResult, error)
}

type TicketingHandler struct {
	createClassUC     CreateTicketClassExecutor
	listClassesUC     ListTicketClassesExecutor
	getAvailabilityUC GetAvailabilityExecutor
	reserveUC         ReserveTicketExecutor
	confirmPaymentUC  ConfirmPaymentExecutor
	cancelUC          CancelTicketExecutor
	getTicketUC       GetTicketExecutor
	listTicketsUC     ListTicketsExecutor
	scanUC            ScanTicketExecutor
	logger            logger.Interface
}

func NewTicketingHandler(
	createClassUC CreateTicketClassExecutor,
	listClassesUC ListTicketClassesExecutor,
	getAvailabilityUC GetAvailabilityExecutor,
	reserveUC ReserveTicketExecutor,
	confirmPaymentUC ConfirmPaymentExecutor,
	cancelUC CancelTicketExecutor,
	getTicketUC GetTicketExecutor,
	listTicketsUC ListTicketsExecutor,
	scanUC ScanTicketExecutor,
) *TicketingHandler {
	return &TicketingHandler{
		createClassUC:     createClassUC,
		listClassesUC:     listClassesUC,
		getAvailabilityUC: getAvailabilityUC,
		reserveUC:         reserveUC,
		confirmPaymentUC:  confirmPaymentUC,
		cancelUC:          cancelUC,
		getTicketUC:       getTicketUC,
		listTicketsUC:     listTicketsUC,
		scanUC:            scanUC,
		logger:            logger.NewLogger(),
	}
}

// CreateTicketClass handles POST /ticket-classes
func (h *TicketingHandler) CreateTicketClass(c *gin.Context) {
	var req CreateTicketClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket class", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError(err.Error()))
		return
	}

	result, err := h.createClassUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, TicketClassResponse{
		ClassID:   result.ClassID,
		SID:       result.SID,
		Name:      result.Name,
		Capacity:  result.Capacity,
		CreatedAt: result.CreatedAt,
	}, "Ticket class created successfully")
}

// ListTicketClasses handles GET /ticket-classes
func (h *TicketingHandler) ListTicketClasses(c *gin.Context) {
	eventID, err := parseUintQuery(c, "event_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	query := usecases.ListTicketClassesQuery{
		EventKind: c.Query("event_kind"),
		EventID:   eventID,
	}

	summaries, err := h.listClassesUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]TicketClassSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, TicketClassSummaryResponse{
			ClassID:    s.ClassID,
			SID:        s.SID,
			Name:       s.Name,
			Capacity:   s.Capacity,
			Remaining:  s.Remaining,
			OnSale:     s.OnSale,
			PriceCents: s.PriceCents,
			Currency:   s.Currency,
			Perks:      s.Perks,
			Benefits:   s.Benefits,
			SaleStart:  s.SaleStart,
			SaleEnd:    s.SaleEnd,
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "", items)
}

// GetAvailability handles GET /ticket-classes/:id/availability
func (h *TicketingHandler) GetAvailability(c *gin.Context) {
	classID, err := parseClassID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getAvailabilityUC.Execute(c.Request.Context(), usecases.GetAvailabilityQuery{ClassID: classID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", AvailabilityResponse{
		ClassID:   result.ClassID,
		SID:       result.SID,
		Name:      result.Name,
		Capacity:  result.Capacity,
		Remaining: result.Remaining,
		OnSale:    result.OnSale,
		SoldOut:   result.SoldOut,
		SaleStart: result.SaleStart,
		SaleEnd:   result.SaleEnd,
	})
}

// ReserveTicket handles POST /tickets/reserve
func (h *TicketingHandler) ReserveTicket(c *gin.Context) {
	var req ReserveTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for reserve ticket", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError(err.Error()))
		return
	}

	result, err := h.reserveUC.Execute(c.Request.Context(), usecases.ReserveTicketCommand{
		UserID:  req.UserID,
		ClassID: req.ClassID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, ReservationResponse{
		TicketID:   result.TicketID,
		GUID:       result.GUID,
		Code:       result.Code,
		Status:     result.Status,
		ValidFrom:  result.ValidFrom,
		ValidUntil: result.ValidUntil,
		ExpiresAt:  result.ExpiresAt,
		ReservedAt: result.ReservedAt,
	}, "Ticket reserved successfully")
}

// ConfirmPayment handles POST /tickets/:guid/confirm
func (h *TicketingHandler) ConfirmPayment(c *gin.Context) {
	result, err := h.confirmPaymentUC.Execute(c.Request.Context(), usecases.ConfirmPaymentCommand{
		TicketGUID: c.Param("guid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Payment confirmed successfully", ConfirmPaymentResponse{
		TicketID: result.TicketID,
		GUID:     result.GUID,
		Code:     result.Code,
		Status:   result.Status,
		QRCode:   result.QRCode,
		PaidAt:   result.PaidAt,
	})
}

// CancelTicket handles POST /tickets/:guid/cancel
func (h *TicketingHandler) CancelTicket(c *gin.Context) {
	var req CancelTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for cancel ticket", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError(err.Error()))
		return
	}

	result, err := h.cancelUC.Execute(c.Request.Context(), usecases.CancelTicketCommand{
		TicketGUID: c.Param("guid"),
		Reason:     req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket cancelled successfully", CancelTicketResponse{
		TicketID:    result.TicketID,
		GUID:        result.GUID,
		Status:      result.Status,
		Reason:      result.Reason,
		CancelledAt: result.CancelledAt,
	})
}

// GetTicket handles GET /tickets/:guid
func (h *TicketingHandler) GetTicket(c *gin.Context) {
	detail, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketQuery{
		TicketGUID: c.Param("guid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toTicketDetailResponse(detail))
}

// ListTickets handles GET /tickets
func (h *TicketingHandler) ListTickets(c *gin.Context) {
	req, err := parseListTicketsRequest(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listTicketsUC.Execute(c.Request.Context(), req.ToQuery())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]TicketDetailResponse, 0, len(result.Tickets))
	for _, d := range result.Tickets {
		items = append(items, toTicketDetailResponse(d))
	}

	utils.ListSuccessResponse(c, items, result.Total, result.Page, result.PageSize)
}

// ScanTicket handles POST /scan
func (h *TicketingHandler) ScanTicket(c *gin.Context) {
	var req ScanTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for scan ticket", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError(err.Error()))
		return
	}

	scannerID := c.GetString("scanner_id")

	result, err := h.scanUC.Execute(c.Request.Context(), usecases.ScanTicketCommand{
		Token:     req.Token,
		ScannerID: scannerID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket admitted", ScanTicketResponse{
		TicketID:     result.TicketID,
		GUID:         result.GUID,
		Code:         result.Code,
		Status:       result.Status,
		AttendeeName: result.AttendeeName,
		ClassName:    result.ClassName,
		EventTitle:   result.EventTitle,
		ScannedAt:    result.ScannedAt,
	})
}

func parseClassID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("Invalid ticket class ID")
	}
	return uint(id), nil
}

func parseUintQuery(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, errors.NewValidationError(name + " is required")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}
