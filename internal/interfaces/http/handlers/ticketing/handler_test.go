package ticketing

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrjbutsecond/tessera/internal/application/ticketing/usecases"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
)

type mockCreateClassUC struct {
	result *usecases.CreateTicketClassResult
	err    error
}

func (m *mockCreateClassUC) Execute(_ context.Context, _ usecases.CreateTicketClassCommand) (*usecases.CreateTicketClassResult, error) {
	return m.result, m.err
}

type mockListClassesUC struct {
	result []*usecases.TicketClassSummary
	err    error
}

func (m *mockListClassesUC) Execute(_ context.Context, _ usecases.ListTicketClassesQuery) ([]*usecases.TicketClassSummary, error) {
	return m.result, m.err
}

type mockGetAvailabilityUC struct {
	result *usecases.AvailabilityResult
	err    error
}

func (m *mockGetAvailabilityUC) Execute(_ context.Context, _ usecases.GetAvailabilityQuery) (*usecases.AvailabilityResult, error) {
	return m.result, m.err
}

type mockReserveUC struct {
	result  *usecases.ReserveTicketResult
	err     error
	lastCmd usecases.ReserveTicketCommand
}

func (m *mockReserveUC) Execute(_ context.Context, cmd usecases.ReserveTicketCommand) (*usecases.ReserveTicketResult, error) {
	m.lastCmd = cmd
	return m.result, m.err
}

type mockConfirmPaymentUC struct {
	result *usecases.ConfirmPaymentResult
	err    error
}

func (m *mockConfirmPaymentUC) Execute(_ context.Context, _ usecases.ConfirmPaymentCommand) (*usecases.ConfirmPaymentResult, error) {
	return m.result, m.err
}

type mockCancelUC struct {
	result *usecases.CancelTicketResult
	err    error
}

func (m *mockCancelUC) Execute(_ context.Context, _ usecases.CancelTicketCommand) (*usecases.CancelTicketResult, error) {
	return m.result, m.err
}

type mockGetTicketUC struct {
	result *usecases.TicketDetail
	err    error
}

func (m *mockGetTicketUC) Execute(_ context.Context, _ usecases.GetTicketQuery) (*usecases.TicketDetail, error) {
	return m.result, m.err
}

type mockListTicketsUC struct {
	result *usecases.ListTicketsResult
	err    error
}

func (m *mockListTicketsUC) Execute(_ context.Context, _ usecases.ListTicketsQuery) (*usecases.ListTicketsResult, error) {
	return m.result, m.err
}

type mockScanUC struct {
	result  *usecases.ScanTicketResult
	err     error
	lastCmd usecases.ScanTicketCommand
}

func (m *mockScanUC) Execute(_ context.Context, cmd usecases.ScanTicketCommand) (*usecases.ScanTicketResult, error) {
	m.lastCmd = cmd
	return m.result, m.err
}

type testDeps struct {
	createClassUC     *mockCreateClassUC
	listClassesUC     *mockListClassesUC
	getAvailabilityUC *mockGetAvailabilityUC
	reserveUC         *mockReserveUC
	confirmPaymentUC  *mockConfirmPaymentUC
	cancelUC          *mockCancelUC
	getTicketUC       *mockGetTicketUC
	listTicketsUC     *mockListTicketsUC
	scanUC            *mockScanUC
}

func setupHandler(t *testing.T) (*gin.Engine, *testDeps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	deps := &testDeps{
		createClassUC:     &mockCreateClassUC{},
		listClassesUC:     &mockListClassesUC{},
		getAvailabilityUC: &mockGetAvailabilityUC{},
		reserveUC:         &mockReserveUC{},
		confirmPaymentUC:  &mockConfirmPaymentUC{},
		cancelUC:          &mockCancelUC{},
		getTicketUC:       &mockGetTicketUC{},
		listTicketsUC:     &mockListTicketsUC{},
		scanUC:            &mockScanUC{},
	}

	handler := NewTicketingHandler(
		deps.createClassUC,
		deps.listClassesUC,
		deps.getAvailabilityUC,
		deps.reserveUC,
		deps.confirmPaymentUC,
		deps.cancelUC,
		deps.getTicketUC,
		deps.listTicketsUC,
		deps.scanUC,
	)

	engine := gin.New()
	engine.POST("/ticket-classes", handler.CreateTicketClass)
	engine.GET("/ticket-classes", handler.ListTicketClasses)
	engine.GET("/ticket-classes/:id/availability", handler.GetAvailability)
	engine.POST("/tickets/reserve", handler.ReserveTicket)
	engine.POST("/tickets/:guid/confirm", handler.ConfirmPayment)
	engine.POST("/tickets/:guid/cancel", handler.CancelTicket)
	engine.GET("/tickets/:guid", handler.GetTicket)
	engine.GET("/tickets", handler.ListTickets)
	engine.POST("/scan", func(c *gin.Context) {
		c.Set("scanner_id", "gate-3")
		handler.ScanTicket(c)
	})

	return engine, deps
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestTicketingHandler_ReserveTicket(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("returns 201 with reservation payload", func(t *testing.T) {
		engine, deps := setupHandler(t)
		deps.reserveUC.result = &usecases.ReserveTicketResult{
			TicketID:   7,
			GUID:       "a3f1c0de-0000-4000-8000-000000000001",
			Code:       "tk_8kJ2mQ4xY7zP",
			Status:     "reserved",
			ValidFrom:  now,
			ValidUntil: now.Add(25 * time.Hour),
			ExpiresAt:  now.Add(30 * time.Minute),
			ReservedAt: now,
		}

		w := doJSON(t, engine, http.MethodPost, "/tickets/reserve", gin.H{"user_id": 42, "class_id": 3})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "tk_8kJ2mQ4xY7zP")
		assert.Contains(t, w.Body.String(), "reserved")
		assert.Equal(t, uint(42), deps.reserveUC.lastCmd.UserID)
		assert.Equal(t, uint(3), deps.reserveUC.lastCmd.ClassID)
	})

	t.Run("maps sold out conflict to 409", func(t *testing.T) {
		engine, deps := setupHandler(t)
		deps.reserveUC.err = errors.NewConflictError("ticket class is sold out")

		w := doJSON(t, engine, http.MethodPost, "/tickets/reserve", gin.H{"user_id": 42, "class_id": 3})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "sold out")
	})

	t.Run("rejects missing class_id with 400", func(t *testing.T) {
		engine, _ := setupHandler(t)

		w := doJSON(t, engine, http.MethodPost, "/tickets/reserve", gin.H{"user_id": 42})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTicketingHandler_ConfirmPayment(t *testing.T) {
	t.Run("returns qr token on success", func(t *testing.T) {
		engine, deps := setupHandler(t)
		deps.confirmPaymentUC.result = &usecases.ConfirmPaymentResult{
			TicketID: 7,
			GUID:     "a3f1c0de-0000-4000-8000-000000000001",
			Code:     "tk_8kJ2mQ4xY7zP",
			Status:   "paid",
			QRCode:   "sealed-token",
			PaidAt:   time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		}

		w := doJSON(t, engine, http.MethodPost, "/tickets/a3f1c0de-0000-4000-8000-000000000001/confirm", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "sealed-token")
	})

	t.Run("maps not awaiting payment to 409", func(t *testing.T) {
		engine, deps := setupHandler(t)
		deps.confirmPaymentUC.err = errors.NewConflictError("ticket is not awaiting payment")

		w := doJSON(t, engine, http.MethodPost, "/tickets/some-guid/confirm", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestTicketingHandler_CancelTicket(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		engine, _ := setupHandler(t)

		w := doJSON(t, engine, http.MethodPost, "/tickets/some-guid/cancel", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns cancelled ticket", func(t *testing.T) {
		engine, deps := setupHandler(t)
		deps.cancelUC.result = &usecases.CancelTicketResult{
			TicketID:    7,
			GUID:        "some-guid",
			Status:      "cancelled",
			Reason:      "customer request",
			CancelledAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		}

		w := doJSON(t, engine, http.MethodPost, "/tickets/some-guid/cancel", gin.H{"reason": "customer request"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "cancelled")
	})
}

func TestTicketingHandler_ScanTicket(t *testing.T) {
	t.Run("passes scanner id from context", func(t *testing.T) {
		engine, deps := setupHandler(t)
		deps.scanUC.result = &usecases.ScanTicketResult{
			TicketID:     7,
			GUID:         "some-guid",
			Code:         "tk_8kJ2mQ4xY7zP",
			Status:       "used",
			AttendeeName: "Test Attendee",
			ScannedAt:    time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC),
		}

		w := doJSON(t, engine, http.MethodPost, "/scan", gin.H{"token": "sealed-token"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "gate-3", deps.scanUC.lastCmd.ScannerID)
		assert.Equal(t, "sealed-token", deps.scanUC.lastCmd.Token)
		assert.Contains(t, w.Body.String(), "used")
	})

	t.Run("maps invalid token to 400", func(t *testing.T) {
		engine, deps := setupHandler(t)
		deps.scanUC.err = errors.NewBadRequestError("invalid QR code")

		w := doJSON(t, engine, http.MethodPost, "/scan", gin.H{"token": "garbage"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps already used to 409", func(t *testing.T) {
		engine, deps := setupHandler(t)
		deps.scanUC.err = errors.NewConflictError("ticket has already been used")

		w := doJSON(t, engine, http.MethodPost, "/scan", gin.H{"token": "sealed-token"})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already been used")
	})

	t.Run("rejects empty body", func(t *testing.T) {
		engine, _ := setupHandler(t)

		w := doJSON(t, engine, http.MethodPost, "/scan", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTicketingHandler_GetAvailability(t *testing.T) {
	t.Run("returns availability", func(t *testing.T) {
		engine, deps := setupHandler(t)
		deps.getAvailabilityUC.result = &usecases.AvailabilityResult{
			ClassID:   3,
			SID:       "tc_testclass001",
			Name:      "General Admission",
			Capacity:  100,
			Remaining: 25,
			OnSale:    true,
		}

		w := doJSON(t, engine, http.MethodGet, "/ticket-classes/3/availability", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"remaining":25`)
	})

	t.Run("rejects non-numeric id", func(t *testing.T) {
		engine, _ := setupHandler(t)

		w := doJSON(t, engine, http.MethodGet, "/ticket-classes/abc/availability", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps unknown class to 404", func(t *testing.T) {
		engine, deps := setupHandler(t)
		deps.getAvailabilityUC.err = errors.NewNotFoundError("ticket class not found")

		w := doJSON(t, engine, http.MethodGet, "/ticket-classes/99/availability", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTicketingHandler_GetTicket(t *testing.T) {
	t.Run("maps unknown guid to 404", func(t *testing.T) {
		engine, deps := setupHandler(t)
		deps.getTicketUC.err = errors.NewNotFoundError("ticket not found")

		w := doJSON(t, engine, http.MethodGet, "/tickets/unknown-guid", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTicketingHandler_ListTickets(t *testing.T) {
	t.Run("returns paginated list", func(t *testing.T) {
		engine, deps := setupHandler(t)
		deps.listTicketsUC.result = &usecases.ListTicketsResult{
			Tickets: []*usecases.TicketDetail{
				{TicketID: 1, GUID: "g1", Code: "tk_a", Status: "paid"},
				{TicketID: 2, GUID: "g2", Code: "tk_b", Status: "reserved"},
			},
			Total:    2,
			Page:     1,
			PageSize: 20,
		}

		w := doJSON(t, engine, http.MethodGet, "/tickets?user_id=42", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":2`)
		assert.Contains(t, w.Body.String(), "tk_a")
	})

	t.Run("rejects malformed user_id filter", func(t *testing.T) {
		engine, _ := setupHandler(t)

		w := doJSON(t, engine, http.MethodGet, "/tickets?user_id=abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
