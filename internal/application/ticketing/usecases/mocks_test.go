package usecases

import (
	"context"
	"time"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
)

type mockTicketRepository struct {
	SaveFunc                  func(ctx context.Context, t *ticketing.Ticket) error
	UpdateFunc                func(ctx context.Context, t *ticketing.Ticket) error
	GetByIDFunc               func(ctx context.Context, ticketID uint) (*ticketing.Ticket, error)
	GetByGUIDFunc             func(ctx context.Context, guid string) (*ticketing.Ticket, error)
	ListFunc                  func(ctx context.Context, filter ticketing.TicketFilter) ([]*ticketing.Ticket, int64, error)
	QRCodeExistsFunc          func(ctx context.Context, qrCode string) (bool, error)
	TransitionStatusFunc      func(ctx context.Context, ticketID uint, from, to vo.TicketStatus, at time.Time) (bool, error)
	ListExpiredHoldingFunc    func(ctx context.Context, now time.Time, limit int) ([]*ticketing.Ticket, error)
	ListStaleReservationsFunc func(ctx context.Context, cutoff time.Time, limit int) ([]*ticketing.Ticket, error)
}

func (m *mockTicketRepository) Save(ctx context.Context, t *ticketing.Ticket) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticketing.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticketing.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockTicketRepository) GetByGUID(ctx context.Context, guid string) (*ticketing.Ticket, error) {
	if m.GetByGUIDFunc != nil {
		return m.GetByGUIDFunc(ctx, guid)
	}
	return nil, nil
}

func (m *mockTicketRepository) List(ctx context.Context, filter ticketing.TicketFilter) ([]*ticketing.Ticket, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockTicketRepository) QRCodeExists(ctx context.Context, qrCode string) (bool, error) {
	if m.QRCodeExistsFunc != nil {
		return m.QRCodeExistsFunc(ctx, qrCode)
	}
	return false, nil
}

func (m *mockTicketRepository) TransitionStatus(ctx context.Context, ticketID uint, from, to vo.TicketStatus, at time.Time) (bool, error) {
	if m.TransitionStatusFunc != nil {
		return m.TransitionStatusFunc(ctx, ticketID, from, to, at)
	}
	return true, nil
}

func (m *mockTicketRepository) ListExpiredHolding(ctx context.Context, now time.Time, limit int) ([]*ticketing.Ticket, error) {
	if m.ListExpiredHoldingFunc != nil {
		return m.ListExpiredHoldingFunc(ctx, now, limit)
	}
	return nil, nil
}

func (m *mockTicketRepository) ListStaleReservations(ctx context.Context, cutoff time.Time, limit int) ([]*ticketing.Ticket, error) {
	if m.ListStaleReservationsFunc != nil {
		return m.ListStaleReservationsFunc(ctx, cutoff, limit)
	}
	return nil, nil
}

type mockTicketClassRepository struct {
	SaveFunc        func(ctx context.Context, c *ticketing.TicketClass) error
	UpdateFunc      func(ctx context.Context, c *ticketing.TicketClass) error
	GetByIDFunc     func(ctx context.Context, classID uint) (*ticketing.TicketClass, error)
	GetBySIDFunc    func(ctx context.Context, sid string) (*ticketing.TicketClass, error)
	ListByEventFunc func(ctx context.Context, event vo.EventRef) ([]*ticketing.TicketClass, error)
	ReserveUnitFunc func(ctx context.Context, classID uint, now time.Time) error
	ReleaseUnitFunc func(ctx context.Context, classID uint, now time.Time) error
}

func (m *mockTicketClassRepository) Save(ctx context.Context, c *ticketing.TicketClass) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, c)
	}
	return nil
}

func (m *mockTicketClassRepository) Update(ctx context.Context, c *ticketing.TicketClass) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return nil
}

func (m *mockTicketClassRepository) GetByID(ctx context.Context, classID uint) (*ticketing.TicketClass, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, classID)
	}
	return nil, nil
}

func (m *mockTicketClassRepository) GetBySID(ctx context.Context, sid string) (*ticketing.TicketClass, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
}

func (m *mockTicketClassRepository) ListByEvent(ctx context.Context, event vo.EventRef) ([]*ticketing.TicketClass, error) {
	if m.ListByEventFunc != nil {
		return m.ListByEventFunc(ctx, event)
	}
	return nil, nil
}

func (m *mockTicketClassRepository) ReserveUnit(ctx context.Context, classID uint, now time.Time) error {
	if m.ReserveUnitFunc != nil {
		return m.ReserveUnitFunc(ctx, classID, now)
	}
	return nil
}

func (m *mockTicketClassRepository) ReleaseUnit(ctx context.Context, classID uint, now time.Time) error {
	if m.ReleaseUnitFunc != nil {
		return m.ReleaseUnitFunc(ctx, classID, now)
	}
	return nil
}

type mockScanLogRepository struct {
	AppendFunc            func(ctx context.Context, entry *ticketing.ScanLogEntry) error
	GetLastByTicketIDFunc func(ctx context.Context, ticketID uint) (*ticketing.ScanLogEntry, error)
	ListByTicketIDFunc    func(ctx context.Context, ticketID uint) ([]*ticketing.ScanLogEntry, error)
}

func (m *mockScanLogRepository) Append(ctx context.Context, entry *ticketing.ScanLogEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	return nil
}

func (m *mockScanLogRepository) GetLastByTicketID(ctx context.Context, ticketID uint) (*ticketing.ScanLogEntry, error) {
	if m.GetLastByTicketIDFunc != nil {
		return m.GetLastByTicketIDFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockScanLogRepository) ListByTicketID(ctx context.Context, ticketID uint) ([]*ticketing.ScanLogEntry, error) {
	if m.ListByTicketIDFunc != nil {
		return m.ListByTicketIDFunc(ctx, ticketID)
	}
	return nil, nil
}

type mockEventProvider struct {
	GetEventWindowFunc func(ctx context.Context, ref vo.EventRef) (*ticketing.EventWindow, error)
}

func (m *mockEventProvider) GetEventWindow(ctx context.Context, ref vo.EventRef) (*ticketing.EventWindow, error) {
	if m.GetEventWindowFunc != nil {
		return m.GetEventWindowFunc(ctx, ref)
	}
	return &ticketing.EventWindow{
		Title:    "Test Event",
		StartsAt: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
	}, nil
}

type mockIdentityProvider struct {
	ResolveFunc func(ctx context.Context, userID uint) (*ticketing.Attendee, error)
}

func (m *mockIdentityProvider) Resolve(ctx context.Context, userID uint) (*ticketing.Attendee, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, userID)
	}
	return &ticketing.Attendee{ID: userID, Name: "Test Attendee", Email: "attendee@example.com"}, nil
}

type mockTicketDelivery struct {
	DeliverFunc func(ctx context.Context, payload *ticketing.DeliveryPayload) error
}

func (m *mockTicketDelivery) Deliver(ctx context.Context, payload *ticketing.DeliveryPayload) error {
	if m.DeliverFunc != nil {
		return m.DeliverFunc(ctx, payload)
	}
	return nil
}

type mockQRCodec struct {
	EncodeFunc func(payload *ticketing.QRPayload) (string, error)
	DecodeFunc func(token string, now time.Time) (*ticketing.QRPayload, error)
}

func (m *mockQRCodec) Encode(payload *ticketing.QRPayload) (string, error) {
	if m.EncodeFunc != nil {
		return m.EncodeFunc(payload)
	}
	return "sealed:" + payload.TicketGUID, nil
}

func (m *mockQRCodec) Decode(token string, now time.Time) (*ticketing.QRPayload, error) {
	if m.DecodeFunc != nil {
		return m.DecodeFunc(token, now)
	}
	return nil, ticketing.ErrQRCodeInvalid
}

type mockQRImageRenderer struct {
	RenderPNGFunc func(token string, size int) ([]byte, error)
}

func (m *mockQRImageRenderer) RenderPNG(token string, size int) ([]byte, error) {
	if m.RenderPNGFunc != nil {
		return m.RenderPNGFunc(token, size)
	}
	return []byte{0x89, 0x50, 0x4e, 0x47}, nil
}

type mockEventPublisher struct {
	PublishTicketChangeFunc func(ctx context.Context, event ticketing.TicketEvent) error
}

func (m *mockEventPublisher) PublishTicketChange(ctx context.Context, event ticketing.TicketEvent) error {
	if m.PublishTicketChangeFunc != nil {
		return m.PublishTicketChangeFunc(ctx, event)
	}
	return nil
}

type mockAvailabilityCache struct {
	GetFunc        func(ctx context.Context, classID uint) (int, bool, error)
	SetFunc        func(ctx context.Context, classID uint, remaining int) error
	InvalidateFunc func(ctx context.Context, classID uint) error
}

func (m *mockAvailabilityCache) Get(ctx context.Context, classID uint) (int, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, classID)
	}
	return 0, false, nil
}

func (m *mockAvailabilityCache) Set(ctx context.Context, classID uint, remaining int) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, classID, remaining)
	}
	return nil
}

func (m *mockAvailabilityCache) Invalidate(ctx context.Context, classID uint) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, classID)
	}
	return nil
}

// mockTxManager runs the function directly; transactional coupling is
// exercised in the repository integration tests.
type mockTxManager struct {
	RunInTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTransactionFunc != nil {
		return m.RunInTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockCodeGenerator struct {
	NewGUIDFunc     func() string
	NewCodeFunc     func() (string, error)
	NewClassSIDFunc func() (string, error)
}

func (m *mockCodeGenerator) NewGUID() string {
	if m.NewGUIDFunc != nil {
		return m.NewGUIDFunc()
	}
	return "11111111-2222-4333-8444-555555555555"
}

func (m *mockCodeGenerator) NewCode() (string, error) {
	if m.NewCodeFunc != nil {
		return m.NewCodeFunc()
	}
	return "tk_testcode0001", nil
}

func (m *mockCodeGenerator) NewClassSID() (string, error) {
	if m.NewClassSIDFunc != nil {
		return m.NewClassSIDFunc()
	}
	return "tc_testclass001", nil
}

// fixedClock pins use-case time for deterministic assertions.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)                   {}
func (m *mockLogger) Info(msg string, args ...any)                    {}
func (m *mockLogger) Warn(msg string, args ...any)                    {}
func (m *mockLogger) Error(msg string, args ...any)                   {}
func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Fatalw(msg string, keysAndValues ...interface{}) {}

func (m *mockLogger) With(args ...any) logger.Interface  { return m }
func (m *mockLogger) Named(name string) logger.Interface { return m }
