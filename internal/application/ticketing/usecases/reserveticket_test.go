package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
	"github.com/nrjbutsecond/tessera/internal/shared/errors"
)

func testClass(t *testing.T, id uint, capacity, sold int) *ticketing.TicketClass {
	t.Helper()
	ref, err := vo.NewEventRef(vo.KindTalkEvent, 1)
	require.NoError(t, err)
	class, err := ticketing.ReconstructTicketClass(
		id, "tc_testclass001", "General Admission", ref, capacity, sold,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		4900, "USD", "", nil, 1,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return class
}

func TestReserveTicketUseCase_Execute(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	eventStart := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	newUseCase := func(ticketRepo *mockTicketRepository, classRepo *mockTicketClassRepository) *ReserveTicketUseCase {
		return NewReserveTicketUseCase(
			ticketRepo,
			classRepo,
			&mockEventProvider{},
			&mockCodeGenerator{},
			&mockTxManager{},
			&mockAvailabilityCache{},
			&mockEventPublisher{},
			fixedClock{now: now},
			30*time.Minute,
			&mockLogger{},
		)
	}

	t.Run("reserves and derives validity window from event start", func(t *testing.T) {
		var saved *ticketing.Ticket
		ticketRepo := &mockTicketRepository{
			SaveFunc: func(ctx context.Context, tk *ticketing.Ticket) error {
				saved = tk
				return tk.SetID(7)
			},
		}
		var reservedClassID uint
		classRepo := &mockTicketClassRepository{
			GetByIDFunc: func(ctx context.Context, classID uint) (*ticketing.TicketClass, error) {
				return testClass(t, classID, 100, 10), nil
			},
			ReserveUnitFunc: func(ctx context.Context, classID uint, at time.Time) error {
				reservedClassID = classID
				assert.Equal(t, now, at)
				return nil
			},
		}

		result, err := newUseCase(ticketRepo, classRepo).Execute(context.Background(), ReserveTicketCommand{
			UserID:  42,
			ClassID: 3,
		})
		require.NoError(t, err)

		assert.Equal(t, uint(7), result.TicketID)
		assert.Equal(t, "reserved", result.Status)
		assert.Equal(t, eventStart.Add(-time.Hour), result.ValidFrom)
		assert.Equal(t, eventStart.Add(24*time.Hour), result.ValidUntil)
		assert.Equal(t, now.Add(30*time.Minute), result.ExpiresAt)
		assert.Equal(t, uint(3), reservedClassID)

		require.NotNil(t, saved)
		assert.True(t, saved.Status().IsReserved())
		assert.False(t, saved.HasFinalQR())
	})

	t.Run("sold out surfaces as conflict", func(t *testing.T) {
		classRepo := &mockTicketClassRepository{
			GetByIDFunc: func(ctx context.Context, classID uint) (*ticketing.TicketClass, error) {
				return testClass(t, classID, 10, 10), nil
			},
			ReserveUnitFunc: func(ctx context.Context, classID uint, at time.Time) error {
				return ticketing.ErrSoldOut
			},
		}

		_, err := newUseCase(&mockTicketRepository{}, classRepo).Execute(context.Background(), ReserveTicketCommand{
			UserID:  42,
			ClassID: 3,
		})
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))
	})

	t.Run("not on sale surfaces as conflict", func(t *testing.T) {
		classRepo := &mockTicketClassRepository{
			GetByIDFunc: func(ctx context.Context, classID uint) (*ticketing.TicketClass, error) {
				return testClass(t, classID, 10, 0), nil
			},
			ReserveUnitFunc: func(ctx context.Context, classID uint, at time.Time) error {
				return ticketing.ErrNotOnSale
			},
		}

		_, err := newUseCase(&mockTicketRepository{}, classRepo).Execute(context.Background(), ReserveTicketCommand{
			UserID:  42,
			ClassID: 3,
		})
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))
	})

	t.Run("unknown class propagates error", func(t *testing.T) {
		classRepo := &mockTicketClassRepository{
			GetByIDFunc: func(ctx context.Context, classID uint) (*ticketing.TicketClass, error) {
				return nil, errors.NewNotFoundError("ticket class not found")
			},
		}

		_, err := newUseCase(&mockTicketRepository{}, classRepo).Execute(context.Background(), ReserveTicketCommand{
			UserID:  42,
			ClassID: 999,
		})
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("missing user ID rejected", func(t *testing.T) {
		_, err := newUseCase(&mockTicketRepository{}, &mockTicketClassRepository{}).Execute(
			context.Background(), ReserveTicketCommand{ClassID: 3})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("failed insert rolls the reservation back", func(t *testing.T) {
		var reserved, released bool
		ticketRepo := &mockTicketRepository{
			SaveFunc: func(ctx context.Context, tk *ticketing.Ticket) error {
				return errors.NewInternalError("insert failed")
			},
		}
		classRepo := &mockTicketClassRepository{
			GetByIDFunc: func(ctx context.Context, classID uint) (*ticketing.TicketClass, error) {
				return testClass(t, classID, 10, 0), nil
			},
			ReserveUnitFunc: func(ctx context.Context, classID uint, at time.Time) error {
				reserved = true
				return nil
			},
			ReleaseUnitFunc: func(ctx context.Context, classID uint, now time.Time) error {
				released = true
				return nil
			},
		}

		_, err := newUseCase(ticketRepo, classRepo).Execute(context.Background(), ReserveTicketCommand{
			UserID:  42,
			ClassID: 3,
		})
		require.Error(t, err)
		// The transaction boundary undoes the increment; no compensating
		// release call is expected.
		assert.True(t, reserved)
		assert.False(t, released)
	})
}
