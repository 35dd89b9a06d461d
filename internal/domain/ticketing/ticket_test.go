package ticketing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/nrjbutsecond/tessera/internal/domain/ticketing/valueobjects"
)

func testEventRef(t *testing.T) vo.EventRef {
	t.Helper()
	ref, err := vo.NewEventRef(vo.KindTalkEvent, 1)
	require.NoError(t, err)
	return ref
}

func newTestTicket(t *testing.T) *Ticket {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ticket, err := NewReservedTicket(
		"a3f1c0de-0000-4000-8000-000000000001",
		"tk_8kJ2mQ4xY7zP",
		10,
		3,
		testEventRef(t),
		now.Add(24*time.Hour),
		now.Add(49*time.Hour),
		now,
	)
	require.NoError(t, err)
	return ticket
}

func TestNewReservedTicket(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ref := testEventRef(t)

	tests := []struct {
		name    string
		guid    string
		code    string
		userID  uint
		classID uint
		event   vo.EventRef
		from    time.Time
		until   time.Time
		wantErr string
	}{
		{
			name: "valid", guid: "g-1", code: "tk_abc", userID: 1, classID: 2,
			event: ref, from: now, until: now.Add(time.Hour),
		},
		{
			name: "missing guid", code: "tk_abc", userID: 1, classID: 2,
			event: ref, from: now, until: now.Add(time.Hour),
			wantErr: "guid is required",
		},
		{
			name: "missing code", guid: "g-1", userID: 1, classID: 2,
			event: ref, from: now, until: now.Add(time.Hour),
			wantErr: "code is required",
		},
		{
			name: "missing user", guid: "g-1", code: "tk_abc", classID: 2,
			event: ref, from: now, until: now.Add(time.Hour),
			wantErr: "user ID is required",
		},
		{
			name: "missing class", guid: "g-1", code: "tk_abc", userID: 1,
			event: ref, from: now, until: now.Add(time.Hour),
			wantErr: "class ID is required",
		},
		{
			name: "zero event ref", guid: "g-1", code: "tk_abc", userID: 1, classID: 2,
			from: now, until: now.Add(time.Hour),
			wantErr: "event reference is required",
		},
		{
			name: "inverted validity window", guid: "g-1", code: "tk_abc", userID: 1, classID: 2,
			event: ref, from: now.Add(time.Hour), until: now,
			wantErr: "valid until must be after valid from",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket, err := NewReservedTicket(tt.guid, tt.code, tt.userID, tt.classID, tt.event, tt.from, tt.until, now)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, ticket.Status().IsReserved())
			assert.Equal(t, "pending:"+tt.guid, ticket.QRCode())
			assert.False(t, ticket.HasFinalQR())
			assert.Equal(t, now, ticket.ReservedAt())
			assert.Nil(t, ticket.PaidAt())
			assert.Nil(t, ticket.UsedAt())
			assert.Equal(t, 1, ticket.Version())
		})
	}
}

func TestTicket_ConfirmPayment(t *testing.T) {
	t.Run("reserved to paid installs token", func(t *testing.T) {
		ticket := newTestTicket(t)
		now := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)

		err := ticket.ConfirmPayment("sealed-token-value", now)
		require.NoError(t, err)

		assert.True(t, ticket.Status().IsPaid())
		assert.Equal(t, "sealed-token-value", ticket.QRCode())
		assert.True(t, ticket.HasFinalQR())
		require.NotNil(t, ticket.PaidAt())
		assert.Equal(t, now, *ticket.PaidAt())
		assert.Equal(t, 2, ticket.Version())
	})

	t.Run("empty token rejected", func(t *testing.T) {
		ticket := newTestTicket(t)
		err := ticket.ConfirmPayment("", time.Now().UTC())
		assert.Error(t, err)
		assert.True(t, ticket.Status().IsReserved())
	})

	t.Run("double confirmation rejected", func(t *testing.T) {
		ticket := newTestTicket(t)
		now := time.Now().UTC()
		require.NoError(t, ticket.ConfirmPayment("token-1", now))

		err := ticket.ConfirmPayment("token-2", now)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
		assert.Equal(t, "token-1", ticket.QRCode())
	})
}

func TestTicket_MarkUsed(t *testing.T) {
	t.Run("paid to used", func(t *testing.T) {
		ticket := newTestTicket(t)
		now := time.Now().UTC()
		require.NoError(t, ticket.ConfirmPayment("token", now))

		err := ticket.MarkUsed(now.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, ticket.Status().IsUsed())
		require.NotNil(t, ticket.UsedAt())
	})

	t.Run("reserved ticket cannot be used", func(t *testing.T) {
		ticket := newTestTicket(t)
		err := ticket.MarkUsed(time.Now().UTC())
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})

	t.Run("second use rejected", func(t *testing.T) {
		ticket := newTestTicket(t)
		now := time.Now().UTC()
		require.NoError(t, ticket.ConfirmPayment("token", now))
		require.NoError(t, ticket.MarkUsed(now))

		err := ticket.MarkUsed(now)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})
}

func TestTicket_Cancel(t *testing.T) {
	now := time.Now().UTC()

	t.Run("reserved ticket cancels with reason", func(t *testing.T) {
		ticket := newTestTicket(t)
		err := ticket.Cancel("changed plans", now)
		require.NoError(t, err)
		assert.True(t, ticket.Status().IsCancelled())
		require.NotNil(t, ticket.CancelReason())
		assert.Equal(t, "changed plans", *ticket.CancelReason())
	})

	t.Run("paid ticket cancels", func(t *testing.T) {
		ticket := newTestTicket(t)
		require.NoError(t, ticket.ConfirmPayment("token", now))
		err := ticket.Cancel("refund requested", now)
		require.NoError(t, err)
		assert.True(t, ticket.Status().IsCancelled())
	})

	t.Run("reason is mandatory", func(t *testing.T) {
		ticket := newTestTicket(t)
		err := ticket.Cancel("", now)
		assert.ErrorIs(t, err, ErrMissingCancelReason)
		assert.True(t, ticket.Status().IsReserved())
	})

	t.Run("used ticket cannot cancel", func(t *testing.T) {
		ticket := newTestTicket(t)
		require.NoError(t, ticket.ConfirmPayment("token", now))
		require.NoError(t, ticket.MarkUsed(now))

		err := ticket.Cancel("too late", now)
		assert.ErrorIs(t, err, ErrTicketAlreadyUsed)
	})

	t.Run("double cancel rejected", func(t *testing.T) {
		ticket := newTestTicket(t)
		require.NoError(t, ticket.Cancel("first", now))

		err := ticket.Cancel("second", now)
		assert.ErrorIs(t, err, ErrTicketAlreadyCancelled)
		assert.Equal(t, "first", *ticket.CancelReason())
	})
}

func TestTicket_Expire(t *testing.T) {
	now := time.Now().UTC()

	t.Run("reserved ticket expires", func(t *testing.T) {
		ticket := newTestTicket(t)
		require.NoError(t, ticket.Expire(now))
		assert.True(t, ticket.Status().IsExpired())
	})

	t.Run("paid ticket expires", func(t *testing.T) {
		ticket := newTestTicket(t)
		require.NoError(t, ticket.ConfirmPayment("token", now))
		require.NoError(t, ticket.Expire(now))
		assert.True(t, ticket.Status().IsExpired())
	})

	t.Run("used ticket does not expire", func(t *testing.T) {
		ticket := newTestTicket(t)
		require.NoError(t, ticket.ConfirmPayment("token", now))
		require.NoError(t, ticket.MarkUsed(now))

		err := ticket.Expire(now)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})
}

func TestTicket_IsWithinValidity(t *testing.T) {
	ticket := newTestTicket(t)
	from := ticket.ValidFrom()
	until := ticket.ValidUntil()

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before window", from.Add(-time.Second), false},
		{"at window start", from, true},
		{"inside window", from.Add(time.Hour), true},
		{"at window end", until, true},
		{"after window", until.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ticket.IsWithinValidity(tt.at))
		})
	}
}

func TestTicket_HoldsInventory(t *testing.T) {
	now := time.Now().UTC()

	reserved := newTestTicket(t)
	assert.True(t, reserved.HoldsInventory())

	paid := newTestTicket(t)
	require.NoError(t, paid.ConfirmPayment("token", now))
	assert.True(t, paid.HoldsInventory())

	used := newTestTicket(t)
	require.NoError(t, used.ConfirmPayment("token", now))
	require.NoError(t, used.MarkUsed(now))
	assert.True(t, used.HoldsInventory())

	cancelled := newTestTicket(t)
	require.NoError(t, cancelled.Cancel("reason", now))
	assert.False(t, cancelled.HoldsInventory())

	expired := newTestTicket(t)
	require.NoError(t, expired.Expire(now))
	assert.False(t, expired.HoldsInventory())
}

func TestTicket_SetID(t *testing.T) {
	ticket := newTestTicket(t)

	require.NoError(t, ticket.SetID(99))
	assert.Equal(t, uint(99), ticket.ID())

	assert.Error(t, ticket.SetID(100))
	assert.Equal(t, uint(99), ticket.ID())
}
