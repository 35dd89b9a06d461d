package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEventKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    EventKind
		wantErr bool
	}{
		{"talk event", "talk_event", KindTalkEvent, false},
		{"workshop", "workshop", KindWorkshop, false},
		{"unknown", "concert", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEventKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewEventRef(t *testing.T) {
	tests := []struct {
		name    string
		kind    EventKind
		id      uint
		wantErr bool
	}{
		{"valid talk event ref", KindTalkEvent, 42, false},
		{"valid workshop ref", KindWorkshop, 7, false},
		{"zero ID rejected", KindTalkEvent, 0, true},
		{"invalid kind rejected", EventKind("concert"), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := NewEventRef(tt.kind, tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, ref.IsZero())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.kind, ref.Kind)
			assert.Equal(t, tt.id, ref.ID)
			assert.False(t, ref.IsZero())
		})
	}
}

func TestEventRef_String(t *testing.T) {
	ref, err := NewEventRef(KindWorkshop, 9)
	assert.NoError(t, err)
	assert.Equal(t, "workshop/9", ref.String())
}
