package valueobjects

import "fmt"

// EventKind discriminates the ticketable event types. A ticket always refers
// to exactly one talk event or one workshop, never both.
type EventKind string

const (
	KindTalkEvent EventKind = "talk_event"
	KindWorkshop  EventKind = "workshop"
)

var validEventKinds = map[EventKind]bool{
	KindTalkEvent: true,
	KindWorkshop:  true,
}

func (k EventKind) String() string {
	return string(k)
}

func (k EventKind) IsValid() bool {
	return validEventKinds[k]
}

func NewEventKind(s string) (EventKind, error) {
	k := EventKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid event kind: %s", s)
	}
	return k, nil
}

// EventRef is a tagged reference to a ticketable event.
type EventRef struct {
	Kind EventKind
	ID   uint
}

func NewEventRef(kind EventKind, id uint) (EventRef, error) {
	if !kind.IsValid() {
		return EventRef{}, fmt.Errorf("invalid event kind: %s", kind)
	}
	if id == 0 {
		return EventRef{}, fmt.Errorf("event ID cannot be zero")
	}
	return EventRef{Kind: kind, ID: id}, nil
}

func (r EventRef) IsZero() bool {
	return r.Kind == "" && r.ID == 0
}

func (r EventRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}
