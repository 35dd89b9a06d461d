package ticketing

import "time"

// Clock abstracts wall time so use cases and the sweeper can be driven by a
// fixed clock in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
