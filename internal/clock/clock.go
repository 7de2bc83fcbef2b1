package clock

import "time"

// Clock abstracts wall-clock time so rent status derivation is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// NewSystem returns the real UTC clock.
func NewSystem() Clock {
	return systemClock{}
}
