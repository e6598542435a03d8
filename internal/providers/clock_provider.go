package providers

import "time"

// Clock abstracts "now" so day-key and midnight-expiry logic is
// reproducible in tests without waiting for real time to pass.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewSystemClock() Clock {
	return systemClock{}
}
