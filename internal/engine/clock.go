package engine

import "time"

// Clock supplies the engine's notion of current time. Injected so tests can
// drive the trash TTL and LWW timestamps deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation used outside tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
