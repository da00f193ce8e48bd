package clock

import (
	"time"

	"github.com/ChiaveLabs/chiave/internal/core/ports"
)

type systemClock struct{}

// NewSystemClock returns a Clock backed by the wall clock, in nanoseconds
// since the unix epoch.
func NewSystemClock() ports.Clock {
	return systemClock{}
}

func (systemClock) Now() uint64 {
	return uint64(time.Now().UnixNano())
}
