package render

import "github.com/jonboulle/clockwork"

// clock stamps Scene.GeneratedAt; tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for scene construction. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
