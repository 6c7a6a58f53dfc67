package playback

import "time"

type EventType int

const (
	EventStarted EventType = iota
	EventLoop
	EventStopped
)

// Event is sent on the controller's event channel. Loop counts completed
// phrases. Drift is how late a loop's continuation fired.
type Event struct {
	Type   EventType
	Loop   int
	Reason StopReason
	Drift  time.Duration
}
