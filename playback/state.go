// Package playback loops the battle phrase on an audio output.
package playback

// State represents the playback state.
type State int

const (
	StateStopped State = iota
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// StopReason says why playback stopped.
type StopReason int

const (
	StopRequested StopReason = iota // friend or reset
	StopHidden                      // page lost focus
	StopUnload                      // page is going away
)

func (r StopReason) String() string {
	switch r {
	case StopRequested:
		return "requested"
	case StopHidden:
		return "hidden"
	case StopUnload:
		return "unload"
	default:
		return "unknown"
	}
}
