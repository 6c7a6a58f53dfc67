package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"foe/playback"
)

// playbackEventMsg carries a controller event into the Bubble Tea loop.
type playbackEventMsg playback.Event

// waitForEvent blocks for the next controller event. The page re-arms it
// after every event it receives.
func waitForEvent(events <-chan playback.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return playbackEventMsg(ev)
	}
}
