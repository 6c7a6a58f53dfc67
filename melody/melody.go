// Package melody holds the battle theme note table and renders notes to PCM.
package melody

import (
	"iter"
	"time"
)

// Note is a single tone: frequency in hertz held for Duration.
type Note struct {
	Freq     float64
	Duration time.Duration
}

var battle = [...]Note{
	{Freq: 220, Duration: 300 * time.Millisecond},    // A3
	{Freq: 246.94, Duration: 300 * time.Millisecond}, // B3
	{Freq: 277.18, Duration: 300 * time.Millisecond}, // C#4
	{Freq: 311.13, Duration: 300 * time.Millisecond}, // D#4
	{Freq: 349.23, Duration: 600 * time.Millisecond}, // F4
	{Freq: 311.13, Duration: 300 * time.Millisecond}, // D#4
	{Freq: 277.18, Duration: 300 * time.Millisecond}, // C#4
	{Freq: 246.94, Duration: 300 * time.Millisecond}, // B3
	{Freq: 220, Duration: 600 * time.Millisecond},    // A3
}

// Battle returns a copy of the battle phrase.
func Battle() []Note {
	notes := make([]Note, len(battle))
	copy(notes, battle[:])
	return notes
}

// PhraseDuration is the sum of all note durations.
func PhraseDuration(notes []Note) time.Duration {
	var total time.Duration
	for _, n := range notes {
		total += n.Duration
	}
	return total
}

// Repeat yields (loop, note) pairs over notes forever, starting again from the
// first note after the last one. It stops when the consumer stops ranging.
func Repeat(notes []Note) iter.Seq2[int, Note] {
	return func(yield func(int, Note) bool) {
		if len(notes) == 0 {
			return
		}
		for loop := 0; ; loop++ {
			for _, n := range notes {
				if !yield(loop, n) {
					return
				}
			}
		}
	}
}
