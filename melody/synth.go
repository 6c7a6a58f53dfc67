package melody

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	DefaultSampleRate = 44100
	DefaultVolume     = 0.1
	DefaultFadeIn     = 10 * time.Millisecond
)

type Waveform int

const (
	Square Waveform = iota
	Sine
	Triangle
	Sawtooth
)

func (w Waveform) String() string {
	switch w {
	case Square:
		return "square"
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	case Sawtooth:
		return "sawtooth"
	default:
		return "unknown"
	}
}

func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "square", "":
		return Square, nil
	case "sine":
		return Sine, nil
	case "triangle":
		return Triangle, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	}
	return Square, fmt.Errorf("unknown waveform %q (use square, sine, triangle or sawtooth)", name)
}

// at returns the waveform value in [-1, 1] for phase in [0, 1).
func (w Waveform) at(phase float64) float64 {
	switch w {
	case Sine:
		return math.Sin(2 * math.Pi * phase)
	case Triangle:
		return 1 - 4*math.Abs(phase-0.5)
	case Sawtooth:
		return 2*phase - 1
	default:
		if phase < 0.5 {
			return 1
		}
		return -1
	}
}

// Synth renders notes as mono signed 16-bit samples.
type Synth struct {
	SampleRate int
	Waveform   Waveform
	Volume     float64
	FadeIn     time.Duration
}

func DefaultSynth() Synth {
	return Synth{
		SampleRate: DefaultSampleRate,
		Waveform:   Square,
		Volume:     DefaultVolume,
		FadeIn:     DefaultFadeIn,
	}
}

// Samples returns how many samples a note of duration d occupies.
func (s Synth) Samples(d time.Duration) int {
	return int(math.Round(d.Seconds() * float64(s.SampleRate)))
}

// Render produces one tone. Gain ramps linearly from zero to Volume over
// FadeIn, then linearly back to zero at the last sample of the note.
func (s Synth) Render(n Note) []int16 {
	total := s.Samples(n.Duration)
	if total <= 0 {
		return nil
	}
	out := make([]int16, total)
	fade := s.Samples(s.FadeIn)
	last := total - 1
	if fade > last {
		fade = last
	}
	rate := float64(s.SampleRate)
	for i := range out {
		var gain float64
		switch {
		case i == 0 || i >= last:
			gain = 0
		case i < fade:
			gain = s.Volume * float64(i) / float64(fade)
		default:
			gain = s.Volume * float64(last-i) / float64(last-fade)
		}
		t := float64(i) / rate
		_, phase := math.Modf(n.Freq * t)
		out[i] = int16(s.Waveform.at(phase) * gain * 32767)
	}
	return out
}

// RenderPhrase renders notes back to back with no gap.
func (s Synth) RenderPhrase(notes []Note) []int16 {
	size := 0
	for _, n := range notes {
		size += s.Samples(n.Duration)
	}
	out := make([]int16, 0, size)
	for _, n := range notes {
		out = append(out, s.Render(n)...)
	}
	return out
}
