package main

import (
	"fmt"
	"os"

	"foe/encoder"
	"foe/melody"
)

// renderLoops renders the first loops passes of the battle phrase.
func renderLoops(synth melody.Synth, loops int) []int16 {
	notes := melody.Battle()
	samples := make([]int16, 0, loops*synth.Samples(melody.PhraseDuration(notes)))
	for loop, n := range melody.Repeat(notes) {
		if loop >= loops {
			break
		}
		samples = append(samples, synth.Render(n)...)
	}
	return samples
}

func runExport(path string, synth melody.Synth, loops int) error {
	if loops < 1 {
		return fmt.Errorf("-loops must be at least 1, got %d", loops)
	}
	samples := renderLoops(synth, loops)

	enc, err := encoder.NewFlac(uint32(synth.SampleRate))
	if err != nil {
		return err
	}
	if err := enc.Encode(samples); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing flac stream: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := enc.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	seconds := float64(len(samples)) / float64(synth.SampleRate)
	fmt.Printf("Wrote %d loop(s), %.1fs of %s tones to %s\n", loops, seconds, synth.Waveform, path)
	return nil
}
