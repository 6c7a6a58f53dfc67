// Package clip plays a pre-authored recording of the battle theme next to the
// generated tones.
package clip

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

var ErrClosed = errors.New("clip closed")

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker(sr beep.SampleRate) error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(sr, sr.N(100*time.Millisecond))
	})
	return speakerErr
}

type Player struct {
	path string

	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	finished atomic.Bool
}

// Open decodes a WAV or MP3 file. Nothing is played until Play.
func Open(path string) (*Player, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".wav" && ext != ".mp3" {
		return nil, errors.Newf("unsupported clip format %q (use .wav or .mp3)", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening clip")
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	if ext == ".wav" {
		s, format, err = wav.Decode(f)
	} else {
		s, format, err = mp3.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "decoding clip %s", filepath.Base(path))
	}
	return &Player{path: path, streamer: s, format: format}, nil
}

func (p *Player) Path() string { return p.path }

func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// Play starts the clip from the beginning, or resumes it after Stop. It is a
// no-op while the clip is already playing.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return ErrClosed
	}
	if err := initSpeaker(p.format.SampleRate); err != nil {
		return errors.Wrap(err, "speaker init")
	}

	if p.ctrl != nil && !p.finished.Load() {
		speaker.Lock()
		p.ctrl.Paused = false
		speaker.Unlock()
		return nil
	}

	speaker.Lock()
	err := p.streamer.Seek(0)
	speaker.Unlock()
	if err != nil {
		return errors.Wrap(err, "rewinding clip")
	}

	p.finished.Store(false)
	p.ctrl = &beep.Ctrl{Streamer: p.streamer}
	speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		p.finished.Store(true)
	})))
	return nil
}

// Stop pauses the clip and rewinds it. It is a no-op when the clip never
// started.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil || p.streamer == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	p.streamer.Seek(0)
	speaker.Unlock()
}

func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return nil
	}
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
	}
	err := p.streamer.Close()
	p.streamer = nil
	return err
}
