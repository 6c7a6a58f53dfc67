package playback

import (
	"sync"
	"time"

	"foe/audio"
	"foe/log"
	"foe/melody"
)

// Clip is a pre-authored recording started alongside the generated tones.
type Clip interface {
	Play() error
	Stop()
}

// Config holds controller configuration. Zero values select the battle
// phrase, the default synth and the wall clock.
type Config struct {
	Notes []melody.Note
	Synth melody.Synth
	Clock Clock
	Clip  Clip
}

// Controller loops a fixed phrase on an output until stopped.
type Controller struct {
	mu sync.Mutex

	out      audio.Output
	clock    Clock
	clip     Clip
	notes    []melody.Note
	rendered [][]int16
	phrase   time.Duration

	state State
	gen   uint64 // bumped on every Start; continuations carry the value they were scheduled with
	loops int
	next  Timer
	// phraseAt is when the current phrase was queued.
	phraseAt time.Time

	eventCh chan Event
}

func NewController(out audio.Output, cfg Config) *Controller {
	notes := cfg.Notes
	if len(notes) == 0 {
		notes = melody.Battle()
	}
	synth := cfg.Synth
	if synth.SampleRate == 0 {
		synth = melody.DefaultSynth()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}

	rendered := make([][]int16, len(notes))
	for i, n := range notes {
		rendered[i] = synth.Render(n)
	}

	return &Controller{
		out:      out,
		clock:    clock,
		clip:     cfg.Clip,
		notes:    notes,
		rendered: rendered,
		phrase:   melody.PhraseDuration(notes),
		state:    StateStopped,
		eventCh:  make(chan Event, 10),
	}
}

// Events returns the event channel.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Loops returns how many phrases have completed since the last Start.
func (c *Controller) Loops() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loops
}

// Phrase returns the length of one pass over the notes.
func (c *Controller) Phrase() time.Duration {
	return c.phrase
}

// Start begins looping the phrase. It does nothing and returns false if
// playback is already running.
func (c *Controller) Start() bool {
	c.mu.Lock()
	if c.state == StatePlaying {
		c.mu.Unlock()
		return false
	}
	c.state = StatePlaying
	c.gen++
	gen := c.gen
	c.loops = 0
	c.playPhraseLocked(gen)
	c.sendEventLocked(Event{Type: EventStarted})
	clip := c.clip
	c.mu.Unlock()

	log.PlaybackStart(c.phrase.Milliseconds(), len(c.notes))

	if clip != nil {
		if err := clip.Play(); err != nil {
			log.ClipBlocked(err)
			return true
		}
		// Stop may have run while the clip was starting.
		c.mu.Lock()
		stale := c.state != StatePlaying || c.gen != gen
		c.mu.Unlock()
		if stale {
			clip.Stop()
		}
	}
	return true
}

// Stop silences playback and prevents the next phrase from starting. It is
// safe to call when nothing is playing. It reports whether playback was
// running.
func (c *Controller) Stop(reason StopReason) bool {
	c.mu.Lock()
	wasPlaying := c.state == StatePlaying
	c.state = StateStopped
	if c.next != nil {
		c.next.Stop()
		c.next = nil
	}
	c.out.Silence()
	loops := c.loops
	if wasPlaying {
		c.sendEventLocked(Event{Type: EventStopped, Loop: loops, Reason: reason})
	}
	clip := c.clip
	c.mu.Unlock()

	if clip != nil {
		clip.Stop()
	}
	if wasPlaying {
		log.PlaybackStop(reason.String(), loops)
	}
	return wasPlaying
}

// playPhraseLocked queues every note back to back and schedules the
// continuation for when the phrase has elapsed.
func (c *Controller) playPhraseLocked(gen uint64) {
	for i, samples := range c.rendered {
		if err := c.out.Play(samples); err != nil {
			log.Warnf("tone %d (%.2f Hz) not queued: %v", i, c.notes[i].Freq, err)
			break
		}
	}
	c.phraseAt = c.clock.Now()
	c.next = c.clock.AfterFunc(c.phrase, func() { c.continueLoop(gen) })
}

func (c *Controller) continueLoop(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePlaying || c.gen != gen {
		return
	}
	c.loops++
	drift := c.clock.Now().Sub(c.phraseAt) - c.phrase
	log.PlaybackLoop(c.loops, drift)
	c.sendEventLocked(Event{Type: EventLoop, Loop: c.loops, Drift: drift})
	c.playPhraseLocked(gen)
}

func (c *Controller) sendEventLocked(ev Event) {
	select {
	case c.eventCh <- ev:
	default:
	}
}
