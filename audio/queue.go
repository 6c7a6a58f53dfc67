package audio

import "sync"

// Queue is a FIFO of samples shared between a producer and an audio callback.
type Queue struct {
	mu      sync.Mutex
	samples []int16
	pos     int
}

func (q *Queue) Push(samples []int16) {
	if len(samples) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pos > 0 {
		n := copy(q.samples, q.samples[q.pos:])
		q.samples = q.samples[:n]
		q.pos = 0
	}
	q.samples = append(q.samples, samples...)
}

// Fill copies queued samples into buf, zero-fills the rest, and returns how
// many real samples were copied.
func (q *Queue) Fill(buf []int16) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := copy(buf, q.samples[q.pos:])
	q.pos += n
	clear(buf[n:])
	if q.pos == len(q.samples) {
		q.samples = q.samples[:0]
		q.pos = 0
	}
	return n
}

func (q *Queue) Clear() {
	q.mu.Lock()
	q.samples = q.samples[:0]
	q.pos = 0
	q.mu.Unlock()
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.samples) - q.pos
}
