package audio

import "sync"

// FakeContext hands out FakeOutputs. It backs -mute, the headless test mode
// and unit tests.
type FakeContext struct {
	record bool
}

func NewFakeContext(record bool) *FakeContext {
	return &FakeContext{record: record}
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake", Name: "fake"}}, nil
}

func (f *FakeContext) Close() {}

func (f *FakeContext) NewOutput(device *DeviceInfo, _ OutputConfig) (Output, error) {
	return NewFakeOutput(f.record), nil
}

// FakeOutput counts what it is asked to play. With record set it also keeps a
// copy of every chunk.
type FakeOutput struct {
	record bool

	mu       sync.Mutex
	chunks   [][]int16
	plays    int
	samples  int
	silences int
	closed   bool
}

func NewFakeOutput(record bool) *FakeOutput {
	return &FakeOutput{record: record}
}

func (f *FakeOutput) Play(samples []int16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays++
	f.samples += len(samples)
	if f.record {
		chunk := make([]int16, len(samples))
		copy(chunk, samples)
		f.chunks = append(f.chunks, chunk)
	}
	return nil
}

func (f *FakeOutput) Silence() {
	f.mu.Lock()
	f.silences++
	f.mu.Unlock()
}

func (f *FakeOutput) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *FakeOutput) DeviceName() string { return "fake" }

func (f *FakeOutput) Plays() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays
}

func (f *FakeOutput) Samples() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.samples
}

func (f *FakeOutput) Silences() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.silences
}

func (f *FakeOutput) Chunks() [][]int16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]int16(nil), f.chunks...)
}

func (f *FakeOutput) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
