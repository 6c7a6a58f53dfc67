//go:build linux

package audio

import (
	"fmt"
	"sync"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

type pulseContext struct {
	client *pulse.Client
}

func NewContext() (Context, error) {
	c, err := pulse.NewClient()
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return &pulseContext{client: c}, nil
}

func (p *pulseContext) Devices() ([]DeviceInfo, error) {
	sinks, err := p.client.ListSinks()
	if err != nil {
		return nil, fmt.Errorf("pulse list sinks: %w", err)
	}
	var devices []DeviceInfo
	for _, s := range sinks {
		devices = append(devices, DeviceInfo{
			ID:   s.ID(),
			Name: s.Name(),
		})
	}
	return devices, nil
}

func (p *pulseContext) NewOutput(device *DeviceInfo, config OutputConfig) (Output, error) {
	out := &pulseOutput{device: device}

	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		out.queue.Fill(buf)
		return len(buf), nil
	})

	opts := []pulse.PlaybackOption{
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(int(config.SampleRate)),
		pulse.PlaybackLatency(0.05),
		pulse.PlaybackRawOption(func(s *proto.CreatePlaybackStream) {
			s.ChannelVolumes = proto.ChannelVolumes{uint32(proto.VolumeNorm)}
		}),
	}
	if device != nil {
		sink, err := p.client.SinkByID(device.ID)
		if err == nil && sink != nil {
			opts = append(opts, pulse.PlaybackSink(sink))
		}
	}

	stream, err := p.client.NewPlayback(reader, opts...)
	if err != nil {
		return nil, fmt.Errorf("pulse playback: %w", err)
	}
	out.stream = stream
	stream.Start()
	return out, nil
}

func (p *pulseContext) Close() {
	p.client.Close()
}

type pulseOutput struct {
	device *DeviceInfo
	queue  Queue

	mu     sync.Mutex
	stream *pulse.PlaybackStream
}

func (o *pulseOutput) Play(samples []int16) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stream == nil {
		return fmt.Errorf("pulse output closed")
	}
	if err := o.stream.Error(); err != nil {
		return fmt.Errorf("pulse stream: %w", err)
	}
	o.queue.Push(samples)
	return nil
}

func (o *pulseOutput) Silence() {
	o.queue.Clear()
}

func (o *pulseOutput) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stream == nil {
		return
	}
	o.queue.Clear()
	o.stream.Stop()
	o.stream.Close()
	o.stream = nil
}

func (o *pulseOutput) DeviceName() string {
	if o.device != nil {
		return o.device.Name
	}
	return "system default"
}
