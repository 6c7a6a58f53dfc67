//go:build !linux

package audio

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
)

type malgoContext struct {
	ctx *malgo.AllocatedContext
}

func NewContext() (Context, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, err
	}
	return &malgoContext{ctx: ctx}, nil
}

func (m *malgoContext) Devices() ([]DeviceInfo, error) {
	devices, err := m.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("malgo devices: %w", err)
	}
	var result []DeviceInfo
	for _, d := range devices {
		result = append(result, DeviceInfo{
			ID:   hex.EncodeToString(d.ID.Pointer()[:]),
			Name: d.Name(),
		})
	}
	return result, nil
}

func (m *malgoContext) NewOutput(device *DeviceInfo, config OutputConfig) (Output, error) {
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = config.Channels
	deviceConfig.SampleRate = config.SampleRate

	if device != nil {
		idBytes, err := hex.DecodeString(device.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid device ID: %w", err)
		}
		var devID malgo.DeviceID
		copy(devID[:], idBytes)
		deviceConfig.Playback.DeviceID = devID.Pointer()
	}

	out := &malgoOutput{device: device}
	callbacks := malgo.DeviceCallbacks{
		Data: out.dataCallback,
	}

	dev, err := malgo.InitDevice(m.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, err
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		return nil, fmt.Errorf("malgo start: %w", err)
	}
	out.dev = dev
	return out, nil
}

func (m *malgoContext) Close() {
	m.ctx.Uninit()
	m.ctx.Free()
}

type malgoOutput struct {
	device *DeviceInfo
	queue  Queue

	mu      sync.Mutex
	dev     *malgo.Device
	scratch []int16
}

func (o *malgoOutput) dataCallback(pOutput, _ []byte, frameCount uint32) {
	if cap(o.scratch) < int(frameCount) {
		o.scratch = make([]int16, frameCount)
	}
	buf := o.scratch[:frameCount]
	o.queue.Fill(buf)
	for i, s := range buf {
		binary.LittleEndian.PutUint16(pOutput[i*2:], uint16(s))
	}
}

func (o *malgoOutput) Play(samples []int16) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.dev == nil {
		return fmt.Errorf("malgo output closed")
	}
	o.queue.Push(samples)
	return nil
}

func (o *malgoOutput) Silence() {
	o.queue.Clear()
}

func (o *malgoOutput) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.dev == nil {
		return
	}
	o.dev.Stop()
	o.dev.Uninit()
	o.dev = nil
}

func (o *malgoOutput) DeviceName() string {
	if o.device != nil {
		return o.device.Name
	}
	return "system default"
}
