package audio

import "strings"

const (
	SampleRate = 44100
	Channels   = 1
)

var btKeywords = []string{
	"airpods", "beats", "bose", "wh-1000", "wf-1000",
	"sony wh-", "sony wf-",
	"jabra", "galaxy buds", "pixel buds", "powerbeats",
	"jbl ", "sennheiser momentum", "plantronics",
	"tozo", "anker soundcore", "skullcandy",
	"bluetooth", " bt ", "(bt)", "[bt]", " bt)", " bt]",
}

// IsBluetooth guesses from the device name whether output goes over Bluetooth,
// where the theme will lag behind the page by a noticeable amount.
func IsBluetooth(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range btKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

type OutputConfig struct {
	SampleRate uint32
	Channels   uint32
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	NewOutput(device *DeviceInfo, config OutputConfig) (Output, error)
	Close()
}

// Output plays mono signed 16-bit samples in the order they are queued.
type Output interface {
	// Play queues samples behind anything already queued.
	Play(samples []int16) error
	// Silence drops queued samples. It is a no-op when nothing is queued.
	Silence()
	DeviceName() string
	Close()
}
