package doctor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"foe/audio"
	"foe/clip"
	"foe/melody"
	"foe/playback"
	"foe/shutdown"
)

// sleep waits while audio plays; tests replace it.
var sleep = time.Sleep

type Options struct {
	Synth  melody.Synth
	Device string // output device name; empty selects the default
	Clip   string // optional fallback clip path
}

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(opts Options) int {
	resetTerminal()
	stopSignals := shutdown.OnSignal(func(os.Signal) {
		resetTerminal()
		fmt.Println("\nInterrupted")
		os.Exit(1)
	})
	defer stopSignals()

	fmt.Println("foe doctor - interactive audio diagnostics")
	fmt.Println("==========================================")

	allPass := true

	ctx, device, ok := checkOutput(opts.Device)
	if !ok {
		allPass = false
	}
	if ctx != nil {
		defer ctx.Close()
	}
	if allPass && !checkTheme(ctx, device, opts.Synth, os.Stdin) {
		allPass = false
	}
	if allPass && !checkClip(opts.Clip, os.Stdin) {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkOutput(name string) (audio.Context, *audio.DeviceInfo, bool) {
	fmt.Println()
	fmt.Println("[1/3] Output device")

	ctx, err := audio.NewContext()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to audio: %v\n", err)
		return nil, nil, false
	}

	devices, err := ctx.Devices()
	if err != nil {
		fmt.Printf("  FAIL: cannot list devices: %v\n", err)
		return ctx, nil, false
	}
	if len(devices) == 0 {
		fmt.Println("  FAIL: no output devices found")
		return ctx, nil, false
	}

	device, ok := findDevice(devices, name)
	if !ok {
		fmt.Printf("  FAIL: device %q not found\n", name)
		for _, d := range devices {
			fmt.Printf("    available: %s\n", d.Name)
		}
		return ctx, nil, false
	}
	if device == nil {
		fmt.Printf("  PASS: %d device(s), using system default\n", len(devices))
	} else {
		fmt.Printf("  PASS: using %s\n", device.Name)
		if audio.IsBluetooth(device.Name) {
			fmt.Println("  Warning: Bluetooth output may lag behind the page")
		}
	}
	return ctx, device, true
}

// findDevice resolves a configured device name. An empty name means the
// system default and yields a nil device.
func findDevice(devices []audio.DeviceInfo, name string) (*audio.DeviceInfo, bool) {
	if name == "" {
		return nil, true
	}
	for i := range devices {
		if devices[i].Name == name {
			return &devices[i], true
		}
	}
	return nil, false
}

func checkTheme(ctx audio.Context, device *audio.DeviceInfo, synth melody.Synth, in io.Reader) bool {
	fmt.Println()
	fmt.Println("[2/3] Battle theme")

	out, err := ctx.NewOutput(device, audio.OutputConfig{
		SampleRate: uint32(synth.SampleRate),
		Channels:   audio.Channels,
	})
	if err != nil {
		fmt.Printf("  FAIL: cannot open output: %v\n", err)
		return false
	}
	defer out.Close()

	ctrl := playback.NewController(out, playback.Config{Synth: synth})
	fmt.Printf("  Playing one phrase (%s, %s)...\n", synth.Waveform, ctrl.Phrase())
	ctrl.Start()
	sleep(ctrl.Phrase())
	ctrl.Stop(playback.StopRequested)

	if !confirm(in, "Did you hear the nine-note theme? [y/n]: ") {
		fmt.Println("  FAIL: theme not confirmed")
		return false
	}
	fmt.Println("  PASS: theme verified by user")
	return true
}

func checkClip(path string, in io.Reader) bool {
	fmt.Println()
	fmt.Println("[3/3] Fallback clip")

	if path == "" {
		fmt.Println("  SKIP: no clip configured")
		return true
	}

	player, err := clip.Open(path)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	defer player.Close()

	d := min(player.Duration(), 3*time.Second)
	fmt.Printf("  Playing %s for %s...\n", path, d.Round(100*time.Millisecond))
	if err := player.Play(); err != nil {
		fmt.Printf("  FAIL: playback refused: %v\n", err)
		return false
	}
	sleep(d)
	player.Stop()

	if !confirm(in, "Did you hear the clip? [y/n]: ") {
		fmt.Println("  FAIL: clip not confirmed")
		return false
	}
	fmt.Println("  PASS: clip verified by user")
	return true
}

func confirm(in io.Reader, prompt string) bool {
	// Fresh reader to clear any buffered input
	resetTerminal()
	r := bufio.NewReader(in)
	fmt.Print(prompt)
	answer, _ := r.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
