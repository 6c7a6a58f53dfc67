package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"foe/audio"
	"foe/clip"
	"foe/config"
	"foe/doctor"
	"foe/log"
	"foe/melody"
	"foe/playback"
	"foe/shutdown"
)

var version = "dev"

var (
	controller   *playback.Controller
	shutdownOnce sync.Once
)

// gracefulShutdown is the page unload: playback stops before the process exits.
func gracefulShutdown() {
	shutdownOnce.Do(func() {
		if controller != nil {
			controller.Stop(playback.StopUnload)
		}
		log.SessionEnd()
		log.Close()
		tuiMu.Lock()
		p := tuiProgram
		tuiMu.Unlock()
		if p != nil {
			p.Quit()
		}
	})
}

func deviceLineText(name string) string {
	suffix := ""
	if audio.IsBluetooth(name) {
		suffix = " (BT!)"
	}
	return "out: " + name + suffix
}

func modeLineText(synth melody.Synth, clipPath string) string {
	line := fmt.Sprintf("[%s | %.1f kHz | vol %.2f]", synth.Waveform, float64(synth.SampleRate)/1000, synth.Volume)
	if clipPath != "" {
		line += " + " + filepath.Base(clipPath)
	}
	return line
}

func main() {
	os.Exit(run())
}

func run() int {
	configFlag := flag.String("config", "", "Path to YAML config file (defaults apply when empty)")
	deviceFlag := flag.String("device", "", "Use named output device")
	setupFlag := flag.Bool("setup", false, "Select output device interactively")
	clipFlag := flag.String("clip", "", "Fallback audio clip (.wav or .mp3) played with the generated theme")
	waveformFlag := flag.String("waveform", "", "Tone waveform: square, sine, triangle or sawtooth")
	muteFlag := flag.Bool("mute", false, "Do not open an audio device")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run audio diagnostics and exit")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	exportFlag := flag.String("export", "", "Render the battle theme to a FLAC file and exit")
	loopsFlag := flag.Int("loops", 1, "Number of phrases to render with -export")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("foe %s\n", version)
		return 0
	}

	// .env is optional
	_ = godotenv.Load()

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		return 1
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *deviceFlag != "" {
		cfg.Audio.Device = *deviceFlag
	}
	if *clipFlag != "" {
		cfg.Playback.Clip = *clipFlag
	}
	if *waveformFlag != "" {
		cfg.Audio.Waveform = *waveformFlag
	}
	synth, err := cfg.Synth()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if *exportFlag != "" {
		if err := runExport(*exportFlag, synth, *loopsFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if *doctorFlag {
		return doctor.Run(doctor.Options{
			Synth:  synth,
			Device: cfg.Audio.Device,
			Clip:   cfg.Playback.Clip,
		})
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	var actx audio.Context
	if *muteFlag || *testFlag {
		actx = audio.NewFakeContext(false)
	} else {
		actx, err = audio.NewContext()
		if err != nil {
			log.Errorf("audio context init error: %v", err)
			fmt.Printf("Error initializing audio context: %v\n", err)
			return 1
		}
	}
	defer actx.Close()

	var selectedDevice *audio.DeviceInfo
	if cfg.Audio.Device != "" {
		if devices, err := actx.Devices(); err == nil {
			for i := range devices {
				if devices[i].Name == cfg.Audio.Device {
					selectedDevice = &devices[i]
					break
				}
			}
		}
		if selectedDevice == nil {
			log.Warnf("device not found: %s", cfg.Audio.Device)
		}
	} else if *setupFlag && !*testFlag {
		selectedDevice, err = audio.SelectDevice(actx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Printf("Warning: device selection failed: %v\n", err)
			fmt.Println("Falling back to default device")
			selectedDevice = nil
		}
	}

	out, err := actx.NewOutput(selectedDevice, audio.OutputConfig{
		SampleRate: uint32(synth.SampleRate),
		Channels:   audio.Channels,
	})
	if err != nil {
		log.Errorf("output device init error: %v", err)
		fmt.Printf("Error initializing output device: %v\n", err)
		return 1
	}
	defer out.Close()

	pcfg := playback.Config{Synth: synth}
	clipPath := ""
	if cfg.Playback.Clip != "" && !*testFlag {
		player, err := clip.Open(cfg.Playback.Clip)
		if err != nil {
			// The generated theme carries on without the clip.
			log.Warnf("clip unavailable: %v", err)
		} else {
			defer player.Close()
			pcfg.Clip = player
			clipPath = player.Path()
		}
	}

	controller = playback.NewController(out, pcfg)
	log.SessionStart(out.DeviceName(), synth.Waveform.String(), synth.Volume)

	page := newPageModel(cfg, controller, controller.Events())
	page.modeLine = modeLineText(synth, clipPath)
	page.deviceLine = deviceLineText(out.DeviceName())

	if *testFlag {
		runTestMode(page)
		gracefulShutdown()
		return 0
	}

	stopSignals := shutdown.OnSignal(func(os.Signal) { gracefulShutdown() })
	defer stopSignals()

	tuiMu.Lock()
	tuiProgram = NewTUIProgram(page)
	tuiMu.Unlock()

	if _, err := tuiProgram.Run(); err != nil {
		log.Errorf("TUI error: %v", err)
		gracefulShutdown()
		return 1
	}
	gracefulShutdown()
	return 0
}
