package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.Mutex
	pid      int
	dir      string

	// Read on timer and audio goroutines without logMu.
	logReady atomic.Bool
	choices  atomic.Int64
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		return absolute(flagPath)
	}

	// Priority 2: FOE_LOG_PATH environment variable
	if envPath := os.Getenv("FOE_LOG_PATH"); envPath != "" {
		return absolute(envPath)
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func absolute(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error
	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	choices.Store(0)
	logReady.Store(true)
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	logReady.Store(false)
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
}

func Errorf(format string, args ...any) {
	if logReady.Load() {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warnf(format string, args ...any) {
	if logReady.Load() {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func SessionStart(device, waveform string, volume float64) {
	if !logReady.Load() {
		return
	}
	diagLog.Info().
		Str("device", device).
		Str("waveform", waveform).
		Float64("volume", volume).
		Msg("session_start")
}

// SessionEnd reports how many choices were made since Init.
func SessionEnd() {
	if !logReady.Load() {
		return
	}
	diagLog.Info().
		Int64("choices", choices.Load()).
		Msg("session_end")
}

// Choice records a button activation on the page.
func Choice(kind string) {
	choices.Add(1)
	if !logReady.Load() {
		return
	}
	diagLog.Info().Str("kind", kind).Msg("choice")
}

func PlaybackStart(phraseMs int64, notes int) {
	if !logReady.Load() {
		return
	}
	diagLog.Info().
		Int64("phrase_ms", phraseMs).
		Int("notes", notes).
		Msg("playback_start")
}

// PlaybackLoop records a phrase restart and how late its timer fired.
func PlaybackLoop(loop int, drift time.Duration) {
	if !logReady.Load() {
		return
	}
	diagLog.Debug().
		Int("loop", loop).
		Float64("drift_ms", float64(drift.Microseconds())/1000).
		Msg("playback_loop")
}

func PlaybackStop(reason string, loops int) {
	if !logReady.Load() {
		return
	}
	diagLog.Info().
		Str("reason", reason).
		Int("loops", loops).
		Msg("playback_stop")
}

// ClipBlocked records that the fallback clip could not start. Playback of the
// generated tones is unaffected.
func ClipBlocked(err error) {
	if !logReady.Load() {
		return
	}
	diagLog.Warn().Err(err).Msg("clip_blocked")
}
