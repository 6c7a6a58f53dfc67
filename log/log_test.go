package log

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })
	return tmp
}

func readDiag(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "diagnostics_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/mylog")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/mylog" {
		t.Errorf("got %q, want /tmp/mylog", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(wd, "logs")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv("FOE_LOG_PATH", "/tmp/foe-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/foe-env-log" {
		t.Errorf("got %q, want /tmp/foe-env-log", got)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv("FOE_LOG_PATH", "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "foe") {
		t.Errorf("expected default directory under foe, got %q", got)
	}
}

func TestInitCreatesFile(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "diagnostics_log.txt")); err != nil {
		t.Errorf("diagnostics_log.txt not created: %v", err)
	}
}

func TestPlaybackEvents(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	PlaybackStart(3300, 9)
	PlaybackStop("hidden", 2)
	ClipBlocked(errors.New("device busy"))

	out := readDiag(t, tmp)
	for _, want := range []string{"playback_start", "phrase_ms=3300", "playback_stop", "reason=hidden", "clip_blocked", "device busy"} {
		if !strings.Contains(out, want) {
			t.Errorf("diagnostics log missing %q, got: %q", want, out)
		}
	}
}

func TestNoopBeforeInit(t *testing.T) {
	tmp := setupLogDir(t)

	Warnf("dropped %d", 1)
	Choice("enemy")

	if _, err := os.Stat(filepath.Join(tmp, "diagnostics_log.txt")); !os.IsNotExist(err) {
		t.Errorf("log file should not exist before Init, stat err: %v", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Close()
	Close() // should not panic
}

func TestSessionEndCountsChoices(t *testing.T) {
	tmp := setupLogDir(t)

	Choice("friend") // before Init, not counted
	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Choice("enemy")
	Choice("reset")
	SessionEnd()

	out := readDiag(t, tmp)
	if !strings.Contains(out, "session_end") || !strings.Contains(out, "choices=2") {
		t.Errorf("expected session_end with choices=2, got: %q", out)
	}
}

func TestPlaybackLoopDrift(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	PlaybackLoop(3, 1500*time.Microsecond)

	out := readDiag(t, tmp)
	for _, want := range []string{"playback_loop", "loop=3", "drift_ms=1.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("diagnostics log missing %q, got: %q", want, out)
		}
	}
}

// Loop events arrive on timer goroutines while shutdown closes the log.
func TestCloseWhileLogging(t *testing.T) {
	setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for loop := 1; loop <= 200; loop++ {
				PlaybackLoop(loop, 0)
			}
		}()
	}
	Close()
	wg.Wait()

	SessionEnd() // no-op after Close
}
