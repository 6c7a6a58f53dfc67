//go:build integration

package test_test

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mewkiz/flac"
)

var testBinary string

func TestMain(m *testing.M) {
	testBinary = os.Getenv("FOE_TEST_BIN")
	if testBinary == "" {
		fmt.Fprintln(os.Stderr, "FOE_TEST_BIN not set; run: go build -o /tmp/foe . && FOE_TEST_BIN=/tmp/foe go test -tags integration ./test")
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func cmds(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func runFoe(t *testing.T, stdin string, args ...string) (stdout, logDir string) {
	t.Helper()
	logDir = t.TempDir()
	cmdArgs := append([]string{"-logpath", logDir}, args...)

	cmd := exec.Command(testBinary, cmdArgs...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = os.Environ()

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("foe exited with error: %v\noutput: %s", err, out.String())
	}
	return out.String(), logDir
}

func readLog(t *testing.T, logDir, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(logDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("failed to read %s: %v", filename, err)
	}
	return string(data)
}

// --- Page tests ---

func TestEnemyStartsTheme(t *testing.T) {
	out, logDir := runFoe(t, cmds("ENEMY", "WAIT 700", "STATUS", "QUIT"), "-test")
	if !strings.Contains(out, "EVENT started") {
		t.Errorf("expected started event, got:\n%s", out)
	}
	if !strings.Contains(out, "STATUS state=playing panel=shown kind=enemy") {
		t.Errorf("expected playing status, got:\n%s", out)
	}
	diag := readLog(t, logDir, "diagnostics_log.txt")
	for _, want := range []string{"session_start", "choice", "playback_start", "playback_stop", "reason=unload", "session_end"} {
		if !strings.Contains(diag, want) {
			t.Errorf("diagnostics missing %q", want)
		}
	}
}

func TestThemeLoops(t *testing.T) {
	out, _ := runFoe(t, cmds("ENEMY", "WAIT 4200", "STATUS", "QUIT"), "-test")
	if !strings.Contains(out, "EVENT loop 1") {
		t.Errorf("expected one completed loop after 3.3s, got:\n%s", out)
	}
	if strings.Contains(out, "EVENT loop 2") {
		t.Errorf("second loop fired early:\n%s", out)
	}
}

func TestHideStopsTheme(t *testing.T) {
	out, logDir := runFoe(t, cmds("ENEMY", "WAIT 700", "HIDE", "WAIT 100", "STATUS", "QUIT"), "-test")
	if !strings.Contains(out, "EVENT stopped hidden") {
		t.Errorf("expected hidden stop, got:\n%s", out)
	}
	if !strings.Contains(out, "STATUS state=stopped") {
		t.Errorf("expected stopped status, got:\n%s", out)
	}
	if !strings.Contains(readLog(t, logDir, "diagnostics_log.txt"), "reason=hidden") {
		t.Error("expected reason=hidden in diagnostics")
	}
}

func TestResetBeforeDelayCancelsTheme(t *testing.T) {
	out, _ := runFoe(t, cmds("ENEMY", "WAIT 100", "RESET", "WAIT 800", "STATUS", "QUIT"), "-test")
	if strings.Contains(out, "EVENT started") {
		t.Errorf("theme started after reset:\n%s", out)
	}
	if !strings.Contains(out, "STATUS state=stopped panel=hidden") {
		t.Errorf("expected hidden panel, got:\n%s", out)
	}
}

func TestFriendSilencesTheme(t *testing.T) {
	out, _ := runFoe(t, cmds("ENEMY", "WAIT 700", "FRIEND", "WAIT 100", "STATUS", "QUIT"), "-test")
	if !strings.Contains(out, "EVENT stopped requested") {
		t.Errorf("expected requested stop, got:\n%s", out)
	}
	if !strings.Contains(out, "kind=friend") {
		t.Errorf("expected friend panel, got:\n%s", out)
	}
}

func TestRepeatedEnemyDoesNotOverlap(t *testing.T) {
	out, _ := runFoe(t, cmds("ENEMY", "WAIT 100", "ENEMY", "WAIT 100", "ENEMY", "WAIT 900", "QUIT"), "-test")
	if n := strings.Count(out, "EVENT started"); n != 1 {
		t.Errorf("expected exactly one start, got %d:\n%s", n, out)
	}
}

// --- Export tests ---

func TestExportFLAC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.flac")
	_, _ = runFoe(t, "", "-export", path, "-loops", "2")

	stream, err := flac.ParseFile(path)
	if err != nil {
		t.Fatalf("parse exported flac: %v", err)
	}
	defer stream.Close()

	if stream.Info.SampleRate != 44100 {
		t.Errorf("sample rate = %d, want 44100", stream.Info.SampleRate)
	}
	if stream.Info.NChannels != 1 {
		t.Errorf("channels = %d, want 1", stream.Info.NChannels)
	}
	var total int
	for {
		f, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("parse frame: %v", err)
		}
		total += int(f.BlockSize)
	}
	if want := 2 * 145530; total != want {
		t.Errorf("samples = %d, want %d", total, want)
	}
}

func TestExportRejectsBadWaveform(t *testing.T) {
	cmd := exec.Command(testBinary, "-logpath", t.TempDir(), "-export", filepath.Join(t.TempDir(), "x.flac"), "-waveform", "noise")
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected failure for unknown waveform, output: %s", out)
	}
}
