package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foe/melody"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Setenv("FOE_DEVICE", "")
	t.Setenv("FOE_CLIP", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, "square", cfg.Audio.Waveform)
	assert.Equal(t, 0.1, cfg.Audio.Volume)
	assert.Equal(t, 500*time.Millisecond, cfg.EnemyDelay())
	assert.Equal(t, 50*time.Millisecond, cfg.ShowDelay())
	assert.Equal(t, 300*time.Millisecond, cfg.HideDelay())
	assert.Equal(t, 150*time.Millisecond, cfg.PressDuration())
	assert.Equal(t, "🌟 I would love to be friends! 🌟", cfg.Page.FriendMessage)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileValues(t *testing.T) {
	t.Setenv("FOE_DEVICE", "")
	t.Setenv("FOE_CLIP", "")

	path := writeConfig(t, `
audio:
  waveform: sine
  volume: 0.25
  sample_rate: 48000
playback:
  enemy_delay_ms: 1200
page:
  friend_message: "hello friend"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sine", cfg.Audio.Waveform)
	assert.Equal(t, 0.25, cfg.Audio.Volume)
	assert.Equal(t, 48000, cfg.Audio.SampleRate)
	assert.Equal(t, 1200*time.Millisecond, cfg.EnemyDelay())
	assert.Equal(t, "hello friend", cfg.Page.FriendMessage)
	assert.Equal(t, 10, cfg.Audio.FadeInMs, "unset fields fall back to defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FOE_DEVICE", "headphones")
	t.Setenv("FOE_CLIP", "/tmp/battle.mp3")

	path := writeConfig(t, "audio:\n  device: speakers\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "headphones", cfg.Audio.Device)
	assert.Equal(t, "/tmp/battle.mp3", cfg.Playback.Clip)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("FOE_DEVICE", "")
	t.Setenv("FOE_CLIP", "")

	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{
			name:   "bad waveform",
			body:   "audio:\n  waveform: noise\n",
			errMsg: "validation failed",
		},
		{
			name:   "volume too loud",
			body:   "audio:\n  volume: 2\n",
			errMsg: "validation failed",
		},
		{
			name:   "odd sample rate",
			body:   "audio:\n  sample_rate: 12345\n",
			errMsg: "validation failed",
		},
		{
			name:   "negative delay",
			body:   "playback:\n  enemy_delay_ms: -5\n",
			errMsg: "validation failed",
		},
		{
			name:   "malformed yaml",
			body:   "audio: [unclosed\n",
			errMsg: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_Synth(t *testing.T) {
	cfg := Default()
	cfg.Audio.Waveform = "triangle"
	cfg.Audio.FadeInMs = 20

	synth, err := cfg.Synth()
	require.NoError(t, err)
	assert.Equal(t, melody.Triangle, synth.Waveform)
	assert.Equal(t, 20*time.Millisecond, synth.FadeIn)
	assert.Equal(t, 44100, synth.SampleRate)

	cfg.Audio.Waveform = "noise"
	_, err = cfg.Synth()
	assert.Error(t, err)
}
