// Package config loads page and playback settings from a YAML file.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"foe/melody"
)

// Config represents the application configuration.
type Config struct {
	Audio    AudioConfig    `yaml:"audio"`
	Playback PlaybackConfig `yaml:"playback"`
	Page     PageConfig     `yaml:"page"`
}

// AudioConfig represents tone synthesis and output settings.
type AudioConfig struct {
	Device     string  `yaml:"device"`
	SampleRate int     `yaml:"sample_rate" default:"44100" validate:"oneof=22050 44100 48000"`
	Waveform   string  `yaml:"waveform" default:"square" validate:"oneof=square sine triangle sawtooth saw"`
	Volume     float64 `yaml:"volume" default:"0.1" validate:"gt=0,lte=1"`
	FadeInMs   int     `yaml:"fade_in_ms" default:"10" validate:"gte=0,lte=100"`
}

// PlaybackConfig represents battle theme settings.
type PlaybackConfig struct {
	EnemyDelayMs int    `yaml:"enemy_delay_ms" default:"500" validate:"gte=0,lte=10000"`
	Clip         string `yaml:"clip"`
}

// PageConfig represents response panel text and animation timings.
type PageConfig struct {
	FriendMessage string `yaml:"friend_message" default:"🌟 I would love to be friends! 🌟"`
	EnemyMessage  string `yaml:"enemy_message" default:"⚔️ Fine, you wanted this."`
	EnemyTaunt    string `yaml:"enemy_taunt" default:"Here forth, we shall be enemies! ⚔️"`
	EnemyNote     string `yaml:"enemy_note" default:"🎵 Epic battle music engaged! 🎵"`
	ShowDelayMs   int    `yaml:"show_delay_ms" default:"50" validate:"gte=0,lte=2000"`
	HideDelayMs   int    `yaml:"hide_delay_ms" default:"300" validate:"gte=0,lte=2000"`
	PressMs       int    `yaml:"press_ms" default:"150" validate:"gte=0,lte=2000"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	// Defaults on a zero struct only fail on malformed tags.
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Load loads configuration from a YAML file. An empty path yields the
// defaults. Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("FOE_DEVICE"); v != "" {
		c.Audio.Device = v
	}
	if v := os.Getenv("FOE_CLIP"); v != "" {
		c.Playback.Clip = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// Synth builds the tone renderer described by the audio section.
func (c *Config) Synth() (melody.Synth, error) {
	wave, err := melody.ParseWaveform(c.Audio.Waveform)
	if err != nil {
		return melody.Synth{}, errors.Wrap(err, "audio.waveform")
	}
	return melody.Synth{
		SampleRate: c.Audio.SampleRate,
		Waveform:   wave,
		Volume:     c.Audio.Volume,
		FadeIn:     time.Duration(c.Audio.FadeInMs) * time.Millisecond,
	}, nil
}

func (c *Config) EnemyDelay() time.Duration {
	return time.Duration(c.Playback.EnemyDelayMs) * time.Millisecond
}

func (c *Config) ShowDelay() time.Duration {
	return time.Duration(c.Page.ShowDelayMs) * time.Millisecond
}

func (c *Config) HideDelay() time.Duration {
	return time.Duration(c.Page.HideDelayMs) * time.Millisecond
}

func (c *Config) PressDuration() time.Duration {
	return time.Duration(c.Page.PressMs) * time.Millisecond
}
