// Package config resolves sketchreveal settings.
//
// Values are layered, later layers winning:
//
//  1. built-in defaults
//  2. the TOML file at $XDG_CONFIG_HOME/sketchreveal/config.toml
//     (~/.config/sketchreveal/config.toml)
//  3. environment variables (SKETCHREVEAL_BASE_URL, SKETCHREVEAL_API_KEY,
//     SKETCHREVEAL_MODEL, OPENAI_API_KEY as a key fallback)
//  4. command-line flags, applied by the CLI
//
// The file is only ever read. Credentials are never written by sketchreveal.
//
// Example file:
//
//	[provider]
//	base_url = "https://openrouter.ai/api/v1"
//	api_key  = "sk-or-..."
//	model    = "openai/gpt-5-mini"
//
//	[animation]
//	jitter   = 2.5
//	width    = 2
//	color    = "#1f2937"
//	duration = "4s"
//	mode     = 3
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sketchreveal/pkg/choreo"
	sferrors "github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/llm"
	"github.com/matzehuels/sketchreveal/pkg/playback"
)

const appName = "sketchreveal"

// Environment variables.
const (
	EnvBaseURL   = "SKETCHREVEAL_BASE_URL"
	EnvAPIKey    = "SKETCHREVEAL_API_KEY"
	EnvModel     = "SKETCHREVEAL_MODEL"
	EnvOpenAIKey = "OPENAI_API_KEY"
)

// Duration decodes TOML strings like "3s" or "1500ms".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Animation holds the default animate controls.
type Animation struct {
	Jitter   float64  `toml:"jitter"`
	Width    float64  `toml:"width"`
	Color    string   `toml:"color"`
	Duration Duration `toml:"duration"`
	Mode     int      `toml:"mode"`
}

// Params converts the defaults into playback parameters.
func (a Animation) Params() playback.Params {
	return playback.Params{
		Jitter:   a.Jitter,
		Width:    a.Width,
		Color:    a.Color,
		Duration: a.Duration.Duration,
		Mode:     choreo.Mode(a.Mode),
	}
}

// Server holds `sketchreveal serve` settings.
type Server struct {
	Addr    string `toml:"addr"`
	Redis   string `toml:"redis"`
	Channel string `toml:"channel"`
}

// Config is the resolved configuration.
type Config struct {
	Provider  llm.Provider `toml:"provider"`
	Animation Animation    `toml:"animation"`
	Demos     string       `toml:"demos"`
	Server    Server       `toml:"server"`

	// Path is the file the config was read from, empty if none.
	Path string `toml:"-"`
}

// Default returns the built-in defaults.
func Default() Config {
	p := playback.DefaultParams()
	return Config{
		Provider: llm.Provider{Model: llm.DefaultModel},
		Animation: Animation{
			Jitter:   p.Jitter,
			Width:    p.Width,
			Color:    p.Color,
			Duration: Duration{p.Duration},
			Mode:     int(p.Mode),
		},
		Server: Server{Addr: "127.0.0.1:8080"},
	}
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load resolves defaults, the file at path (the default location when
// empty) and the environment. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return sferrors.Wrap(sferrors.ErrCodeConfiguration, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return sferrors.New(sferrors.ErrCodeConfiguration, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	c.Path = path
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := getenv(EnvAPIKey); v != "" {
		c.Provider.APIKey = v
	} else if v := getenv(EnvOpenAIKey); v != "" && c.Provider.APIKey == "" {
		c.Provider.APIKey = v
	}
	if v := getenv(EnvModel); v != "" {
		c.Provider.Model = v
	}
	if c.Provider.BaseURL == "" && c.Provider.APIKey != "" {
		c.Provider.BaseURL = llm.DefaultBaseURLs[0]
	}
}

// HasProvider reports whether generation credentials are present.
func (c Config) HasProvider() bool {
	return c.Provider.Validate() == nil
}

// Validate checks the animation defaults, and the provider when generation
// is requested.
func (c Config) Validate(requireProvider bool) error {
	if err := c.Animation.Params().Validate(); err != nil {
		return sferrors.Wrap(sferrors.ErrCodeConfiguration, err, "animation defaults")
	}
	if requireProvider {
		if err := c.Provider.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// String renders the configuration for display with the key masked.
func (c Config) String() string {
	var b strings.Builder
	src := c.Path
	if src == "" {
		src = "(defaults)"
	}
	fmt.Fprintf(&b, "config:   %s\n", src)
	fmt.Fprintf(&b, "base_url: %s\n", orNone(c.Provider.BaseURL))
	fmt.Fprintf(&b, "api_key:  %s\n", orNone(c.Provider.MaskedKey()))
	fmt.Fprintf(&b, "model:    %s\n", c.Provider.ModelOrDefault())
	fmt.Fprintf(&b, "jitter=%g width=%g color=%s duration=%s mode=%d\n",
		c.Animation.Jitter, c.Animation.Width, c.Animation.Color, c.Animation.Duration, c.Animation.Mode)
	fmt.Fprintf(&b, "demos:    %s\n", orNone(c.Demos))
	fmt.Fprintf(&b, "server:   %s", c.Server.Addr)
	if c.Server.Redis != "" {
		fmt.Fprintf(&b, " (redis %s)", c.Server.Redis)
	}
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
