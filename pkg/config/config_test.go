package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/sketchreveal/pkg/choreo"
	"github.com/matzehuels/sketchreveal/pkg/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvBaseURL, EnvAPIKey, EnvModel, EnvOpenAIKey} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	p := cfg.Animation.Params()
	if p.Jitter != 2 || p.Width != 2 || p.Color != "#000000" || p.Duration != 3*time.Second || p.Mode != choreo.Simultaneous {
		t.Errorf("params = %+v", p)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty for a missing file", cfg.Path)
	}
	if cfg.HasProvider() {
		t.Error("no provider should be configured")
	}
	if err := cfg.Validate(true); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Validate(true) = %v, want configuration error", err)
	}
	if err := cfg.Validate(false); err != nil {
		t.Errorf("Validate(false) = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte(`
demos = "https://example.com/demos.json"

[provider]
base_url = "https://openrouter.ai/api/v1"
api_key = "sk-or-abcdef123456"
model = "openai/gpt-5-mini"

[animation]
jitter = 2.5
color = "#1f2937"
duration = "4s"
mode = 3

[server]
addr = ":9000"
redis = "localhost:6379"
`), 0o644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Path != path || !cfg.HasProvider() {
		t.Errorf("Path=%q HasProvider=%v", cfg.Path, cfg.HasProvider())
	}
	p := cfg.Animation.Params()
	if p.Jitter != 2.5 || p.Width != 2 || p.Color != "#1f2937" || p.Duration != 4*time.Second || p.Mode != choreo.Cascading {
		t.Errorf("params = %+v", p)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.Redis != "localhost:6379" || cfg.Demos == "" {
		t.Errorf("server = %+v demos = %q", cfg.Server, cfg.Demos)
	}

	s := cfg.String()
	if strings.Contains(s, "sk-or-abcdef123456") || !strings.Contains(s, "3456") {
		t.Errorf("String() should mask the key:\n%s", s)
	}
}

func TestLoadFileErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	for name, body := range map[string]string{
		"syntax.toml":   "[provider\n",
		"unknown.toml":  "[provider]\ntoken = \"x\"\n",
		"duration.toml": "[animation]\nduration = \"soon\"\n",
	} {
		path := filepath.Join(dir, name)
		os.WriteFile(path, []byte(body), 0o644)
		if _, err := Load(path); !errors.Is(err, errors.ErrCodeConfiguration) {
			t.Errorf("%s: err = %v, want configuration error", name, err)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvOpenAIKey, "sk-openai")

	cfg, _ := Load("")
	if cfg.Provider.APIKey != "sk-openai" || cfg.Provider.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("provider = %+v", cfg.Provider)
	}

	t.Setenv(EnvAPIKey, "sk-own")
	t.Setenv(EnvBaseURL, "http://localhost:1234/v1")
	t.Setenv(EnvModel, "local-model")
	cfg, _ = Load("")
	if cfg.Provider.APIKey != "sk-own" || cfg.Provider.BaseURL != "http://localhost:1234/v1" || cfg.Provider.Model != "local-model" {
		t.Errorf("provider = %+v", cfg.Provider)
	}
}

func TestValidateAnimation(t *testing.T) {
	cfg := Default()
	cfg.Animation.Mode = 5
	if err := cfg.Validate(false); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Validate() = %v", err)
	}
}

func TestDirXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := Dir()
	if err != nil || dir != filepath.Join("/tmp/xdg", "sketchreveal") {
		t.Errorf("Dir() = %q, %v", dir, err)
	}
}
