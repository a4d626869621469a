package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperr "github.com/JPM1118/harerace/internal/errors"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Race.TickInterval.Duration != 60*time.Millisecond {
		t.Errorf("default tick_interval = %s, want 60ms", cfg.Race.TickInterval)
	}
	if cfg.Race.GoHold.Duration != 800*time.Millisecond {
		t.Errorf("default go_hold = %s, want 800ms", cfg.Race.GoHold)
	}
	if cfg.Race.RestartKey != "space" {
		t.Errorf("default restart_key = %q, want space", cfg.Race.RestartKey)
	}
	if cfg.Race.PreemptRestart {
		t.Error("default preempt_restart should be false")
	}
	if cfg.Assets.RacerSize != (Size{Width: 12, Height: 12}) {
		t.Errorf("default racer_size = %+v", cfg.Assets.RacerSize)
	}
	if !cfg.Notifications.TerminalBell {
		t.Error("default terminal_bell should be true")
	}
	if cfg.Audio.Enabled {
		t.Error("default audio should be off")
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("defaults should validate, got: %v", err)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/config.yml")
	if err != nil {
		t.Fatalf("missing file should not error, got: %v", err)
	}
	if cfg.Canvas.Columns != 70 {
		t.Errorf("missing file should use defaults, got columns = %d", cfg.Canvas.Columns)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	path := writeConfig(t, `
assets:
  dir: "/srv/art"
  racer_size:
    width: 16
    height: 10
race:
  tick_interval: "30ms"
  restart_key: "r"
  preempt_restart: true
canvas:
  columns: 100
  rows: 30
notifications:
  terminal_bell: false
  bell_debounce: "10s"
audio:
  enabled: true
  volume: 0.5
logging:
  level: "debug"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("valid file should not error, got: %v", err)
	}
	if cfg.Race.TickInterval.Duration != 30*time.Millisecond {
		t.Errorf("tick_interval = %s, want 30ms", cfg.Race.TickInterval)
	}
	if cfg.Race.RestartKey != "r" || !cfg.Race.PreemptRestart {
		t.Errorf("race = %+v", cfg.Race)
	}
	if cfg.Canvas.Columns != 100 || cfg.Canvas.Rows != 30 {
		t.Errorf("canvas = %+v, want 100x30", cfg.Canvas)
	}
	if cfg.Assets.RacerSize.Point().X != 16 || cfg.Assets.RacerSize.Point().Y != 10 {
		t.Errorf("racer_size = %+v, want 16x10", cfg.Assets.RacerSize)
	}
	if got := cfg.Assets.Path(cfg.Assets.Turtle); got != "/srv/art/Turtle.gif" {
		t.Errorf("turtle path = %q", got)
	}
	if cfg.Notifications.TerminalBell {
		t.Error("terminal_bell should be false")
	}
	if cfg.Notifications.BellDebounce.Duration != 10*time.Second {
		t.Errorf("bell_debounce = %s, want 10s", cfg.Notifications.BellDebounce)
	}
	if !cfg.Audio.Enabled || cfg.Audio.Volume != 0.5 {
		t.Errorf("audio = %+v", cfg.Audio)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadFrom_PartialFile(t *testing.T) {
	path := writeConfig(t, `
race:
  tick_interval: "100ms"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("partial file should not error, got: %v", err)
	}
	if cfg.Race.TickInterval.Duration != 100*time.Millisecond {
		t.Errorf("tick_interval = %s, want 100ms", cfg.Race.TickInterval)
	}
	// Partial file: cue_hold should keep default
	if cfg.Race.CueHold.Duration != time.Second {
		t.Errorf("cue_hold should be default 1s, got %s", cfg.Race.CueHold)
	}
}

func TestLoadFrom_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"tick too short", "race:\n  tick_interval: \"1ms\"\n"},
		{"tick too long", "race:\n  tick_interval: \"2s\"\n"},
		{"negative hold", "race:\n  cue_hold: \"-1s\"\n"},
		{"narrow canvas", "canvas:\n  columns: 20\n"},
		{"short canvas", "canvas:\n  rows: 4\n"},
		{"zero racer size", "assets:\n  racer_size:\n    width: 0\n    height: 12\n"},
		{"no workers", "assets:\n  max_workers: 0\n"},
		{"empty restart key", "race:\n  restart_key: \"\"\n"},
		{"loud volume", "audio:\n  volume: 2\n"},
		{"bad duration", "race:\n  tick_interval: \"soon\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(writeConfig(t, tt.data))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !apperr.Is(err, apperr.ErrCodeInvalidConfig) {
				t.Errorf("error code = %q, want INVALID_CONFIG", apperr.GetCode(err))
			}
			if cfg.Race.TickInterval.Duration != 60*time.Millisecond {
				t.Error("failed load should return defaults")
			}
		})
	}
}

func TestLoadFrom_MalformedYAML(t *testing.T) {
	_, err := LoadFrom(writeConfig(t, "{{not yaml"))
	if err == nil {
		t.Fatal("malformed YAML should return error")
	}
}

func TestConfigPath_XDGOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path := configPath()
	want := "/custom/config/harerace/config.yml"
	if path != want {
		t.Errorf("configPath() = %q, want %q", path, want)
	}
}

func TestDefaults_StateAndCacheDirs(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")

	cfg := Defaults()
	if cfg.Logging.File != "/custom/state/harerace/harerace.log" {
		t.Errorf("logging.file = %q", cfg.Logging.File)
	}
	if cfg.Cache.Dir != "/custom/cache/harerace" {
		t.Errorf("cache.dir = %q", cfg.Cache.Dir)
	}
}

func TestAssetPath(t *testing.T) {
	a := AssetConfig{Dir: "art"}
	tests := []struct {
		name, want string
	}{
		{"Turtle.gif", filepath.Join("art", "Turtle.gif")},
		{"/abs/Bunny.gif", "/abs/Bunny.gif"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := a.Path(tt.name); got != tt.want {
			t.Errorf("Path(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
