package config

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	apperr "github.com/JPM1118/harerace/internal/errors"
)

// Config holds all configuration for harerace.
type Config struct {
	Assets        AssetConfig        `yaml:"assets"`
	Cache         CacheConfig        `yaml:"cache"`
	Canvas        CanvasConfig       `yaml:"canvas"`
	Race          RaceConfig         `yaml:"race"`
	Notifications NotificationConfig `yaml:"notifications"`
	Audio         AudioConfig        `yaml:"audio"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// AssetConfig names the source images and their prepared sizes.
type AssetConfig struct {
	Dir        string `yaml:"dir"`
	Turtle     string `yaml:"turtle"`
	Bunny      string `yaml:"bunny"`
	SleepMark  string `yaml:"sleep_marker"`
	Background string `yaml:"background"`
	RacerSize  Size   `yaml:"racer_size"`
	MarkerSize Size   `yaml:"marker_size"`
	MaxWorkers int    `yaml:"max_workers"`
}

// Path resolves an asset file name against Dir.
func (a AssetConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(a.Dir, name)
}

// CacheConfig controls the prepared-frame scratch directory.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// CanvasConfig sets the terminal cell grid the 700x400 course is drawn on.
type CanvasConfig struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// RaceConfig controls race pacing and restart behaviour.
type RaceConfig struct {
	TickInterval   Duration `yaml:"tick_interval"`
	CueHold        Duration `yaml:"cue_hold"`
	GoHold         Duration `yaml:"go_hold"`
	RestartHold    Duration `yaml:"restart_hold"`
	RestartKey     string   `yaml:"restart_key"`
	PreemptRestart bool     `yaml:"preempt_restart"`
}

// NotificationConfig controls how the user is told about race events.
type NotificationConfig struct {
	TerminalBell bool     `yaml:"terminal_bell"`
	BellDebounce Duration `yaml:"bell_debounce"`
	BarTimeout   Duration `yaml:"bar_timeout"`
}

// AudioConfig controls the optional sound cues.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
}

// LoggingConfig controls the log file used while the TUI owns the terminal.
type LoggingConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Size is a width and height in pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Point converts s to an image.Point.
func (s Size) Point() image.Point {
	return image.Pt(s.Width, s.Height)
}

// Duration wraps time.Duration for YAML unmarshalling from strings like "60ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Assets: AssetConfig{
			Dir:        ".",
			Turtle:     "Turtle.gif",
			Bunny:      "Bunny.gif",
			SleepMark:  "zzz.png",
			Background: "Background.png",
			RacerSize:  Size{Width: 12, Height: 12},
			MarkerSize: Size{Width: 8, Height: 5},
			MaxWorkers: 4,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     appDir("XDG_CACHE_HOME", ".cache"),
		},
		Canvas: CanvasConfig{
			Columns: 70,
			Rows:    20,
		},
		Race: RaceConfig{
			TickInterval: Duration{60 * time.Millisecond},
			CueHold:      Duration{time.Second},
			GoHold:       Duration{800 * time.Millisecond},
			RestartHold:  Duration{1500 * time.Millisecond},
			RestartKey:   "space",
		},
		Notifications: NotificationConfig{
			TerminalBell: true,
			BellDebounce: Duration{5 * time.Second},
			BarTimeout:   Duration{8 * time.Second},
		},
		Audio: AudioConfig{
			Enabled:    false,
			SampleRate: 44100,
			Volume:     0.3,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(appDir("XDG_STATE_HOME", filepath.Join(".local", "state")), "harerace.log"),
			Level: "info",
		},
	}
}

// Load reads the config file and merges with defaults.
// Missing file is not an error, defaults are used silently.
func Load() (Config, error) {
	return LoadFrom(configPath())
}

// LoadFrom reads config from a specific path.
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if err := cfg.validate(); err != nil {
		return Defaults(), apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "config validation")
	}

	return cfg, nil
}

func (c Config) validate() error {
	ti := c.Race.TickInterval.Duration
	if ti < 10*time.Millisecond || ti > time.Second {
		return fmt.Errorf("tick_interval must be between 10ms and 1s, got %s", ti)
	}

	for name, d := range map[string]time.Duration{
		"cue_hold":     c.Race.CueHold.Duration,
		"go_hold":      c.Race.GoHold.Duration,
		"restart_hold": c.Race.RestartHold.Duration,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d)
		}
	}

	if c.Canvas.Columns < 40 {
		return fmt.Errorf("columns must be at least 40, got %d", c.Canvas.Columns)
	}
	if c.Canvas.Rows < 12 {
		return fmt.Errorf("rows must be at least 12, got %d", c.Canvas.Rows)
	}

	for name, s := range map[string]Size{
		"racer_size":  c.Assets.RacerSize,
		"marker_size": c.Assets.MarkerSize,
	} {
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("%s must be positive, got %dx%d", name, s.Width, s.Height)
		}
	}

	if c.Assets.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1, got %d", c.Assets.MaxWorkers)
	}

	if c.Race.RestartKey == "" {
		return fmt.Errorf("restart_key must not be empty")
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("volume must be between 0 and 1, got %g", c.Audio.Volume)
	}
	if c.Audio.SampleRate < 8000 {
		return fmt.Errorf("sample_rate must be at least 8000, got %d", c.Audio.SampleRate)
	}

	return nil
}

func configPath() string {
	return filepath.Join(appDir("XDG_CONFIG_HOME", ".config"), "config.yml")
}

// appDir returns $<env>/harerace, falling back to ~/<fallback>/harerace.
func appDir(env, fallback string) string {
	dir := os.Getenv(env)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "harerace")
		}
		dir = filepath.Join(home, fallback)
	}
	return filepath.Join(dir, "harerace")
}
