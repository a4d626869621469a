package cmd

import (
	"context"
	"fmt"
	"image/color"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/JPM1118/harerace/internal/assets"
	"github.com/JPM1118/harerace/internal/audio"
	"github.com/JPM1118/harerace/internal/canvas"
	apperr "github.com/JPM1118/harerace/internal/errors"
	"github.com/JPM1118/harerace/internal/notify"
	"github.com/JPM1118/harerace/internal/race"
	"github.com/JPM1118/harerace/internal/tui"
)

var raceCmd = &cobra.Command{
	Use:   "race",
	Short: "Run the interactive race",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRace()
	},
}

func init() {
	rootCmd.AddCommand(raceCmd)
}

func runRace() error {
	// The TUI owns the terminal, so logs go to a file.
	logFile, err := openLogFile(cfg.Logging.File)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile, logLevel(cfg.Logging.Level))

	surface, err := canvas.New(cfg.Canvas.Columns, cfg.Canvas.Rows)
	if err != nil {
		return fmt.Errorf("race: %w", err)
	}
	surface.DrawLine(
		canvas.Point{X: race.FinishX, Y: -150},
		canvas.Point{X: race.FinishX, Y: 150},
		3, color.White,
	)

	bar := notify.NewBar(20)
	sprites := loadSprites(context.Background(), surface, bar, logger)

	var bell *notify.Bell
	if cfg.Notifications.TerminalBell {
		bell = notify.NewBell(cfg.Notifications.BellDebounce.Duration, tui.BellEvents())
	}

	var sound tui.Sounder
	if cfg.Audio.Enabled {
		player := audio.NewPlayer(cfg.Audio.SampleRate, cfg.Audio.Volume)
		if err := player.Init(); err != nil {
			logger.Warn("audio disabled", "err", err)
			bar.Push(notify.Notification{Subject: "audio", Message: "disabled: " + err.Error(), Level: notify.LevelWarn, Timestamp: time.Now()})
		} else {
			defer player.Close()
			sound = player
		}
	}

	turtle, bunny := newRacers(sprites)
	ctrl := race.New(tui.NewScene(surface), turtle, bunny, raceConfig(cfg.Race),
		race.WithObserver(tui.NewReporter(logger, bell, sound, bar)),
		race.WithSleepMarker(sprites.Marker),
	)

	model := tui.NewModel(ctrl, surface, bar, tui.Options{
		RestartKey: cfg.Race.RestartKey,
		BarTimeout: cfg.Notifications.BarTimeout.Duration,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("race: %w", err)
	}
	logger.Info("bye", "races", ctrl.Round())
	return nil
}

// loadSprites prepares the artwork and installs it on surface. Every
// failure becomes a warning; the race runs with whatever loaded.
func loadSprites(ctx context.Context, surface *canvas.Surface, bar *notify.Bar, logger *log.Logger) assets.Sprites {
	cacheDir := ""
	if cfg.Cache.Enabled {
		cacheDir = cfg.Cache.Dir
	}
	loader := assets.New(assets.Config{MaxWorkers: cfg.Assets.MaxWorkers, CacheDir: cacheDir}, logger)
	results := loader.Load(ctx, assets.Requests(cfg.Assets, surface.PixelSize()))

	sprites, skipped := assets.Install(surface, results)
	for _, err := range skipped {
		logger.Warn("frame skipped", "err", err)
	}

	now := time.Now()
	for _, r := range results {
		switch {
		case r.Err != nil:
			bar.Push(notify.Notification{Subject: r.Name, Message: warningText(r.Err), Level: notify.LevelWarn, Timestamp: now})
		case r.CacheErr != nil:
			bar.Push(notify.Notification{Subject: r.Name, Message: "not cached", Level: notify.LevelWarn, Timestamp: now})
		}
	}
	if len(skipped) > 0 {
		bar.Push(notify.Notification{Subject: "sprites", Message: fmt.Sprintf("%d frames skipped", len(skipped)), Level: notify.LevelWarn, Timestamp: now})
	}
	return sprites
}

func warningText(err error) string {
	switch apperr.GetCode(err) {
	case apperr.ErrCodeMissingAsset:
		return "missing"
	case apperr.ErrCodeDecode:
		return "unreadable"
	default:
		return apperr.UserMessage(err)
	}
}
