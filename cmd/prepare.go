package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JPM1118/harerace/internal/assets"
	"github.com/JPM1118/harerace/internal/canvas"
)

var prepareOut string

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Prepare sprite frames into the cache directory (non-interactive)",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(os.Stderr, logLevel(cfg.Logging.Level))

		out := prepareOut
		if out == "" {
			out = cfg.Cache.Dir
		}
		pixels := canvas.PixelGrid(cfg.Canvas.Columns, cfg.Canvas.Rows)
		loader := assets.New(assets.Config{MaxWorkers: cfg.Assets.MaxWorkers, CacheDir: out}, logger)
		results := loader.Load(cmd.Context(), assets.Requests(cfg.Assets, pixels))

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ASSET\tFRAMES\tSIZE\tTIME\tSTATUS")
		fmt.Fprintln(w, "─────\t──────\t────\t────\t──────")
		for _, r := range results {
			size := "-"
			if len(r.Frames) > 0 {
				s := r.Frames[0].Size()
				size = fmt.Sprintf("%dx%d", s.X, s.Y)
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", r.Name, len(r.Frames), size, r.Elapsed.Round(time.Millisecond), resultStatus(r))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if warnings := assets.Warnings(results); len(warnings) > 0 {
			logger.Warn("some assets were not prepared", "count", len(warnings))
		}
		logger.Info("frames written", "dir", out)
		return nil
	},
}

func init() {
	prepareCmd.Flags().StringVarP(&prepareOut, "out", "o", "", "output directory (default: cache.dir)")
	rootCmd.AddCommand(prepareCmd)
}

func resultStatus(r assets.Result) string {
	switch {
	case r.Err != nil:
		return warningText(r.Err)
	case r.CacheErr != nil:
		return "not cached"
	default:
		return fmt.Sprintf("ok (%d files)", len(r.Cached))
	}
}
