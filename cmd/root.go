package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JPM1118/harerace/internal/config"
)

// version is set at build time with -ldflags "-X .../cmd.version=...".
var version = "dev"

var (
	cfgPath string
	verbose bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "harerace",
	Short: "Turtle vs Bunny, raced in your terminal",
	Long: `harerace runs the tortoise-and-hare race on a terminal canvas.

The turtle plods along; the bunny sprints, naps once past the halfway
mark, and usually regrets it. Run without arguments to start racing.
Press space to race again, q to quit.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgPath != "" {
			cfg, err = config.LoadFrom(cfgPath)
		} else {
			cfg, err = config.Load()
		}
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRace()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/harerace/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.SetVersionTemplate("harerace {{.Version}}\n")
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
