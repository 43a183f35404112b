package cmd

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/tattva/internal/tui"
)

// tuiCmd launches the live dashboard.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the live dashboard",
	Long: `Shows the Tattva and sub-Tattva with second-by-second countdowns, the
planetary hour, the Nakshatra and the moon phase. Press e to switch between
names and codes, tab to list the planetary hours, r to recompute and q to quit.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().String("theme", "", "color theme: dark or light (default from config)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isStderrTTY() {
		return errors.New("tattva tui requires a TTY (terminal)")
	}
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	theme := e.cfg.Theme
	if t, _ := cmd.Flags().GetString("theme"); t != "" {
		theme = t
	}
	return tui.Run(tui.Config{
		Calculator: e.calc,
		Observer:   e.obs,
		Interval:   e.cfg.RefreshInterval,
		Theme:      theme,
	}, tui.WithOutput(os.Stderr))
}

func isStderrTTY() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
