package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/tattva/internal/store"
	"github.com/papapumpkin/tattva/internal/ui"
)

var moonCmd = &cobra.Command{
	Use:   "moon",
	Short: "Show the moon phase and the next lunar events",
	Long: `Shows the phase name, illumination and phase angle, followed by the next
Tripura Sundari, full moon and new moon. Alerts scheduled by the watch
daemon are listed when its database exists.`,
	Args: cobra.NoArgs,
	RunE: runMoon,
}

func init() {
	moonCmd.Flags().Int("alerts", 10, "maximum number of scheduled alerts to list")
	rootCmd.AddCommand(moonCmd)
}

func runMoon(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	now, err := instant(cmd, e.obs.Location)
	if err != nil {
		return err
	}
	p := ui.NewTo(cmd.ErrOrStderr())
	p.MoonPhase(e.calc.MoonPhase(now), now, e.obs.Location)

	if _, err := os.Stat(e.cfg.DBPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	s, err := store.Open(cmd.Context(), e.cfg.DBPath)
	if err != nil {
		logger.Warn("alert ledger unavailable")
		return nil
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("alerts")
	alerts, err := s.Upcoming(cmd.Context(), now, limit)
	if err != nil {
		return err
	}
	p.Alerts(alerts, now, e.obs.Location)
	return nil
}
