package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/tattva/internal/astro"
	"github.com/papapumpkin/tattva/internal/ui"
)

var dayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD]",
	Short: "Show the Tattva schedule from sunrise to the next sunrise",
	Long: `Lists every 24-minute Tattva window of a solar day. Without a date the
current solar day is shown (before sunrise that is the previous civil date).
The current window is expanded into its five sub-Tattvas.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDay,
}

var hoursCmd = &cobra.Command{
	Use:   "hours [YYYY-MM-DD]",
	Short: "Show the 24 planetary hours of a day",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHours,
}

func init() {
	dayCmd.Flags().Bool("next", false, "show the solar day after the current one")
	hoursCmd.Flags().Bool("next", false, "show the solar day after the current one")
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(hoursCmd)
}

// dayPlan resolves the date argument or --next into a schedule.
func dayPlan(cmd *cobra.Command, e *env, args []string) (*astro.DayPlan, time.Time, error) {
	now, err := instant(cmd, e.obs.Location)
	if err != nil {
		return nil, now, err
	}
	var plan *astro.DayPlan
	switch next, _ := cmd.Flags().GetBool("next"); {
	case len(args) == 1:
		d, perr := astro.ParseDate(args[0])
		if perr != nil {
			return nil, now, perr
		}
		plan, err = e.calc.ScheduleForDate(d, e.obs, now)
	case next:
		data, cerr := e.calc.Compute(cmd.Context(), e.obs, now)
		if cerr != nil {
			return nil, now, cerr
		}
		plan, err = e.calc.NextDaySchedule(data)
	default:
		plan, err = e.calc.TodaySchedule(e.obs, now)
	}
	return plan, now, err
}

func runDay(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	plan, now, err := dayPlan(cmd, e, args)
	if err != nil {
		return err
	}
	p := ui.NewTo(cmd.ErrOrStderr())
	p.Location(e.obs, now)
	p.DaySchedule(plan, obsLoc(e.obs))
	return nil
}

func runHours(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	plan, now, err := dayPlan(cmd, e, args)
	if err != nil {
		return err
	}
	p := ui.NewTo(cmd.ErrOrStderr())
	p.Location(e.obs, now)
	p.PlanetaryHours(plan.PlanetaryHours, now, obsLoc(e.obs))
	return nil
}
