package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/tattva/internal/astro"
	"github.com/papapumpkin/tattva/internal/ui"
)

var nakshatraCmd = &cobra.Command{
	Use:     "nakshatra [1-27]",
	Aliases: []string{"nk"},
	Short:   "Show the Moon's current Nakshatra or describe one by number",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runNakshatra,
}

func init() {
	nakshatraCmd.Flags().Bool("all", false, "list all 27 Nakshatras")
	nakshatraCmd.Flags().BoolP("code", "e", false, "print only the code and window")
	rootCmd.AddCommand(nakshatraCmd)
}

func runNakshatra(cmd *cobra.Command, args []string) error {
	p := ui.NewTo(cmd.ErrOrStderr())
	if all, _ := cmd.Flags().GetBool("all"); all {
		p.NakshatraTable(astro.Nakshatras())
		return nil
	}
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > 27 {
			return fmt.Errorf("nakshatra number must be between 1 and 27, got %q", args[0])
		}
		nk := astro.NakshatraByNumber(n)
		p.Info(fmt.Sprintf("%d %s (%s)", nk.Number, nk.Name, nk.Code()))
		p.NakshatraDetail(nk)
		return nil
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	now, err := instant(cmd, e.obs.Location)
	if err != nil {
		return err
	}
	codeMode, _ := cmd.Flags().GetBool("code")
	p.Nakshatra(e.calc.Nakshatra(now), e.obs.Location, codeMode)
	return nil
}
