package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/tattva/internal/config"
	"github.com/papapumpkin/tattva/internal/ui"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "List the effective settings",
	Long: `Lists every setting with its effective value after defaults, the config
file and TATTVA_* environment variables are merged.`,
	Args: cobra.NoArgs,
	RunE: runSettingsList,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist one setting to the config file",
	Long: `Validates the value and writes it to the config file in use (.tattva.yaml
in the current directory when none was found). Lists such as
notifications.full_moon_lead are comma separated: 24h,1h,0s.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsList(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	p := ui.NewTo(cmd.ErrOrStderr())
	for _, key := range config.Keys() {
		val, err := config.Get(cfg, key)
		if err != nil {
			return err
		}
		p.Setting(key, val)
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	val, err := config.Get(cfg, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	path := configPath()
	if err := config.Save(path, args[0], args[1]); err != nil {
		return err
	}
	logger.Debug("setting saved")
	ui.NewTo(cmd.ErrOrStderr()).Success(fmt.Sprintf("%s = %s (%s)", args[0], args[1], path))
	return nil
}
