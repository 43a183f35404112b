package cmd

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/papapumpkin/tattva/internal/config"
	"github.com/papapumpkin/tattva/internal/notify"
	"github.com/papapumpkin/tattva/internal/places"
	"github.com/papapumpkin/tattva/internal/store"
	"github.com/papapumpkin/tattva/internal/telemetry"
	"github.com/papapumpkin/tattva/internal/ui"
	"github.com/papapumpkin/tattva/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the status daemon",
	Long: `Prints the current Tattva and planetary hour lines every refresh interval
and announces moon events ahead of time. Edits to the config file or the
places catalog are picked up without a restart; deleting the config file
restores the defaults. When notifications.status_file is set the latest lines
are also kept in that file for status bars (changing it needs a restart).`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("no-alerts", false, "do not schedule or deliver moon alerts")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	printer := ui.NewTo(cmd.ErrOrStderr())

	ctx := cmd.Context()

	sinks := notify.MultiSink{notify.NewTerminalSink(cmd.OutOrStdout())}
	if path := e.cfg.Notifications.StatusFile; path != "" {
		sinks = append(sinks, &notify.FileSink{Path: path})
	}

	opts := []notify.Option{notify.WithLogger(logger)}
	if noAlerts, _ := cmd.Flags().GetBool("no-alerts"); !noAlerts {
		ledger, err := store.Open(ctx, e.cfg.DBPath)
		if err != nil {
			return err
		}
		defer ledger.Close()
		opts = append(opts, notify.WithLedger(ledger))
	}
	if path := e.cfg.TelemetryPath; path != "" {
		tel, err := telemetry.NewEmitter(path)
		if err != nil {
			return err
		}
		defer tel.Close()
		opts = append(opts, notify.WithTelemetry(tel))
	}

	svc := notify.New(e.cfg, e.obs, e.eph, sinks, opts...)
	logger.Info("daemon starting",
		zap.String("session", svc.Session()),
		zap.String("place", e.obs.Name),
		zap.Duration("interval", e.cfg.RefreshInterval))

	w, err := watch.New(configPath(), e.cfg.PlacesFile)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()
	go reloadOnChange(cmd, svc, w.Changes)

	printer.Location(e.obs, time.Now())
	err = svc.Run(ctx)
	if errors.Is(err, notify.ErrDisabled) {
		printer.Info("tattva and planetary hour notifications are both off; enable one with `tattva settings set notifications.tattva true`")
		return nil
	}
	return err
}

// reloadOnChange re-reads the config and catalog after every change and hands
// the result to the running service. Invalid edits are logged and ignored.
func reloadOnChange(cmd *cobra.Command, svc *notify.Service, changes <-chan watch.Change) {
	for ch := range changes {
		logger.Debug("file changed", zap.String("file", ch.File), zap.Stringer("kind", ch.Kind))
		cfg, err := reloadConfig()
		if err != nil {
			logger.Warn("config reload failed", zap.Error(err))
			continue
		}
		cat, err := places.Load(cfg.PlacesFile)
		if err != nil {
			logger.Warn("places reload failed", zap.Error(err))
			continue
		}
		p, err := placeFromFlags(cmd, cfg.Location.Place(), cat)
		if err != nil {
			logger.Warn("location reload failed", zap.Error(err))
			continue
		}
		obs, err := observerFor(p, cat)
		if err != nil {
			logger.Warn("location reload failed", zap.Error(err))
			continue
		}
		svc.Reload(cfg, obs)
	}
}

// reloadConfig re-reads the config file. Once the file is gone the settings
// fall back to defaults and TATTVA_* variables, since the global viper keeps
// whatever it read last.
func reloadConfig() (config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, serr := os.Stat(configPath()); !errors.Is(serr, fs.ErrNotExist) {
			return config.Config{}, err
		}
		v := viper.New()
		bindEnv(v)
		return config.LoadFrom(v)
	}
	return config.Load()
}
