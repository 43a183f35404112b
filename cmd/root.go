package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger is replaced in PersistentPreRunE once flags and config are known.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "tattva",
	Short: "Vedic time divisions for your location",
	Long: `Tattva shows the current Tattva and sub-Tattva, the planetary hour, the
Moon's Nakshatra and phase for a location, and can run as a status daemon
that keeps those lines up to date and announces lunar events.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
	RunE:              runNow,
}

// Execute runs the root command with a context cancelled by SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .tattva.yaml)")
	pf.BoolP("verbose", "v", false, "verbose output")
	locationFlags(pf)

	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))

	nowFlags(rootCmd)
}

// locationFlags registers the flags that pick the place and instant.
func locationFlags(fs *pflag.FlagSet) {
	fs.StringP("place", "p", "", "place name from the catalog")
	fs.Float64("lat", 0, "latitude in degrees, north positive")
	fs.Float64("lon", 0, "longitude in degrees, east positive")
	fs.String("zone", "", "IANA time zone, e.g. Europe/Bucharest")
	fs.String("at", "", "calculate for this local time instead of now (2006-01-02 15:04 or RFC 3339)")
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".tattva")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	bindEnv(viper.GetViper())

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// bindEnv maps TATTVA_* variables onto v, with nested keys joined by
// underscores (TATTVA_LOCATION_NAME for location.name).
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("TATTVA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setupLogger builds the zap logger from --verbose and log_level.
func setupLogger(_ *cobra.Command, _ []string) error {
	cfg := zap.NewProductionConfig()
	level := zapcore.InfoLevel
	if s := viper.GetString("log_level"); s != "" {
		if err := level.UnmarshalText([]byte(s)); err != nil {
			return fmt.Errorf("log_level %q: %w", s, err)
		}
	}
	if viper.GetBool("verbose") {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logger = l
	return nil
}
