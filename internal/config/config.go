package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/papapumpkin/tattva/internal/ephem"
	"github.com/papapumpkin/tattva/internal/places"
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidInterval indicates a refresh interval below one second.
	ErrInvalidInterval = errors.New("refresh interval must be at least 1s")
	// ErrInvalidTheme indicates a theme other than dark or light.
	ErrInvalidTheme = errors.New("theme must be dark or light")
	// ErrUnknownKey indicates a settings key that Set does not recognise.
	ErrUnknownKey = errors.New("unknown settings key")
)

// LocationConfig is the saved observing location.
type LocationConfig struct {
	Name      string  `mapstructure:"name"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	Zone      string  `mapstructure:"zone"`
	Offset    float64 `mapstructure:"offset"`
}

// Place converts the saved location into a catalog entry.
func (l LocationConfig) Place() places.Place {
	return places.Place{
		Name:      l.Name,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Zone:      l.Zone,
		Offset:    l.Offset,
	}
}

// NotificationConfig toggles the status lines and moon alerts.
type NotificationConfig struct {
	Tattva         bool            `mapstructure:"tattva"`
	PlanetaryHour  bool            `mapstructure:"planetary_hour"`
	FullMoon       bool            `mapstructure:"full_moon"`
	NewMoon        bool            `mapstructure:"new_moon"`
	TripuraSundari bool            `mapstructure:"tripura_sundari"`
	FullMoonLead   []time.Duration `mapstructure:"full_moon_lead"`
	StatusFile     string          `mapstructure:"status_file"`
}

// StatusEnabled reports whether either persistent status line is on.
func (n NotificationConfig) StatusEnabled() bool {
	return n.Tattva || n.PlanetaryHour
}

// NakshatraConfig controls the Nakshatra window calculation.
type NakshatraConfig struct {
	Precise bool `mapstructure:"precise"`
}

// Config holds all runtime configuration.
// Values are populated from .tattva.yaml, TATTVA_* env vars, and CLI flags.
type Config struct {
	Location        LocationConfig     `mapstructure:"location"`
	Notifications   NotificationConfig `mapstructure:"notifications"`
	Nakshatra       NakshatraConfig    `mapstructure:"nakshatra"`
	RefreshInterval time.Duration      `mapstructure:"refresh_interval"`
	Ayanamsa        string             `mapstructure:"ayanamsa"`
	PlacesFile      string             `mapstructure:"places_file"`
	DBPath          string             `mapstructure:"db_path"`
	TelemetryPath   string             `mapstructure:"telemetry_path"`
	LogLevel        string             `mapstructure:"log_level"`
	Theme           string             `mapstructure:"theme"`
	Verbose         bool               `mapstructure:"verbose"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	def := places.Default()
	v.SetDefault("location.name", def.Name)
	v.SetDefault("location.latitude", def.Latitude)
	v.SetDefault("location.longitude", def.Longitude)
	v.SetDefault("location.zone", def.Zone)
	v.SetDefault("location.offset", 2.0)
	v.SetDefault("notifications.tattva", true)
	v.SetDefault("notifications.planetary_hour", true)
	v.SetDefault("notifications.full_moon", false)
	v.SetDefault("notifications.new_moon", false)
	v.SetDefault("notifications.tripura_sundari", false)
	v.SetDefault("notifications.full_moon_lead", []string{"24h", "0s"})
	v.SetDefault("notifications.status_file", "")
	v.SetDefault("nakshatra.precise", false)
	v.SetDefault("refresh_interval", "30s")
	v.SetDefault("ayanamsa", string(ephem.Lahiri))
	v.SetDefault("places_file", "places.toml")
	v.SetDefault("db_path", ".tattva.db")
	v.SetDefault("telemetry_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("theme", "dark")
	v.SetDefault("verbose", false)
}

// Load reads configuration from the global viper instance, applying built-in
// defaults for any values not set by config file, environment, or flags.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads configuration from v.
func LoadFrom(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := c.Location.Place().Validate(); err != nil {
		return fmt.Errorf("config: location: %w", err)
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("config: refresh_interval %v: %w", c.RefreshInterval, ErrInvalidInterval)
	}
	if _, err := ephem.ParseAyanamsa(c.Ayanamsa); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.Theme) {
	case "dark", "light":
	default:
		return fmt.Errorf("config: theme %q: %w", c.Theme, ErrInvalidTheme)
	}
	for _, d := range c.Notifications.FullMoonLead {
		if d < 0 {
			return fmt.Errorf("config: notifications.full_moon_lead %v: %w", d, ErrInvalidInterval)
		}
	}
	return nil
}

// AyanamsaMode returns the validated ayanamsa.
func (c Config) AyanamsaMode() ephem.AyanamsaMode {
	m, err := ephem.ParseAyanamsa(c.Ayanamsa)
	if err != nil {
		return ephem.Lahiri
	}
	return m
}
