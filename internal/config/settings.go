package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindFloat
	kindDuration
	kindDurations
)

// settable lists the keys Save accepts and how their values are parsed.
var settable = map[string]valueKind{
	"location.name":                 kindString,
	"location.latitude":             kindFloat,
	"location.longitude":            kindFloat,
	"location.zone":                 kindString,
	"location.offset":               kindFloat,
	"notifications.tattva":          kindBool,
	"notifications.planetary_hour":  kindBool,
	"notifications.full_moon":       kindBool,
	"notifications.new_moon":        kindBool,
	"notifications.tripura_sundari": kindBool,
	"notifications.full_moon_lead":  kindDurations,
	"notifications.status_file":     kindString,
	"nakshatra.precise":             kindBool,
	"refresh_interval":              kindDuration,
	"ayanamsa":                      kindString,
	"places_file":                   kindString,
	"db_path":                       kindString,
	"telemetry_path":                kindString,
	"log_level":                     kindString,
	"theme":                         kindString,
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(settable))
	for k := range settable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseValue converts the textual form of a setting into its typed value.
func ParseValue(key, raw string) (any, error) {
	kind, ok := settable[key]
	if !ok {
		return nil, fmt.Errorf("config: %q: %w", key, ErrUnknownKey)
	}
	raw = strings.TrimSpace(raw)
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", key, err)
		}
		return b, nil
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", key, err)
		}
		return f, nil
	case kindDuration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", key, err)
		}
		return d.String(), nil
	case kindDurations:
		var out []string
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			d, err := time.ParseDuration(part)
			if err != nil {
				return nil, fmt.Errorf("config: %s: %w", key, err)
			}
			out = append(out, d.String())
		}
		return out, nil
	default:
		return raw, nil
	}
}

// Save persists a single setting to the YAML file at path, creating it when
// missing. The merged result must validate before anything is written.
func Save(path, key, raw string) error {
	val, err := ParseValue(key, raw)
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	v.Set(key, val)

	check := viper.New()
	for _, k := range v.AllKeys() {
		check.Set(k, v.Get(k))
	}
	if _, err := LoadFrom(check); err != nil {
		return err
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Get returns the effective value of key as text.
func Get(cfg Config, key string) (string, error) {
	switch key {
	case "location.name":
		return cfg.Location.Name, nil
	case "location.latitude":
		return strconv.FormatFloat(cfg.Location.Latitude, 'f', -1, 64), nil
	case "location.longitude":
		return strconv.FormatFloat(cfg.Location.Longitude, 'f', -1, 64), nil
	case "location.zone":
		return cfg.Location.Zone, nil
	case "location.offset":
		return strconv.FormatFloat(cfg.Location.Offset, 'f', -1, 64), nil
	case "notifications.tattva":
		return strconv.FormatBool(cfg.Notifications.Tattva), nil
	case "notifications.planetary_hour":
		return strconv.FormatBool(cfg.Notifications.PlanetaryHour), nil
	case "notifications.full_moon":
		return strconv.FormatBool(cfg.Notifications.FullMoon), nil
	case "notifications.new_moon":
		return strconv.FormatBool(cfg.Notifications.NewMoon), nil
	case "notifications.tripura_sundari":
		return strconv.FormatBool(cfg.Notifications.TripuraSundari), nil
	case "notifications.full_moon_lead":
		parts := make([]string, len(cfg.Notifications.FullMoonLead))
		for i, d := range cfg.Notifications.FullMoonLead {
			parts[i] = d.String()
		}
		return strings.Join(parts, ","), nil
	case "notifications.status_file":
		return cfg.Notifications.StatusFile, nil
	case "nakshatra.precise":
		return strconv.FormatBool(cfg.Nakshatra.Precise), nil
	case "refresh_interval":
		return cfg.RefreshInterval.String(), nil
	case "ayanamsa":
		return cfg.Ayanamsa, nil
	case "places_file":
		return cfg.PlacesFile, nil
	case "db_path":
		return cfg.DBPath, nil
	case "telemetry_path":
		return cfg.TelemetryPath, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "theme":
		return cfg.Theme, nil
	}
	return "", fmt.Errorf("config: %q: %w", key, ErrUnknownKey)
}
