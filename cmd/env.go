package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/tattva/internal/astro"
	"github.com/papapumpkin/tattva/internal/config"
	"github.com/papapumpkin/tattva/internal/ephem"
	"github.com/papapumpkin/tattva/internal/places"
)

// env is everything a command needs to calculate for the chosen location.
type env struct {
	cfg     config.Config
	catalog *places.Catalog
	place   places.Place
	obs     astro.Observer
	eph     ephem.Ephemeris
	calc    *astro.Calculator
}

// loadEnv reads configuration, the places catalog and the location flags.
func loadEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cat, err := places.Load(cfg.PlacesFile)
	if err != nil {
		return nil, err
	}
	p, err := placeFromFlags(cmd, cfg.Location.Place(), cat)
	if err != nil {
		return nil, err
	}
	obs, err := observerFor(p, cat)
	if err != nil {
		return nil, err
	}
	eph := ephem.NewMeeus()
	return &env{
		cfg:     cfg,
		catalog: cat,
		place:   p,
		obs:     obs,
		eph:     eph,
		calc:    newCalculator(eph, cfg),
	}, nil
}

func newCalculator(eph ephem.Ephemeris, cfg config.Config) *astro.Calculator {
	return astro.NewCalculator(eph,
		astro.WithAyanamsa(cfg.AyanamsaMode()),
		astro.WithPreciseNakshatra(cfg.Nakshatra.Precise))
}

// placeFromFlags applies --place, --lat, --lon and --zone on top of the
// configured location.
func placeFromFlags(cmd *cobra.Command, p places.Place, cat *places.Catalog) (places.Place, error) {
	flags := cmd.Flags()
	if name, _ := flags.GetString("place"); name != "" {
		found, err := cat.Find(name)
		if err != nil {
			return places.Place{}, err
		}
		p = found
	}
	latSet, lonSet := flags.Changed("lat"), flags.Changed("lon")
	if latSet != lonSet {
		return places.Place{}, errors.New("--lat and --lon must be given together")
	}
	if latSet {
		p.Latitude, _ = flags.GetFloat64("lat")
		p.Longitude, _ = flags.GetFloat64("lon")
		if name, _ := flags.GetString("place"); name == "" {
			p.Name = fmt.Sprintf("%.4f, %.4f", p.Latitude, p.Longitude)
			p.Zone = ""
			p.Aliases = nil
		}
	}
	if zone, _ := flags.GetString("zone"); zone != "" {
		p.Zone = zone
	}
	if err := p.Validate(); err != nil {
		return places.Place{}, err
	}
	return p, nil
}

// observerFor resolves the place's time zone.
func observerFor(p places.Place, cat *places.Catalog) (astro.Observer, error) {
	loc, err := cat.Location(p)
	if err != nil {
		return astro.Observer{}, err
	}
	return astro.Observer{Name: p.Name, Latitude: p.Latitude, Longitude: p.Longitude, Location: loc}, nil
}

var atLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02 15:04:05"}

// instant returns --at interpreted in loc, or the current time.
func instant(cmd *cobra.Command, loc *time.Location) (time.Time, error) {
	s, _ := cmd.Flags().GetString("at")
	return parseAt(s, loc, time.Now())
}

func parseAt(s string, loc *time.Location, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range atLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q; use 2006-01-02 15:04 or RFC 3339", s)
}

// configPath is the file settings are written to.
func configPath() string {
	if p := viper.ConfigFileUsed(); p != "" {
		return p
	}
	return ".tattva.yaml"
}
