package cmd

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/tattva/internal/astro"
	"github.com/papapumpkin/tattva/internal/places"
	"github.com/papapumpkin/tattva/internal/ui"
)

var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "Show the current Tattva, planetary hour, Nakshatra and moon phase",
	Args:  cobra.NoArgs,
	RunE:  runNow,
}

func init() {
	nowFlags(nowCmd)
	rootCmd.AddCommand(nowCmd)
}

func nowFlags(c *cobra.Command) {
	c.Flags().Bool("json", false, "print the snapshot as JSON on stdout")
}

func runNow(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	now, err := instant(cmd, e.obs.Location)
	if err != nil {
		return err
	}
	data, err := e.calc.Compute(cmd.Context(), e.obs, now)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snapshotJSON(data))
	}
	ui.NewTo(cmd.ErrOrStderr()).Now(data)
	return nil
}

type windowJSON struct {
	Name  string    `json:"name"`
	Code  string    `json:"code,omitempty"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type nowJSON struct {
	Place       string     `json:"place"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Zone        string     `json:"zone"`
	Offset      float64    `json:"utc_offset"`
	Time        time.Time  `json:"time"`
	Sunrise     time.Time  `json:"sunrise"`
	Sunset      time.Time  `json:"sunset"`
	NextSunrise time.Time  `json:"next_sunrise"`
	Tattva      windowJSON `json:"tattva"`
	SubTattva   windowJSON `json:"sub_tattva"`
	Planet      windowJSON `json:"planetary_hour"`
	Nakshatra   struct {
		windowJSON
		Number int     `json:"number"`
		Moon   float64 `json:"moon_longitude"`
	} `json:"nakshatra"`
	Moon struct {
		Phase              string    `json:"phase"`
		Angle              float64   `json:"angle"`
		Illumination       int       `json:"illumination"`
		Waxing             bool      `json:"waxing"`
		NextTripuraSundari time.Time `json:"next_tripura_sundari"`
		NextFullMoon       time.Time `json:"next_full_moon"`
		NextNewMoon        time.Time `json:"next_new_moon"`
	} `json:"moon"`
}

func snapshotJSON(d *astro.AstroData) nowJSON {
	loc := d.CurrentTime.Location()
	in := func(t time.Time) time.Time { return t.In(loc) }

	out := nowJSON{
		Place:       d.Observer.Name,
		Latitude:    d.Observer.Latitude,
		Longitude:   d.Observer.Longitude,
		Zone:        loc.String(),
		Offset:      places.OffsetHours(loc, d.CurrentTime),
		Time:        d.CurrentTime,
		Sunrise:     in(d.Sunrise),
		Sunset:      in(d.Sunset),
		NextSunrise: in(d.NextSunrise),
		Tattva:      windowJSON{d.Tattva.Tattva.String(), d.Tattva.Tattva.Code(), in(d.Tattva.Start), in(d.Tattva.End)},
		SubTattva:   windowJSON{d.SubTattva.Tattva.String(), d.SubTattva.Tattva.Code(), in(d.SubTattva.Start), in(d.SubTattva.End)},
		Planet: windowJSON{d.PlanetaryHour.Planet.String(), d.PlanetaryHour.Planet.Symbol(),
			in(d.PlanetaryHour.Start), in(d.PlanetaryHour.End)},
	}
	n := d.Nakshatra
	out.Nakshatra.windowJSON = windowJSON{n.Name, n.Code(), in(n.Start), in(n.End)}
	out.Nakshatra.Number = n.Number
	out.Nakshatra.Moon = n.MoonLongitude

	m := d.MoonPhase
	out.Moon.Phase = m.Name
	out.Moon.Angle = m.PhaseAngle
	out.Moon.Illumination = m.IlluminationPercent
	out.Moon.Waxing = m.Waxing
	out.Moon.NextTripuraSundari = in(m.NextTripuraSundari)
	out.Moon.NextFullMoon = in(m.NextFullMoon)
	out.Moon.NextNewMoon = in(m.NextNewMoon)
	return out
}

// obsLoc returns the observer's zone, defaulting to UTC.
func obsLoc(obs astro.Observer) *time.Location {
	if obs.Location == nil {
		return time.UTC
	}
	return obs.Location
}
