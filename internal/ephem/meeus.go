package ephem

import (
	"fmt"

	"github.com/nathan-osman/go-sunrise"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/solar"
)

// Meeus is the default Ephemeris. Longitudes come from the algorithms in
// Meeus' "Astronomical Algorithms" (apparent solar longitude, truncated ELP
// lunar theory); sunrise and sunset come from go-sunrise. The difference
// between TT and UT is ignored.
type Meeus struct{}

// NewMeeus returns the default tropical ephemeris.
func NewMeeus() Meeus { return Meeus{} }

// Longitude implements Ephemeris.
func (Meeus) Longitude(jd float64, body Body) float64 {
	switch body {
	case Sun:
		return NormalizeDegrees(solar.ApparentLongitude(base.J2000Century(jd)).Deg())
	case Moon:
		lon, _, _ := moonposition.Position(jd)
		return NormalizeDegrees(lon.Deg())
	default:
		return 0
	}
}

// RiseSet implements Ephemeris. Only the Sun is supported.
func (Meeus) RiseSet(jd float64, body Body, lat, lon float64, kind RiseKind) (float64, error) {
	if body != Sun {
		return 0, fmt.Errorf("ephem: rise/set of %s: %w", body, ErrUnsupported)
	}
	date := ToTime(jd)
	rise, set := sunrise.SunriseSunset(lat, lon, date.Year(), date.Month(), date.Day())
	t := rise
	if kind == Set {
		t = set
	}
	if t.IsZero() {
		return 0, fmt.Errorf("ephem: %s on %s at %.4f,%.4f: %w",
			kindName(kind), date.Format("2006-01-02"), lat, lon, ErrNoRiseSet)
	}
	return FromTime(t), nil
}

func kindName(k RiseKind) string {
	if k == Set {
		return "sunset"
	}
	return "sunrise"
}
