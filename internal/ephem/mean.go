package ephem

import (
	"fmt"
	"math"
)

// Mean motion elements at J2000, degrees and degrees per day.
const (
	meanSunAtJ2000  = 280.46646
	meanSunRate     = 0.98564736
	meanMoonAtJ2000 = 218.3164477
	meanMoonRate    = 13.17639648
)

// Mean is an Ephemeris that moves the Sun and Moon uniformly along the
// ecliptic and places sunrise and sunset at fixed local mean solar times.
// It is exact with respect to its own model, which makes derived quantities
// (phase instants, Nakshatra boundaries) analytically predictable.
type Mean struct {
	// RiseHour and SetHour are local mean solar hours; zero values default
	// to 6 and 18.
	RiseHour, SetHour float64
	// PolarLatitude is the |latitude| beyond which RiseSet reports
	// ErrNoRiseSet; zero defaults to 66.56.
	PolarLatitude float64
}

// Longitude implements Ephemeris.
func (m Mean) Longitude(jd float64, body Body) float64 {
	d := jd - J2000
	switch body {
	case Sun:
		return NormalizeDegrees(meanSunAtJ2000 + meanSunRate*d)
	case Moon:
		return NormalizeDegrees(meanMoonAtJ2000 + meanMoonRate*d)
	default:
		return 0
	}
}

// RiseSet implements Ephemeris.
func (m Mean) RiseSet(jd float64, body Body, lat, lon float64, kind RiseKind) (float64, error) {
	if body != Sun {
		return 0, fmt.Errorf("ephem: rise/set of %s: %w", body, ErrUnsupported)
	}
	polar := m.PolarLatitude
	if polar == 0 {
		polar = 66.56
	}
	if math.Abs(lat) > polar {
		return 0, fmt.Errorf("ephem: %s at latitude %.2f: %w", kindName(kind), lat, ErrNoRiseSet)
	}
	hour := m.RiseHour
	if hour == 0 {
		hour = 6
	}
	if kind == Set {
		hour = m.SetHour
		if hour == 0 {
			hour = 18
		}
	}
	return jd + (hour-lon/15.0)/24.0, nil
}

// SynodicRate is the daily increase of the Moon–Sun elongation under Mean.
const SynodicRate = meanMoonRate - meanSunRate
