package ephem

import (
	"fmt"
	"strings"
)

// AyanamsaMode selects the zodiac used for longitudes.
type AyanamsaMode string

const (
	// Tropical leaves longitudes referenced to the equinox.
	Tropical AyanamsaMode = "tropical"
	// Lahiri is the Chitrapaksha ayanamsa used by Indian ephemerides.
	Lahiri AyanamsaMode = "lahiri"
)

const (
	lahiriAtJ2000     = 23.853    // degrees
	precessionPerYear = 50.2788 / 3600.0
	daysPerYear       = 365.25
)

// ParseAyanamsa resolves a config value to an AyanamsaMode.
func ParseAyanamsa(s string) (AyanamsaMode, error) {
	switch AyanamsaMode(strings.ToLower(strings.TrimSpace(s))) {
	case Lahiri, "":
		return Lahiri, nil
	case Tropical, "none":
		return Tropical, nil
	default:
		return "", fmt.Errorf("ephem: unknown ayanamsa %q", s)
	}
}

// Ayanamsa returns the offset in degrees between the tropical and sidereal
// zodiacs at jd.
func Ayanamsa(jd float64, mode AyanamsaMode) float64 {
	if mode != Lahiri {
		return 0
	}
	years := (jd - J2000) / daysPerYear
	return lahiriAtJ2000 + years*precessionPerYear
}

// sidereal shifts every longitude returned by the wrapped ephemeris by the
// ayanamsa.
type sidereal struct {
	Ephemeris
	mode AyanamsaMode
}

// Sidereal wraps e so Longitude reports sidereal longitudes for mode.
// Horizon crossings are unaffected.
func Sidereal(e Ephemeris, mode AyanamsaMode) Ephemeris {
	if mode == Tropical {
		return e
	}
	return sidereal{Ephemeris: e, mode: mode}
}

func (s sidereal) Longitude(jd float64, body Body) float64 {
	return NormalizeDegrees(s.Ephemeris.Longitude(jd, body) - Ayanamsa(jd, s.mode))
}
