// Package ephem wraps the astronomical ephemeris used by the calculation
// layer. Callers work in Julian Days (UT) and ecliptic longitudes in degrees;
// the concrete implementation is hidden behind the Ephemeris interface so the
// arithmetic on top of it can be tested against a deterministic model.
package ephem

import (
	"errors"
	"math"
	"time"
)

// Body identifies a celestial body known to the ephemeris.
type Body int

const (
	Sun Body = iota
	Moon
)

// String returns the body's name.
func (b Body) String() string {
	switch b {
	case Sun:
		return "sun"
	case Moon:
		return "moon"
	default:
		return "unknown"
	}
}

// RiseKind selects between a rising and a setting event.
type RiseKind int

const (
	Rise RiseKind = iota + 1
	Set
)

var (
	// ErrNoRiseSet is returned when the body does not cross the horizon on the
	// requested day (polar day or polar night).
	ErrNoRiseSet = errors.New("body does not rise or set on this day")
	// ErrUnsupported is returned for body/event combinations the ephemeris
	// cannot compute.
	ErrUnsupported = errors.New("unsupported ephemeris request")
)

// Ephemeris computes body positions and horizon crossings.
type Ephemeris interface {
	// Longitude returns the ecliptic longitude of body at jd, in [0, 360).
	Longitude(jd float64, body Body) float64

	// RiseSet returns the Julian Day of the rise or set of body on the civil
	// date whose 0h UT is jd. Latitude and longitude are in degrees, east
	// positive.
	RiseSet(jd float64, body Body, lat, lon float64, kind RiseKind) (float64, error)
}

// unixEpochJD is the Julian Day of 1970-01-01T00:00:00Z.
const unixEpochJD = 2440587.5

// J2000 is the Julian Day of 2000-01-01T12:00:00 TT.
const J2000 = 2451545.0

const msPerDay = 86400000.0

// JulianDay converts a Gregorian calendar date and a fractional UT hour
// (0 ≤ hour < 24) to a Julian Day.
func JulianDay(year, month, day int, hour float64) float64 {
	if month <= 2 {
		year--
		month += 12
	}
	a := year / 100
	b := 2 - a + a/4
	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		float64(day) + float64(b) - 1524.5 + hour/24.0
}

// FromTime returns the Julian Day of the instant t.
func FromTime(t time.Time) float64 {
	return unixEpochJD + float64(t.UnixMilli())/msPerDay
}

// ToTime converts a Julian Day to a UTC instant with millisecond precision.
// Fractions of a millisecond are rounded away.
func ToTime(jd float64) time.Time {
	ms := int64(math.Round((jd - unixEpochJD) * msPerDay))
	return time.UnixMilli(ms).UTC()
}

// DayStart returns the Julian Day of 0h UT on the given civil date.
func DayStart(year int, month time.Month, day int) float64 {
	return JulianDay(year, int(month), day, 0)
}

// NormalizeDegrees folds an angle into [0, 360).
func NormalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// math.Mod of a tiny negative value can round back up to exactly 360.
	if a >= 360 {
		a -= 360
	}
	return a
}

// AngleDistance returns the shortest unsigned distance between two angles on
// the circle, in [0, 180].
func AngleDistance(a, b float64) float64 {
	d := math.Abs(NormalizeDegrees(a) - NormalizeDegrees(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}
