// Package astro is the calculation layer: it turns ephemeris output into the
// time divisions shown to the user (Tattva cycles, planetary hours,
// Nakshatras and moon phases).
//
// All instants are computed in UTC and converted to the observer's zone only
// when they are returned, so daylight saving transitions never shift a
// result.
package astro

import (
	"fmt"
	"time"

	"github.com/papapumpkin/tattva/internal/ephem"
)

// Observer is a point on Earth together with the zone used to present
// results.
type Observer struct {
	Name      string
	Latitude  float64
	Longitude float64
	Location  *time.Location
}

func (o Observer) loc() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// Date is a civil calendar date, independent of any zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the civil date of t as seen in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("astro: parse date %q: %w", s, err)
	}
	return DateOf(t, time.UTC), nil
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC), time.UTC)
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Calculator evaluates astronomical quantities through an Ephemeris.
type Calculator struct {
	eph     ephem.Ephemeris
	precise bool
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithAyanamsa makes longitudes sidereal under mode. Moon phases depend only
// on the Moon–Sun difference and are unaffected.
func WithAyanamsa(mode ephem.AyanamsaMode) Option {
	return func(c *Calculator) { c.eph = ephem.Sidereal(c.eph, mode) }
}

// WithPreciseNakshatra replaces the linear Nakshatra time estimate with a
// search for the actual boundary crossings.
func WithPreciseNakshatra(on bool) Option {
	return func(c *Calculator) { c.precise = on }
}

// NewCalculator creates a Calculator over e.
func NewCalculator(e ephem.Ephemeris, opts ...Option) *Calculator {
	c := &Calculator{eph: e}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sunrise returns the UTC instant of sunrise on date d at the observer.
// The instant falls on d in the observer's zone, even where the zone is more
// than twelve hours away from local solar time.
func (c *Calculator) Sunrise(d Date, obs Observer) (time.Time, error) {
	_, rise, err := c.dayStart(d, obs)
	return rise, err
}

// Sunset returns the UTC instant of the sunset following Sunrise(d).
func (c *Calculator) Sunset(d Date, obs Observer) (time.Time, error) {
	jd, _, err := c.dayStart(d, obs)
	if err != nil {
		return time.Time{}, err
	}
	set, err := c.riseSet(jd, obs, ephem.Set)
	if err != nil {
		return time.Time{}, fmt.Errorf("astro: %s %s: %w", kindLabel(ephem.Set), d, err)
	}
	return set, nil
}

// dayStart finds the 0h UT Julian Day whose sunrise lands on d in the
// observer's zone, and that sunrise.
func (c *Calculator) dayStart(d Date, obs Observer) (float64, time.Time, error) {
	loc := obs.loc()
	jd := ephem.DayStart(d.Year, d.Month, d.Day)
	for i := 0; ; i++ {
		rise, err := c.riseSet(jd, obs, ephem.Rise)
		if err != nil {
			return 0, time.Time{}, fmt.Errorf("astro: %s %s: %w", kindLabel(ephem.Rise), d, err)
		}
		got := DateOf(rise, loc)
		if got == d || i == 2 {
			return jd, rise, nil
		}
		if d.Before(got) {
			jd--
		} else {
			jd++
		}
	}
}

func (c *Calculator) riseSet(jd float64, obs Observer, kind ephem.RiseKind) (time.Time, error) {
	out, err := c.eph.RiseSet(jd, ephem.Sun, obs.Latitude, obs.Longitude, kind)
	if err != nil {
		return time.Time{}, err
	}
	return ephem.ToTime(out), nil
}

func kindLabel(k ephem.RiseKind) string {
	if k == ephem.Set {
		return "sunset"
	}
	return "sunrise"
}

// MoonLongitude returns the Moon's longitude at t.
func (c *Calculator) MoonLongitude(t time.Time) float64 {
	return c.eph.Longitude(ephem.FromTime(t), ephem.Moon)
}

// SunLongitude returns the Sun's longitude at t.
func (c *Calculator) SunLongitude(t time.Time) float64 {
	return c.eph.Longitude(ephem.FromTime(t), ephem.Sun)
}
