package astro

import (
	"math"
	"time"

	"github.com/papapumpkin/tattva/internal/ephem"
)

// Phase targets, as Moon–Sun elongation in degrees.
const (
	NewMoonAngle        = 0.0
	TripuraSundariAngle = 154.2833
	FullMoonAngle       = 180.0
)

// Search parameters for FindNextPhase.
const (
	searchDegreesPerDay = 13.2
	minSearchDays       = 2
	maxSearchDays       = 35
	searchSlackDays     = 5
)

// MoonPhaseResult describes the Moon's phase at an instant and the next
// occurrence of the tracked phases.
type MoonPhaseResult struct {
	PhaseAngle          float64
	IlluminationPercent int
	Name                string
	Waxing              bool
	NextTripuraSundari  time.Time
	NextFullMoon        time.Time
	NextNewMoon         time.Time
}

// PhaseAngle returns the Moon–Sun elongation in [0, 360).
func PhaseAngle(moonLon, sunLon float64) float64 {
	return ephem.NormalizeDegrees(moonLon - sunLon)
}

// Illumination returns the illuminated fraction of the disc as a whole
// percentage: 0° gives 0, 90° gives 50, 180° gives 100. The value is rounded,
// not truncated, so quarter moons report 50 despite cos(90°) not being
// exactly zero in floating point.
func Illumination(angle float64) int {
	rad := angle * math.Pi / 180
	return int(math.Round((1 - math.Cos(rad)) / 2 * 100))
}

var phaseNames = [8]string{
	"new moon",
	"waxing crescent",
	"first quarter",
	"waxing gibbous",
	"full moon",
	"waning gibbous",
	"last quarter",
	"waning crescent",
}

// PhaseName names the octant containing angle; each principal phase is
// centred in a 45° octant.
func PhaseName(angle float64) string {
	i := int(ephem.NormalizeDegrees(angle+22.5) / 45)
	return phaseNames[i%8]
}

// PhaseAngleAt returns the elongation at t.
func (c *Calculator) PhaseAngleAt(t time.Time) float64 {
	jd := ephem.FromTime(t)
	return PhaseAngle(c.eph.Longitude(jd, ephem.Moon), c.eph.Longitude(jd, ephem.Sun))
}

// MoonPhase computes the phase at now and the next Tripura Sundari, full
// moon and new moon. Returned instants are in now's location.
func (c *Calculator) MoonPhase(now time.Time) MoonPhaseResult {
	angle := c.PhaseAngleAt(now)
	return MoonPhaseResult{
		PhaseAngle:          angle,
		IlluminationPercent: Illumination(angle),
		Name:                PhaseName(angle),
		Waxing:              angle < 180,
		NextTripuraSundari:  c.FindNextPhase(now, TripuraSundariAngle),
		NextFullMoon:        c.FindNextPhase(now, FullMoonAngle),
		NextNewMoon:         c.FindNextPhase(now, NewMoonAngle),
	}
}

// FindNextPhase returns the first instant at or after start when the
// elongation equals target, to the minute. The search runs in UTC with day,
// then hour, then minute steps; the result is expressed in start's location.
func (c *Calculator) FindNextPhase(start time.Time, target float64) time.Time {
	loc := start.Location()
	utc := start.UTC()
	best := c.searchPhase(utc, target)
	if best.Before(utc) {
		// The closest match is one that has just passed; look a day later so
		// the following cycle wins.
		best = c.searchPhase(utc.Add(24*time.Hour), target)
	}
	return best.In(loc)
}

func (c *Calculator) searchPhase(start time.Time, target float64) time.Time {
	current := c.PhaseAngleAt(start)

	var toGo float64
	switch {
	case target == NewMoonAngle:
		toGo = 360 - current
	case current < target:
		toGo = target - current
	default:
		toGo = 360 - current + target
	}
	days := int(toGo/searchDegreesPerDay) + 1
	days = max(minSearchDays, min(days, maxSearchDays))

	best := start
	bestDiff := math.Inf(1)
	scan := func(from, to time.Time, step time.Duration) {
		for t := from; t.Before(to); t = t.Add(step) {
			if d := ephem.AngleDistance(c.PhaseAngleAt(t), target); d < bestDiff {
				bestDiff = d
				best = t
			}
		}
	}

	scan(start, start.AddDate(0, 0, days+searchSlackDays), 24*time.Hour)
	center := best
	scan(center.Add(-12*time.Hour), center.Add(12*time.Hour), time.Hour)
	center = best
	scan(center.Add(-time.Hour), center.Add(time.Hour), time.Minute)
	return best
}
