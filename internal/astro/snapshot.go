package astro

import (
	"context"
	"fmt"
	"time"
)

// AstroData is everything shown for one observer at one instant. It is
// recomputed on every refresh and never mutated.
type AstroData struct {
	Observer    Observer
	CurrentTime time.Time

	// Sunrise and Sunset bound the current astrological day; NextSunrise
	// ends it. Before today's sunrise these belong to the previous date.
	Sunrise     time.Time
	Sunset      time.Time
	NextSunrise time.Time

	Tattva    TattvaWindow
	SubTattva TattvaWindow

	PlanetaryHours []PlanetaryHour
	PlanetaryHour  PlanetaryHour

	Nakshatra NakshatraResult
	MoonPhase MoonPhaseResult
}

// Day returns the civil date of the astrological day's sunrise.
func (a *AstroData) Day() Date {
	return DateOf(a.Sunrise, a.Observer.loc())
}

// DayBounds returns the sunrise, sunset and following sunrise of the
// astrological day containing now: if now precedes the sunrise of its civil
// date, the previous date's day is returned.
func (c *Calculator) DayBounds(obs Observer, now time.Time) (Date, [3]time.Time, error) {
	loc := obs.loc()
	d := DateOf(now, loc)
	rise, err := c.Sunrise(d, obs)
	if err != nil {
		return Date{}, [3]time.Time{}, err
	}
	if now.Before(rise) {
		d = d.AddDays(-1)
		if rise, err = c.Sunrise(d, obs); err != nil {
			return Date{}, [3]time.Time{}, err
		}
	}
	b, err := c.boundsFrom(d, rise, obs)
	return d, b, err
}

func (c *Calculator) boundsFrom(d Date, rise time.Time, obs Observer) ([3]time.Time, error) {
	set, err := c.Sunset(d, obs)
	if err != nil {
		return [3]time.Time{}, err
	}
	next, err := c.Sunrise(d.AddDays(1), obs)
	if err != nil {
		return [3]time.Time{}, err
	}
	loc := obs.loc()
	return [3]time.Time{rise.In(loc), set.In(loc), next.In(loc)}, nil
}

// Compute builds the AstroData for obs at now.
func (c *Calculator) Compute(ctx context.Context, obs Observer, now time.Time) (*AstroData, error) {
	loc := obs.loc()
	now = now.In(loc)

	_, b, err := c.DayBounds(obs, now)
	if err != nil {
		return nil, fmt.Errorf("astro: compute for %q: %w", obs.Name, err)
	}
	sunrise, sunset, nextSunrise := b[0], b[1], b[2]

	main, sub := TattvaAt(sunrise, now)
	hours := PlanetaryHours(sunrise, sunset, nextSunrise, loc)
	current, _ := CurrentPlanetaryHour(hours, now)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	nak := c.Nakshatra(now)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	phase := c.MoonPhase(now)

	return &AstroData{
		Observer:       obs,
		CurrentTime:    now,
		Sunrise:        sunrise,
		Sunset:         sunset,
		NextSunrise:    nextSunrise,
		Tattva:         main,
		SubTattva:      sub,
		PlanetaryHours: hours,
		PlanetaryHour:  current,
		Nakshatra:      nak,
		MoonPhase:      phase,
	}, nil
}

// DayPlan is the full schedule of one astrological day.
type DayPlan struct {
	Date           Date
	Sunrise        time.Time
	Sunset         time.Time
	NextSunrise    time.Time
	Tattvas        []TattvaDayItem
	PlanetaryHours []PlanetaryHour
}

// ScheduleForDate returns the plan for the day starting at sunrise on d.
// now only sets the IsCurrent flags.
func (c *Calculator) ScheduleForDate(d Date, obs Observer, now time.Time) (*DayPlan, error) {
	rise, err := c.Sunrise(d, obs)
	if err != nil {
		return nil, err
	}
	b, err := c.boundsFrom(d, rise, obs)
	if err != nil {
		return nil, err
	}
	return &DayPlan{
		Date:           d,
		Sunrise:        b[0],
		Sunset:         b[1],
		NextSunrise:    b[2],
		Tattvas:        DaySchedule(b[0], b[2], now),
		PlanetaryHours: PlanetaryHours(b[0], b[1], b[2], obs.loc()),
	}, nil
}

// TodaySchedule returns the plan of the astrological day containing now.
func (c *Calculator) TodaySchedule(obs Observer, now time.Time) (*DayPlan, error) {
	d, _, err := c.DayBounds(obs, now)
	if err != nil {
		return nil, err
	}
	return c.ScheduleForDate(d, obs, now)
}

// NextDaySchedule returns the plan of the day after the one in data.
func (c *Calculator) NextDaySchedule(data *AstroData) (*DayPlan, error) {
	return c.ScheduleForDate(data.Day().AddDays(1), data.Observer, data.CurrentTime)
}
