package astro

import "time"

// Planet is one of the seven classical planets.
type Planet int

const (
	Sun Planet = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
)

var planetNames = [...]string{"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter", "Saturn"}
var planetSymbols = [...]string{"☉", "☽", "☿", "♀", "♂", "♃", "♄"}
var planetLabels = [...]string{"☀️Sun", "🌒Moon", "☿Mercury", "♀Venus", "♂Mars", "♃Jupiter", "♄Saturn"}

// String returns the planet's display name.
func (p Planet) String() string {
	if p < Sun || p > Saturn {
		return "Unknown"
	}
	return planetNames[p]
}

// Symbol returns the astronomical glyph used in code mode.
func (p Planet) Symbol() string {
	if p < Sun || p > Saturn {
		return "?"
	}
	return planetSymbols[p]
}

// Label returns the glyph-prefixed name used on status lines.
func (p Planet) Label() string {
	if p < Sun || p > Saturn {
		return "✨"
	}
	return planetLabels[p]
}

// chaldean is the descending order of apparent speed.
var chaldean = [7]Planet{Saturn, Jupiter, Mars, Sun, Venus, Mercury, Moon}

// dayRulers maps time.Weekday to the ruler of the day's first hour.
var dayRulers = [7]Planet{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn}

// PlanetForIndex returns the ruler of hour i (0–23, counted from sunrise) on
// a day whose first hour belongs to weekday's ruler.
func PlanetForIndex(weekday time.Weekday, i int) Planet {
	start := 0
	for j, p := range chaldean {
		if p == dayRulers[weekday] {
			start = j
			break
		}
	}
	return chaldean[(start+i%7+7)%7]
}

// PlanetaryHour is one of the 24 unequal hours between two sunrises.
type PlanetaryHour struct {
	Index  int // 0–11 by day, 12–23 by night
	Planet Planet
	Start  time.Time
	End    time.Time
}

// IsDay reports whether the hour falls between sunrise and sunset.
func (h PlanetaryHour) IsDay() bool { return h.Index < 12 }

// Contains reports whether t falls inside [Start, End).
func (h PlanetaryHour) Contains(t time.Time) bool {
	return !t.Before(h.Start) && t.Before(h.End)
}

// PlanetaryHours splits daylight (sunrise to sunset) and night (sunset to
// next sunrise) into twelve equal parts each. The weekday of sunrise in loc
// selects the first ruler. Returned instants are in loc.
func PlanetaryHours(sunrise, sunset, nextSunrise time.Time, loc *time.Location) []PlanetaryHour {
	if loc == nil {
		loc = time.UTC
	}
	weekday := sunrise.In(loc).Weekday()
	hours := make([]PlanetaryHour, 0, 24)
	hours = appendHours(hours, weekday, 0, sunrise, sunset, loc)
	hours = appendHours(hours, weekday, 12, sunset, nextSunrise, loc)
	return hours
}

func appendHours(hours []PlanetaryHour, weekday time.Weekday, first int, from, to time.Time, loc *time.Location) []PlanetaryHour {
	length := to.Sub(from) / 12
	for i := 0; i < 12; i++ {
		start := from.Add(time.Duration(i) * length)
		end := start.Add(length)
		if i == 11 {
			end = to
		}
		hours = append(hours, PlanetaryHour{
			Index:  first + i,
			Planet: PlanetForIndex(weekday, first+i),
			Start:  start.In(loc),
			End:    end.In(loc),
		})
	}
	return hours
}

// CurrentPlanetaryHour returns the hour containing now.
func CurrentPlanetaryHour(hours []PlanetaryHour, now time.Time) (PlanetaryHour, bool) {
	for _, h := range hours {
		if h.Contains(now) {
			return h, true
		}
	}
	return PlanetaryHour{}, false
}

// RotateHours returns hours reordered to begin at index current, wrapping
// around circularly.
func RotateHours(hours []PlanetaryHour, current int) []PlanetaryHour {
	n := len(hours)
	if n == 0 {
		return nil
	}
	current = ((current % n) + n) % n
	out := make([]PlanetaryHour, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, hours[(current+i)%n])
	}
	return out
}
