package astro

import (
	"fmt"
	"time"

	"github.com/papapumpkin/tattva/internal/ephem"
)

// NakshatraSpan is the arc covered by one Nakshatra: 13°20′.
const NakshatraSpan = 360.0 / 27.0

// moonDegreesPerHour is the mean lunar motion used for the linear time
// window estimate.
const moonDegreesPerHour = 13.2 / 24.0

// Nakshatra is one of the 27 lunar mansions.
type Nakshatra struct {
	Number      int
	Name        string
	Deity       string
	Symbol      string
	Animal      string
	Planet      string
	Nature      string
	DegreeRange string
	Tattva      Tattva
}

// Code returns the short code shown in code mode, e.g. "NK4".
func (n Nakshatra) Code() string { return fmt.Sprintf("NK%d", n.Number) }

var nakshatras = [27]Nakshatra{
	{1, "Ashwini", "Ashwini Kumaras", "🐎 horse's head", "horse", "Ketu", "light, swift", "0°–13°20′ Aries", Vayu},
	{2, "Bharani", "Yama", "yoni", "elephant", "Venus", "fierce", "13°20′–26°40′ Aries", Tejas},
	{3, "Krittika", "Agni", "🔥 blade, flame", "sheep", "Sun", "sharp", "26°40′ Aries – 10° Taurus", Tejas},
	{4, "Rohini", "Prajapati", "chariot", "serpent", "Moon", "gentle", "10°–23°20′ Taurus", Prithivi},
	{5, "Mrigashira", "Soma", "🦌 deer's head", "deer", "Mars", "gentle", "23°20′ Taurus – 6°40′ Gemini", Vayu},
	{6, "Ardra", "Rudra", "💧 teardrop", "dog", "Rahu", "fierce", "6°40′–20° Gemini", Apas},
	{7, "Punarvasu", "Aditi", "🏹 quiver", "cat", "Jupiter", "gentle", "20° Gemini – 3°20′ Cancer", Vayu},
	{8, "Pushya", "Brihaspati", "udder, lotus", "ram", "Saturn", "gentle", "3°20′–16°40′ Cancer", Tejas},
	{9, "Ashlesha", "Nagas", "🐍 coiled serpent", "serpent", "Mercury", "sharp", "16°40′–30° Cancer", Apas},
	{10, "Magha", "Pitris", "👑 royal throne", "rat", "Ketu", "fierce", "0°–13°20′ Leo", Tejas},
	{11, "Purva Phalguni", "Bhaga", "front legs of a bed", "rat", "Venus", "gentle", "13°20′–26°40′ Leo", Tejas},
	{12, "Uttara Phalguni", "Aryaman", "back legs of a bed", "cow", "Sun", "gentle", "26°40′ Leo – 10° Virgo", Vayu},
	{13, "Hasta", "Savitar", "✋ hand", "buffalo", "Moon", "light", "10°–23°20′ Virgo", Vayu},
	{14, "Chitra", "Tvashtar", "💎 pearl", "tiger", "Mars", "fierce", "23°20′ Virgo – 6°40′ Libra", Vayu},
	{15, "Swati", "Vayu", "🍃 young shoot in the wind", "buffalo", "Rahu", "movable", "6°40′–20° Libra", Tejas},
	{16, "Vishakha", "Indra and Agni", "triumphal arch", "tiger", "Jupiter", "fierce", "20° Libra – 3°20′ Scorpio", Vayu},
	{17, "Anuradha", "Mitra", "🪷 lotus", "deer", "Saturn", "gentle", "3°20′–16°40′ Scorpio", Prithivi},
	{18, "Jyeshtha", "Indra", "circular amulet", "deer", "Mercury", "sharp", "16°40′–30° Scorpio", Prithivi},
	{19, "Mula", "Nirriti", "bunch of roots", "dog", "Ketu", "fierce", "0°–13°20′ Sagittarius", Apas},
	{20, "Purva Ashadha", "Apas", "fan", "monkey", "Venus", "light", "13°20′–26°40′ Sagittarius", Apas},
	{21, "Uttara Ashadha", "Vishvadevas", "🐘 elephant tusk", "mongoose", "Sun", "fixed", "26°40′ Sagittarius – 10° Capricorn", Prithivi},
	{22, "Shravana", "Vishnu", "👂 ear", "monkey", "Moon", "gentle", "10°–23°20′ Capricorn", Prithivi},
	{23, "Dhanishta", "Vasus", "🥁 drum", "lion", "Mars", "movable", "23°20′ Capricorn – 6°40′ Aquarius", Prithivi},
	{24, "Shatabhisha", "Varuna", "⭕ empty circle", "horse", "Rahu", "sharp", "6°40′–20° Aquarius", Apas},
	{25, "Purva Bhadrapada", "Aja Ekapada", "⚔️ sword", "lion", "Jupiter", "fierce", "20° Aquarius – 3°20′ Pisces", Tejas},
	{26, "Uttara Bhadrapada", "Ahirbudhnya", "🐍 serpent of the deep", "cow", "Saturn", "fixed", "3°20′–16°40′ Pisces", Apas},
	{27, "Revati", "Pushan", "🐟 fish", "elephant", "Mercury", "gentle", "16°40′–30° Pisces", Apas},
}

// Nakshatras returns the 27 Nakshatras in zodiacal order.
func Nakshatras() []Nakshatra {
	out := make([]Nakshatra, len(nakshatras))
	copy(out, nakshatras[:])
	return out
}

// NakshatraByNumber returns Nakshatra n (1-based). Out-of-range numbers fall
// back to Ashwini.
func NakshatraByNumber(n int) Nakshatra {
	if n < 1 || n > len(nakshatras) {
		return nakshatras[0]
	}
	return nakshatras[n-1]
}

// NakshatraResult is the Nakshatra occupied by the Moon at an instant,
// together with its arc and estimated time window.
type NakshatraResult struct {
	Nakshatra
	MoonLongitude float64
	StartDegree   float64
	EndDegree     float64
	Progress      float64 // fraction of the arc already covered, [0, 1)
	Start         time.Time
	End           time.Time
}

// NakshatraIndex returns the 0-based Nakshatra index for a sidereal lunar
// longitude.
func NakshatraIndex(moonLon float64) int {
	i := int(ephem.NormalizeDegrees(moonLon) / NakshatraSpan)
	return max(0, min(i, len(nakshatras)-1))
}

// NakshatraAt derives the Nakshatra for moonLon at now. The window assumes
// the Moon's mean motion of 13.2° per day, truncated to whole minutes.
func NakshatraAt(moonLon float64, now time.Time) NakshatraResult {
	lon := ephem.NormalizeDegrees(moonLon)
	idx := NakshatraIndex(lon)

	startDeg := float64(idx) * NakshatraSpan
	endDeg := float64(idx+1) * NakshatraSpan
	covered := lon - startDeg

	elapsedHours := covered / moonDegreesPerHour
	remainingHours := (NakshatraSpan - covered) / moonDegreesPerHour

	return NakshatraResult{
		Nakshatra:     nakshatras[idx],
		MoonLongitude: lon,
		StartDegree:   startDeg,
		EndDegree:     endDeg,
		Progress:      covered / NakshatraSpan,
		Start:         now.Add(-wholeMinutes(elapsedHours)),
		End:           now.Add(wholeMinutes(remainingHours)),
	}
}

func wholeMinutes(hours float64) time.Duration {
	return time.Duration(int64(hours*60)) * time.Minute
}

// Nakshatra returns the Nakshatra at now. With precise mode enabled, the
// window bounds are the actual ephemeris crossings of the arc's edges.
func (c *Calculator) Nakshatra(now time.Time) NakshatraResult {
	res := NakshatraAt(c.MoonLongitude(now), now)
	if !c.precise {
		return res
	}
	if t, ok := c.moonCrossing(now, res.StartDegree, -1); ok {
		res.Start = t.In(now.Location())
	}
	if t, ok := c.moonCrossing(now, res.EndDegree, 1); ok {
		res.End = t.In(now.Location())
	}
	return res
}

// moonCrossing finds when the Moon crosses boundary, searching backwards
// (dir < 0) or forwards (dir > 0) from t. It steps an hour at a time to
// bracket the crossing, then bisects to one minute.
func (c *Calculator) moonCrossing(t time.Time, boundary float64, dir int) (time.Time, bool) {
	// offset is the signed arc from boundary to the Moon, in (-180, 180].
	offset := func(at time.Time) float64 {
		d := ephem.NormalizeDegrees(c.MoonLongitude(at) - boundary)
		if d > 180 {
			d -= 360
		}
		return d
	}

	step := time.Hour
	if dir < 0 {
		step = -time.Hour
	}
	// past reports whether the Moon is beyond the boundary at the given
	// instant.
	past := func(at time.Time) bool { return offset(at) >= 0 }

	a := t
	startSide := past(a)
	var b time.Time
	found := false
	for i := 0; i < 48; i++ {
		b = a.Add(step)
		if past(b) != startSide {
			found = true
			break
		}
		a = b
	}
	if !found {
		return time.Time{}, false
	}

	lo, hi := a, b
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	for hi.Sub(lo) > time.Minute {
		mid := lo.Add(hi.Sub(lo) / 2)
		if past(mid) == past(lo) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi.Truncate(time.Minute), true
}
