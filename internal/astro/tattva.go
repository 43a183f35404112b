package astro

import "time"

// Tattva is one of the five elemental phases.
type Tattva int

const (
	Akasha Tattva = iota
	Vayu
	Tejas
	Apas
	Prithivi
)

// Cycle lengths. A full round of the five Tattvas takes two hours.
const (
	TattvaDuration    = 24 * time.Minute
	SubTattvaDuration = TattvaDuration / 5
	tattvaCycle       = 5 * TattvaDuration
)

var tattvaInfo = [...]struct {
	name, code, element, label string
}{
	Akasha:   {"Akasha", "A", "ether", "🟣 AKASHA"},
	Vayu:     {"Vayu", "V", "air", "🔵 VAYU"},
	Tejas:    {"Tejas", "T", "fire", "🔺 TEJAS"},
	Apas:     {"Apas", "Ap", "water", "🌙 APAS"},
	Prithivi: {"Prithivi", "P", "earth", "🟨 PRITHIVI"},
}

func (t Tattva) valid() bool { return t >= Akasha && t <= Prithivi }

// String returns the Tattva's name.
func (t Tattva) String() string {
	if !t.valid() {
		return "Unknown"
	}
	return tattvaInfo[t].name
}

// Code returns the short code: A, V, T, Ap or P.
func (t Tattva) Code() string {
	if !t.valid() {
		return "?"
	}
	return tattvaInfo[t].code
}

// Element returns the English element name.
func (t Tattva) Element() string {
	if !t.valid() {
		return ""
	}
	return tattvaInfo[t].element
}

// Label returns the marker-prefixed upper-case name used on status lines.
func (t Tattva) Label() string {
	if !t.valid() {
		return "?"
	}
	return tattvaInfo[t].label
}

// TattvaWindow is a Tattva together with the interval it rules.
type TattvaWindow struct {
	Tattva Tattva
	Start  time.Time
	End    time.Time
}

// Remaining returns the time left in the window at now, never negative.
func (w TattvaWindow) Remaining(now time.Time) time.Duration {
	return max(0, w.End.Sub(now))
}

// TattvaAt returns the main Tattva and sub-Tattva ruling at now for a cycle
// anchored at sunrise. Instants before sunrise continue the cycle backwards.
func TattvaAt(sunrise, now time.Time) (main, sub TattvaWindow) {
	elapsed := now.Sub(sunrise)
	cycleStart := sunrise.Add(floorDiv(elapsed, tattvaCycle) * tattvaCycle)
	intoCycle := now.Sub(cycleStart)

	mi := int(intoCycle / TattvaDuration)
	mainStart := cycleStart.Add(time.Duration(mi) * TattvaDuration)
	main = TattvaWindow{Tattva: Tattva(mi), Start: mainStart, End: mainStart.Add(TattvaDuration)}

	si := int(now.Sub(mainStart) / SubTattvaDuration)
	subStart := mainStart.Add(time.Duration(si) * SubTattvaDuration)
	sub = TattvaWindow{Tattva: Tattva(si), Start: subStart, End: subStart.Add(SubTattvaDuration)}
	return main, sub
}

// floorDiv divides d by unit rounding towards negative infinity.
func floorDiv(d, unit time.Duration) time.Duration {
	q := d / unit
	if d%unit < 0 {
		q--
	}
	return q
}

// TattvaDayItem is one main Tattva window of a day schedule with its five
// sub-Tattvas.
type TattvaDayItem struct {
	TattvaWindow
	SubTattvas []TattvaWindow
	IsCurrent  bool
}

// DaySchedule lists every Tattva window from sunrise to nextSunrise. The last
// window, and its sub-windows, are clipped at nextSunrise. IsCurrent marks the
// window containing now. Instants are expressed in sunrise's location.
func DaySchedule(sunrise, nextSunrise, now time.Time) []TattvaDayItem {
	var items []TattvaDayItem
	for i := 0; ; i++ {
		start := sunrise.Add(time.Duration(i) * TattvaDuration)
		if !start.Before(nextSunrise) {
			break
		}
		end := minTime(start.Add(TattvaDuration), nextSunrise)
		item := TattvaDayItem{
			TattvaWindow: TattvaWindow{Tattva: Tattva(i % 5), Start: start, End: end},
			IsCurrent:    !now.Before(start) && now.Before(end),
		}
		for j := 0; j < 5; j++ {
			subStart := start.Add(time.Duration(j) * SubTattvaDuration)
			if !subStart.Before(end) {
				break
			}
			item.SubTattvas = append(item.SubTattvas, TattvaWindow{
				Tattva: Tattva(j),
				Start:  subStart,
				End:    minTime(subStart.Add(SubTattvaDuration), end),
			})
		}
		items = append(items, item)
	}
	return items
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
