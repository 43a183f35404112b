package astro

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/tattva/internal/ephem"
)

// meanCalc returns a calculator over the mean-motion ephemeris with a
// tropical zodiac, so every expectation below can be derived by hand.
func meanCalc(opts ...Option) *Calculator {
	return NewCalculator(ephem.Mean{}, opts...)
}

// greenwich has sunrise at 06:00 UTC and sunset at 18:00 UTC under Mean.
var greenwich = Observer{Name: "Greenwich", Latitude: 51.48, Longitude: 0, Location: time.UTC}

func TestParseDateAndAddDays(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2024-02-28")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if got := d.AddDays(1).String(); got != "2024-02-29" {
		t.Errorf("AddDays(1) = %s, want 2024-02-29", got)
	}
	if got := d.AddDays(2).String(); got != "2024-03-01" {
		t.Errorf("AddDays(2) = %s, want 2024-03-01", got)
	}
	if got := d.AddDays(-28).String(); got != "2024-01-31" {
		t.Errorf("AddDays(-28) = %s, want 2024-01-31", got)
	}
	if _, err := ParseDate("28/02/2024"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestSunriseUsesLocalCivilDate(t *testing.T) {
	t.Parallel()

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatal(err)
	}
	obs := Observer{Name: "Tokyo", Latitude: 35.68, Longitude: 139.65, Location: tokyo}
	d := Date{2024, time.June, 16}

	rise, err := meanCalc().Sunrise(d, obs)
	if err != nil {
		t.Fatalf("Sunrise: %v", err)
	}
	if got := DateOf(rise, tokyo); got != d {
		t.Errorf("sunrise falls on %s in Tokyo, want %s", got, d)
	}
	if rise.Location() != time.UTC {
		t.Errorf("Sunrise location = %v, want UTC", rise.Location())
	}
}

func TestSunriseErrorWraps(t *testing.T) {
	t.Parallel()

	polar := Observer{Name: "Longyearbyen", Latitude: 78.22, Longitude: 15.65}
	_, err := meanCalc().Sunrise(Date{2024, time.June, 21}, polar)
	if !errors.Is(err, ephem.ErrNoRiseSet) {
		t.Errorf("err = %v, want ErrNoRiseSet", err)
	}
}

func TestIlluminationAndPhaseAngle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		angle float64
		want  int
	}{
		{0, 0},
		{90, 50},
		{180, 100},
		{270, 50},
		{359.9, 0},
		{45, 15},
	}
	for _, tt := range tests {
		if got := Illumination(tt.angle); got != tt.want {
			t.Errorf("Illumination(%v) = %d, want %d", tt.angle, got, tt.want)
		}
	}

	if got := PhaseAngle(10, 350); got != 20 {
		t.Errorf("PhaseAngle(10, 350) = %v, want 20", got)
	}
	if got := PhaseAngle(350, 10); got != 340 {
		t.Errorf("PhaseAngle(350, 10) = %v, want 340", got)
	}
}

func TestPhaseName(t *testing.T) {
	t.Parallel()

	tests := map[float64]string{
		0:     "new moon",
		10:    "new moon",
		350:   "new moon",
		45:    "waxing crescent",
		90:    "first quarter",
		154.3: "waxing gibbous",
		180:   "full moon",
		225:   "waning gibbous",
		270:   "last quarter",
		315:   "waning crescent",
	}
	for angle, want := range tests {
		if got := PhaseName(angle); got != want {
			t.Errorf("PhaseName(%v) = %q, want %q", angle, got, want)
		}
	}
}

func TestFindNextPhase_MeanModel(t *testing.T) {
	t.Parallel()
	c := meanCalc()

	starts := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 13, 37, 0, 0, time.UTC),
		time.Date(2025, 11, 2, 23, 59, 0, 0, time.UTC),
	}
	targets := []float64{NewMoonAngle, TripuraSundariAngle, FullMoonAngle}

	for _, start := range starts {
		for _, target := range targets {
			got := c.FindNextPhase(start, target)

			toGo := ephem.NormalizeDegrees(target - c.PhaseAngleAt(start))
			want := start.Add(time.Duration(toGo / ephem.SynodicRate * float64(24*time.Hour)))

			if d := got.Sub(want); d < -time.Minute || d > time.Minute {
				t.Errorf("FindNextPhase(%v, %v) = %v, want %v (±1m)", start, target, got, want)
			}
			if got.Before(start) {
				t.Errorf("FindNextPhase(%v, %v) = %v is before start", start, target, got)
			}
			if d := ephem.AngleDistance(c.PhaseAngleAt(got), target); d > 0.5 {
				t.Errorf("phase at result is %.4f° from target %v", d, target)
			}
		}
	}
}

func TestFindNextPhase_JustPassedMovesToNextCycle(t *testing.T) {
	t.Parallel()
	c := meanCalc()

	full := c.FindNextPhase(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), FullMoonAngle)
	start := full.Add(20 * time.Minute)

	got := c.FindNextPhase(start, FullMoonAngle)
	days := 360 / ephem.SynodicRate
	synodic := time.Duration(days * float64(24*time.Hour))
	if d := got.Sub(full) - synodic; d < -2*time.Minute || d > 2*time.Minute {
		t.Errorf("next full moon after %v = %v, want ≈%v", start, got, full.Add(synodic))
	}
}

func TestFindNextPhase_KeepsLocation(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("EET", 2*3600)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	got := meanCalc().FindNextPhase(start, FullMoonAngle)
	if got.Location() != loc {
		t.Errorf("result location = %v, want %v", got.Location(), loc)
	}
}

func TestFindNextPhase_Meeus(t *testing.T) {
	t.Parallel()
	c := NewCalculator(ephem.NewMeeus())
	start := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		target float64
		want   time.Time
	}{
		{"full moon", FullMoonAngle, time.Date(2024, 1, 25, 17, 54, 0, 0, time.UTC)},
		{"new moon", NewMoonAngle, time.Date(2024, 2, 9, 22, 59, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := c.FindNextPhase(start, tt.target)
			if d := got.Sub(tt.want); d < -10*time.Minute || d > 10*time.Minute {
				t.Errorf("FindNextPhase = %v, want %v (±10m)", got, tt.want)
			}
		})
	}
}

func TestMoonPhase(t *testing.T) {
	t.Parallel()
	c := meanCalc()
	now := time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)

	res := c.MoonPhase(now)
	if res.IlluminationPercent != Illumination(res.PhaseAngle) {
		t.Errorf("illumination %d does not match angle %v", res.IlluminationPercent, res.PhaseAngle)
	}
	if res.Waxing != (res.PhaseAngle < 180) {
		t.Errorf("Waxing = %v for angle %v", res.Waxing, res.PhaseAngle)
	}
	for name, at := range map[string]time.Time{
		"tripura sundari": res.NextTripuraSundari,
		"full moon":       res.NextFullMoon,
		"new moon":        res.NextNewMoon,
	} {
		if at.Before(now) || at.After(now.AddDate(0, 0, 31)) {
			t.Errorf("%s at %v is outside the next lunation", name, at)
		}
	}
}

func TestNakshatraAt(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		lon      float64
		wantNum  int
		wantName string
	}{
		{0, 1, "Ashwini"},
		{13.34, 2, "Bharani"},
		{120, 10, "Magha"},
		{359.99, 27, "Revati"},
		{-1, 27, "Revati"},
		{360, 1, "Ashwini"},
		{725, 1, "Ashwini"},
	}
	for _, tt := range tests {
		got := NakshatraAt(tt.lon, now)
		if got.Number != tt.wantNum || got.Name != tt.wantName {
			t.Errorf("NakshatraAt(%v) = %d %s, want %d %s", tt.lon, got.Number, got.Name, tt.wantNum, tt.wantName)
		}
		if got.MoonLongitude < 0 || got.MoonLongitude >= 360 {
			t.Errorf("NakshatraAt(%v).MoonLongitude = %v not normalized", tt.lon, got.MoonLongitude)
		}
	}
}

func TestNakshatraAt_LinearWindow(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	// Halfway through Rohini: 6°40′ covered at 0.55°/h is 12.12 h = 727 min.
	lon := 3*NakshatraSpan + NakshatraSpan/2
	got := NakshatraAt(lon, now)

	if got.Code() != "NK4" {
		t.Errorf("Code = %s, want NK4", got.Code())
	}
	if math.Abs(got.Progress-0.5) > 1e-9 {
		t.Errorf("Progress = %v, want 0.5", got.Progress)
	}
	if want := now.Add(-727 * time.Minute); !got.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", got.Start, want)
	}
	if want := now.Add(727 * time.Minute); !got.End.Equal(want) {
		t.Errorf("End = %v, want %v", got.End, want)
	}
	if math.Abs(got.StartDegree-40) > 1e-9 || math.Abs(got.EndDegree-160.0/3) > 1e-9 {
		t.Errorf("arc = [%v, %v), want [40, 53.333)", got.StartDegree, got.EndDegree)
	}
}

func TestNakshatra_PreciseWindow(t *testing.T) {
	t.Parallel()
	c := meanCalc(WithPreciseNakshatra(true))
	now := time.Date(2024, 8, 14, 9, 30, 0, 0, time.UTC)

	res := c.Nakshatra(now)
	if !res.Start.Before(now) || !res.End.After(now) {
		t.Fatalf("window [%v, %v) does not contain %v", res.Start, res.End, now)
	}
	// One minute of lunar motion is about 0.009°.
	if d := ephem.AngleDistance(c.MoonLongitude(res.Start), res.StartDegree); d > 0.02 {
		t.Errorf("moon at Start is %.4f° from the arc start", d)
	}
	if d := ephem.AngleDistance(c.MoonLongitude(res.End), res.EndDegree); d > 0.02 {
		t.Errorf("moon at End is %.4f° from the arc end", d)
	}
}

func TestNakshatraByNumber(t *testing.T) {
	t.Parallel()

	if got := NakshatraByNumber(27); got.Name != "Revati" {
		t.Errorf("NakshatraByNumber(27) = %s", got.Name)
	}
	for _, n := range []int{0, 28, -3} {
		if got := NakshatraByNumber(n); got.Number != 1 {
			t.Errorf("NakshatraByNumber(%d) = %d, want fallback 1", n, got.Number)
		}
	}
	all := Nakshatras()
	for i, n := range all {
		if n.Number != i+1 {
			t.Errorf("Nakshatras()[%d].Number = %d", i, n.Number)
		}
	}
	all[0].Name = "changed"
	if NakshatraByNumber(1).Name != "Ashwini" {
		t.Error("Nakshatras() exposed the internal table")
	}
}

func TestPlanetForIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		weekday time.Weekday
		index   int
		want    Planet
	}{
		{time.Sunday, 0, Sun},
		{time.Sunday, 1, Venus},
		{time.Sunday, 2, Mercury},
		{time.Sunday, 3, Moon},
		{time.Sunday, 4, Saturn},
		{time.Sunday, 24, Moon}, // the hour after the last is Monday's ruler
		{time.Monday, 0, Moon},
		{time.Tuesday, 0, Mars},
		{time.Wednesday, 0, Mercury},
		{time.Thursday, 0, Jupiter},
		{time.Friday, 0, Venus},
		{time.Saturday, 0, Saturn},
		{time.Saturday, 21, Saturn},
	}
	for _, tt := range tests {
		if got := PlanetForIndex(tt.weekday, tt.index); got != tt.want {
			t.Errorf("PlanetForIndex(%v, %d) = %v, want %v", tt.weekday, tt.index, got, tt.want)
		}
	}
}

func TestPlanetaryHours(t *testing.T) {
	t.Parallel()

	sunrise := time.Date(2024, 6, 16, 5, 30, 0, 0, time.UTC) // Sunday
	sunset := time.Date(2024, 6, 16, 21, 6, 0, 0, time.UTC)
	next := time.Date(2024, 6, 17, 5, 30, 30, 0, time.UTC)

	hours := PlanetaryHours(sunrise, sunset, next, time.UTC)
	if len(hours) != 24 {
		t.Fatalf("got %d hours, want 24", len(hours))
	}
	if !hours[0].Start.Equal(sunrise) || !hours[11].End.Equal(sunset) || !hours[12].Start.Equal(sunset) || !hours[23].End.Equal(next) {
		t.Error("hours do not span sunrise → sunset → next sunrise")
	}
	for i := 1; i < 24; i++ {
		if !hours[i].Start.Equal(hours[i-1].End) {
			t.Errorf("gap between hour %d and %d", i-1, i)
		}
	}
	if d := hours[0].End.Sub(hours[0].Start); d != 78*time.Minute {
		t.Errorf("day hour length = %v, want 78m", d)
	}
	if hours[0].Planet != Sun || hours[12].Planet != PlanetForIndex(time.Sunday, 12) {
		t.Errorf("rulers = %v, %v", hours[0].Planet, hours[12].Planet)
	}
	if !hours[5].IsDay() || hours[17].IsDay() {
		t.Error("IsDay mismatch")
	}

	cur, ok := CurrentPlanetaryHour(hours, sunset.Add(time.Minute))
	if !ok || cur.Index != 12 {
		t.Errorf("CurrentPlanetaryHour just after sunset = %d, %v; want 12", cur.Index, ok)
	}
	if _, ok := CurrentPlanetaryHour(hours, next); ok {
		t.Error("next sunrise should fall outside the day's hours")
	}
}

func TestPlanetaryHours_WeekdayFromLocalZone(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*3600)
	// 20:41 UTC on Saturday is 05:41 on Sunday in Tokyo.
	sunrise := time.Date(2024, 6, 15, 20, 41, 0, 0, time.UTC)
	hours := PlanetaryHours(sunrise, sunrise.Add(14*time.Hour), sunrise.Add(24*time.Hour), tokyo)
	if hours[0].Planet != Sun {
		t.Errorf("first hour ruler = %v, want Sun (Sunday in Tokyo)", hours[0].Planet)
	}
	if hours[0].Start.Location() != tokyo {
		t.Errorf("hour location = %v, want %v", hours[0].Start.Location(), tokyo)
	}
}

func TestRotateHours(t *testing.T) {
	t.Parallel()

	hours := make([]PlanetaryHour, 24)
	for i := range hours {
		hours[i].Index = i
	}
	got := RotateHours(hours, 22)
	var idx []int
	for _, h := range got[:4] {
		idx = append(idx, h.Index)
	}
	if diff := cmp.Diff([]int{22, 23, 0, 1}, idx); diff != "" {
		t.Errorf("RotateHours mismatch (-want +got):\n%s", diff)
	}
	if len(got) != 24 {
		t.Errorf("len = %d, want 24", len(got))
	}
	if RotateHours(nil, 3) != nil {
		t.Error("RotateHours(nil) should be nil")
	}
}

func TestTattvaAt(t *testing.T) {
	t.Parallel()
	sunrise := time.Date(2024, 6, 16, 6, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		now       time.Time
		wantMain  Tattva
		wantSub   Tattva
		wantStart time.Time
	}{
		{"at sunrise", sunrise, Akasha, Akasha, sunrise},
		{"30m", sunrise.Add(30 * time.Minute), Vayu, Vayu, sunrise.Add(24 * time.Minute)},
		{"1h", sunrise.Add(time.Hour), Tejas, Tejas, sunrise.Add(48 * time.Minute)},
		{"1h40m", sunrise.Add(100 * time.Minute), Prithivi, Akasha, sunrise.Add(96 * time.Minute)},
		{"new cycle", sunrise.Add(2 * time.Hour), Akasha, Akasha, sunrise.Add(2 * time.Hour)},
		{"before sunrise", sunrise.Add(-time.Minute), Prithivi, Prithivi, sunrise.Add(-24 * time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			main, sub := TattvaAt(sunrise, tt.now)
			if main.Tattva != tt.wantMain || sub.Tattva != tt.wantSub {
				t.Errorf("TattvaAt = %v/%v, want %v/%v", main.Tattva, sub.Tattva, tt.wantMain, tt.wantSub)
			}
			if !main.Start.Equal(tt.wantStart) || main.End.Sub(main.Start) != TattvaDuration {
				t.Errorf("main window = [%v, %v), want start %v", main.Start, main.End, tt.wantStart)
			}
			if tt.now.Before(sub.Start) || !tt.now.Before(sub.End) {
				t.Errorf("sub window [%v, %v) does not contain %v", sub.Start, sub.End, tt.now)
			}
		})
	}
}

func TestTattvaLabels(t *testing.T) {
	t.Parallel()

	want := []struct{ name, code, label string }{
		{"Akasha", "A", "🟣 AKASHA"},
		{"Vayu", "V", "🔵 VAYU"},
		{"Tejas", "T", "🔺 TEJAS"},
		{"Apas", "Ap", "🌙 APAS"},
		{"Prithivi", "P", "🟨 PRITHIVI"},
	}
	for i, w := range want {
		tt := Tattva(i)
		if tt.String() != w.name || tt.Code() != w.code || tt.Label() != w.label {
			t.Errorf("Tattva(%d) = %s/%s/%s", i, tt, tt.Code(), tt.Label())
		}
	}
	if Tattva(9).String() != "Unknown" {
		t.Error("out-of-range Tattva should be Unknown")
	}
}

func TestDaySchedule(t *testing.T) {
	t.Parallel()
	sunrise := time.Date(2024, 6, 16, 6, 0, 0, 0, time.UTC)
	next := sunrise.Add(24*time.Hour + 10*time.Minute)
	now := sunrise.Add(5 * time.Hour)

	items := DaySchedule(sunrise, next, now)
	if len(items) != 61 {
		t.Fatalf("got %d items, want 61", len(items))
	}

	last := items[60]
	if !last.End.Equal(next) || last.Tattva != Akasha {
		t.Errorf("last item = %v [%v, %v), want Akasha ending at next sunrise", last.Tattva, last.Start, last.End)
	}
	if len(last.SubTattvas) != 3 || !last.SubTattvas[2].End.Equal(next) {
		t.Errorf("clipped sub-tattvas = %+v", last.SubTattvas)
	}

	var current []int
	for i, it := range items {
		if it.IsCurrent {
			current = append(current, i)
		}
		if i < 60 && len(it.SubTattvas) != 5 {
			t.Errorf("item %d has %d sub-tattvas", i, len(it.SubTattvas))
		}
	}
	if diff := cmp.Diff([]int{12}, current); diff != "" {
		t.Errorf("current items mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute(t *testing.T) {
	t.Parallel()
	c := meanCalc()

	t.Run("after sunrise", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2024, 6, 16, 7, 0, 0, 0, time.UTC) // Sunday
		data, err := c.Compute(context.Background(), greenwich, now)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if want := time.Date(2024, 6, 16, 6, 0, 0, 0, time.UTC); data.Sunrise.Sub(want).Abs() > time.Second {
			t.Errorf("Sunrise = %v, want %v", data.Sunrise, want)
		}
		if data.Tattva.Tattva != Tejas || data.SubTattva.Tattva != Tejas {
			t.Errorf("tattva = %v/%v, want Tejas/Tejas", data.Tattva.Tattva, data.SubTattva.Tattva)
		}
		if data.PlanetaryHour.Index != 1 || data.PlanetaryHour.Planet != Venus {
			t.Errorf("planetary hour = %d %v, want 1 Venus", data.PlanetaryHour.Index, data.PlanetaryHour.Planet)
		}
		if data.Day() != (Date{2024, time.June, 16}) {
			t.Errorf("Day() = %v", data.Day())
		}
	})

	t.Run("before sunrise uses previous day", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2024, 6, 16, 3, 0, 0, 0, time.UTC)
		data, err := c.Compute(context.Background(), greenwich, now)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if data.Day() != (Date{2024, time.June, 15}) {
			t.Errorf("Day() = %v, want 2024-06-15", data.Day())
		}
		if data.PlanetaryHour.Index != 21 || data.PlanetaryHour.Planet != Saturn {
			t.Errorf("planetary hour = %d %v, want 21 Saturn", data.PlanetaryHour.Index, data.PlanetaryHour.Planet)
		}
		if !data.NextSunrise.After(now) {
			t.Errorf("NextSunrise %v is not after now", data.NextSunrise)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.Compute(ctx, greenwich, time.Now())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestCompute_ZoneFarFromSolarTime(t *testing.T) {
	t.Parallel()

	kiritimati, err := time.LoadLocation("Pacific/Kiritimati")
	if err != nil {
		t.Fatal(err)
	}
	obs := Observer{Name: "Kiritimati", Latitude: 1.87, Longitude: -157.4, Location: kiritimati}
	c := meanCalc()

	// 03:00 local precedes the 06:29 sunrise of 1 March, so the day began at
	// the sunrise of 29 February.
	now := time.Date(2024, 3, 1, 3, 0, 0, 0, kiritimati)
	data, err := c.Compute(context.Background(), obs, now)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if data.Day() != (Date{2024, time.February, 29}) {
		t.Errorf("Day() = %v, want 2024-02-29", data.Day())
	}
	if data.Sunrise.After(now) || !data.NextSunrise.After(now) {
		t.Errorf("sunrise %v and next sunrise %v do not bracket %v", data.Sunrise, data.NextSunrise, now)
	}
	if !data.PlanetaryHour.Contains(now) || data.PlanetaryHour.IsDay() {
		t.Errorf("planetary hour %+v does not contain %v at night", data.PlanetaryHour, now)
	}

	rise, err := c.Sunrise(Date{2024, time.March, 1}, obs)
	if err != nil {
		t.Fatal(err)
	}
	if got := DateOf(rise, kiritimati); got != (Date{2024, time.March, 1}) {
		t.Errorf("Sunrise(2024-03-01) falls on %v locally", got)
	}
}

func TestCompute_AnchorsEveryHour(t *testing.T) {
	t.Parallel()

	tests := []struct {
		zone     string
		lat, lon float64
	}{
		{"Pacific/Kiritimati", 1.87, -157.4},
		{"Pacific/Apia", -13.83, -171.75},
		{"Pacific/Tongatapu", -21.14, -175.2},
		{"Asia/Tokyo", 35.68, 139.65},
		{"America/Los_Angeles", 34.05, -118.24},
	}
	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			t.Parallel()
			loc, err := time.LoadLocation(tt.zone)
			if err != nil {
				t.Fatal(err)
			}
			obs := Observer{Name: tt.zone, Latitude: tt.lat, Longitude: tt.lon, Location: loc}
			c := meanCalc()
			start := time.Date(2024, 3, 1, 0, 0, 0, 0, loc)
			for h := 0; h < 72; h++ {
				now := start.Add(time.Duration(h) * time.Hour)
				data, err := c.Compute(context.Background(), obs, now)
				if err != nil {
					t.Fatalf("Compute(%v): %v", now, err)
				}
				if data.Sunrise.After(now) || !data.NextSunrise.After(now) {
					t.Fatalf("at %v: sunrise %v, next %v", now, data.Sunrise, data.NextSunrise)
				}
				if !data.PlanetaryHour.Contains(now) {
					t.Fatalf("at %v: no current planetary hour", now)
				}
			}
		})
	}
}

func TestScheduleForDate(t *testing.T) {
	t.Parallel()
	c := meanCalc()
	d := Date{2024, time.June, 16}

	plan, err := c.ScheduleForDate(d, greenwich, time.Date(2024, 6, 16, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ScheduleForDate: %v", err)
	}
	if len(plan.Tattvas) != 60 {
		t.Errorf("got %d tattva windows, want 60", len(plan.Tattvas))
	}
	if len(plan.PlanetaryHours) != 24 {
		t.Errorf("got %d planetary hours, want 24", len(plan.PlanetaryHours))
	}

	data, err := c.Compute(context.Background(), greenwich, time.Date(2024, 6, 16, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	next, err := c.NextDaySchedule(data)
	if err != nil {
		t.Fatalf("NextDaySchedule: %v", err)
	}
	if next.Date != d.AddDays(1) {
		t.Errorf("next day = %v, want %v", next.Date, d.AddDays(1))
	}
	if next.PlanetaryHours[0].Planet != Moon {
		t.Errorf("Monday first hour = %v, want Moon", next.PlanetaryHours[0].Planet)
	}
}
