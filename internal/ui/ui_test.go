package ui

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/papapumpkin/tattva/internal/astro"
	"github.com/papapumpkin/tattva/internal/ephem"
	"github.com/papapumpkin/tattva/internal/places"
	"github.com/papapumpkin/tattva/internal/store"
)

// captureStderr redirects os.Stderr to a pipe and returns the captured output.
func captureStderr(fn func()) string {
	r, w, _ := os.Pipe()
	orig := os.Stderr
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = orig

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	r.Close()
	return string(buf[:n])
}

var greenwich = astro.Observer{Name: "Greenwich", Latitude: 51.48, Longitude: 0, Location: time.UTC}

// sundayMorning is 07:00 UTC on a Sunday; under the mean model sunrise is 06:00.
var sundayMorning = time.Date(2024, 6, 16, 7, 0, 0, 0, time.UTC)

func snapshot(t *testing.T) *astro.AstroData {
	t.Helper()
	c := astro.NewCalculator(ephem.Mean{})
	data, err := c.Compute(context.Background(), greenwich, sundayMorning)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return data
}

func assertContains(t *testing.T, output string, checks ...string) {
	t.Helper()
	for _, substr := range checks {
		if !strings.Contains(output, substr) {
			t.Errorf("output missing %q\ngot:\n%s", substr, output)
		}
	}
}

func TestNew_WritesToStderr(t *testing.T) {
	output := captureStderr(func() {
		New().Error("boom")
	})
	assertContains(t, output, "error:", "boom")
}

func TestNow(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewTo(&buf).Now(snapshot(t))

	assertContains(t, buf.String(),
		"Greenwich",
		"sunrise 06:00",
		"sunset 18:00",
		"🔺 TEJAS",
		"until 07:12",
		"♀Venus",
		"day hour 2",
		"nakshatra",
		"% lit",
	)
}

func TestDaySchedule(t *testing.T) {
	t.Parallel()
	c := astro.NewCalculator(ephem.Mean{})
	plan, err := c.TodaySchedule(greenwich, sundayMorning)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	NewTo(&buf).DaySchedule(plan, time.UTC)

	out := buf.String()
	assertContains(t, out, "tattvas for 2024-06-16", "06:00–06:24  🟣 AKASHA", "06:48–07:12  🔺 TEJAS  ◀ now")
	if n := strings.Count(out, "◀ now"); n != 1 {
		t.Errorf("current marker appears %d times, want 1", n)
	}
	// Only the current window expands its sub-Tattvas.
	if n := strings.Count(out, "      "); n != 5 {
		t.Errorf("expanded %d sub-Tattva rows, want 5", n)
	}
}

func TestPlanetaryHours(t *testing.T) {
	t.Parallel()
	data := snapshot(t)
	var buf bytes.Buffer
	NewTo(&buf).PlanetaryHours(data.PlanetaryHours, data.CurrentTime, time.UTC)

	out := buf.String()
	if got := strings.Count(out, "\n"); got != 26 {
		t.Errorf("printed %d lines, want blank + header + 24 hours", got)
	}
	assertContains(t, out, "☀  2  07:00–08:00  ♀Venus  ◀ now", "☾  1  18:00")
}

func TestMoonPhase(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	m := astro.MoonPhaseResult{
		PhaseAngle:          120,
		IlluminationPercent: 75,
		Name:                "Waxing Gibbous",
		Waxing:              true,
		NextTripuraSundari:  now.Add(36 * time.Hour),
		NextFullMoon:        now.Add(5 * 24 * time.Hour),
		NextNewMoon:         now.Add(20 * 24 * time.Hour),
	}
	var buf bytes.Buffer
	NewTo(&buf).MoonPhase(m, now, time.UTC)

	assertContains(t, buf.String(),
		"Waxing Gibbous",
		"waxing, 75% lit",
		"full moon",
		"Thu 25 Jan 00:00",
		"5 days from now",
		"2 weeks from now",
	)
}

func TestAlerts(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 24, 12, 0, 0, 0, time.UTC)
	event := time.Date(2024, 1, 25, 17, 54, 0, 0, time.UTC)
	alerts := []store.Alert{
		{Kind: store.KindFullMoon, EventAt: event, Lead: 24 * time.Hour},
		{Kind: store.KindFullMoon, EventAt: event},
	}
	var buf bytes.Buffer
	p := NewTo(&buf)
	p.Alerts(nil, now, time.UTC)
	if buf.Len() != 0 {
		t.Errorf("empty alert list printed %q", buf.String())
	}
	p.Alerts(alerts, now, time.UTC)
	assertContains(t, buf.String(), "full moon", "24h00m before", "at the event", "Wed 24 Jan 17:54")
}

func TestNakshatra(t *testing.T) {
	t.Parallel()
	n := astro.NakshatraAt(100, sundayMorning)

	var buf bytes.Buffer
	NewTo(&buf).Nakshatra(n, time.UTC, true)
	if got := buf.String(); !strings.HasPrefix(got, "NK8 ") {
		t.Errorf("code mode = %q, want NK8 prefix", got)
	}

	buf.Reset()
	NewTo(&buf).Nakshatra(n, time.UTC, false)
	assertContains(t, buf.String(), "nakshatra 8", n.Name, "deity", n.Deity, "tattva")
}

func TestNakshatraTable(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewTo(&buf).NakshatraTable(astro.Nakshatras())
	if got := strings.Count(buf.String(), "\n"); got != 27 {
		t.Errorf("printed %d rows, want 27", got)
	}
	assertContains(t, buf.String(), "NK1 ", "NK27")
}

func TestPlaces(t *testing.T) {
	t.Parallel()
	cat := places.Builtin()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	p := NewTo(&buf)
	p.Places(cat, cat.Search("tokyo"), now)
	assertContains(t, buf.String(), "Tokyo", "Asia/Tokyo", "(+9.0)")

	buf.Reset()
	p.Places(cat, nil, now)
	assertContains(t, buf.String(), "no matching places")
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0m"},
		{-time.Minute, "0m"},
		{12*time.Minute + 20*time.Second, "12m"},
		{65 * time.Minute, "1h05m"},
		{24 * time.Hour, "24h00m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	NewTo(&buf).Success("saved")
	if got := buf.String(); got != "✓ saved\n" {
		t.Errorf("output = %q, want plain text", got)
	}
}
