// Package ui renders calculation results for the one-shot CLI commands.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/tattva/internal/ansi"
	"github.com/papapumpkin/tattva/internal/astro"
	"github.com/papapumpkin/tattva/internal/places"
	"github.com/papapumpkin/tattva/internal/store"
)


const clock = "15:04"

// Printer writes human-readable output. It defaults to stderr so stdout stays
// free for --json output.
type Printer struct {
	w io.Writer
}

// New returns a Printer that writes to os.Stderr.
func New() *Printer {
	return NewTo(os.Stderr)
}

// NewTo returns a Printer that writes to w. Colors are dropped when NO_COLOR
// is set.
func NewTo(w io.Writer) *Printer {
	if ansi.Disabled() {
		w = ansi.StripWriter{W: w}
	}
	return &Printer{w: w}
}

func (p *Printer) Banner() {
	fmt.Fprintln(p.w, ansi.Bold+ansi.Magenta+"  ╔═══════════════════════════════════╗"+ansi.Reset)
	fmt.Fprintln(p.w, ansi.Bold+ansi.Magenta+"  ║"+ansi.Reset+ansi.Bold+"   TATTVA  "+ansi.Dim+"vedic time companion "+ansi.Reset+ansi.Bold+ansi.Magenta+"  ║"+ansi.Reset)
	fmt.Fprintln(p.w, ansi.Bold+ansi.Magenta+"  ╚═══════════════════════════════════╝"+ansi.Reset)
	fmt.Fprintln(p.w)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, ansi.Red+ansi.Bold+"error: "+ansi.Reset+"%s\n", msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintf(p.w, ansi.Dim+"%s"+ansi.Reset+"\n", msg)
}

func (p *Printer) Success(msg string) {
	fmt.Fprintf(p.w, ansi.Green+ansi.Bold+"✓ "+ansi.Reset+"%s\n", msg)
}

// Location prints the observer header with its current UTC offset.
func (p *Printer) Location(obs astro.Observer, now time.Time) {
	loc := obs.Location
	if loc == nil {
		loc = time.UTC
	}
	fmt.Fprintf(p.w, ansi.Bold+ansi.Cyan+"◆ %s"+ansi.Reset+ansi.Dim+" %.4f, %.4f %s %s"+ansi.Reset+"\n",
		obs.Name, obs.Latitude, obs.Longitude, loc.String(), places.FormatOffset(places.OffsetHours(loc, now)))
}

// Now prints the full snapshot for the current instant.
func (p *Printer) Now(d *astro.AstroData) {
	loc := d.CurrentTime.Location()
	p.Location(d.Observer, d.CurrentTime)
	fmt.Fprintf(p.w, ansi.Dim+"  %s  sunrise %s  sunset %s  next sunrise %s"+ansi.Reset+"\n",
		d.CurrentTime.Format("Mon 02 Jan 2006 15:04"),
		d.Sunrise.In(loc).Format(clock), d.Sunset.In(loc).Format(clock), d.NextSunrise.In(loc).Format(clock))
	fmt.Fprintln(p.w)

	fmt.Fprintf(p.w, "  %-10s %s %s/ %s%s  until %s %s(%s left)%s\n",
		"tattva", ansi.Bold+d.Tattva.Tattva.Label()+ansi.Reset, ansi.Dim, d.SubTattva.Tattva.String(), ansi.Reset,
		d.Tattva.End.In(loc).Format(clock), ansi.Dim, formatDuration(d.Tattva.Remaining(d.CurrentTime)), ansi.Reset)

	h := d.PlanetaryHour
	period := "day"
	if !h.IsDay() {
		period = "night"
	}
	fmt.Fprintf(p.w, "  %-10s %s  until %s %s(%s hour %d)%s\n",
		"planet", ansi.Bold+h.Planet.Label()+ansi.Reset, h.End.In(loc).Format(clock), ansi.Dim, period, h.Index%12+1, ansi.Reset)

	n := d.Nakshatra
	fmt.Fprintf(p.w, "  %-10s %s%s%s %s(%s, %s)%s  until %s\n",
		"nakshatra", ansi.Bold, n.Name, ansi.Reset, ansi.Dim, n.Code(), n.Tattva.String(), ansi.Reset, n.End.In(loc).Format(clock))

	m := d.MoonPhase
	fmt.Fprintf(p.w, "  %-10s %s %s%d%% lit, %.1f°%s\n",
		"moon", m.Name, ansi.Dim, m.IlluminationPercent, m.PhaseAngle, ansi.Reset)
}

// DaySchedule prints every Tattva window between sunrise and the next
// sunrise, with sub-Tattvas expanded for the current window.
func (p *Printer) DaySchedule(plan *astro.DayPlan, loc *time.Location) {
	fmt.Fprintf(p.w, "\n"+ansi.Bold+ansi.Cyan+"tattvas for %s"+ansi.Reset+ansi.Dim+" (sunrise %s, next %s)"+ansi.Reset+"\n",
		plan.Date, plan.Sunrise.In(loc).Format(clock), plan.NextSunrise.In(loc).Format(clock))
	for _, item := range plan.Tattvas {
		line := fmt.Sprintf("  %s–%s  %s", item.Start.In(loc).Format(clock), item.End.In(loc).Format(clock), item.Tattva.Label())
		if !item.IsCurrent {
			fmt.Fprintln(p.w, line)
			continue
		}
		fmt.Fprintln(p.w, ansi.Bold+ansi.Yellow+line+"  ◀ now"+ansi.Reset)
		for _, sub := range item.SubTattvas {
			fmt.Fprintf(p.w, ansi.Dim+"      %s–%s  %s"+ansi.Reset+"\n",
				sub.Start.In(loc).Format(clock), sub.End.In(loc).Format(clock), sub.Tattva.String())
		}
	}
}

// PlanetaryHours prints the 24 hours of a day, highlighting the one that
// contains now.
func (p *Printer) PlanetaryHours(hours []astro.PlanetaryHour, now time.Time, loc *time.Location) {
	fmt.Fprintln(p.w, "\n"+ansi.Bold+ansi.Cyan+"planetary hours"+ansi.Reset)
	for _, h := range hours {
		marker := "☀"
		if !h.IsDay() {
			marker = "☾"
		}
		line := fmt.Sprintf("  %s %2d  %s–%s  %s", marker, h.Index%12+1,
			h.Start.In(loc).Format(clock), h.End.In(loc).Format(clock), h.Planet.Label())
		if h.Contains(now) {
			fmt.Fprintln(p.w, ansi.Bold+ansi.Yellow+line+"  ◀ now"+ansi.Reset)
			continue
		}
		fmt.Fprintln(p.w, line)
	}
}

// MoonPhase prints the phase summary and the upcoming lunar events.
func (p *Printer) MoonPhase(m astro.MoonPhaseResult, now time.Time, loc *time.Location) {
	trend := "waning"
	if m.Waxing {
		trend = "waxing"
	}
	fmt.Fprintf(p.w, "\n"+ansi.Bold+ansi.Cyan+"moon"+ansi.Reset+"  %s "+ansi.Dim+"(%s, %d%% lit, %.1f°)"+ansi.Reset+"\n",
		m.Name, trend, m.IlluminationPercent, m.PhaseAngle)
	events := []struct {
		name string
		at   time.Time
	}{
		{"tripura sundari", m.NextTripuraSundari},
		{"full moon", m.NextFullMoon},
		{"new moon", m.NextNewMoon},
	}
	for _, e := range events {
		fmt.Fprintf(p.w, "  %-16s %s "+ansi.Dim+"(%s)"+ansi.Reset+"\n",
			e.name, e.at.In(loc).Format("Mon 02 Jan 15:04"), humanize.RelTime(e.at, now, "ago", "from now"))
	}
}

// Alerts prints pending moon alerts.
func (p *Printer) Alerts(alerts []store.Alert, now time.Time, loc *time.Location) {
	if len(alerts) == 0 {
		return
	}
	fmt.Fprintln(p.w, "\n"+ansi.Bold+ansi.Cyan+"scheduled alerts"+ansi.Reset)
	for _, a := range alerts {
		lead := "at the event"
		if a.Lead > 0 {
			lead = formatDuration(a.Lead) + " before"
		}
		fmt.Fprintf(p.w, "  %-16s %s "+ansi.Dim+"(%s, %s)"+ansi.Reset+"\n",
			strings.ReplaceAll(string(a.Kind), "_", " "), a.FireAt().In(loc).Format("Mon 02 Jan 15:04"),
			lead, humanize.RelTime(a.FireAt(), now, "ago", "from now"))
	}
}

// Nakshatra prints the current lunar mansion. In code mode only the short
// code and window are shown.
func (p *Printer) Nakshatra(n astro.NakshatraResult, loc *time.Location, codeMode bool) {
	if codeMode {
		fmt.Fprintf(p.w, "%s %s–%s\n", n.Code(), n.Start.In(loc).Format(clock), n.End.In(loc).Format(clock))
		return
	}
	fmt.Fprintf(p.w, "\n"+ansi.Bold+ansi.Cyan+"nakshatra %d"+ansi.Reset+"  %s "+ansi.Dim+"(%s)"+ansi.Reset+"\n", n.Number, n.Name, n.Code())
	fmt.Fprintf(p.w, "  moon      %.2f° in %.2f°–%.2f° (%.0f%%)\n", n.MoonLongitude, n.StartDegree, n.EndDegree, n.Progress*100)
	fmt.Fprintf(p.w, "  window    %s → %s\n", n.Start.In(loc).Format("Mon 15:04"), n.End.In(loc).Format("Mon 15:04"))
	p.NakshatraDetail(n.Nakshatra)
}

// NakshatraDetail prints the static attributes of a Nakshatra.
func (p *Printer) NakshatraDetail(n astro.Nakshatra) {
	rows := [][2]string{
		{"deity", n.Deity},
		{"symbol", n.Symbol},
		{"animal", n.Animal},
		{"planet", n.Planet},
		{"nature", n.Nature},
		{"degrees", n.DegreeRange},
		{"tattva", n.Tattva.Label()},
	}
	for _, r := range rows {
		fmt.Fprintf(p.w, "  %-9s %s\n", r[0], r[1])
	}
}

// NakshatraTable prints all Nakshatras on one line each.
func (p *Printer) NakshatraTable(list []astro.Nakshatra) {
	for _, n := range list {
		fmt.Fprintf(p.w, "  %-5s %-18s %-22s %s\n", n.Code(), n.Name, n.DegreeRange, ansi.Dim+n.Tattva.String()+ansi.Reset)
	}
}

// Places prints catalog entries with their current UTC offset.
func (p *Printer) Places(cat *places.Catalog, list []places.Place, now time.Time) {
	if len(list) == 0 {
		p.Info("no matching places")
		return
	}
	for _, pl := range list {
		offset := ""
		if loc, err := cat.Location(pl); err == nil {
			offset = places.FormatOffset(places.OffsetHours(loc, now))
		}
		fmt.Fprintf(p.w, "  %-16s %9.4f %9.4f  %-20s %s\n", pl.Name, pl.Latitude, pl.Longitude, pl.Zone, offset)
	}
}

// Setting prints one key/value pair.
func (p *Printer) Setting(key, value string) {
	fmt.Fprintf(p.w, "  %-32s %s\n", key, value)
}

// formatDuration renders d as "1h05m" or "12m" without seconds.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
