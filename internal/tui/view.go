package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/papapumpkin/tattva/internal/astro"
	"github.com/papapumpkin/tattva/internal/places"
)

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.statusBar())
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(m.Styles.Error.Render("error: " + m.Err.Error()))
		b.WriteString("\n")
	}
	if m.Data == nil {
		b.WriteString(m.Styles.Muted.Render("calculating…"))
		b.WriteString("\n")
		b.WriteString(m.footer())
		return b.String()
	}

	b.WriteString(m.tattvaCard())
	b.WriteString("\n")
	b.WriteString(m.planetCard())
	b.WriteString("\n")
	b.WriteString(m.nakshatraCard())
	b.WriteString("\n")
	b.WriteString(m.moonCard())
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) loc() *time.Location {
	if m.obs.Location == nil {
		return time.UTC
	}
	return m.obs.Location
}

func (m Model) statusBar() string {
	loc := m.loc()
	now := m.Now.In(loc)
	text := fmt.Sprintf("%s  %s %s", m.obs.Name, now.Format("Mon 02 Jan 15:04:05"),
		places.FormatOffset(places.OffsetHours(loc, now)))
	if m.Data != nil {
		text += fmt.Sprintf("  ☀ %s ☾ %s", m.Data.Sunrise.In(loc).Format("15:04"), m.Data.Sunset.In(loc).Format("15:04"))
	}
	return m.Styles.StatusBar.Width(m.Width).Render(text)
}

func (m Model) tattvaName(t astro.Tattva) string {
	if m.CodeMode {
		return t.Code()
	}
	return t.Label()
}

func (m Model) tattvaCard() string {
	d := m.Data
	main := fmt.Sprintf("%s %s  %s",
		m.Styles.Heading.Render("tattva"),
		tattvaStyle(d.Tattva.Tattva).Render(m.tattvaName(d.Tattva.Tattva)),
		m.Styles.Countdown.Render(Countdown(d.Tattva.End.Sub(m.Now))))
	sub := fmt.Sprintf("%s %s  %s",
		m.Styles.Muted.Render("sub   "),
		tattvaStyle(d.SubTattva.Tattva).Render(m.tattvaName(d.SubTattva.Tattva)),
		m.Styles.Countdown.Render(Countdown(d.SubTattva.End.Sub(m.Now))))
	return m.Styles.Card.Render(main + "\n" + sub)
}

func (m Model) planetName(p astro.Planet) string {
	if m.CodeMode {
		return p.Symbol()
	}
	return p.Label()
}

func (m Model) planetCard() string {
	d := m.Data
	h := d.PlanetaryHour
	period := "day"
	if !h.IsDay() {
		period = "night"
	}
	lines := []string{fmt.Sprintf("%s %s  %s %s",
		m.Styles.Heading.Render("planet"),
		m.Styles.Value.Render(m.planetName(h.Planet)),
		m.Styles.Countdown.Render(HumanCountdown(h.End.Sub(m.Now))),
		m.Styles.Muted.Render(fmt.Sprintf("(%s hour %d)", period, h.Index%12+1)))}

	if m.ShowHours {
		loc := m.loc()
		for _, ph := range astro.RotateHours(d.PlanetaryHours, h.Index) {
			row := fmt.Sprintf("  %s–%s  %s", ph.Start.In(loc).Format("15:04"), ph.End.In(loc).Format("15:04"), m.planetName(ph.Planet))
			if ph.Index == h.Index {
				row = m.Styles.Current.Render(row)
			} else {
				row = m.Styles.Muted.Render(row)
			}
			lines = append(lines, row)
		}
	}
	return m.Styles.Card.Render(strings.Join(lines, "\n"))
}

func (m Model) nakshatraCard() string {
	n := m.Data.Nakshatra
	name := n.Name
	if m.CodeMode {
		name = n.Code()
	}
	line := fmt.Sprintf("%s %s %s  %s",
		m.Styles.Heading.Render("nakshatra"),
		m.Styles.Value.Render(name),
		tattvaStyle(n.Tattva).Render(m.tattvaName(n.Tattva)),
		m.Styles.Countdown.Render(HumanCountdown(n.End.Sub(m.Now))))
	detail := m.Styles.Muted.Render(fmt.Sprintf("%s · %s · %.0f%%", n.Deity, n.Planet, n.Progress*100))
	return m.Styles.Card.Render(line + "\n" + detail)
}

func (m Model) moonCard() string {
	mp := m.Data.MoonPhase
	loc := m.loc()
	line := fmt.Sprintf("%s %s %s",
		m.Styles.Heading.Render("moon"),
		m.Styles.Value.Render(mp.Name),
		m.Styles.Muted.Render(fmt.Sprintf("%d%%", mp.IlluminationPercent)))
	next := m.Styles.Muted.Render(fmt.Sprintf("tripura %s · full %s · new %s",
		mp.NextTripuraSundari.In(loc).Format("02 Jan 15:04"),
		mp.NextFullMoon.In(loc).Format("02 Jan 15:04"),
		mp.NextNewMoon.In(loc).Format("02 Jan 15:04")))
	return m.Styles.Card.Render(line + "\n" + next)
}

func (m Model) footer() string {
	var parts []string
	for _, k := range m.Keys.ShortHelp() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.Styles.Muted.Render(strings.Join(parts, " · "))
}

// Countdown renders d as mm:ss, clamped at zero. Durations of an hour or
// more roll the minutes past 59, matching a Tattva's 24-minute scale.
func Countdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// HumanCountdown renders d as "1h 2m 3s", "2m 3s" or "3s".
func HumanCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
