package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/papapumpkin/tattva/internal/astro"
	"github.com/papapumpkin/tattva/internal/places"
	"github.com/papapumpkin/tattva/internal/store"
)

// Status is what one refresh publishes. A line is empty when its
// notification is switched off.
type Status struct {
	Time   time.Time
	Tattva string
	Planet string
	Data   *astro.AstroData
}

// Lines returns the non-empty status lines in display order.
func (s Status) Lines() []string {
	var out []string
	for _, l := range []string{s.Tattva, s.Planet} {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// TattvaLine formats the persistent Tattva status, e.g.
// "🔺 TEJAS - until 14:32 (+3.0)".
func TattvaLine(d *astro.AstroData) string {
	return statusLine(d.Tattva.Tattva.Label(), d.Tattva.End, d.CurrentTime)
}

// PlanetLine formats the persistent planetary hour status, e.g.
// "☀️Sun - until 15:10 (+3.0)".
func PlanetLine(d *astro.AstroData) string {
	return statusLine(d.PlanetaryHour.Planet.Label(), d.PlanetaryHour.End, d.CurrentTime)
}

func statusLine(label string, until, now time.Time) string {
	loc := now.Location()
	return fmt.Sprintf("%s - until %s %s", label, until.In(loc).Format("15:04"),
		places.FormatOffset(places.OffsetHours(loc, now)))
}

var alertTitles = map[store.Kind]string{
	store.KindFullMoon:       "🌕 Full Moon",
	store.KindNewMoon:        "🌑 New Moon",
	store.KindTripuraSundari: "🌔 Tripura Sundari",
}

// AlertMessage formats a moon alert for delivery.
func AlertMessage(a store.Alert, loc *time.Location) string {
	title, ok := alertTitles[a.Kind]
	if !ok {
		title = string(a.Kind)
	}
	when := a.EventAt.In(loc).Format("Mon 02 Jan 15:04")
	if a.Lead <= 0 {
		return fmt.Sprintf("%s now (%s)", title, when)
	}
	return fmt.Sprintf("%s in %s (%s)", title, formatLead(a.Lead), when)
}

// formatLead renders a lead as "24h", "1h30m" or "45m".
func formatLead(d time.Duration) string {
	d = d.Round(time.Minute)
	h, m := d/time.Hour, (d%time.Hour)/time.Minute
	switch {
	case h > 0 && m == 0:
		return fmt.Sprintf("%dh", h)
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// Sink receives status updates and moon alerts.
type Sink interface {
	Publish(ctx context.Context, s Status) error
	Alert(ctx context.Context, a store.Alert, msg string) error
}

// TerminalSink writes one line per update to a writer.
type TerminalSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminalSink returns a sink writing to w.
func NewTerminalSink(w io.Writer) *TerminalSink {
	return &TerminalSink{w: w}
}

func (t *TerminalSink) Publish(_ context.Context, s Status) error {
	lines := s.Lines()
	if len(lines) == 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.w, "%s  %s\n", s.Time.Format("15:04:05"), strings.Join(lines, " | "))
	return err
}

func (t *TerminalSink) Alert(_ context.Context, _ store.Alert, msg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.w, "\a%s\n", msg)
	return err
}

// FileSink keeps the latest status lines in a file for status bars such as
// tmux or i3blocks. The file is replaced atomically on every update.
type FileSink struct {
	Path string
}

func (f *FileSink) Publish(_ context.Context, s Status) error {
	body := strings.Join(s.Lines(), "\n")
	if body != "" {
		body += "\n"
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".status-*")
	if err != nil {
		return fmt.Errorf("notify: status file: %w", err)
	}
	if _, err := tmp.WriteString(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("notify: write status file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("notify: close status file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("notify: replace status file: %w", err)
	}
	return nil
}

// Alert is a no-op; status files only carry the persistent lines.
func (f *FileSink) Alert(context.Context, store.Alert, string) error { return nil }

// MultiSink fans every call out to each sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Publish(ctx context.Context, s Status) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Publish(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) Alert(ctx context.Context, a store.Alert, msg string) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Alert(ctx, a, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
