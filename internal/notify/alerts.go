package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/papapumpkin/tattva/internal/astro"
	"github.com/papapumpkin/tattva/internal/config"
	"github.com/papapumpkin/tattva/internal/store"
	"github.com/papapumpkin/tattva/internal/telemetry"
)

// PlanAlerts lists the alerts wanted for the upcoming lunar events. Full and
// new moons get one alert per configured lead; Tripura Sundari fires at the
// event itself.
func PlanAlerts(n config.NotificationConfig, place string, m astro.MoonPhaseResult) []store.Alert {
	leads := n.FullMoonLead
	if len(leads) == 0 {
		leads = []time.Duration{0}
	}

	var out []store.Alert
	add := func(kind store.Kind, at time.Time, leads []time.Duration) {
		if at.IsZero() {
			return
		}
		for _, lead := range leads {
			out = append(out, store.Alert{Kind: kind, Place: place, EventAt: at, Lead: lead})
		}
	}
	if n.FullMoon {
		add(store.KindFullMoon, m.NextFullMoon, leads)
	}
	if n.NewMoon {
		add(store.KindNewMoon, m.NextNewMoon, leads)
	}
	if n.TripuraSundari {
		add(store.KindTripuraSundari, m.NextTripuraSundari, []time.Duration{0})
	}
	return out
}

// moonAlerts schedules the alerts for the next lunar events and delivers any
// that are due. The ledger makes both steps idempotent across restarts.
func (s *Service) moonAlerts(ctx context.Context, cfg config.Config, obs astro.Observer, data *astro.AstroData) error {
	if s.ledger == nil {
		return nil
	}
	now := data.CurrentTime
	var errs []error

	for _, a := range PlanAlerts(cfg.Notifications, obs.Name, data.MoonPhase) {
		if !a.FireAt().After(now) && a.Lead > 0 {
			// The lead window already passed; only the event alert matters now.
			continue
		}
		added, err := s.ledger.Schedule(ctx, a)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if added {
			s.emit(telemetry.KindAlertScheduled, map[string]any{
				"kind":    string(a.Kind),
				"event":   a.EventAt.UTC().Format(time.RFC3339),
				"lead":    a.Lead.String(),
				"fire_at": a.FireAt().UTC().Format(time.RFC3339),
			})
			s.log.Debug("alert scheduled",
				zap.String("kind", string(a.Kind)),
				zap.Time("fire_at", a.FireAt()))
		}
	}

	due, err := s.ledger.Due(ctx, now)
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	loc := obsLocation(obs)
	for _, a := range due {
		stale := now.Sub(a.EventAt) > staleAfter
		if !stale {
			if err := s.sink.Alert(ctx, a, AlertMessage(a, loc)); err != nil {
				// Leave it unfired so the next refresh retries.
				errs = append(errs, fmt.Errorf("notify: deliver alert %d: %w", a.ID, err))
				continue
			}
		}
		if err := s.ledger.MarkFired(ctx, a.ID, now); err != nil && !errors.Is(err, store.ErrAlreadyFired) {
			errs = append(errs, err)
			continue
		}
		if stale {
			s.log.Info("skipped stale alert", zap.String("kind", string(a.Kind)), zap.Time("event", a.EventAt))
			continue
		}
		s.emit(telemetry.KindAlertFired, map[string]any{
			"kind":  string(a.Kind),
			"event": a.EventAt.UTC().Format(time.RFC3339),
			"lead":  a.Lead.String(),
		})
		s.log.Info("alert fired", zap.String("kind", string(a.Kind)), zap.Duration("lead", a.Lead))
	}

	if _, err := s.ledger.Prune(ctx, now.Add(-keepAlerts)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
