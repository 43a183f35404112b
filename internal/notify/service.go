// Package notify runs the periodic status daemon: it recomputes the current
// Tattva and planetary hour on a fixed interval, publishes them to sinks, and
// delivers moon alerts recorded in the alert ledger.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papapumpkin/tattva/internal/astro"
	"github.com/papapumpkin/tattva/internal/config"
	"github.com/papapumpkin/tattva/internal/ephem"
	"github.com/papapumpkin/tattva/internal/store"
	"github.com/papapumpkin/tattva/internal/telemetry"
)

// ErrDisabled is returned by Run when both status notifications are off.
var ErrDisabled = errors.New("notify: tattva and planetary hour notifications are disabled")

// Ledger is the persistence the service needs for moon alerts.
type Ledger interface {
	Schedule(ctx context.Context, a store.Alert) (bool, error)
	Due(ctx context.Context, now time.Time) ([]store.Alert, error)
	MarkFired(ctx context.Context, id int64, at time.Time) error
	Prune(ctx context.Context, before time.Time) (int64, error)
}

const (
	// staleAfter is how long past its event an unfired alert is still worth
	// delivering; older ones are marked fired without being sent.
	staleAfter = time.Hour
	// keepAlerts is how long alerts are kept after their event.
	keepAlerts = 7 * 24 * time.Hour
)

// Service is the status daemon. Create it with New and start it with Run.
type Service struct {
	eph    ephem.Ephemeris
	sink   Sink
	ledger Ledger
	log    *zap.Logger
	tel    *telemetry.Emitter
	now    func() time.Time

	session string
	reload  chan struct{}

	mu   sync.Mutex
	cfg  config.Config
	obs  astro.Observer
	calc *astro.Calculator
	last *astro.AstroData
}

// Option configures a Service.
type Option func(*Service)

// WithLedger enables moon alerts backed by l.
func WithLedger(l Ledger) Option { return func(s *Service) { s.ledger = l } }

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

// WithTelemetry records events to e.
func WithTelemetry(e *telemetry.Emitter) Option { return func(s *Service) { s.tel = e } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// New creates a service for the observer using cfg.
func New(cfg config.Config, obs astro.Observer, eph ephem.Ephemeris, sink Sink, opts ...Option) *Service {
	s := &Service{
		eph:     eph,
		sink:    sink,
		log:     zap.NewNop(),
		now:     time.Now,
		session: uuid.New().String(),
		reload:  make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(s)
	}
	s.apply(cfg, obs)
	return s
}

// Session returns the identifier stamped on this service's telemetry.
func (s *Service) Session() string { return s.session }

func (s *Service) apply(cfg config.Config, obs astro.Observer) {
	s.cfg = cfg
	s.obs = obs
	s.calc = astro.NewCalculator(s.eph,
		astro.WithAyanamsa(cfg.AyanamsaMode()),
		astro.WithPreciseNakshatra(cfg.Nakshatra.Precise))
}

// Reload swaps in new settings and asks a running loop to refresh at once.
func (s *Service) Reload(cfg config.Config, obs astro.Observer) {
	s.mu.Lock()
	s.apply(cfg, obs)
	s.mu.Unlock()

	s.emit(telemetry.KindConfigReload, map[string]any{
		"place":          obs.Name,
		"tattva":         cfg.Notifications.Tattva,
		"planetary_hour": cfg.Notifications.PlanetaryHour,
	})
	s.log.Info("settings reloaded", zap.String("place", obs.Name))

	select {
	case s.reload <- struct{}{}:
	default:
	}
}

// Last returns the most recent snapshot, or nil before the first refresh.
func (s *Service) Last() *astro.AstroData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Service) settings() (config.Config, astro.Observer, *astro.Calculator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, s.obs, s.calc
}

// Run refreshes immediately and then on every refresh interval until ctx is
// cancelled. It returns ErrDisabled when both status notifications are off,
// either at start or after a reload.
func (s *Service) Run(ctx context.Context) error {
	cfg, obs, _ := s.settings()
	if !cfg.Notifications.StatusEnabled() {
		return ErrDisabled
	}

	s.emit(telemetry.KindSessionStart, map[string]any{"place": obs.Name, "interval": cfg.RefreshInterval.String()})
	defer s.emit(telemetry.KindSessionDone, nil)
	s.log.Info("status service started",
		zap.String("session", s.session),
		zap.String("place", obs.Name),
		zap.Duration("interval", cfg.RefreshInterval))

	s.refreshLogged(ctx)

	interval := cfg.RefreshInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("status service stopped")
			return nil
		case <-ticker.C:
			s.refreshLogged(ctx)
		case <-s.reload:
			cfg, _, _ := s.settings()
			if !cfg.Notifications.StatusEnabled() {
				s.log.Info("status notifications switched off")
				return ErrDisabled
			}
			if cfg.RefreshInterval != interval {
				interval = cfg.RefreshInterval
				ticker.Reset(interval)
			}
			s.refreshLogged(ctx)
		}
	}
}

// refreshLogged runs one refresh; failures are logged and the loop goes on.
func (s *Service) refreshLogged(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
		s.log.Warn("refresh failed", zap.Error(err))
	}
}

// Refresh recomputes the snapshot, publishes the status lines and handles
// moon alerts.
func (s *Service) Refresh(ctx context.Context) (*astro.AstroData, error) {
	cfg, obs, calc := s.settings()
	now := s.now().In(obsLocation(obs))

	data, err := calc.Compute(ctx, obs, now)
	if err != nil {
		s.emit(telemetry.KindRefreshError, map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("notify: compute: %w", err)
	}

	s.mu.Lock()
	prev := s.last
	s.last = data
	s.mu.Unlock()
	s.recordChanges(prev, data)

	status := Status{Time: now, Data: data}
	if cfg.Notifications.Tattva {
		status.Tattva = TattvaLine(data)
	}
	if cfg.Notifications.PlanetaryHour {
		status.Planet = PlanetLine(data)
	}

	var errs []error
	if err := s.sink.Publish(ctx, status); err != nil {
		errs = append(errs, fmt.Errorf("notify: publish: %w", err))
	}
	if err := s.moonAlerts(ctx, cfg, obs, data); err != nil {
		errs = append(errs, err)
	}

	s.emit(telemetry.KindRefresh, map[string]any{
		"tattva":    data.Tattva.Tattva.String(),
		"sub":       data.SubTattva.Tattva.String(),
		"planet":    data.PlanetaryHour.Planet.String(),
		"nakshatra": data.Nakshatra.Code(),
	})
	s.log.Debug("refreshed",
		zap.String("tattva", data.Tattva.Tattva.String()),
		zap.String("planet", data.PlanetaryHour.Planet.String()),
		zap.Time("tattva_end", data.Tattva.End))

	if err := errors.Join(errs...); err != nil {
		s.emit(telemetry.KindRefreshError, map[string]any{"error": err.Error()})
		return data, err
	}
	return data, nil
}

func (s *Service) recordChanges(prev, cur *astro.AstroData) {
	if prev == nil {
		return
	}
	if prev.Tattva.Tattva != cur.Tattva.Tattva || !prev.Tattva.Start.Equal(cur.Tattva.Start) {
		s.emit(telemetry.KindTattvaChange, map[string]any{
			"from": prev.Tattva.Tattva.String(),
			"to":   cur.Tattva.Tattva.String(),
		})
	}
	if prev.PlanetaryHour.Planet != cur.PlanetaryHour.Planet || !prev.PlanetaryHour.Start.Equal(cur.PlanetaryHour.Start) {
		s.emit(telemetry.KindPlanetChange, map[string]any{
			"from": prev.PlanetaryHour.Planet.String(),
			"to":   cur.PlanetaryHour.Planet.String(),
		})
	}
}

func (s *Service) emit(kind string, data any) {
	_, obs, _ := s.settings()
	evt := telemetry.Event{
		Timestamp: s.now().UTC(),
		Kind:      kind,
		Session:   s.session,
		Place:     obs.Name,
		Data:      data,
	}
	if err := s.tel.Emit(evt); err != nil {
		s.log.Warn("telemetry emit failed", zap.Error(err))
	}
}

func obsLocation(obs astro.Observer) *time.Location {
	if obs.Location == nil {
		return time.UTC
	}
	return obs.Location
}
