package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/tattva/internal/astro"
)

// MsgTick drives the countdowns once per second.
type MsgTick struct {
	Time time.Time
}

// MsgComputed carries the result of a background recomputation.
type MsgComputed struct {
	Data *astro.AstroData
	Err  error
}

// Computer produces a snapshot for an instant; *astro.Calculator satisfies it.
type Computer interface {
	Compute(ctx context.Context, obs astro.Observer, now time.Time) (*astro.AstroData, error)
}

// Model is the dashboard state.
type Model struct {
	calc     Computer
	obs      astro.Observer
	interval time.Duration
	clock    func() time.Time

	Keys   KeyMap
	Styles Styles

	Data      *astro.AstroData
	Err       error
	Now       time.Time
	CodeMode  bool
	ShowHours bool
	Width     int

	computing   bool
	lastCompute time.Time
}

// Config carries what the dashboard needs from the caller.
type Config struct {
	Calculator Computer
	Observer   astro.Observer
	Interval   time.Duration
	Theme      string
	Clock      func() time.Time
}

// NewModel creates a dashboard model.
func NewModel(cfg Config) Model {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return Model{
		calc:     cfg.Calculator,
		obs:      cfg.Observer,
		interval: interval,
		clock:    clock,
		Keys:     DefaultKeyMap(),
		Styles:   NewStyles(cfg.Theme),
		Now:      clock(),
		Width:    80,
	}
}

// Init starts the first computation and the one-second ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.computeCmd(m.Now), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return MsgTick{Time: t}
	})
}

func (m Model) computeCmd(now time.Time) tea.Cmd {
	calc, obs := m.calc, m.obs
	return func() tea.Msg {
		data, err := calc.Compute(context.Background(), obs, now)
		return MsgComputed{Data: data, Err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		return m, nil

	case MsgTick:
		m.Now = m.clock()
		cmds := []tea.Cmd{tickCmd()}
		if m.needsRecompute() {
			m.computing = true
			m.lastCompute = m.Now
			cmds = append(cmds, m.computeCmd(m.Now))
		}
		return m, tea.Batch(cmds...)

	case MsgComputed:
		m.computing = false
		m.Err = msg.Err
		if msg.Err == nil {
			m.Data = msg.Data
		}
		if m.lastCompute.IsZero() {
			m.lastCompute = m.Now
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.Keys.CodeMode):
			m.CodeMode = !m.CodeMode
		case key.Matches(msg, m.Keys.Hours):
			m.ShowHours = !m.ShowHours
		case key.Matches(msg, m.Keys.Refresh):
			m.Now = m.clock()
			m.computing = true
			m.lastCompute = m.Now
			return m, m.computeCmd(m.Now)
		}
		return m, nil
	}
	return m, nil
}

// needsRecompute reports whether the snapshot is stale: the refresh interval
// elapsed or the current sub-Tattva ended.
func (m Model) needsRecompute() bool {
	if m.computing {
		return false
	}
	if m.Data == nil {
		return m.Now.Sub(m.lastCompute) >= m.interval
	}
	if !m.Now.Before(m.Data.SubTattva.End) || !m.Now.Before(m.Data.PlanetaryHour.End) {
		return true
	}
	return m.Now.Sub(m.lastCompute) >= m.interval
}
