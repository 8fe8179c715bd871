package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/valentindosimont/ocmon/internal/live"
	"github.com/valentindosimont/ocmon/internal/pricing"
)

// sessionWindow is the rolling window a session is measured against in
// the health panel.
const sessionWindow = 5 * time.Hour

// Model is the live dashboard Bubbletea model.
type Model struct {
	tracker *live.Tracker
	table   pricing.Table
	refresh time.Duration

	// UI state
	width  int
	height int
	status *live.Status
	err    error
	gauge  progress.Model
	now    time.Time
}

// TickMsg drives the poll loop.
type TickMsg struct {
	Time time.Time
}

// New creates a dashboard model polling at the given interval.
func New(tracker *live.Tracker, table pricing.Table, refresh time.Duration) *Model {
	gauge := progress.New(progress.WithDefaultGradient())
	gauge.ShowPercentage = false

	return &Model{
		tracker: tracker,
		table:   table,
		refresh: refresh,
		gauge:   gauge,
		now:     time.Now(),
	}
}

// Init starts the poll loop with an immediate first tick.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		return TickMsg{Time: time.Now()}
	}
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.now = msg.Time
		status, err := m.tracker.Tick(msg.Time)
		if err != nil {
			m.err = err
		} else {
			m.status = status
			m.err = nil
		}
		return m, m.tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		gaugeWidth := msg.Width - 30
		if gaugeWidth < 10 {
			gaugeWidth = 10
		}
		if gaugeWidth > 60 {
			gaugeWidth = 60
		}
		m.gauge.Width = gaugeWidth

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}
