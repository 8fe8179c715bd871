package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"

	"github.com/valentindosimont/ocmon/internal/live"
	"github.com/valentindosimont/ocmon/internal/session"
)

var hundred = decimal.NewFromInt(100)

// Colors
var (
	colorPrimary   = lipgloss.Color("#00BFFF")
	colorSecondary = lipgloss.Color("#FFD700")
	colorWarn      = lipgloss.Color("#FF4444")
	colorSuccess   = lipgloss.Color("#44FF44")
	colorMuted     = lipgloss.Color("#666666")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWarn)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// View renders the dashboard.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	innerWidth := m.width - 2

	header := titleStyle.Render("ocmon live") +
		mutedStyle.Render("  "+m.now.Format("15:04:05"))

	var body string
	switch {
	case m.err != nil:
		body = warnStyle.Render("No session data: ") + m.err.Error()
	case m.status == nil:
		body = mutedStyle.Render("Waiting for first poll...")
	default:
		body = m.viewStatus(innerWidth)
	}

	divider := lipgloss.NewStyle().Foreground(colorPrimary).Render(strings.Repeat("─", innerWidth))
	helpBar := helpStyle.Render("q quit")

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		divider,
		body,
		divider,
		helpBar,
	)

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Width(innerWidth)
	return frame.Render(content)
}

func (m *Model) viewStatus(width int) string {
	st := m.status
	s := st.Session

	var lines []string
	row := func(label, value string) {
		lines = append(lines, labelStyle.Render(label)+valueStyle.Render(value))
	}

	row("Session", ansi.Truncate(s.DisplayTitle(), width-16, "..."))
	row("Project", s.ProjectName())
	row("Models", strings.Join(s.Models(), ", "))
	row("Interactions", fmt.Sprintf("%d", s.InteractionCount()))
	row("Tokens", fmt.Sprintf("%d", s.TotalTokens().Total()))
	row("Cost", "$"+st.Cost.StringFixed(2))
	row("Output rate", fmt.Sprintf("%.1f tok/s", st.OutputRate))

	lines = append(lines, "")
	lines = append(lines, labelStyle.Render("Activity")+m.viewActivity(st))
	lines = append(lines, labelStyle.Render("Context")+m.viewContext(st))
	lines = append(lines, labelStyle.Render("Session time")+m.viewSessionTime(s))
	if quota := m.viewQuota(st); quota != "" {
		lines = append(lines, labelStyle.Render("Quota")+quota)
	}

	if st.Stale {
		lines = append(lines, "")
		lines = append(lines, warnStyle.Render("! stale: last poll failed, showing previous snapshot"))
	}

	return strings.Join(lines, "\n")
}

func (m *Model) viewActivity(st *live.Status) string {
	label := st.Activity.String()
	since := "never"
	if st.LastActivity >= 0 {
		since = st.LastActivity.Round(time.Second).String() + " ago"
	}

	style := mutedStyle
	switch st.Activity {
	case live.ActivityActive:
		style = activeStyle
	case live.ActivityRecent:
		style = valueStyle
	case live.ActivityInactive:
		style = warnStyle
	}
	return style.Render(label) + mutedStyle.Render("  ("+since+")")
}

func (m *Model) viewContext(st *live.Status) string {
	ctx := st.Context
	if ctx.Window == 0 {
		return mutedStyle.Render("unknown")
	}
	bar := m.gauge.ViewAs(ctx.Percent / 100)
	return fmt.Sprintf("%s %5.1f%%  (%d / %d)", bar, ctx.Percent, ctx.Size, ctx.Window)
}

func (m *Model) viewSessionTime(s *session.SessionData) string {
	start, ok := s.StartTime()
	if !ok {
		return mutedStyle.Render("unknown")
	}
	elapsed := m.now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	pct := elapsed.Seconds() / sessionWindow.Seconds() * 100
	if pct > 100 {
		pct = 100
	}
	return fmt.Sprintf("%s of %s (%.0f%%)",
		elapsed.Round(time.Second), sessionWindow, pct)
}

// viewQuota reports cost against the model's session quota when the
// pricing table defines one for the most recent model.
func (m *Model) viewQuota(st *live.Status) string {
	if st.RecentFile == nil {
		return ""
	}
	mp, ok := m.table.Resolve(st.RecentFile.ModelID)
	if !ok || !mp.SessionQuota.IsPositive() {
		return ""
	}
	pct := st.Cost.Div(mp.SessionQuota).Mul(hundred)
	style := valueStyle
	if pct.GreaterThanOrEqual(hundred) {
		style = warnStyle
	}
	return style.Render(fmt.Sprintf("$%s of $%s (%s%%)",
		st.Cost.StringFixed(2), mp.SessionQuota.StringFixed(2), pct.StringFixed(0)))
}
