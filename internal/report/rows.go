package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/valentindosimont/ocmon/internal/pricing"
	"github.com/valentindosimont/ocmon/internal/session"
	"github.com/valentindosimont/ocmon/internal/timeframe"
)

// Rows is a plain, row-oriented projection of a report: one header row
// and the data rows, ready for a terminal table, CSV, or JSON.
type Rows struct {
	Headers []string
	Rows    [][]string
}

const timeLayout = "2006-01-02 15:04"

func formatCount(n int) string {
	return strconv.Itoa(n)
}

// formatTokens renders a token count with thousands separators.
func formatTokens(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

func formatTime(t time.Time, ok bool) string {
	if !ok || t.IsZero() {
		return "-"
	}
	return t.Format(timeLayout)
}

func formatDuration(d time.Duration, ok bool) string {
	if !ok {
		return "-"
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// modelColumnLimit narrows the models column on small terminals.
func modelColumnLimit() int {
	if width := TerminalWidth(); width > 0 && width < 120 {
		return 20
	}
	return 40
}

func joinModels(models []string, limit int) string {
	out := ""
	for i, m := range models {
		if i > 0 {
			out += ", "
		}
		out += m
	}
	if runes := []rune(out); limit > 0 && len(runes) > limit {
		out = string(runes[:limit-3]) + "..."
	}
	return out
}

// SessionRows projects a session list into summary rows.
func SessionRows(sessions []*session.SessionData, table pricing.Table) Rows {
	rows := Rows{Headers: []string{
		"Session", "Project", "Models", "Interactions", "Tokens", "Cost", "Started", "Duration",
	}}
	for _, s := range sessions {
		start, hasStart := s.StartTime()
		dur, hasDur := s.Duration()
		rows.Rows = append(rows.Rows, []string{
			s.DisplayTitle(),
			s.ProjectName(),
			joinModels(s.Models(), modelColumnLimit()),
			formatCount(s.InteractionCount()),
			formatTokens(s.TotalTokens().Total()),
			"$" + table.SessionCost(s).StringFixed(2),
			formatTime(start, hasStart),
			formatDuration(dur, hasDur),
		})
	}
	return rows
}

// DailyRows projects daily buckets into rows.
func DailyRows(days []timeframe.DailyUsage, table pricing.Table) Rows {
	rows := Rows{Headers: []string{
		"Date", "Sessions", "Interactions", "Tokens", "Cost", "Models",
	}}
	for i := range days {
		d := &days[i]
		rows.Rows = append(rows.Rows, []string{
			d.Date.Format("2006-01-02"),
			formatCount(len(d.Sessions)),
			formatCount(d.TotalInteractions()),
			formatTokens(d.TotalTokens().Total()),
			"$" + d.TotalCost(table).StringFixed(2),
			joinModels(d.Models(), modelColumnLimit()),
		})
	}
	return rows
}

// WeeklyRows projects weekly buckets into rows.
func WeeklyRows(weeks []timeframe.WeeklyUsage, table pricing.Table) Rows {
	rows := Rows{Headers: []string{
		"Week", "Date Range", "Sessions", "Interactions", "Tokens", "Cost",
	}}
	for i := range weeks {
		w := &weeks[i]
		rows.Rows = append(rows.Rows, []string{
			fmt.Sprintf("%d-W%02d", w.Year, w.Week),
			fmt.Sprintf("%s - %s", w.StartDate.Format("2006-01-02"), w.EndDate.Format("2006-01-02")),
			formatCount(w.TotalSessions()),
			formatCount(w.TotalInteractions()),
			formatTokens(w.TotalTokens().Total()),
			"$" + w.TotalCost(table).StringFixed(2),
		})
	}
	return rows
}

// MonthlyRows projects monthly buckets into rows.
func MonthlyRows(months []timeframe.MonthlyUsage, table pricing.Table) Rows {
	rows := Rows{Headers: []string{
		"Month", "Sessions", "Interactions", "Tokens", "Cost",
	}}
	for i := range months {
		m := &months[i]
		rows.Rows = append(rows.Rows, []string{
			fmt.Sprintf("%d-%02d", m.Year, int(m.Month)),
			formatCount(m.TotalSessions()),
			formatCount(m.TotalInteractions()),
			formatTokens(m.TotalTokens().Total()),
			"$" + m.TotalCost(table).StringFixed(2),
		})
	}
	return rows
}

// ModelRows projects a model breakdown into rows.
func ModelRows(r timeframe.ModelReport) Rows {
	rows := Rows{Headers: []string{
		"Model", "Sessions", "Interactions", "Tokens", "Cost", "Output tok/s", "First Used", "Last Used",
	}}
	for i := range r.Models {
		m := &r.Models[i]
		rows.Rows = append(rows.Rows, []string{
			m.Model,
			formatCount(m.Sessions),
			formatCount(m.Interactions),
			formatTokens(m.Tokens.Total()),
			"$" + m.Cost.StringFixed(2),
			fmt.Sprintf("%.1f", m.OutputRate()),
			formatTime(m.FirstUsed, !m.FirstUsed.IsZero()),
			formatTime(m.LastUsed, !m.LastUsed.IsZero()),
		})
	}
	return rows
}

// ProjectRows projects a project breakdown into rows.
func ProjectRows(r timeframe.ProjectReport) Rows {
	rows := Rows{Headers: []string{
		"Project", "Sessions", "Interactions", "Tokens", "Cost", "Models",
	}}
	for i := range r.Projects {
		p := &r.Projects[i]
		rows.Rows = append(rows.Rows, []string{
			p.Project,
			formatCount(p.Sessions),
			formatCount(p.Interactions),
			formatTokens(p.Tokens.Total()),
			"$" + p.Cost.StringFixed(4),
			joinModels(p.Models, modelColumnLimit()),
		})
	}
	return rows
}

// BreakdownRows renders the per-model sub-rows used under period rows.
func BreakdownRows(stats []timeframe.SessionModelStats) [][]string {
	var out [][]string
	for i := range stats {
		m := &stats[i]
		out = append(out, []string{
			"  > " + m.Model,
			formatCount(m.Sessions),
			formatCount(m.Interactions),
			formatTokens(m.Tokens),
			"$" + m.Cost.StringFixed(2),
		})
	}
	return out
}
