package timeframe

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/valentindosimont/ocmon/internal/pricing"
	"github.com/valentindosimont/ocmon/internal/session"
)

// DateRange restricts a breakdown to sessions whose start date falls
// within [Start, End] inclusive. Zero-value endpoints are open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the date d satisfies the range.
func (r DateRange) Contains(d time.Time) bool {
	if !r.Start.IsZero() && d.Before(dateOf(r.Start)) {
		return false
	}
	if !r.End.IsZero() && d.After(dateOf(r.End)) {
		return false
	}
	return true
}

// filterSessions applies the date range against session start dates. An
// empty range keeps everything; sessions without a start time are dropped
// once any bound is set.
func filterSessions(sessions []*session.SessionData, r DateRange) []*session.SessionData {
	if r.Start.IsZero() && r.End.IsZero() {
		return sessions
	}
	var kept []*session.SessionData
	for _, s := range sessions {
		start, ok := s.StartTime()
		if !ok {
			continue
		}
		if r.Contains(dateOf(start)) {
			kept = append(kept, s)
		}
	}
	return kept
}

// ModelUsageStats aggregates usage for one model across a session set.
type ModelUsageStats struct {
	Model        string
	Tokens       session.TokenUsage
	Sessions     int
	Interactions int
	Cost         decimal.Decimal
	Duration     time.Duration
	FirstUsed    time.Time
	LastUsed     time.Time
}

// OutputRate returns aggregate output tokens per second of active
// processing time, zero when no duration data exists.
func (m *ModelUsageStats) OutputRate() float64 {
	secs := m.Duration.Seconds()
	if secs <= 0 || m.Tokens.Output == 0 {
		return 0
	}
	return float64(m.Tokens.Output) / secs
}

// ModelReport is the model-keyed breakdown of a (possibly date-filtered)
// session set, sorted by cost descending.
type ModelReport struct {
	Range  DateRange
	Models []ModelUsageStats
}

// TotalCost sums model costs.
func (r *ModelReport) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Models {
		total = total.Add(r.Models[i].Cost)
	}
	return total
}

// TotalTokens sums token usage across models.
func (r *ModelReport) TotalTokens() session.TokenUsage {
	var total session.TokenUsage
	for i := range r.Models {
		total = total.Add(r.Models[i].Tokens)
	}
	return total
}

// ModelBreakdown builds per-model usage stats. Session membership is by
// distinct session id; interaction, token, and cost counts are per
// record. Equal costs retain encounter order.
func ModelBreakdown(sessions []*session.SessionData, table pricing.Table, r DateRange) ModelReport {
	filtered := filterSessions(sessions, r)

	stats := make(map[string]*ModelUsageStats)
	counted := make(map[string]map[string]bool)
	var order []string

	for _, s := range filtered {
		start, hasStart := s.StartTime()
		end, hasEnd := s.EndTime()

		for _, f := range s.Files {
			m, ok := stats[f.ModelID]
			if !ok {
				m = &ModelUsageStats{Model: f.ModelID, Cost: decimal.Zero}
				stats[f.ModelID] = m
				counted[f.ModelID] = make(map[string]bool)
				order = append(order, f.ModelID)
			}

			m.Tokens = m.Tokens.Add(f.Tokens)
			m.Interactions++
			m.Cost = m.Cost.Add(table.FileCost(f))
			if d, ok := f.Time.Duration(); ok {
				m.Duration += d
			}

			if !counted[f.ModelID][s.ID] {
				counted[f.ModelID][s.ID] = true
				m.Sessions++
				if hasStart && (m.FirstUsed.IsZero() || start.Before(m.FirstUsed)) {
					m.FirstUsed = start
				}
				if hasEnd && (m.LastUsed.IsZero() || end.After(m.LastUsed)) {
					m.LastUsed = end
				}
			}
		}
	}

	models := make([]ModelUsageStats, len(order))
	for i, name := range order {
		models[i] = *stats[name]
	}
	sort.SliceStable(models, func(i, j int) bool {
		return models[i].Cost.GreaterThan(models[j].Cost)
	})

	return ModelReport{Range: r, Models: models}
}

// ProjectUsageStats aggregates usage for one project across a session
// set.
type ProjectUsageStats struct {
	Project       string
	Tokens        session.TokenUsage
	Sessions      int
	Interactions  int
	Cost          decimal.Decimal
	Models        []string
	FirstActivity time.Time
	LastActivity  time.Time
}

// ProjectReport is the project-keyed breakdown, sorted by cost
// descending.
type ProjectReport struct {
	Range    DateRange
	Projects []ProjectUsageStats
}

// TotalCost sums project costs.
func (r *ProjectReport) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Projects {
		total = total.Add(r.Projects[i].Cost)
	}
	return total
}

// TotalTokens sums token usage across projects.
func (r *ProjectReport) TotalTokens() session.TokenUsage {
	var total session.TokenUsage
	for i := range r.Projects {
		total = total.Add(r.Projects[i].Tokens)
	}
	return total
}

// ProjectBreakdown builds per-project usage stats keyed by each session's
// project name. Equal costs retain encounter order.
func ProjectBreakdown(sessions []*session.SessionData, table pricing.Table, r DateRange) ProjectReport {
	filtered := filterSessions(sessions, r)

	stats := make(map[string]*ProjectUsageStats)
	modelSeen := make(map[string]map[string]bool)
	var order []string

	for _, s := range filtered {
		name := s.ProjectName()
		p, ok := stats[name]
		if !ok {
			p = &ProjectUsageStats{Project: name, Cost: decimal.Zero}
			stats[name] = p
			modelSeen[name] = make(map[string]bool)
			order = append(order, name)
		}

		p.Tokens = p.Tokens.Add(s.TotalTokens())
		p.Sessions++
		p.Interactions += s.InteractionCount()
		p.Cost = p.Cost.Add(table.SessionCost(s))
		for _, m := range s.Models() {
			if !modelSeen[name][m] {
				modelSeen[name][m] = true
				p.Models = append(p.Models, m)
			}
		}

		if start, ok := s.StartTime(); ok {
			if p.FirstActivity.IsZero() || start.Before(p.FirstActivity) {
				p.FirstActivity = start
			}
		}
		if end, ok := s.EndTime(); ok {
			if p.LastActivity.IsZero() || end.After(p.LastActivity) {
				p.LastActivity = end
			}
		}
	}

	projects := make([]ProjectUsageStats, len(order))
	for i, name := range order {
		projects[i] = *stats[name]
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Cost.GreaterThan(projects[j].Cost)
	})

	return ProjectReport{Range: r, Projects: projects}
}

// SessionModelStats is the per-model slice of a single session set, used
// for the --breakdown rows under daily/weekly/monthly tables.
type SessionModelStats struct {
	Model        string
	Sessions     int
	Interactions int
	Tokens       int64
	Cost         decimal.Decimal
}

// PerModel summarizes the given sessions by model, sorted by cost
// descending with encounter order preserved on ties.
func PerModel(sessions []*session.SessionData, table pricing.Table) []SessionModelStats {
	stats := make(map[string]*SessionModelStats)
	counted := make(map[string]map[string]bool)
	var order []string

	for _, s := range sessions {
		for _, f := range s.Files {
			m, ok := stats[f.ModelID]
			if !ok {
				m = &SessionModelStats{Model: f.ModelID, Cost: decimal.Zero}
				stats[f.ModelID] = m
				counted[f.ModelID] = make(map[string]bool)
				order = append(order, f.ModelID)
			}
			counted[f.ModelID][s.ID] = true
			m.Sessions = len(counted[f.ModelID])
			m.Interactions++
			m.Tokens += f.Tokens.Total()
			m.Cost = m.Cost.Add(table.FileCost(f))
		}
	}

	result := make([]SessionModelStats, len(order))
	for i, name := range order {
		result[i] = *stats[name]
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Cost.GreaterThan(result[j].Cost)
	})
	return result
}
