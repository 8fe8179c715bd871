package session

import (
	"time"
)

// maxTitleRunes is the display cutoff for session titles.
const maxTitleRunes = 50

// SessionData is one continuous interaction with the assistant: a session
// directory and its surviving interaction records, in discovery order.
// All aggregates are derived on demand.
type SessionData struct {
	ID    string
	Path  string
	Files []*InteractionFile

	// Title is the human-readable session title, when the title store has
	// one. Empty otherwise.
	Title string
}

// Models returns the distinct model identifiers used in this session, in
// first-encounter order.
func (s *SessionData) Models() []string {
	var models []string
	seen := make(map[string]bool)
	for _, f := range s.Files {
		if !seen[f.ModelID] {
			seen[f.ModelID] = true
			models = append(models, f.ModelID)
		}
	}
	return models
}

// TotalTokens sums token usage across all records.
func (s *SessionData) TotalTokens() TokenUsage {
	var total TokenUsage
	for _, f := range s.Files {
		total = total.Add(f.Tokens)
	}
	return total
}

// InteractionCount returns the number of records in the session.
func (s *SessionData) InteractionCount() int {
	return len(s.Files)
}

// StartTime returns the earliest record creation time.
func (s *SessionData) StartTime() (time.Time, bool) {
	var start time.Time
	found := false
	for _, f := range s.Files {
		if t, ok := f.Time.CreatedTime(); ok {
			if !found || t.Before(start) {
				start = t
				found = true
			}
		}
	}
	return start, found
}

// EndTime returns the latest record completion time.
func (s *SessionData) EndTime() (time.Time, bool) {
	var end time.Time
	found := false
	for _, f := range s.Files {
		if t, ok := f.Time.CompletedTime(); ok {
			if !found || t.After(end) {
				end = t
				found = true
			}
		}
	}
	return end, found
}

// Duration returns end-start when both are resolvable.
func (s *SessionData) Duration() (time.Duration, bool) {
	start, ok := s.StartTime()
	if !ok {
		return 0, false
	}
	end, ok := s.EndTime()
	if !ok {
		return 0, false
	}
	return end.Sub(start), true
}

// ProcessingTime sums the active processing duration of every record that
// carries both timestamps.
func (s *SessionData) ProcessingTime() time.Duration {
	var total time.Duration
	for _, f := range s.Files {
		if d, ok := f.Time.Duration(); ok {
			total += d
		}
	}
	return total
}

// ProjectName returns the most frequent project path's base name across
// the session's records. Equally frequent paths tie-break by first
// encounter; sessions with no project paths report "Unknown".
func (s *SessionData) ProjectName() string {
	counts := make(map[string]int)
	var order []string
	for _, f := range s.Files {
		if f.ProjectPath == "" {
			continue
		}
		if counts[f.ProjectPath] == 0 {
			order = append(order, f.ProjectPath)
		}
		counts[f.ProjectPath]++
	}
	if len(order) == 0 {
		return "Unknown"
	}
	best := order[0]
	for _, path := range order[1:] {
		if counts[path] > counts[best] {
			best = path
		}
	}
	return projectNameOf(best)
}

// MostRecentFile returns the record with the latest file modification
// time, or nil for an empty session.
func (s *SessionData) MostRecentFile() *InteractionFile {
	var recent *InteractionFile
	for _, f := range s.Files {
		if recent == nil || f.ModTime.After(recent.ModTime) {
			recent = f
		}
	}
	return recent
}

// DisplayTitle returns the session title for display, falling back to the
// session ID. Either form is truncated past 50 runes.
func (s *SessionData) DisplayTitle() string {
	if s.Title != "" {
		return truncateTitle(s.Title)
	}
	return truncateTitle(s.ID)
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleRunes {
		return title
	}
	return string(runes[:maxTitleRunes-3]) + "..."
}
