package live

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/valentindosimont/ocmon/internal/pricing"
	"github.com/valentindosimont/ocmon/internal/session"
)

// rateWindow is the trailing window for the output-rate calculation.
const rateWindow = 5 * time.Minute

// Activity classifies how recently the tracked session produced a record.
type Activity int

const (
	ActivityUnknown Activity = iota
	ActivityActive
	ActivityRecent
	ActivityIdle
	ActivityInactive
)

// String returns the display label for an activity class.
func (a Activity) String() string {
	switch a {
	case ActivityActive:
		return "active"
	case ActivityRecent:
		return "recent"
	case ActivityIdle:
		return "idle"
	case ActivityInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// ClassifyActivity maps the time since the last record modification to an
// activity class: <60s active, <5m recent, <30m idle, else inactive.
func ClassifyActivity(sinceLast time.Duration) Activity {
	switch {
	case sinceLast < time.Minute:
		return ActivityActive
	case sinceLast < 5*time.Minute:
		return ActivityRecent
	case sinceLast < 30*time.Minute:
		return ActivityIdle
	default:
		return ActivityInactive
	}
}

// ContextUsage describes how much of a model's context window the most
// recent interaction consumed.
type ContextUsage struct {
	Size    int64
	Window  int64
	Percent float64
}

// ContextWindowUsage computes context consumption for a record: input
// plus both cache categories against the model's context window, capped
// at 100%. A model with no pricing entry reports the default window with
// zero usage.
func ContextWindowUsage(f *session.InteractionFile, table pricing.Table) ContextUsage {
	p, ok := table[f.ModelID]
	if !ok {
		return ContextUsage{Window: pricing.DefaultContextWindow}
	}
	window := int64(pricing.DefaultContextWindow)
	if p.ContextWindow > 0 {
		window = p.ContextWindow
	}

	size := f.Tokens.Input + f.Tokens.CacheRead + f.Tokens.CacheWrite
	usage := ContextUsage{Size: size, Window: window}
	usage.Percent = float64(size) / float64(window) * 100
	if usage.Percent > 100 {
		usage.Percent = 100
	}
	return usage
}

// OutputRate returns output tokens per second of active processing time,
// over the records modified within the trailing five minutes. Zero when
// no record qualifies or no duration data exists.
func OutputRate(s *session.SessionData, now time.Time) float64 {
	cutoff := now.Add(-rateWindow)

	var outputTokens int64
	var duration time.Duration
	for _, f := range s.Files {
		if f.ModTime.Before(cutoff) {
			continue
		}
		outputTokens += f.Tokens.Output
		if d, ok := f.Time.Duration(); ok {
			duration += d
		}
	}

	secs := duration.Seconds()
	if outputTokens == 0 || secs <= 0 {
		return 0
	}
	return float64(outputTokens) / secs
}

// Status is one live snapshot of the most recently active session.
type Status struct {
	Session      *session.SessionData
	RecentFile   *session.InteractionFile
	Cost         decimal.Decimal
	OutputRate   float64
	LastActivity time.Duration
	Activity     Activity
	Context      ContextUsage

	// Stale marks a snapshot carried over from the previous tick after a
	// failed re-poll.
	Stale bool
}

// Tracker follows the most recently active session across ticks. Each
// tick re-resolves the session from disk, switching when a newer session
// appears and reloading when the current one grows.
type Tracker struct {
	loader  *session.Loader
	pricing pricing.Table

	last *Status
}

// NewTracker returns a Tracker over the given loader and pricing table.
func NewTracker(loader *session.Loader, table pricing.Table) *Tracker {
	return &Tracker{loader: loader, pricing: table}
}

// Tick resolves the current status. When the re-poll fails but an earlier
// snapshot exists, that snapshot is returned marked stale; the error is
// only surfaced when there is nothing to show at all.
func (t *Tracker) Tick(now time.Time) (*Status, error) {
	current, err := t.loader.MostRecent()
	if err != nil {
		if t.last != nil {
			stale := *t.last
			stale.Stale = true
			return &stale, nil
		}
		return nil, err
	}

	status := t.snapshot(current, now)
	t.last = status
	return status, nil
}

func (t *Tracker) snapshot(s *session.SessionData, now time.Time) *Status {
	status := &Status{
		Session:      s,
		Cost:         t.pricing.SessionCost(s),
		OutputRate:   OutputRate(s, now),
		LastActivity: -1,
	}

	if recent := s.MostRecentFile(); recent != nil {
		status.RecentFile = recent
		status.LastActivity = now.Sub(recent.ModTime)
		status.Activity = ClassifyActivity(status.LastActivity)
		status.Context = ContextWindowUsage(recent, t.pricing)
	}
	return status
}

// SessionID returns the id of the currently tracked session, or "" before
// the first successful tick.
func (t *Tracker) SessionID() string {
	if t.last == nil || t.last.Session == nil {
		return ""
	}
	return t.last.Session.ID
}
