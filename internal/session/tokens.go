package session

import "time"

// TokenUsage holds the four billed token counters for one or more
// interactions. Values are always non-negative; aggregation copies and
// sums, it never mutates a shared instance.
type TokenUsage struct {
	Input      int64 `json:"input"`
	Output     int64 `json:"output"`
	CacheWrite int64 `json:"cache_write"`
	CacheRead  int64 `json:"cache_read"`
}

// Add returns the field-wise sum of t and other.
func (t TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		Input:      t.Input + other.Input,
		Output:     t.Output + other.Output,
		CacheWrite: t.CacheWrite + other.CacheWrite,
		CacheRead:  t.CacheRead + other.CacheRead,
	}
}

// Total returns the sum of all four counters.
func (t TokenUsage) Total() int64 {
	return t.Input + t.Output + t.CacheWrite + t.CacheRead
}

// TimeData holds the optional creation/completion timestamps of an
// interaction, as epoch milliseconds. A missing timestamp is distinct
// from zero: duration is undefined unless both ends are present.
type TimeData struct {
	Created   *int64 `json:"created"`
	Completed *int64 `json:"completed"`
}

// Duration returns completed-created when both timestamps are present.
func (td *TimeData) Duration() (time.Duration, bool) {
	if td == nil || td.Created == nil || td.Completed == nil {
		return 0, false
	}
	return time.Duration(*td.Completed-*td.Created) * time.Millisecond, true
}

// CreatedTime returns the creation timestamp in the local time zone.
func (td *TimeData) CreatedTime() (time.Time, bool) {
	if td == nil || td.Created == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*td.Created), true
}

// CompletedTime returns the completion timestamp in the local time zone.
func (td *TimeData) CompletedTime() (time.Time, bool) {
	if td == nil || td.Completed == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*td.Completed), true
}
