package live

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/valentindosimont/ocmon/internal/pricing"
	"github.com/valentindosimont/ocmon/internal/session"
)

func TestClassifyActivity(t *testing.T) {
	tests := []struct {
		since time.Duration
		want  Activity
	}{
		{10 * time.Second, ActivityActive},
		{59 * time.Second, ActivityActive},
		{time.Minute, ActivityRecent},
		{4 * time.Minute, ActivityRecent},
		{5 * time.Minute, ActivityIdle},
		{29 * time.Minute, ActivityIdle},
		{30 * time.Minute, ActivityInactive},
		{2 * time.Hour, ActivityInactive},
	}

	for _, tt := range tests {
		if got := ClassifyActivity(tt.since); got != tt.want {
			t.Errorf("ClassifyActivity(%v) = %v, want %v", tt.since, got, tt.want)
		}
	}
}

func TestContextWindowUsage(t *testing.T) {
	table := pricing.Table{
		"claude-opus-4.5": {ContextWindow: 100_000},
	}

	f := &session.InteractionFile{
		ModelID: "claude-opus-4.5",
		Tokens:  session.TokenUsage{Input: 20_000, CacheRead: 20_000, CacheWrite: 10_000, Output: 99_999},
	}
	usage := ContextWindowUsage(f, table)
	if usage.Size != 50_000 {
		t.Errorf("Size = %d, want 50000 (output excluded)", usage.Size)
	}
	if usage.Percent != 50 {
		t.Errorf("Percent = %v, want 50", usage.Percent)
	}

	// oversized usage caps at 100%
	f.Tokens.Input = 500_000
	usage = ContextWindowUsage(f, table)
	if usage.Percent != 100 {
		t.Errorf("Percent = %v, want capped at 100", usage.Percent)
	}

	// unknown model reports the default window with zero usage
	unknown := &session.InteractionFile{
		ModelID: "mystery",
		Tokens:  session.TokenUsage{Input: 100_000},
	}
	usage = ContextWindowUsage(unknown, table)
	if usage.Window != pricing.DefaultContextWindow {
		t.Errorf("Window = %d, want %d", usage.Window, pricing.DefaultContextWindow)
	}
	if usage.Size != 0 || usage.Percent != 0 {
		t.Errorf("Size/Percent = %d/%v, want 0/0 for a model without pricing", usage.Size, usage.Percent)
	}
}

func TestOutputRate(t *testing.T) {
	now := time.Now()
	mkFile := func(mod time.Time, output int64, secs int64) *session.InteractionFile {
		created := mod.Add(-time.Duration(secs) * time.Second).UnixMilli()
		completed := mod.UnixMilli()
		return &session.InteractionFile{
			Tokens:  session.TokenUsage{Output: output},
			Time:    &session.TimeData{Created: &created, Completed: &completed},
			ModTime: mod,
		}
	}

	s := &session.SessionData{
		Files: []*session.InteractionFile{
			mkFile(now.Add(-time.Minute), 300, 10),
			mkFile(now.Add(-2*time.Minute), 200, 10),
			// outside the five-minute window
			mkFile(now.Add(-10*time.Minute), 9_000, 10),
		},
	}

	rate := OutputRate(s, now)
	if rate != 25 {
		t.Errorf("OutputRate = %v, want 25 (500 tokens / 20s)", rate)
	}

	stale := &session.SessionData{
		Files: []*session.InteractionFile{mkFile(now.Add(-time.Hour), 100, 10)},
	}
	if rate := OutputRate(stale, now); rate != 0 {
		t.Errorf("OutputRate for stale session = %v, want 0", rate)
	}
}

func writeLiveSession(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	record := `{"modelID": "claude-opus-4.5", "tokens": {"input": 1000, "output": 500}}`
	if err := os.WriteFile(filepath.Join(dir, "a.json"), []byte(record), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir
}

func TestTrackerTick(t *testing.T) {
	root := t.TempDir()
	writeLiveSession(t, root, "ses_live")

	table := pricing.Table{
		"claude-opus-4.5": {
			Input:         decimal.NewFromInt(3),
			Output:        decimal.NewFromInt(15),
			ContextWindow: 200_000,
		},
	}
	tracker := NewTracker(session.NewLoader(root, ""), table)

	status, err := tracker.Tick(time.Now())
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if status.Session.ID != "ses_live" {
		t.Errorf("Session.ID = %q, want ses_live", status.Session.ID)
	}
	if status.Stale {
		t.Error("fresh snapshot marked stale")
	}
	if status.Activity != ActivityActive {
		t.Errorf("Activity = %v, want active for a just-written record", status.Activity)
	}
	if status.Cost.IsZero() {
		t.Error("Cost = 0, want positive")
	}
	if tracker.SessionID() != "ses_live" {
		t.Errorf("SessionID() = %q, want ses_live", tracker.SessionID())
	}
}

func TestTrackerTickSwitchesToNewerSession(t *testing.T) {
	root := t.TempDir()
	old := writeLiveSession(t, root, "ses_old")

	tracker := NewTracker(session.NewLoader(root, ""), pricing.Table{})
	status, err := tracker.Tick(time.Now())
	if err != nil {
		t.Fatalf("first Tick failed: %v", err)
	}
	if status.Session.ID != "ses_old" {
		t.Fatalf("Session.ID = %q, want ses_old", status.Session.ID)
	}

	// a newer session appears between polls
	writeLiveSession(t, root, "ses_new")
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	status, err = tracker.Tick(time.Now())
	if err != nil {
		t.Fatalf("second Tick failed: %v", err)
	}
	if status.Session.ID != "ses_new" {
		t.Errorf("Session.ID = %q, want ses_new after rotation", status.Session.ID)
	}
	if tracker.SessionID() != "ses_new" {
		t.Errorf("SessionID() = %q, want ses_new", tracker.SessionID())
	}
}

func TestTrackerTickStaleFallback(t *testing.T) {
	root := t.TempDir()
	dir := writeLiveSession(t, root, "ses_live")

	tracker := NewTracker(session.NewLoader(root, ""), pricing.Table{})
	if _, err := tracker.Tick(time.Now()); err != nil {
		t.Fatalf("first Tick failed: %v", err)
	}

	// storage disappears between polls
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove: %v", err)
	}

	status, err := tracker.Tick(time.Now())
	if err != nil {
		t.Fatalf("Tick after removal = %v, want stale snapshot", err)
	}
	if !status.Stale {
		t.Error("snapshot not marked stale after failed re-poll")
	}
	if status.Session.ID != "ses_live" {
		t.Errorf("stale snapshot session = %q, want ses_live", status.Session.ID)
	}
}

func TestTrackerTickNoData(t *testing.T) {
	tracker := NewTracker(session.NewLoader(filepath.Join(t.TempDir(), "none"), ""), pricing.Table{})
	if _, err := tracker.Tick(time.Now()); err == nil {
		t.Error("Tick with no data and no prior snapshot should fail")
	}
}
