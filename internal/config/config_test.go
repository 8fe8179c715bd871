package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.UI.RefreshIntervalSeconds != 5 {
		t.Errorf("RefreshIntervalSeconds = %d, want 5", cfg.UI.RefreshIntervalSeconds)
	}
	if cfg.Analytics.WeekStartDay != 0 {
		t.Errorf("WeekStartDay = %d, want 0 (Monday)", cfg.Analytics.WeekStartDay)
	}
	if cfg.Analytics.RecentSessionsLimit != 50 {
		t.Errorf("RecentSessionsLimit = %d, want 50", cfg.Analytics.RecentSessionsLimit)
	}
	if cfg.Export.DefaultFormat != "csv" {
		t.Errorf("DefaultFormat = %q, want csv", cfg.Export.DefaultFormat)
	}
	if !strings.HasSuffix(cfg.Paths.StorageDir, filepath.Join("opencode", "storage")) {
		t.Errorf("StorageDir = %q, want opencode/storage suffix", cfg.Paths.StorageDir)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load on missing file = %v, want defaults", err)
	}
	if cfg.UI.RefreshIntervalSeconds != 5 {
		t.Errorf("RefreshIntervalSeconds = %d, want default 5", cfg.UI.RefreshIntervalSeconds)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
paths:
  storage_dir: /data/opencode/storage
ui:
  refresh_interval_seconds: 2
analytics:
  week_start_day: 6
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Paths.StorageDir != "/data/opencode/storage" {
		t.Errorf("StorageDir = %q, want /data/opencode/storage", cfg.Paths.StorageDir)
	}
	if cfg.UI.RefreshIntervalSeconds != 2 {
		t.Errorf("RefreshIntervalSeconds = %d, want 2", cfg.UI.RefreshIntervalSeconds)
	}
	if cfg.Analytics.WeekStartDay != 6 {
		t.Errorf("WeekStartDay = %d, want 6", cfg.Analytics.WeekStartDay)
	}
	// untouched keys keep their defaults
	if cfg.Export.DefaultFormat != "csv" {
		t.Errorf("DefaultFormat = %q, want default csv", cfg.Export.DefaultFormat)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("paths: ["), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted a malformed config file")
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.StorageDir = "/srv/storage"

	if cfg.MessagesDir() != filepath.Join("/srv/storage", "message") {
		t.Errorf("MessagesDir() = %q", cfg.MessagesDir())
	}
	if cfg.TitleDir() != filepath.Join("/srv/storage", "session") {
		t.Errorf("TitleDir() = %q", cfg.TitleDir())
	}
}

func TestRefreshIntervalFloor(t *testing.T) {
	cfg := Default()
	cfg.UI.RefreshIntervalSeconds = 0
	if cfg.RefreshInterval() != time.Second {
		t.Errorf("RefreshInterval() = %v, want 1s floor", cfg.RefreshInterval())
	}
	cfg.UI.RefreshIntervalSeconds = 3
	if cfg.RefreshInterval() != 3*time.Second {
		t.Errorf("RefreshInterval() = %v, want 3s", cfg.RefreshInterval())
	}
}
