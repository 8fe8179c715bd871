package session

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRecord(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write record: %v", err)
	}
	return path
}

func TestParseInteractionFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeRecord(t, tmpDir, "msg_001.json", `{
		"modelID": "claude-opus-4-5-20251101",
		"tokens": {"input": 100, "output": 50, "cache": {"write": 200, "read": 300}},
		"time": {"created": 1700000000000, "completed": 1700000060000},
		"path": {"cwd": "/home/user/projects/webapp", "root": "/home/user"}
	}`)

	rec, ok := ParseInteractionFile(path, "ses_abc")
	if !ok {
		t.Fatal("ParseInteractionFile returned false for a valid record")
	}

	if rec.ModelID != "claude-opus-4.5" {
		t.Errorf("ModelID = %q, want %q", rec.ModelID, "claude-opus-4.5")
	}
	if rec.SessionID != "ses_abc" {
		t.Errorf("SessionID = %q, want %q", rec.SessionID, "ses_abc")
	}
	want := TokenUsage{Input: 100, Output: 50, CacheWrite: 200, CacheRead: 300}
	if rec.Tokens != want {
		t.Errorf("Tokens = %+v, want %+v", rec.Tokens, want)
	}
	if rec.ProjectName() != "webapp" {
		t.Errorf("ProjectName() = %q, want %q", rec.ProjectName(), "webapp")
	}
	if d, ok := rec.Time.Duration(); !ok || d.Seconds() != 60 {
		t.Errorf("Duration() = %v, %v, want 60s, true", d, ok)
	}
	if rec.ModTime.IsZero() {
		t.Error("ModTime not populated")
	}
}

func TestParseInteractionFileDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeRecord(t, tmpDir, "empty.json", `{}`)

	rec, ok := ParseInteractionFile(path, "ses_abc")
	if !ok {
		t.Fatal("ParseInteractionFile returned false for an empty record")
	}

	if rec.ModelID != "unknown" {
		t.Errorf("ModelID = %q, want %q", rec.ModelID, "unknown")
	}
	if rec.Tokens.Total() != 0 {
		t.Errorf("Tokens.Total() = %d, want 0", rec.Tokens.Total())
	}
	if rec.ProjectName() != "Unknown" {
		t.Errorf("ProjectName() = %q, want %q", rec.ProjectName(), "Unknown")
	}
	if _, ok := rec.Time.Duration(); ok {
		t.Error("Duration() resolvable without timestamps")
	}
}

func TestParseInteractionFileRootFallback(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeRecord(t, tmpDir, "rec.json", `{
		"tokens": {"input": 1},
		"path": {"root": "/srv/api-server"}
	}`)

	rec, ok := ParseInteractionFile(path, "ses_abc")
	if !ok {
		t.Fatal("ParseInteractionFile returned false")
	}
	if rec.ProjectName() != "api-server" {
		t.Errorf("ProjectName() = %q, want %q", rec.ProjectName(), "api-server")
	}
}

func TestParseInteractionFileRejects(t *testing.T) {
	tmpDir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", `{"modelID": `},
		{"not json", `hello`},
		{"negative tokens", `{"tokens": {"input": -5}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRecord(t, tmpDir, tt.name+".json", tt.content)
			if _, ok := ParseInteractionFile(path, "ses_abc"); ok {
				t.Error("ParseInteractionFile accepted an invalid record")
			}
		})
	}

	if _, ok := ParseInteractionFile(filepath.Join(tmpDir, "missing.json"), "ses_abc"); ok {
		t.Error("ParseInteractionFile accepted a missing file")
	}
}
