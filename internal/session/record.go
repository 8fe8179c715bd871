package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// InteractionFile is one parsed interaction record: a single unit of
// billed work inside a session directory.
type InteractionFile struct {
	Path        string
	SessionID   string
	ModelID     string
	Tokens      TokenUsage
	Time        *TimeData
	ProjectPath string

	// Raw is the verbatim record payload, kept for forward compatibility.
	// Aggregation never reinterprets it.
	Raw json.RawMessage

	// ModTime is the backing file's modification time at parse time.
	ModTime time.Time
}

// FileName returns the base name of the backing file.
func (f *InteractionFile) FileName() string {
	return filepath.Base(f.Path)
}

// ProjectName returns the base name of the record's project path, or
// "Unknown" when the record carries none.
func (f *InteractionFile) ProjectName() string {
	return projectNameOf(f.ProjectPath)
}

func projectNameOf(path string) string {
	if path == "" {
		return "Unknown"
	}
	if name := filepath.Base(path); name != "" && name != "." && name != string(filepath.Separator) {
		return name
	}
	return "Unknown"
}

// rawRecord mirrors the on-disk interaction schema. Every field is
// optional; absent token counts default to zero.
type rawRecord struct {
	ModelID string `json:"modelID"`
	Tokens  struct {
		Input  int64 `json:"input"`
		Output int64 `json:"output"`
		Cache  struct {
			Write int64 `json:"write"`
			Read  int64 `json:"read"`
		} `json:"cache"`
	} `json:"tokens"`
	Time *struct {
		Created   *int64 `json:"created"`
		Completed *int64 `json:"completed"`
	} `json:"time"`
	Path *struct {
		CWD  string `json:"cwd"`
		Root string `json:"root"`
	} `json:"path"`
}

// ParseInteractionFile reads one interaction record. Any read or parse
// failure, or a negative token counter, yields (nil, false); callers skip
// such files silently.
func ParseInteractionFile(path, sessionID string) (*InteractionFile, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}

	tokens := TokenUsage{
		Input:      raw.Tokens.Input,
		Output:     raw.Tokens.Output,
		CacheWrite: raw.Tokens.Cache.Write,
		CacheRead:  raw.Tokens.Cache.Read,
	}
	if tokens.Input < 0 || tokens.Output < 0 || tokens.CacheWrite < 0 || tokens.CacheRead < 0 {
		return nil, false
	}

	rec := &InteractionFile{
		Path:      path,
		SessionID: sessionID,
		ModelID:   CanonicalModelID(raw.ModelID),
		Tokens:    tokens,
		Raw:       json.RawMessage(data),
	}

	if raw.Time != nil {
		rec.Time = &TimeData{Created: raw.Time.Created, Completed: raw.Time.Completed}
	}
	if raw.Path != nil {
		if raw.Path.CWD != "" {
			rec.ProjectPath = raw.Path.CWD
		} else {
			rec.ProjectPath = raw.Path.Root
		}
	}
	if info, err := os.Stat(path); err == nil {
		rec.ModTime = info.ModTime()
	}

	return rec, true
}
