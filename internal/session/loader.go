package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoSessions reports that the storage root holds no loadable session:
// either the directory is missing, or no session directory yields a
// surviving record. Distinct from real I/O failures.
var ErrNoSessions = errors.New("no sessions found")

// sessionDirPrefix marks session directories under the storage root.
const sessionDirPrefix = "ses_"

// Loader discovers and loads sessions from an OpenCode storage tree.
// Root is the directory holding ses_* session directories; TitleDir is
// the per-project session-title store (a "session" folder whose project
// subdirectories hold <session_id>.json title files).
type Loader struct {
	Root     string
	TitleDir string
}

// NewLoader returns a Loader over the given message root and title store.
func NewLoader(root, titleDir string) *Loader {
	return &Loader{Root: root, TitleDir: titleDir}
}

// SessionDirs lists session directories under the root, most recently
// modified first. A missing root yields an empty list.
func (l *Loader) SessionDirs() []string {
	entries, err := os.ReadDir(l.Root)
	if err != nil {
		return nil
	}

	type dirEntry struct {
		path string
		mod  int64
	}
	var dirs []dirEntry
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), sessionDirPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		dirs = append(dirs, dirEntry{
			path: filepath.Join(l.Root, e.Name()),
			mod:  info.ModTime().UnixNano(),
		})
	}

	sort.SliceStable(dirs, func(i, j int) bool { return dirs[i].mod > dirs[j].mod })

	paths := make([]string, len(dirs))
	for i, d := range dirs {
		paths[i] = d.path
	}
	return paths
}

// jsonFiles lists the JSON files in a session directory, most recently
// modified first.
func jsonFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	type fileEntry struct {
		path string
		mod  int64
	}
	var files []fileEntry
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, fileEntry{
			path: filepath.Join(dir, e.Name()),
			mod:  info.ModTime().UnixNano(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool { return files[i].mod > files[j].mod })

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths
}

// Load reads a session directory into a SessionData. Unparseable records
// and records with zero total token usage are dropped; a directory with
// no surviving records loads as absent (nil, false).
func (l *Loader) Load(dir string) (*SessionData, bool) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, false
	}

	sessionID := filepath.Base(dir)
	var files []*InteractionFile
	for _, path := range jsonFiles(dir) {
		rec, ok := ParseInteractionFile(path, sessionID)
		if !ok || rec.Tokens.Total() <= 0 {
			continue
		}
		files = append(files, rec)
	}
	if len(files) == 0 {
		return nil, false
	}

	return &SessionData{
		ID:    sessionID,
		Path:  dir,
		Files: files,
		Title: l.lookupTitle(sessionID),
	}, true
}

// LoadAll loads every session under the root, most recent first. A limit
// of zero loads everything.
func (l *Loader) LoadAll(limit int) ([]*SessionData, error) {
	dirs := l.SessionDirs()
	if limit > 0 && len(dirs) > limit {
		dirs = dirs[:limit]
	}

	var sessions []*SessionData
	for _, dir := range dirs {
		if s, ok := l.Load(dir); ok {
			sessions = append(sessions, s)
		}
	}
	if len(sessions) == 0 {
		return nil, ErrNoSessions
	}
	return sessions, nil
}

// MostRecent loads the most recently modified session.
func (l *Loader) MostRecent() (*SessionData, error) {
	for _, dir := range l.SessionDirs() {
		if s, ok := l.Load(dir); ok {
			return s, nil
		}
		// The newest directory may hold only zero-usage records; older
		// directories do not count as "most recent".
		break
	}
	return nil, ErrNoSessions
}

// lookupTitle searches every project directory in the title store for a
// <session_id>.json file with a "title" field. Absence is not an error.
func (l *Loader) lookupTitle(sessionID string) string {
	if l.TitleDir == "" {
		return ""
	}
	entries, err := os.ReadDir(l.TitleDir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(l.TitleDir, e.Name(), sessionID+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var meta struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		if meta.Title != "" {
			return meta.Title
		}
	}
	return ""
}
