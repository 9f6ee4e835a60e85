package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/joescharf/ccname/internal/models"
)

// maxLineSize bounds a single transcript line. Session files can carry large
// tool outputs on one line.
const maxLineSize = 10 * 1024 * 1024

// JSONLStore implements Store over the host's projects directory, where each
// project is a directory of <session-id>.jsonl transcript files. Display
// names live inside the transcripts as custom-title records; renaming appends
// a new record rather than editing the file.
type JSONLStore struct {
	root string
}

// NewJSONLStore creates a store rooted at the host projects directory
// (normally ~/.claude/projects).
func NewJSONLStore(root string) *JSONLStore {
	return &JSONLStore{root: root}
}

// titleRecord is the transcript record the host reads display names from.
type titleRecord struct {
	Type        string `json:"type"`
	CustomTitle string `json:"customTitle"`
	SessionID   string `json:"sessionId"`
}

// metaLine is the subset of transcript records relevant to naming.
type metaLine struct {
	Type        string `json:"type"`
	CustomTitle string `json:"customTitle"`
	Summary     string `json:"summary"`
}

// EncodeProjectPath converts a working-directory path into the host's
// project directory name (path separators become dashes).
func EncodeProjectPath(cwd string) string {
	return strings.ReplaceAll(cwd, "/", "-")
}

func (s *JSONLStore) projectDir(cwd string) string {
	return filepath.Join(s.root, EncodeProjectPath(cwd))
}

// ListSessions returns the sessions recorded for cwd's project. A missing
// project directory is an empty project, not an error; an unreadable one is
// ErrStoreUnavailable.
func (s *JSONLStore) ListSessions(ctx context.Context, cwd string) ([]*models.Session, error) {
	dir := s.projectDir(cwd)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrStoreUnavailable, dir, err)
	}
	return s.readSessions(ctx, filepath.Base(dir), dir, entries)
}

// ListAllSessions walks every project directory under the root, keeping
// those whose name contains filter.
func (s *JSONLStore) ListAllSessions(ctx context.Context, filter string) ([]*models.Session, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStoreUnavailable, s.root, err)
	}

	var all []*models.Session
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		if filter != "" && !strings.Contains(entry.Name(), filter) {
			continue
		}
		dir := filepath.Join(s.root, entry.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		sessions, err := s.readSessions(ctx, entry.Name(), dir, files)
		if err != nil {
			return nil, err
		}
		all = append(all, sessions...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Modified.After(all[j].Modified)
	})
	return all, nil
}

func (s *JSONLStore) readSessions(ctx context.Context, project, dir string, entries []os.DirEntry) ([]*models.Session, error) {
	var sessions []*models.Session
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".jsonl")
		// Subagent transcripts share the directory but are not sessions;
		// real session files are named by UUID.
		if strings.HasPrefix(id, "agent-") || uuid.Validate(id) != nil {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		sess := &models.Session{
			ID:         id,
			ProjectDir: project,
			Path:       path,
		}
		if info, err := entry.Info(); err == nil {
			sess.Modified = info.ModTime()
		}
		if err := scanNames(path, sess); err != nil {
			// One unreadable transcript does not fail the enumeration.
			continue
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// scanNames fills sess with the last custom-title and summary records found
// in the transcript at path. Malformed lines are skipped.
func scanNames(path string, sess *models.Session) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var meta metaLine
		if err := json.Unmarshal(line, &meta); err != nil {
			continue
		}
		switch meta.Type {
		case "custom-title":
			sess.CustomTitle = meta.CustomTitle
		case "summary":
			sess.Summary = meta.Summary
		}
	}
	return scanner.Err()
}

// RenameSession appends a custom-title record to the session's transcript.
func (s *JSONLStore) RenameSession(ctx context.Context, cwd, id, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.projectDir(cwd), id+".jsonl")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return fmt.Errorf("%w: stat %s: %v", ErrStoreUnavailable, path, err)
	}

	record := titleRecord{
		Type:        "custom-title",
		CustomTitle: name,
		SessionID:   id,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal rename record: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrStoreUnavailable, path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStoreUnavailable, path, err)
	}
	return nil
}
