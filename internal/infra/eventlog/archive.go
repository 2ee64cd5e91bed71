package eventlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spooldev/spool/internal/domain"
)

// Ensure Log implements the archiver port.
var _ domain.Archiver = (*Log)(nil)

// MoveToArchive migrates the given tasks out of the active files.
// Moved lines are carried byte for byte so unknown fields and unknown
// operation types survive. Remaining lines keep their relative order.
// All new content is written to temporary files first; the directory is
// only updated once every temporary write succeeded, so a failure
// partway leaves the original files untouched.
func (l *Log) MoveToArchive(moves []domain.TaskMove) error {
	if len(moves) == 0 {
		return nil
	}

	byTask := make(map[string]domain.TaskMove, len(moves))
	for _, m := range moves {
		byTask[m.TaskID] = m
	}

	scan, err := l.ScanActive()
	if err != nil {
		return err
	}

	// Histories to move, canonical order within each task.
	movedEvents := make(map[string][]domain.SourcedEvent)
	for _, ev := range scan.Events {
		if _, ok := byTask[ev.Event.TaskID]; ok {
			movedEvents[ev.Event.TaskID] = append(movedEvents[ev.Event.TaskID], ev)
		}
	}
	for _, group := range movedEvents {
		slices.SortStableFunc(group, domain.CompareSourcedEvents)
	}

	archiveContent, err := l.composeArchives(moves, movedEvents)
	if err != nil {
		return err
	}

	rewrites, err := l.composeActiveRewrites(byTask)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(domain.ArchiveDir(l.root), 0o750); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	// Stage everything, then flip. Renames are the only in-place step.
	var temps []string
	cleanup := func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}

	type staged struct{ tmp, final string }
	var stagedFiles []staged

	for month, content := range sortedKeys(archiveContent) {
		final := filepath.Join(domain.ArchiveDir(l.root), month+".jsonl")
		tmp := final + ".tmp"
		if err := writeFileSynced(tmp, content); err != nil {
			cleanup()
			return err
		}
		temps = append(temps, tmp)
		stagedFiles = append(stagedFiles, staged{tmp: tmp, final: final})
	}

	for path, content := range sortedKeys(rewrites) {
		tmp := path + ".tmp"
		if err := writeFileSynced(tmp, content); err != nil {
			cleanup()
			return err
		}
		temps = append(temps, tmp)
		stagedFiles = append(stagedFiles, staged{tmp: tmp, final: path})
	}

	for _, s := range stagedFiles {
		if err := os.Rename(s.tmp, s.final); err != nil {
			cleanup()
			return fmt.Errorf("replace %s: %w", s.final, err)
		}
	}
	return nil
}

// composeArchives builds the full new content of every touched archive
// file: existing lines plus the moved histories, each terminated by its
// archive stamp.
func (l *Log) composeArchives(moves []domain.TaskMove, movedEvents map[string][]domain.SourcedEvent) (map[string][]byte, error) {
	ordered := slices.Clone(moves)
	slices.SortFunc(ordered, func(a, b domain.TaskMove) int {
		if a.Month != b.Month {
			return strings.Compare(a.Month, b.Month)
		}
		return strings.Compare(a.TaskID, b.TaskID)
	})

	content := make(map[string][]byte)
	for _, m := range ordered {
		buf, ok := content[m.Month]
		if !ok {
			existing, err := os.ReadFile(filepath.Join(domain.ArchiveDir(l.root), m.Month+".jsonl")) //nolint:gosec // path derived from YYYY-MM
			if err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read archive file: %w", err)
			}
			buf = existing
		}

		for _, ev := range movedEvents[m.TaskID] {
			buf = append(buf, ev.Raw...)
			buf = append(buf, '\n')
		}
		stamp, err := m.Stamp.Encode()
		if err != nil {
			return nil, fmt.Errorf("encode archive stamp: %w", err)
		}
		buf = append(buf, stamp...)
		buf = append(buf, '\n')
		content[m.Month] = buf
	}
	return content, nil
}

// composeActiveRewrites builds the new content of every active file
// that loses lines. Lines are kept verbatim, malformed ones included,
// preserving the relative order of everything that stays.
func (l *Log) composeActiveRewrites(byTask map[string]domain.TaskMove) (map[string][]byte, error) {
	files, err := l.activeFiles()
	if err != nil {
		return nil, err
	}

	rewrites := make(map[string][]byte)
	for _, path := range files {
		kept, changed, err := filterFile(path, byTask)
		if err != nil {
			return nil, err
		}
		if changed {
			rewrites[path] = kept
		}
	}
	return rewrites, nil
}

// filterFile returns the file content minus lines whose task_id is
// being moved. A line that does not parse keeps its place.
func filterFile(path string, byTask map[string]domain.TaskMove) (kept []byte, changed bool, err error) {
	f, err := os.Open(path) //nolint:gosec // paths come from our own directory listing
	if err != nil {
		return nil, false, fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 0 {
			var probe struct {
				TaskID string `json:"task_id"`
			}
			if json.Unmarshal(trimmed, &probe) == nil {
				if _, moved := byTask[probe.TaskID]; moved {
					changed = true
					continue
				}
			}
		}
		kept = append(kept, line...)
		kept = append(kept, '\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return kept, changed, nil
}

func writeFileSynced(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644) //nolint:gosec // log is repository content
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return nil
}

// sortedKeys iterates a map in key order.
func sortedKeys[V any](m map[string]V) func(func(string, V) bool) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return func(yield func(string, V) bool) {
		for _, k := range keys {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}
