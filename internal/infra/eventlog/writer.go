package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spooldev/spool/internal/domain"
)

// Append writes the event as one line to the active file for the
// event's date. The write is append-only and synced before returning,
// so a crash mid-write leaves at worst one truncated trailing line,
// which the scanner treats as a single skippable malformed record.
// Concurrent appenders are not coordinated here; any interleaving is
// resolved at replay time by the ordering key.
func (l *Log) Append(ev domain.Event) error {
	line, err := ev.Encode()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	dir := domain.EventsDir(l.root)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create events directory: %w", err)
	}

	path := activeFilePath(l.root, ev.Timestamp)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec // log is repository content
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("append event: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

// activeFilePath returns the daily partition file for a timestamp.
func activeFilePath(root string, ts time.Time) string {
	name := ts.UTC().Format(time.DateOnly) + ".jsonl"
	return filepath.Join(domain.EventsDir(root), name)
}
