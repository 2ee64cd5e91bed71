// Package eventlog implements the append-only log of record: one JSONL
// file per day under events/, monthly rollups under archive/. Files are
// merged by git like any other text, so nothing here may depend on
// physical line order.
package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spooldev/spool/internal/domain"
)

// Log reads and appends event files under a store root.
type Log struct {
	root string
}

// New creates a Log for the given store root (the .spool directory).
func New(root string) *Log {
	return &Log{root: root}
}

// Root returns the store root directory.
func (l *Log) Root() string {
	return l.root
}

// FindRoot walks up from dir looking for a .spool directory.
func FindRoot(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory: %w", err)
	}
	for {
		root := filepath.Join(current, domain.StoreDirName)
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			return root, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", domain.ErrNotInitialized
		}
		current = parent
	}
}

// gitignore shipped into new stores. The caches are derived and must
// never be committed; only the event logs are the source of truth.
const gitignoreContent = `# Derived files, rebuilt from events on demand.
` + domain.IndexFileName + `
` + domain.StateFileName + `

# Local diagnostics.
` + domain.LogsDirName + `/

# Temporary files from tooling.
*.tmp
*.bak
`

// Init creates the store layout under dir. Fails if it already exists.
func Init(dir string) (string, error) {
	root := filepath.Join(dir, domain.StoreDirName)
	if _, err := os.Stat(root); err == nil {
		return "", domain.ErrAlreadyInitialized
	}
	if err := os.MkdirAll(domain.EventsDir(root), 0o750); err != nil {
		return "", fmt.Errorf("create events directory: %w", err)
	}
	if err := os.MkdirAll(domain.ArchiveDir(root), 0o750); err != nil {
		return "", fmt.Errorf("create archive directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(gitignoreContent), 0o644); err != nil { //nolint:gosec // repo file, world-readable like any committed file
		return "", fmt.Errorf("write gitignore: %w", err)
	}
	return root, nil
}

// activeFiles returns the active log files in name order.
func (l *Log) activeFiles() ([]string, error) {
	return listJSONL(domain.EventsDir(l.root))
}

// archiveFiles returns the archive files in name order.
func (l *Log) archiveFiles() ([]string, error) {
	return listJSONL(domain.ArchiveDir(l.root))
}

func listJSONL(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	slices.Sort(files)
	return files, nil
}

// Ensure Log implements the port.
var _ domain.EventLog = (*Log)(nil)
