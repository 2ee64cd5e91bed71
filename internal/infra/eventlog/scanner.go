package eventlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spooldev/spool/internal/domain"
)

// maxLineSize bounds a single event line. Descriptions and comment
// bodies travel inside events, so allow generous lines.
const maxLineSize = 4 * 1024 * 1024

// ScanActive reads every active log file. Lines that fail to parse
// become parse diagnostics; they never abort the scan. Only I/O
// failures surface as errors.
func (l *Log) ScanActive() (*domain.ScanResult, error) {
	files, err := l.activeFiles()
	if err != nil {
		return nil, err
	}
	return scanFiles(files)
}

// ScanAll reads archive files followed by active files. Replay sorts by
// embedded keys, so the file order only affects diagnostic ordering.
func (l *Log) ScanAll() (*domain.ScanResult, error) {
	archive, err := l.archiveFiles()
	if err != nil {
		return nil, err
	}
	active, err := l.activeFiles()
	if err != nil {
		return nil, err
	}
	return scanFiles(append(archive, active...))
}

func scanFiles(paths []string) (*domain.ScanResult, error) {
	result := &domain.ScanResult{}
	for _, path := range paths {
		if err := scanFile(path, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func scanFile(path string, result *domain.ScanResult) error {
	f, err := os.Open(path) //nolint:gosec // paths come from our own directory listing
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	name := filepath.Base(path)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var ev domain.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			result.Diagnostics = append(result.Diagnostics, domain.Diagnostic{
				Category: domain.DiagParse,
				Severity: domain.SeverityError,
				File:     name,
				Line:     lineNo,
				Message:  fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		result.Events = append(result.Events, domain.SourcedEvent{
			Event: ev,
			File:  name,
			Line:  lineNo,
			Raw:   bytes.Clone(line),
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}
