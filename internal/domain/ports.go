package domain

import "time"

// Clock provides the current time. Injected so tests control timestamps.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

// Now returns the current UTC time.
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Identity resolves the author and branch stamped onto new events. Both
// arrive as already-resolved strings; how they were discovered (git
// config, HEAD, config override) is an infrastructure concern.
type Identity interface {
	Author() string
	Branch() string
}

// ScanResult is the outcome of reading a set of log files: every line
// that parsed, plus one diagnostic per line that did not. A scan never
// fails on content, only on I/O.
type ScanResult struct {
	Events      []SourcedEvent
	Diagnostics []Diagnostic
}

// EventLog is the append-only log of record.
type EventLog interface {
	// Append writes one event as a new line in the file for the event's
	// date. Existing lines are never rewritten.
	Append(ev Event) error

	// ScanActive reads every active log file.
	ScanActive() (*ScanResult, error)

	// ScanAll reads archive files followed by active files.
	ScanAll() (*ScanResult, error)
}

// TaskMove relocates one completed task's entire history into a monthly
// archive partition. Stamp is an archive event appended after the moved
// history so the partition survives replay.
// Fields are ordered to minimize memory padding.
type TaskMove struct {
	Stamp  Event
	TaskID string
	Month  string
}

// Archiver migrates task histories from active files into monthly
// archive partitions.
type Archiver interface {
	MoveToArchive(moves []TaskMove) error
}

// StateStore provides materialized state, transparently served from the
// cache when its input fingerprint still matches the log directory.
type StateStore interface {
	// Current returns cached state when fresh, otherwise replays and
	// rewrites the cache. Diagnostics are non-nil only after a replay.
	Current() (*State, *Index, []Diagnostic, error)

	// Rebuild unconditionally replays and rewrites the cache.
	Rebuild() (*State, *Index, []Diagnostic, error)
}

// StoreInitializer creates the on-disk store layout.
type StoreInitializer interface {
	Initialize() error
}

// ConfigLoader loads the merged configuration.
type ConfigLoader interface {
	Load() (*Config, error)
}

// Logger is the minimal logging interface used across layers.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// NopLogger discards everything. Used when no store directory exists.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, string) {}

// Info implements Logger.
func (NopLogger) Info(string, string) {}

// Warn implements Logger.
func (NopLogger) Warn(string, string) {}

// Error implements Logger.
func (NopLogger) Error(string, string) {}
