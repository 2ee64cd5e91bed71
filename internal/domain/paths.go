package domain

import "path/filepath"

// Store layout names. The store root is a .spool directory discovered by
// walking up from the working directory, so the log travels with the
// repository it lives in.
const (
	StoreDirName   = ".spool"
	EventsDirName  = "events"
	ArchiveDirName = "archive"
	IndexFileName  = ".index.json"
	StateFileName  = ".state.json"
	ConfigFileName = "config.toml"
	LogsDirName    = "logs"
	LogFileName    = "spool.log"
)

// EventsDir returns the active log directory under the store root.
func EventsDir(root string) string {
	return filepath.Join(root, EventsDirName)
}

// ArchiveDir returns the archive directory under the store root.
func ArchiveDir(root string) string {
	return filepath.Join(root, ArchiveDirName)
}

// IndexPath returns the index cache path under the store root.
func IndexPath(root string) string {
	return filepath.Join(root, IndexFileName)
}

// StatePath returns the state cache path under the store root.
func StatePath(root string) string {
	return filepath.Join(root, StateFileName)
}

// ConfigPath returns the repo config path under the store root.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFileName)
}

// LogPath returns the diagnostic log path under the store root.
func LogPath(root string) string {
	return filepath.Join(root, LogsDirName, LogFileName)
}
