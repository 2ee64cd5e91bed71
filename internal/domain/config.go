package domain

// Config is the merged spool configuration. All fields are optional;
// zero values fall back to defaults or discovered values.
type Config struct {
	// Author overrides the git-derived author stamp.
	Author string `toml:"author"`

	// LogLevel is debug, info, warn or error (default info).
	LogLevel string `toml:"log_level"`

	List    ListConfig    `toml:"list"`
	Archive ArchiveConfig `toml:"archive"`
}

// ListConfig holds list command defaults.
type ListConfig struct {
	// Status is the default status filter: open, complete or all.
	Status string `toml:"status"`
}

// ArchiveConfig holds archive command defaults.
type ArchiveConfig struct {
	// Days is the default completion age before archival.
	Days int `toml:"days"`
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		List:     ListConfig{Status: "open"},
		Archive:  ArchiveConfig{Days: 30},
	}
}
