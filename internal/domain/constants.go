package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// FilePermissions is the permission for non-sensitive files (rw-r--r--)
	FilePermissions = 0o644
)

// Timeout and duration constants
const (
	// DefaultRequestTimeout bounds a single provider call
	DefaultRequestTimeout = 60 * time.Second
	// ProbeTimeout bounds helper processes used during shell detection
	ProbeTimeout = 2 * time.Second
	// LogFollowInterval is how often a followed log file is polled
	LogFollowInterval = 500 * time.Millisecond
)

// History constants
const (
	// MaxHistoryEntries is the most entries the history file keeps
	MaxHistoryEntries = 1000
	// DefaultHistoryLimit is the default number of history records or log lines to display
	DefaultHistoryLimit = 20
)

// Sampling constants shared by every backend
const (
	// SamplingTemperature keeps answers close to deterministic
	SamplingTemperature = 0.1
	// MaxResponseTokens caps the reply length where the API requires a cap
	MaxResponseTokens = 100
)

// RedactedValue replaces secrets in displayed output.
const RedactedValue = "********"

// Time formats
const (
	// DateFormat renders entries older than a week
	DateFormat = "2006-01-02"
)
