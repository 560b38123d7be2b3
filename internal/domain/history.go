package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// HistoryEntry records one translation attempt.
type HistoryEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Prompt    string                 `json:"prompt"`
	Command   string                 `json:"command"`
	Success   bool                   `json:"success"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// Zone-less layouts written by the Python release of wtf (datetime.isoformat).
var localTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp accepts RFC 3339 and falls back to zone-less ISO 8601 in local time.
func ParseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err == nil {
		return ts, nil
	}
	for _, layout := range localTimestampLayouts {
		if local, lerr := time.ParseInLocation(layout, value, time.Local); lerr == nil {
			return local, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q: %w", value, err)
}

// UnmarshalJSON decodes an entry, accepting timestamps with or without a zone offset.
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	type plain HistoryEntry
	aux := struct {
		*plain
		Timestamp string `json:"timestamp"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Timestamp == "" {
		e.Timestamp = time.Time{}
		return nil
	}
	ts, err := ParseTimestamp(aux.Timestamp)
	if err != nil {
		return err
	}
	e.Timestamp = ts
	return nil
}

// Metadata keys written by the translator.
const (
	MetaProvider = "provider"
	MetaModel    = "model"
	MetaLatency  = "latency"
	MetaShell    = "shell"
	MetaExecuted = "executed"
	MetaExitCode = "exit_code"
	MetaError    = "error"
)

// MetaString returns metadata[key] formatted for display, or fallback when missing.
func (e HistoryEntry) MetaString(key, fallback string) string {
	value, ok := e.Metadata[key]
	if !ok || value == nil {
		return fallback
	}
	if s, ok := value.(string); ok {
		if s == "" {
			return fallback
		}
		return s
	}
	return fmt.Sprint(value)
}

// Latency returns the recorded latency in seconds, zero when absent.
func (e HistoryEntry) Latency() float64 {
	switch v := e.Metadata[MetaLatency].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// HistoryView is an entry annotated for display.
type HistoryView struct {
	Entry HistoryEntry
	When  string
}
