package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProviderNotFound is returned when a provider name is absent from the configuration.
var ErrProviderNotFound = errors.New("provider not configured")

// ErrAborted is returned when the user declines to run a generated command.
var ErrAborted = errors.New("aborted")

// ErrEmptyCommand is returned when a backend answers with no text.
var ErrEmptyCommand = errors.New("provider returned an empty command")

// UnknownProviderError reports a provider name with no backend implementation.
type UnknownProviderError struct {
	Name  string
	Known []string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("Unknown provider '%s'. Available providers: %s", e.Name, strings.Join(e.Known, ", "))
}

// NoAPIKeyError reports that neither the environment nor the file holds a key.
type NoAPIKeyError struct {
	Provider string
	EnvKey   string
}

func (e *NoAPIKeyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "No API key found for %s. You can set it by either:\n", e.Provider)
	if e.EnvKey != "" {
		fmt.Fprintf(&b, "1. Setting environment variable: export %s=sk-...\n", e.EnvKey)
	} else {
		b.WriteString("1. Setting env_key for the provider in the config file and exporting that variable\n")
	}
	fmt.Fprintf(&b, "2. Using config command: wtf-config set-key %s sk-...", e.Provider)
	return b.String()
}

// RemoteError is a non-success answer from a backend API.
type RemoteError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
}

// HistoryDecodeError reports a history file that exists but is not a JSON list of entries.
type HistoryDecodeError struct {
	Path string
	Err  error
}

func (e *HistoryDecodeError) Error() string {
	return fmt.Sprintf("decode history %s: %v", e.Path, e.Err)
}

func (e *HistoryDecodeError) Unwrap() error {
	return e.Err
}
