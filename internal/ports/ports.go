// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The translator in internal/application depends only on these interfaces;
// the concrete adapters live under internal/infrastructure and are wired
// together in internal/app.
package ports

import (
	"context"

	"github.com/doeshing/wtf-go/internal/domain"
)

// ConfigStore loads and persists the configuration file.
type ConfigStore interface {
	Load(context.Context) (domain.Config, error)
	Persist(context.Context, domain.Config) error
}

// HistoryRepository is the append-only log of translation attempts.
type HistoryRepository interface {
	Append(prompt, command string, success bool, metadata map[string]interface{}) error
	Load() ([]domain.HistoryEntry, error)
}

// Provider turns free text into a shell command through one remote backend.
type Provider interface {
	Name() string
	BuildPrompt(text string) string
	GenerateShellCommand(ctx context.Context, text, model string) (string, error)
}

// ProviderFactory selects a Provider variant by name and binds it to an API key.
type ProviderFactory interface {
	Resolve(name string, cfg domain.Config) (Provider, error)
	Shell() string
}

// CommandExecutor runs shell commands in the user's shell.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// CommandReviewer inspects a command before the confirmation prompt.
type CommandReviewer interface {
	Review(command string) []domain.Finding
}

// ConfirmationPrompter asks the user before a command is executed.
type ConfirmationPrompter interface {
	Confirm(command string, findings []domain.Finding) (bool, error)
}

// Clipboard provides cross-platform clipboard integration for copying commands.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// Indicator shows that a slow operation is in progress. Stop must be safe to
// call more than once.
type Indicator interface {
	Start(message string)
	Stop()
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
