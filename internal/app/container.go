package app

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/doeshing/wtf-go/internal/application/doctor"
	"github.com/doeshing/wtf-go/internal/application/translate"
	"github.com/doeshing/wtf-go/internal/infrastructure/ai"
	"github.com/doeshing/wtf-go/internal/infrastructure/config"
	"github.com/doeshing/wtf-go/internal/infrastructure/executor"
	"github.com/doeshing/wtf-go/internal/infrastructure/history"
	"github.com/doeshing/wtf-go/internal/infrastructure/security"
	"github.com/doeshing/wtf-go/internal/pkg/filesystem"
	"github.com/doeshing/wtf-go/internal/pkg/logger"
	"github.com/doeshing/wtf-go/internal/ports"
)

// Options is the process-wide context the container is built from.
type Options struct {
	Paths   filesystem.Paths
	Verbose bool
	Timeout time.Duration

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Providers tunes the provider variants (endpoints, shell override).
	Providers ai.Options
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Paths            filesystem.Paths
	Logger           *logger.Zap
	ConfigStore      *config.FileStore
	HistoryStore     *history.FileStore
	Providers        *ai.Factory
	TranslateService *translate.Service
	DoctorService    *doctor.Service
}

// BuildContainer constructs the dependency graph. The caller owns Close.
func BuildContainer(_ context.Context, opts Options) (*Container, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if err := opts.Paths.Ensure(); err != nil {
		return nil, err
	}

	log, err := logger.New(opts.Paths.LogFile, opts.Verbose, opts.Stderr)
	if err != nil {
		return nil, err
	}

	cfgStore := config.NewFileStore(opts.Paths.ConfigFile, log)
	historyStore := history.NewFileStore(opts.Paths.HistoryFile)
	if err := historyStore.Ensure(); err != nil {
		_ = log.Close()
		return nil, err
	}

	factory := ai.NewFactory(opts.Providers, log)
	shell := factory.Shell()

	reviewers := []ports.CommandReviewer{executor.NewSyntaxChecker(shell)}
	guardrail, err := security.NewGuardrail(opts.Paths.GuardrailFile)
	if err != nil {
		log.Warn("ignoring guardrail rules", map[string]interface{}{"path": opts.Paths.GuardrailFile, "error": err.Error()})
		guardrail, err = security.NewGuardrail("")
		if err != nil {
			_ = log.Close()
			return nil, err
		}
	}
	reviewers = append([]ports.CommandReviewer{guardrail}, reviewers...)

	service := &translate.Service{
		Config:    cfgStore,
		Providers: factory,
		History:   historyStore,
		Executor:  executor.NewLocalExecutor(shell, opts.Stdin, opts.Stdout, opts.Stderr),
		Reviewers: reviewers,
		Logger:    log,
		Out:       opts.Stdout,
		Status:    opts.Stderr,
		Timeout:   opts.Timeout,
	}

	log.Debug("container ready", map[string]interface{}{
		"config_dir": opts.Paths.ConfigDir,
		"shell":      shell,
	})

	return &Container{
		Paths:            opts.Paths,
		Logger:           log,
		ConfigStore:      cfgStore,
		HistoryStore:     historyStore,
		Providers:        factory,
		TranslateService: service,
		DoctorService: &doctor.Service{
			Config:    cfgStore,
			History:   historyStore,
			Providers: factory,
		},
	}, nil
}

// Close flushes and closes the log file.
func (c *Container) Close() error {
	return c.Logger.Close()
}
