// Package translate turns one natural-language request into a shell command,
// delivers it, and records the attempt in the history log.
package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/doeshing/wtf-go/internal/domain"
	"github.com/doeshing/wtf-go/internal/ports"
)

// Service orchestrates the translation lifecycle end-to-end.
type Service struct {
	Config    ports.ConfigStore
	Providers ports.ProviderFactory
	History   ports.HistoryRepository
	Executor  ports.CommandExecutor
	Reviewers []ports.CommandReviewer
	Prompter  ports.ConfirmationPrompter
	Clipboard ports.Clipboard
	Indicator ports.Indicator
	Logger    ports.Logger

	// Out receives the generated command, Status everything else.
	Out    io.Writer
	Status io.Writer

	// Timeout bounds the provider call when positive.
	Timeout time.Duration
	Now     func() time.Time
}

// Run processes a single request. Every call that gets past dependency
// validation appends exactly one history entry.
func (s *Service) Run(ctx context.Context, req domain.TranslateRequest) (domain.TranslateResult, error) {
	if s.Config == nil || s.Providers == nil || s.History == nil || s.Logger == nil || s.Out == nil {
		return domain.TranslateResult{}, errors.New("translate.Service dependencies not satisfied")
	}
	defer s.stopIndicator()

	result := domain.TranslateResult{
		Prompt: req.Prompt(),
		Shell:  s.Providers.Shell(),
	}

	if err := s.run(ctx, req, &result); err != nil {
		s.Logger.Error("translation failed", err, map[string]interface{}{
			"prompt":   result.Prompt,
			"provider": result.Provider,
			"model":    result.Model,
		})
		s.record(result, err)
		return result, err
	}

	s.Logger.Info("generated command", map[string]interface{}{
		"command":  result.Command,
		"provider": result.Provider,
		"model":    result.Model,
		"latency":  result.Latency.String(),
	})
	s.record(result, nil)
	return result, nil
}

func (s *Service) run(ctx context.Context, req domain.TranslateRequest, result *domain.TranslateResult) error {
	if err := s.generate(ctx, req, result); err != nil {
		return err
	}
	if req.Execute {
		return s.execute(ctx, result)
	}
	return s.display(result)
}

// generate covers everything the working indicator is shown for.
func (s *Service) generate(ctx context.Context, req domain.TranslateRequest, result *domain.TranslateResult) error {
	start := s.now()
	if s.Indicator != nil {
		s.Indicator.Start("Thinking...")
	}
	defer s.stopIndicator()

	cfg, err := s.Config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	name := req.Provider
	if name == "" {
		name = cfg.DefaultProvider
	}
	result.Provider = name

	settings, err := cfg.ProviderConfig(name)
	if err != nil {
		return err
	}

	model := req.Model
	if model == "" {
		model = settings.DefaultModel
	}
	result.Model = model

	provider, err := s.Providers.Resolve(name, cfg)
	if err != nil {
		return err
	}

	callCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	s.Logger.Debug("calling provider", map[string]interface{}{
		"provider": name,
		"model":    model,
		"shell":    result.Shell,
	})
	command, err := provider.GenerateShellCommand(callCtx, result.Prompt, model)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("%s did not answer within %s: %w", name, s.Timeout, err)
		}
		return err
	}
	if command == "" {
		return domain.ErrEmptyCommand
	}

	result.Command = command
	result.Latency = s.now().Sub(start)
	return nil
}

func (s *Service) execute(ctx context.Context, result *domain.TranslateResult) error {
	if s.Executor == nil || s.Prompter == nil {
		return errors.New("execution requested but no executor is configured")
	}

	var findings []domain.Finding
	for _, reviewer := range s.Reviewers {
		findings = append(findings, reviewer.Review(result.Command)...)
	}

	ok, err := s.Prompter.Confirm(result.Command, findings)
	if err != nil {
		return fmt.Errorf("confirmation: %w", err)
	}
	if !ok {
		return domain.ErrAborted
	}

	s.Logger.Info("executing command", map[string]interface{}{"command": result.Command})
	s.status("Executing: %s\n", result.Command)

	execution, err := s.Executor.Execute(ctx, result.Command)
	if err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	result.Execution = &execution
	return nil
}

func (s *Service) display(result *domain.TranslateResult) error {
	if _, err := fmt.Fprintln(s.Out, result.Command); err != nil {
		return err
	}
	if s.Clipboard == nil || !s.Clipboard.Enabled() {
		return nil
	}
	if err := s.Clipboard.Copy(result.Command); err != nil {
		s.Logger.Debug("clipboard copy failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	result.Copied = true
	s.status("(copied to clipboard)\n")
	return nil
}

// record appends the attempt. A failing append is reported but never
// replaces the outcome of the run.
func (s *Service) record(result domain.TranslateResult, runErr error) {
	metadata := map[string]interface{}{}
	if result.Provider != "" {
		metadata[domain.MetaProvider] = result.Provider
	}
	if result.Model != "" {
		metadata[domain.MetaModel] = result.Model
	}
	if result.Shell != "" {
		metadata[domain.MetaShell] = result.Shell
	}
	if result.Latency > 0 {
		metadata[domain.MetaLatency] = math.Round(result.Latency.Seconds()*1000) / 1000
	}
	if result.Execution != nil {
		metadata[domain.MetaExecuted] = true
		metadata[domain.MetaExitCode] = result.Execution.ExitCode
	}
	if runErr != nil {
		metadata[domain.MetaError] = runErr.Error()
	}

	if err := s.History.Append(result.Prompt, result.Command, runErr == nil, metadata); err != nil {
		s.Logger.Warn("could not record history", map[string]interface{}{"error": err.Error()})
		s.status("warning: could not record history: %v\n", err)
	}
}

func (s *Service) stopIndicator() {
	if s.Indicator != nil {
		s.Indicator.Stop()
	}
}

func (s *Service) status(format string, args ...interface{}) {
	if s.Status == nil {
		return
	}
	fmt.Fprintf(s.Status, format, args...)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
