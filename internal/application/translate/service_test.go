package translate

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/wtf-go/internal/domain"
	"github.com/doeshing/wtf-go/internal/infrastructure/history"
	"github.com/doeshing/wtf-go/internal/pkg/logger"
	"github.com/doeshing/wtf-go/internal/ports"
)

func TestRunDisplaysCommandAndRecordsHistory(t *testing.T) {
	store := history.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	var out, status bytes.Buffer
	clip := &stubClipboard{enabled: true}
	indicator := &stubIndicator{}

	svc := &Service{
		Config:    stubConfigStore{cfg: domain.DefaultConfig()},
		Providers: &stubProviderFactory{provider: stubProvider{command: "ls"}},
		History:   store,
		Clipboard: clip,
		Indicator: indicator,
		Logger:    logger.NewNop(),
		Out:       &out,
		Status:    &status,
	}

	result, err := svc.Run(context.Background(), domain.TranslateRequest{Words: []string{"list", "files"}})
	require.NoError(t, err)
	assert.Equal(t, "ls\n", out.String())
	assert.Equal(t, "ls", clip.copied)
	assert.True(t, result.Copied)
	assert.Contains(t, status.String(), "(copied to clipboard)")
	assert.False(t, indicator.running)

	entries, err := store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Success)
	assert.Equal(t, "list files", entries[0].Prompt)
	assert.Equal(t, "ls", entries[0].Command)
	assert.Equal(t, "openai", entries[0].MetaString(domain.MetaProvider, ""))
	assert.Equal(t, "gpt-4o", entries[0].MetaString(domain.MetaModel, ""))
	assert.Equal(t, "bash", entries[0].MetaString(domain.MetaShell, ""))
}

func TestRunOverridesProviderAndModel(t *testing.T) {
	factory := &stubProviderFactory{provider: stubProvider{command: "df -h"}}
	provider := &recordingProvider{command: "df -h"}
	factory.provider = provider
	hist := &memoryHistory{}

	svc := &Service{
		Config:    stubConfigStore{cfg: domain.DefaultConfig()},
		Providers: factory,
		History:   hist,
		Logger:    logger.NewNop(),
		Out:       &bytes.Buffer{},
	}

	result, err := svc.Run(context.Background(), domain.TranslateRequest{
		Words:    []string{"disk", "usage"},
		Provider: "anthropic",
	})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", factory.resolved)
	assert.Equal(t, "claude-3-5-sonnet", provider.model)
	assert.Equal(t, "claude-3-5-sonnet", result.Model)

	_, err = svc.Run(context.Background(), domain.TranslateRequest{
		Words: []string{"disk"},
		Model: "gpt-4",
	})
	require.NoError(t, err)
	assert.Equal(t, "openai", factory.resolved)
	assert.Equal(t, "gpt-4", provider.model)
	assert.Len(t, hist.entries, 2)
}

func TestRunRecordsProviderFailure(t *testing.T) {
	hist := &memoryHistory{}
	indicator := &stubIndicator{}
	remote := &domain.RemoteError{Provider: "openai", StatusCode: 429, Message: "rate limited"}

	svc := &Service{
		Config:    stubConfigStore{cfg: domain.DefaultConfig()},
		Providers: &stubProviderFactory{provider: stubProvider{err: remote}},
		History:   hist,
		Indicator: indicator,
		Logger:    logger.NewNop(),
		Out:       &bytes.Buffer{},
	}

	_, err := svc.Run(context.Background(), domain.TranslateRequest{Words: []string{"list", "files"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, remote))
	assert.False(t, indicator.running)

	require.Len(t, hist.entries, 1)
	entry := hist.entries[0]
	assert.False(t, entry.Success)
	assert.Equal(t, "", entry.Command)
	assert.Equal(t, remote.Error(), entry.Metadata[domain.MetaError])
	assert.Equal(t, "openai", entry.Metadata[domain.MetaProvider])
}

func TestRunRecordsResolutionFailures(t *testing.T) {
	tests := []struct {
		name     string
		req      domain.TranslateRequest
		factory  *stubProviderFactory
		wantErr  func(error) bool
		wantText string
	}{
		{
			name:    "provider not configured",
			req:     domain.TranslateRequest{Words: []string{"x"}, Provider: "mistral"},
			factory: &stubProviderFactory{},
			wantErr: func(err error) bool { return errors.Is(err, domain.ErrProviderNotFound) },
		},
		{
			name:    "missing key",
			req:     domain.TranslateRequest{Words: []string{"x"}},
			factory: &stubProviderFactory{err: &domain.NoAPIKeyError{Provider: "openai", EnvKey: "OPENAI_API_KEY"}},
			wantErr: func(err error) bool {
				var noKey *domain.NoAPIKeyError
				return errors.As(err, &noKey)
			},
			wantText: "OPENAI_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hist := &memoryHistory{}
			svc := &Service{
				Config:    stubConfigStore{cfg: domain.DefaultConfig()},
				Providers: tt.factory,
				History:   hist,
				Logger:    logger.NewNop(),
				Out:       &bytes.Buffer{},
			}
			_, err := svc.Run(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, tt.wantErr(err), "unexpected error %v", err)

			require.Len(t, hist.entries, 1)
			assert.False(t, hist.entries[0].Success)
			assert.Contains(t, hist.entries[0].Metadata[domain.MetaError], tt.wantText)
		})
	}
}

func TestRunHistoryFailureDoesNotMaskError(t *testing.T) {
	var status bytes.Buffer
	svc := &Service{
		Config:    stubConfigStore{err: errors.New("disk on fire")},
		Providers: &stubProviderFactory{},
		History:   &memoryHistory{err: errors.New("history is read-only")},
		Logger:    logger.NewNop(),
		Out:       &bytes.Buffer{},
		Status:    &status,
	}

	_, err := svc.Run(context.Background(), domain.TranslateRequest{Words: []string{"x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Contains(t, status.String(), "history is read-only")
}

func TestRunExecutesAfterConfirmation(t *testing.T) {
	hist := &memoryHistory{}
	exec := &stubExecutor{result: domain.ExecutionResult{ExitCode: 2}}
	prompter := &stubPrompter{answer: true}
	var out, status bytes.Buffer

	svc := &Service{
		Config:    stubConfigStore{cfg: domain.DefaultConfig()},
		Providers: &stubProviderFactory{provider: stubProvider{command: "rm -rf /tmp/cache"}},
		History:   hist,
		Executor:  exec,
		Reviewers: []ports.CommandReviewer{stubReviewer{finding: domain.Finding{Level: domain.RiskHigh, Message: "recursive delete"}}},
		Prompter:  prompter,
		Clipboard: &stubClipboard{enabled: true},
		Logger:    logger.NewNop(),
		Out:       &out,
		Status:    &status,
	}

	result, err := svc.Run(context.Background(), domain.TranslateRequest{Words: []string{"clear", "cache"}, Execute: true})
	require.NoError(t, err)
	assert.Equal(t, "rm -rf /tmp/cache", exec.command)
	assert.Equal(t, "rm -rf /tmp/cache", prompter.command)
	require.Len(t, prompter.findings, 1)
	assert.Equal(t, "recursive delete", prompter.findings[0].Message)
	assert.Contains(t, status.String(), "Executing: rm -rf /tmp/cache")
	assert.Empty(t, out.String())
	require.NotNil(t, result.Execution)

	require.Len(t, hist.entries, 1)
	assert.True(t, hist.entries[0].Success)
	assert.Equal(t, true, hist.entries[0].Metadata[domain.MetaExecuted])
	assert.Equal(t, 2, hist.entries[0].Metadata[domain.MetaExitCode])
}

func TestRunDeclinedConfirmationAborts(t *testing.T) {
	hist := &memoryHistory{}
	exec := &stubExecutor{}

	svc := &Service{
		Config:    stubConfigStore{cfg: domain.DefaultConfig()},
		Providers: &stubProviderFactory{provider: stubProvider{command: "reboot"}},
		History:   hist,
		Executor:  exec,
		Prompter:  &stubPrompter{answer: false},
		Logger:    logger.NewNop(),
		Out:       &bytes.Buffer{},
	}

	_, err := svc.Run(context.Background(), domain.TranslateRequest{Words: []string{"restart"}, Execute: true})
	require.ErrorIs(t, err, domain.ErrAborted)
	assert.Empty(t, exec.command, "declined commands must not run")

	require.Len(t, hist.entries, 1)
	assert.False(t, hist.entries[0].Success)
	assert.Equal(t, "reboot", hist.entries[0].Command)
	assert.Equal(t, "aborted", hist.entries[0].Metadata[domain.MetaError])
}

func TestRunAppliesTimeout(t *testing.T) {
	hist := &memoryHistory{}
	svc := &Service{
		Config:    stubConfigStore{cfg: domain.DefaultConfig()},
		Providers: &stubProviderFactory{provider: blockingProvider{}},
		History:   hist,
		Logger:    logger.NewNop(),
		Out:       &bytes.Buffer{},
		Timeout:   10 * time.Millisecond,
	}

	_, err := svc.Run(context.Background(), domain.TranslateRequest{Words: []string{"slow"}})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "did not answer within")
	require.Len(t, hist.entries, 1)
}

func TestRunMeasuresLatency(t *testing.T) {
	hist := &memoryHistory{}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(1500 * time.Millisecond)}
	svc := &Service{
		Config:    stubConfigStore{cfg: domain.DefaultConfig()},
		Providers: &stubProviderFactory{provider: stubProvider{command: "pwd"}},
		History:   hist,
		Logger:    logger.NewNop(),
		Out:       &bytes.Buffer{},
		Now: func() time.Time {
			now := ticks[0]
			if len(ticks) > 1 {
				ticks = ticks[1:]
			}
			return now
		},
	}

	result, err := svc.Run(context.Background(), domain.TranslateRequest{Words: []string{"where", "am", "i"}})
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, result.Latency)
	assert.Equal(t, 1.5, hist.entries[0].Metadata[domain.MetaLatency])
}

type stubConfigStore struct {
	cfg domain.Config
	err error
}

func (s stubConfigStore) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

func (s stubConfigStore) Persist(context.Context, domain.Config) error {
	return nil
}

type stubProviderFactory struct {
	provider ports.Provider
	err      error
	resolved string
}

func (f *stubProviderFactory) Resolve(name string, _ domain.Config) (ports.Provider, error) {
	f.resolved = name
	if f.err != nil {
		return nil, f.err
	}
	return f.provider, nil
}

func (f *stubProviderFactory) Shell() string {
	return "bash"
}

type stubProvider struct {
	command string
	err     error
}

func (p stubProvider) Name() string                 { return "stub" }
func (p stubProvider) BuildPrompt(text string) string { return text }
func (p stubProvider) GenerateShellCommand(context.Context, string, string) (string, error) {
	return p.command, p.err
}

type recordingProvider struct {
	command string
	model   string
}

func (p *recordingProvider) Name() string                 { return "recording" }
func (p *recordingProvider) BuildPrompt(text string) string { return text }
func (p *recordingProvider) GenerateShellCommand(_ context.Context, _ string, model string) (string, error) {
	p.model = model
	return p.command, nil
}

type blockingProvider struct{}

func (blockingProvider) Name() string                 { return "blocking" }
func (blockingProvider) BuildPrompt(text string) string { return text }
func (blockingProvider) GenerateShellCommand(ctx context.Context, _, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type memoryHistory struct {
	entries []domain.HistoryEntry
	err     error
}

func (h *memoryHistory) Append(prompt, command string, success bool, metadata map[string]interface{}) error {
	if h.err != nil {
		return h.err
	}
	h.entries = append(h.entries, domain.HistoryEntry{
		Timestamp: time.Now(),
		Prompt:    prompt,
		Command:   command,
		Success:   success,
		Metadata:  metadata,
	})
	return nil
}

func (h *memoryHistory) Load() ([]domain.HistoryEntry, error) {
	return h.entries, h.err
}

type stubExecutor struct {
	result  domain.ExecutionResult
	command string
}

func (e *stubExecutor) Execute(_ context.Context, command string) (domain.ExecutionResult, error) {
	e.command = command
	return e.result, nil
}

type stubPrompter struct {
	answer   bool
	command  string
	findings []domain.Finding
}

func (p *stubPrompter) Confirm(command string, findings []domain.Finding) (bool, error) {
	p.command = command
	p.findings = findings
	return p.answer, nil
}

type stubReviewer struct {
	finding domain.Finding
}

func (r stubReviewer) Review(string) []domain.Finding {
	return []domain.Finding{r.finding}
}

type stubClipboard struct {
	enabled bool
	copied  string
}

func (c *stubClipboard) Copy(text string) error {
	c.copied = text
	return nil
}

func (c *stubClipboard) Enabled() bool {
	return c.enabled
}

type stubIndicator struct {
	running bool
}

func (i *stubIndicator) Start(string) { i.running = true }
func (i *stubIndicator) Stop()        { i.running = false }
