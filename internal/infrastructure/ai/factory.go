package ai

import (
	"net/http"
	"sort"

	"github.com/samber/lo"

	"github.com/doeshing/wtf-go/internal/domain"
	"github.com/doeshing/wtf-go/internal/ports"
)

// Options configures the provider variants.
type Options struct {
	HTTPClient    *http.Client
	OpenAIBaseURL string
	AnthropicURL  string
	// Shell overrides detection when set.
	Shell string
	// GOOS overrides runtime.GOOS in prompts.
	GOOS string
}

type constructor func(apiKey string, opts Options, prompts PromptBuilder) ports.Provider

var variants = map[string]constructor{
	domain.ProviderOpenAI:    newOpenAIProvider,
	domain.ProviderAnthropic: newAnthropicProvider,
}

// KnownProviders lists the provider names that have an implementation.
func KnownProviders() []string {
	names := lo.Keys(variants)
	sort.Strings(names)
	return names
}

// Factory resolves provider names into bound providers.
type Factory struct {
	opts    Options
	prompts PromptBuilder
	logger  ports.Logger
}

// NewFactory detects the shell once unless opts.Shell is set.
func NewFactory(opts Options, logger ports.Logger) *Factory {
	if opts.Shell == "" {
		opts.Shell = DetectShell()
	}
	return &Factory{
		opts:    opts,
		prompts: NewPromptBuilder(opts.Shell, opts.GOOS),
		logger:  logger,
	}
}

// Shell returns the shell prompts are written for.
func (f *Factory) Shell() string {
	return f.opts.Shell
}

// Resolve implements ports.ProviderFactory.
func (f *Factory) Resolve(name string, cfg domain.Config) (ports.Provider, error) {
	build, ok := variants[name]
	if !ok {
		return nil, &domain.UnknownProviderError{Name: name, Known: KnownProviders()}
	}

	settings, ok := cfg.Providers[name]
	if !ok {
		settings = domain.DefaultConfig().Providers[name]
	}

	key, source := settings.ResolveAPIKey()
	f.logger.Debug("resolved api key", map[string]interface{}{
		"provider": name,
		"env_key":  settings.EnvKey,
		"found":    key != "",
		"source":   string(source),
	})
	if key == "" {
		return nil, &domain.NoAPIKeyError{Provider: name, EnvKey: settings.EnvKey}
	}

	return build(key, f.opts, f.prompts), nil
}

var _ ports.ProviderFactory = (*Factory)(nil)
