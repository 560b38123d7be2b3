package domain

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// KeySource records where an API key was found.
type KeySource string

const (
	KeySourceNone   KeySource = ""
	KeySourceEnv    KeySource = "env"
	KeySourceConfig KeySource = "config"
)

// ProviderConfig returns the settings for name.
// Returns an error wrapping ErrProviderNotFound if name is not configured.
func (c Config) ProviderConfig(name string) (ProviderConfig, error) {
	provider, ok := c.Providers[name]
	if !ok {
		return ProviderConfig{}, fmt.Errorf("%w: %q (configured: %s)",
			ErrProviderNotFound, name, strings.Join(c.ProviderNames(), ", "))
	}
	return provider, nil
}

// ProviderNames lists configured providers in sorted order.
func (c Config) ProviderNames() []string {
	names := make([]string, 0, len(c.Providers))
	for name := range c.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveAPIKey returns the key for provider, or false when neither the
// environment nor the file provides one.
func (c Config) ResolveAPIKey(provider string) (string, bool) {
	settings, ok := c.Providers[provider]
	if !ok {
		return "", false
	}
	key, _ := settings.ResolveAPIKey()
	return key, key != ""
}

// ResolveAPIKey applies the lookup order: the variable named by EnvKey first,
// then the api_key stored in the file.
func (p ProviderConfig) ResolveAPIKey() (string, KeySource) {
	if p.EnvKey != "" {
		if value := os.Getenv(p.EnvKey); value != "" {
			return value, KeySourceEnv
		}
	}
	if p.APIKey != "" {
		return p.APIKey, KeySourceConfig
	}
	return "", KeySourceNone
}

// HasModel reports whether model is listed for the provider.
func (p ProviderConfig) HasModel(model string) bool {
	for _, candidate := range p.Models {
		if candidate == model {
			return true
		}
	}
	return false
}

// Redacted returns a copy with stored API keys masked for display.
func (c Config) Redacted() Config {
	out := c
	out.Providers = make(map[string]ProviderConfig, len(c.Providers))
	for name, provider := range c.Providers {
		if provider.APIKey != "" {
			provider.APIKey = RedactedValue
		}
		out.Providers[name] = provider
	}
	return out
}
