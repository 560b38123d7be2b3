package config

import (
	"errors"
	"fmt"

	"github.com/doeshing/wtf-go/internal/domain"
)

// Validate ensures config structure is consistent. All problems are joined
// into the returned error.
func Validate(cfg domain.Config) error {
	var errs []error
	if len(cfg.Providers) == 0 {
		errs = append(errs, errors.New("at least one provider must be configured"))
	}
	if cfg.DefaultProvider == "" {
		errs = append(errs, errors.New("default_provider must be set"))
	} else if _, ok := cfg.Providers[cfg.DefaultProvider]; !ok {
		errs = append(errs, fmt.Errorf("default provider %s not found in providers", cfg.DefaultProvider))
	}
	for _, name := range cfg.ProviderNames() {
		if err := validateProvider(name, cfg.Providers[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func validateProvider(name string, provider domain.ProviderConfig) error {
	if provider.DefaultModel == "" {
		return fmt.Errorf("providers.%s.default_model must be set", name)
	}
	if provider.EnvKey == "" && provider.APIKey == "" {
		return fmt.Errorf("providers.%s needs env_key or api_key", name)
	}
	return nil
}

// UnlistedModels returns providers whose default model is missing from their models list.
func UnlistedModels(cfg domain.Config) []string {
	var out []string
	for _, name := range cfg.ProviderNames() {
		provider := cfg.Providers[name]
		if len(provider.Models) > 0 && !provider.HasModel(provider.DefaultModel) {
			out = append(out, fmt.Sprintf("%s: %s", name, provider.DefaultModel))
		}
	}
	return out
}
