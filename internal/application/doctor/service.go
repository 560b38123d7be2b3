package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appconfig "github.com/doeshing/wtf-go/internal/application/config"
	"github.com/doeshing/wtf-go/internal/domain"
	"github.com/doeshing/wtf-go/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	Config    ports.ConfigStore
	History   ports.HistoryRepository
	Providers ports.ProviderFactory
}

// Run executes checks and returns a report. The error is only set when the
// configuration cannot be loaded at all.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.Config.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", strings.ReplaceAll(err.Error(), "\n", "; ")))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("%d providers configured", len(cfg.Providers))))
	}

	if unlisted := appconfig.UnlistedModels(cfg); len(unlisted) > 0 {
		checks = append(checks, warn("Models", "default model not in models list: "+strings.Join(unlisted, ", ")))
	}

	checks = append(checks, s.providerCheck(cfg))
	checks = append(checks, apiKeyCheck(cfg))
	checks = append(checks, s.historyCheck())
	checks = append(checks, ok("Shell", s.Providers.Shell()))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) providerCheck(cfg domain.Config) domain.HealthCheck {
	_, err := s.Providers.Resolve(cfg.DefaultProvider, cfg)
	var unknown *domain.UnknownProviderError
	switch {
	case err == nil:
		return ok("Default provider", cfg.DefaultProvider)
	case errors.As(err, &unknown):
		return fail("Default provider", err.Error())
	default:
		return warn("Default provider", fmt.Sprintf("%s: %s", cfg.DefaultProvider, firstLine(err.Error())))
	}
}

func apiKeyCheck(cfg domain.Config) domain.HealthCheck {
	var found, missing []string
	for _, name := range cfg.ProviderNames() {
		if _, set := cfg.ResolveAPIKey(name); set {
			found = append(found, name)
		} else {
			missing = append(missing, name)
		}
	}
	switch {
	case len(found) == 0:
		return fail("API keys", "no provider has an API key")
	case len(missing) > 0:
		return warn("API keys", "missing for "+strings.Join(missing, ", "))
	default:
		return ok("API keys", "detected for configured providers")
	}
}

func (s *Service) historyCheck() domain.HealthCheck {
	if s.History == nil {
		return warn("History", "history store not initialized")
	}
	entries, err := s.History.Load()
	if err != nil {
		return fail("History", err.Error())
	}
	return ok("History", fmt.Sprintf("%d entries", len(entries)))
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
