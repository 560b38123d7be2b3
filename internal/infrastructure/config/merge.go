package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/wtf-go/internal/domain"
)

const providersKey = "providers"

// Merge overlays a persisted document onto the defaults.
//
// Top-level keys present in persisted replace the default value. For each
// provider, persisted fields are laid over a copy of the default provider
// fields. Keys unknown to defaults, at either level, are kept.
func Merge(persisted map[string]interface{}, defaults domain.Config) (domain.Config, error) {
	merged, err := toMap(defaults)
	if err != nil {
		return domain.Config{}, err
	}

	for key, value := range persisted {
		if key != providersKey {
			merged[key] = value
			continue
		}
		providers, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		merged[providersKey] = mergeProviders(asMap(merged[providersKey]), providers)
	}

	return fromMap(merged)
}

func mergeProviders(defaults, persisted map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(defaults)+len(persisted))
	for name, settings := range defaults {
		out[name] = settings
	}
	for name, settings := range persisted {
		fields, ok := settings.(map[string]interface{})
		if !ok {
			continue
		}
		provider := make(map[string]interface{})
		for key, value := range asMap(defaults[name]) {
			provider[key] = value
		}
		for key, value := range fields {
			provider[key] = value
		}
		out[name] = provider
	}
	return out
}

func asMap(value interface{}) map[string]interface{} {
	if m, ok := value.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

// toMap renders cfg in the same generic shape a loaded file decodes into.
func toMap(cfg domain.Config) (map[string]interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	out := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return out, nil
}

func fromMap(doc map[string]interface{}) (domain.Config, error) {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return domain.Config{}, fmt.Errorf("encode config: %w", err)
	}
	var cfg domain.Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
