package domain

// Config mirrors ~/.config/wtf/config.yaml.
//
// Keys the program does not know about are kept in Extra so that a file
// written by a newer release survives a load/save cycle.
type Config struct {
	DefaultProvider string                    `yaml:"default_provider"`
	DefaultModel    string                    `yaml:"default_model"`
	Providers       map[string]ProviderConfig `yaml:"providers"`
	Extra           map[string]interface{}    `yaml:",inline"`
}

// ProviderConfig holds the settings of a single backend.
type ProviderConfig struct {
	APIKey       string                 `yaml:"api_key"`
	DefaultModel string                 `yaml:"default_model"`
	Models       []string               `yaml:"models"`
	EnvKey       string                 `yaml:"env_key"`
	Extra        map[string]interface{} `yaml:",inline"`
}

// Provider names shipped with the built-in defaults.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// DefaultConfig returns a fresh copy of the built-in configuration.
func DefaultConfig() Config {
	return Config{
		DefaultProvider: ProviderOpenAI,
		DefaultModel:    "gpt-4o",
		Providers: map[string]ProviderConfig{
			ProviderOpenAI: {
				APIKey:       "",
				DefaultModel: "gpt-4o",
				Models:       []string{"gpt-3.5-turbo", "gpt-4", "gpt-4o"},
				EnvKey:       "OPENAI_API_KEY",
			},
			ProviderAnthropic: {
				APIKey:       "",
				DefaultModel: "claude-3-5-sonnet",
				Models: []string{
					"claude-3-sonnet",
					"claude-3-opus",
					"claude-3-haiku",
					"claude-3-5-sonnet",
					"claude-3-5-haiku",
					"claude-3-5-opus",
				},
				EnvKey: "ANTHROPIC_API_KEY",
			},
		},
	}
}
