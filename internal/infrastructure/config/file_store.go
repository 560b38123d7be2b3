package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/wtf-go/internal/domain"
	"github.com/doeshing/wtf-go/internal/pkg/filesystem"
	"github.com/doeshing/wtf-go/internal/ports"
)

// FileStore owns the YAML configuration file.
type FileStore struct {
	path       string
	logger     ports.Logger
	normalized bool
}

// NewFileStore builds a store for the file at path.
func NewFileStore(path string, logger ports.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Path returns the location of the configuration file.
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether the file has been created yet.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Normalized reports whether the last Load rewrote the file.
func (s *FileStore) Normalized() bool {
	return s.normalized
}

// Load implements ports.ConfigStore. A missing file is created with the
// defaults; a file that differs from its merge with the defaults is rewritten.
func (s *FileStore) Load(ctx context.Context) (domain.Config, error) {
	s.normalized = false

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := domain.DefaultConfig()
			s.logger.Info("creating default config", map[string]interface{}{"path": s.path})
			if err := s.Persist(ctx, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}

	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.Config{}, fmt.Errorf("parse config %s: %w", s.path, err)
	}

	cfg, err := Merge(raw, domain.DefaultConfig())
	if err != nil {
		return domain.Config{}, fmt.Errorf("parse config %s: %w", s.path, err)
	}

	current, err := toMap(cfg)
	if err != nil {
		return domain.Config{}, err
	}
	if !cmp.Equal(raw, current) {
		s.logger.Info("normalizing config", map[string]interface{}{"path": s.path})
		if err := s.Persist(ctx, cfg); err != nil {
			return domain.Config{}, err
		}
		s.normalized = true
	}
	return cfg, nil
}

// Persist implements ports.ConfigStore.
func (s *FileStore) Persist(_ context.Context, cfg domain.Config) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := filesystem.WriteFileAtomic(s.path, buf.Bytes(), domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SetAPIKey stores key for a configured provider.
func (s *FileStore) SetAPIKey(ctx context.Context, provider, key string) error {
	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}
	settings, err := cfg.ProviderConfig(provider)
	if err != nil {
		return err
	}
	settings.APIKey = key
	cfg.Providers[provider] = settings
	return s.Persist(ctx, cfg)
}

// SetDefaultProvider switches the default to a configured provider.
func (s *FileStore) SetDefaultProvider(ctx context.Context, provider string) error {
	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if _, err := cfg.ProviderConfig(provider); err != nil {
		return err
	}
	cfg.DefaultProvider = provider
	return s.Persist(ctx, cfg)
}

var _ ports.ConfigStore = (*FileStore)(nil)
