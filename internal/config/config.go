// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chat-ai.
//
// Configuration is read from a TOML file, overlaid with environment
// variables, filled with defaults and validated.
//
// Configuration file location:
//   - ~/.chat-ai/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/MarceloDCastro/chat-ai/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chat-ai configuration.
type Config struct {
	// Completion endpoint configuration
	Completion CompletionConfig `toml:"completion"`

	// Preference store configuration
	Storage StorageConfig `toml:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Logging configuration
	Log LogConfig `toml:"log"`
}

// CompletionConfig selects and configures the completion endpoint.
type CompletionConfig struct {
	// Provider is "openai" (any OpenAI-compatible API) or "ollama".
	Provider string `toml:"provider" env:"CHAT_AI_PROVIDER"`

	// BaseURL of the endpoint. Empty selects the provider default.
	BaseURL string `toml:"base_url" env:"CHAT_AI_BASE_URL"`

	// APIKey for the openai provider.
	APIKey string `toml:"api_key" env:"OPENAI_API_KEY"`

	Model       string  `toml:"model" env:"CHAT_AI_MODEL"`
	Temperature float32 `toml:"temperature" env:"CHAT_AI_TEMPERATURE"`

	// RequestsPerMinute limits outgoing requests; 0 disables limiting.
	RequestsPerMinute int `toml:"requests_per_minute" env:"CHAT_AI_REQUESTS_PER_MINUTE"`

	// RequestTimeout bounds a whole streamed reply; 0 means no limit.
	RequestTimeout time.Duration `toml:"request_timeout" env:"CHAT_AI_REQUEST_TIMEOUT"`
}

// StorageConfig configures where user preferences are persisted.
type StorageConfig struct {
	// Backend is one of: file, sqlite, redis, memory.
	Backend string `toml:"backend" env:"CHAT_AI_STORE"`

	// Path for the file and sqlite backends.
	Path string `toml:"path" env:"CHAT_AI_STORE_PATH"`

	RedisAddr string `toml:"redis_addr" env:"CHAT_AI_REDIS_ADDR"`
	RedisDB   int    `toml:"redis_db" env:"CHAT_AI_REDIS_DB"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	Title    string `toml:"title" env:"CHAT_AI_TITLE"`
	Subtitle string `toml:"subtitle" env:"CHAT_AI_SUBTITLE"`

	// Markdown renders assistant replies as markdown.
	Markdown bool `toml:"markdown" env:"CHAT_AI_MARKDOWN"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Path  string `toml:"path" env:"CHAT_AI_LOG"`
	Debug bool   `toml:"debug" env:"CHAT_AI_DEBUG"`
}

// Provider names.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Default returns a Config with all defaults applied.
func Default() *Config {
	return &Config{
		Completion: CompletionConfig{
			Provider:    ProviderOpenAI,
			Temperature: 0.7,
		},
		Storage: StorageConfig{
			Backend: "file",
		},
		UI: UIConfig{
			Title:    "Chat AI",
			Subtitle: "Terminal chat over a streaming completion API.",
			Markdown: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the chat-ai configuration directory (~/.chat-ai).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chat-ai"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads ~/.chat-ai/config.toml if it exists, otherwise starts from
// defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return LoadFromPath(path)
	}

	cfg := Default()
	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific TOML file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finish(cfg *Config) error {
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	if err := fillDefaults(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides overlays CHAT_AI_* (and OPENAI_API_KEY) environment
// variables. Unset variables leave the current value alone.
func (c *Config) ApplyEnvOverrides() error {
	return cleanenv.ReadEnv(c)
}

// fillDefaults fills values that depend on other settings.
func fillDefaults(cfg *Config) error {
	cfg.Completion.Provider = strings.ToLower(strings.TrimSpace(cfg.Completion.Provider))
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))

	if cfg.Completion.Provider == "" {
		cfg.Completion.Provider = ProviderOpenAI
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "file"
	}

	if cfg.Storage.Path == "" {
		path, err := defaultStoragePath(cfg.Storage.Backend)
		if err != nil {
			return err
		}
		cfg.Storage.Path = path
	}

	return nil
}

// defaultStoragePath returns the preference file for the file and sqlite
// backends, and "" for the others.
func defaultStoragePath(backend string) (string, error) {
	var name string
	switch backend {
	case "file":
		name = "preferences.json"
	case "sqlite":
		name = "preferences.db"
	default:
		return "", nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// =============================================================================
// COMMAND-LINE OVERRIDES
// =============================================================================

// Overrides are command-line settings. Empty fields leave the loaded
// value alone.
type Overrides struct {
	Provider string
	Model    string
	Store    string
	Debug    bool
}

// ApplyOverrides applies command-line settings on top of the file and
// environment and validates the result. Switching the storage backend also
// moves a default storage path to the new backend's default.
func (c *Config) ApplyOverrides(o Overrides) error {
	if o.Provider != "" {
		c.Completion.Provider = o.Provider
	}
	if o.Model != "" {
		c.Completion.Model = o.Model
	}
	if o.Debug {
		c.Log.Debug = true
	}

	if o.Store != "" {
		store := strings.ToLower(strings.TrimSpace(o.Store))
		if store != c.Storage.Backend {
			oldDefault, err := defaultStoragePath(c.Storage.Backend)
			if err != nil {
				return err
			}
			if c.Storage.Path == oldDefault {
				c.Storage.Path = ""
			}
			c.Storage.Backend = store
		}
	}

	if err := fillDefaults(c); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: The file holds the API key and is written with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# chat-ai configuration file\n")
	buf.WriteString("# Environment variables (CHAT_AI_*, OPENAI_API_KEY) override these values.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns ValidateErrors if any
// setting is out of range.
func (c *Config) Validate() error {
	var errs ValidateErrors

	switch c.Completion.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		errs = append(errs, ValidationError{
			Field:   "completion.provider",
			Message: fmt.Sprintf("invalid provider '%s', must be one of: openai, ollama", c.Completion.Provider),
		})
	}

	if c.Completion.BaseURL != "" {
		u, err := url.Parse(c.Completion.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "completion.base_url",
				Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port][/path]", c.Completion.BaseURL),
			})
		}
	}

	if c.Completion.Temperature < 0 || c.Completion.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "completion.temperature",
			Message: fmt.Sprintf("must be between 0 and 2, got %g", c.Completion.Temperature),
		})
	}
	if c.Completion.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{
			Field:   "completion.requests_per_minute",
			Message: "must not be negative",
		})
	}
	if c.Completion.RequestTimeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "completion.request_timeout",
			Message: "must not be negative",
		})
	}

	switch c.Storage.Backend {
	case "file", "sqlite", "memory":
	case "redis":
		if c.Storage.RedisAddr == "" {
			errs = append(errs, ValidationError{
				Field:   "storage.redis_addr",
				Message: "required when storage.backend is redis",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite, redis, memory", c.Storage.Backend),
		})
	}
	if c.Storage.RedisDB < 0 {
		errs = append(errs, ValidationError{
			Field:   "storage.redis_db",
			Message: "must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsValidationError reports whether err contains configuration validation errors.
func IsValidationError(err error) bool {
	var ve ValidateErrors
	return errors.As(err, &ve)
}
