package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/D26FORWARD/TaskTree/internal/infrastructure/logging"
	"github.com/D26FORWARD/TaskTree/internal/infrastructure/webhook"
	"github.com/D26FORWARD/TaskTree/pkg/application"
	"github.com/D26FORWARD/TaskTree/pkg/domain/ai"
)

const (
	// Dir is the per-project configuration directory.
	Dir       = ".tasktree"
	fileName  = "config.yaml"
	envPrefix = "TASKTREE_"
)

// Config is the on-disk and environment configuration.
type Config struct {
	Provider   string `yaml:"provider" json:"provider"`
	APIKey     string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	BaseURL    string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	APIVersion string `yaml:"api_version,omitempty" json:"api_version,omitempty"`
	AppID      string `yaml:"app_id,omitempty" json:"app_id,omitempty"`
	Model      string `yaml:"model,omitempty" json:"model,omitempty"`

	LogLevel  string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty" json:"log_format,omitempty"`

	// PricingFile overlays the built-in pricing table.
	PricingFile string `yaml:"pricing_file,omitempty" json:"pricing_file,omitempty"`

	// Retries enables the retry layer when > 0.
	Retries      int `yaml:"retries,omitempty" json:"retries,omitempty"`
	RetryDelayMs int `yaml:"retry_delay_ms,omitempty" json:"retry_delay_ms,omitempty"`

	Webhooks []webhook.Endpoint `yaml:"webhooks,omitempty" json:"webhooks,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Provider:  string(ai.ProviderAnthropic),
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// Path returns the config file location under root.
func Path(root string) string {
	return filepath.Join(root, Dir, fileName)
}

// Load reads root/.tasktree/config.yaml, applies environment overrides and validates
// the result. A missing file is not an error.
func Load(root string) (*Config, error) {
	return load(Path(root), os.Getenv)
}

func load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to root/.tasktree/config.yaml with owner-only permissions.
func Save(root string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", Dir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, name string) {
		if v := strings.TrimSpace(getenv(envPrefix + name)); v != "" {
			*dst = v
		}
	}
	set(&c.Provider, "PROVIDER")
	set(&c.BaseURL, "BASE_URL")
	set(&c.APIVersion, "API_VERSION")
	set(&c.AppID, "APP_ID")
	set(&c.Model, "MODEL")
	set(&c.LogLevel, "LOG_LEVEL")
	set(&c.LogFormat, "LOG_FORMAT")

	if v := getenv(envPrefix + "API_KEY"); strings.TrimSpace(v) != "" {
		c.APIKey = v
	} else if c.APIKey == "" {
		c.APIKey = getenv("API_KEY")
	}
}

// ProviderID resolves the configured provider name.
func (c *Config) ProviderID() ai.ProviderID {
	return ai.ParseProviderID(c.Provider)
}

// ProviderConfig converts the file settings into the immutable provider config.
func (c *Config) ProviderConfig() ai.ProviderConfig {
	return ai.ProviderConfig{
		Provider:   c.ProviderID(),
		APIKey:     c.APIKey,
		BaseURL:    c.BaseURL,
		APIVersion: c.APIVersion,
		AppID:      c.AppID,
	}
}

// PlanOptions returns the configured per-request defaults.
func (c *Config) PlanOptions() application.PlanOptions {
	return application.PlanOptions{Model: c.Model}
}

// RetryConfig returns the retry layer settings.
func (c *Config) RetryConfig() application.RetryConfig {
	return application.RetryConfig{
		Retries:    c.Retries,
		RetryDelay: time.Duration(c.RetryDelayMs) * time.Millisecond,
	}
}

// InitLogging installs the configured slog handler.
func (c *Config) InitLogging() {
	logging.Init(c.LogLevel, c.LogFormat)
}

// DeadLetterPath is where undeliverable webhook payloads are appended.
func DeadLetterPath(root string) string {
	return filepath.Join(root, Dir, "deadletter.jsonl")
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	out.APIKey = MaskKey(c.APIKey)
	if len(c.Webhooks) > 0 {
		out.Webhooks = make([]webhook.Endpoint, len(c.Webhooks))
		for i, ep := range c.Webhooks {
			ep.Secret = MaskKey(ep.Secret)
			out.Webhooks[i] = ep
		}
	}
	return &out
}

// MaskKey hides all but the last four characters of a key.
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// ForProvider builds a provider config for p, used when comparing providers.
// The key comes from TASKTREE_<PROVIDER>_API_KEY, falling back to the configured key
// only when p is the configured provider. Base URL and app id follow the same rule.
func (c *Config) ForProvider(p ai.ProviderID) ai.ProviderConfig {
	return c.forProvider(p, os.Getenv)
}

func (c *Config) forProvider(p ai.ProviderID, getenv func(string) string) ai.ProviderConfig {
	pc := ai.ProviderConfig{Provider: p}
	if p == c.ProviderID() {
		pc = c.ProviderConfig()
	}
	if key := strings.TrimSpace(getenv(envPrefix + strings.ToUpper(string(p)) + "_API_KEY")); key != "" {
		pc.APIKey = key
	}
	return pc
}
