package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config describes the top-level application configuration loaded from YAML and ENV.
type Config struct {
	Version string        `mapstructure:"version"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	Models  ModelsConfig  `mapstructure:"models"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Sandbox SandboxConfig `mapstructure:"sandbox"`
	Tools   ToolsConfig   `mapstructure:"tools"`
	Review  ReviewConfig  `mapstructure:"review"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
}

// GeminiConfig holds the remote provider connection settings. An empty APIKey
// is a valid state: every invocation then goes through the offline stub.
type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AgentConfig describes task-runtime parameters for the tutoring agent.
type AgentConfig struct {
	MaxAttemptsPerModel int     `mapstructure:"max_attempts_per_model"`
	BackoffUnitSeconds  float64 `mapstructure:"backoff_unit_seconds"`
	RetryDelaySeconds   float64 `mapstructure:"retry_delay_seconds"`
	DefaultTestCount    int     `mapstructure:"default_test_count"`
	DefaultLanguage     string  `mapstructure:"default_language"`
}

// SandboxConfig controls command and filesystem restrictions for tool execution.
type SandboxConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	AllowNetwork    bool     `mapstructure:"allow_network"`
	AllowWrite      bool     `mapstructure:"allow_write"`
	AllowedCommands []string `mapstructure:"allowed_commands"`
	DeniedCommands  []string `mapstructure:"denied_commands"`
	WorkingDir      string   `mapstructure:"working_dir"`
	TimeoutSeconds  int      `mapstructure:"timeout_seconds"`
}

// ToolsConfig configures the test runner and patch tooling.
type ToolsConfig struct {
	AllowExec          bool     `mapstructure:"allow_exec"`
	AllowFileWrite     bool     `mapstructure:"allow_file_write"`
	TestCommand        string   `mapstructure:"test_command"`
	TestArgs           []string `mapstructure:"test_args"`
	TestTimeoutSeconds int      `mapstructure:"test_timeout_seconds"`
}

// ReviewConfig controls the spaced-repetition review store.
type ReviewConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig controls logger behaviour.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// ServerConfig describes daemon settings.
type ServerConfig struct {
	Addr           string `mapstructure:"addr"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	Transport      string `mapstructure:"transport"` // connect or ndjson
}

// Load reads configuration from the provided path or defaults to configs/config.yaml.
// Environment variables override file values (prefix: TECHGURU_, dots replaced with underscores).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TECHGURU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
	} else {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file is fine: defaults plus env cover the whole surface.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults populates sensible defaults for optional fields.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.timeout", 60*time.Second)

	v.SetDefault("models.override", "")
	v.SetDefault("models.deep", "")
	v.SetDefault("models.fast", "")
	v.SetDefault("models.defaults", DefaultPreferredModels)

	v.SetDefault("agent.max_attempts_per_model", 2)
	v.SetDefault("agent.backoff_unit_seconds", 1.0)
	v.SetDefault("agent.retry_delay_seconds", 0.5)
	v.SetDefault("agent.default_test_count", 5)
	v.SetDefault("agent.default_language", "python")

	v.SetDefault("sandbox.enabled", true)
	v.SetDefault("sandbox.allow_network", false)
	v.SetDefault("sandbox.allow_write", true)
	v.SetDefault("sandbox.timeout_seconds", 120)

	v.SetDefault("tools.allow_exec", true)
	v.SetDefault("tools.allow_file_write", true)
	v.SetDefault("tools.test_command", "pytest")
	v.SetDefault("tools.test_args", []string{"-q"})
	v.SetDefault("tools.test_timeout_seconds", 120)

	v.SetDefault("review.db_path", "techguru_review.db")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_enabled", true)
	v.SetDefault("server.transport", "connect")
}

// Validate performs basic sanity checks on configuration values.
func (c *Config) Validate() error {
	if err := c.Models.validate(); err != nil {
		return err
	}

	if c.Gemini.Timeout < 0 {
		return errors.New("gemini.timeout must be >= 0")
	}

	if c.Agent.MaxAttemptsPerModel <= 0 {
		return errors.New("agent.max_attempts_per_model must be > 0")
	}
	if c.Agent.BackoffUnitSeconds < 0 {
		return errors.New("agent.backoff_unit_seconds must be >= 0")
	}
	if c.Agent.RetryDelaySeconds < 0 {
		return errors.New("agent.retry_delay_seconds must be >= 0")
	}
	if c.Agent.DefaultTestCount <= 0 {
		return errors.New("agent.default_test_count must be > 0")
	}

	if c.Sandbox.TimeoutSeconds <= 0 {
		return errors.New("sandbox.timeout_seconds must be > 0")
	}

	if strings.TrimSpace(c.Tools.TestCommand) == "" {
		return errors.New("tools.test_command must be set")
	}
	if c.Tools.TestTimeoutSeconds <= 0 {
		return errors.New("tools.test_timeout_seconds must be > 0")
	}

	if strings.TrimSpace(c.Review.DBPath) == "" {
		return errors.New("review.db_path must be set")
	}

	switch strings.ToLower(strings.TrimSpace(c.Server.Transport)) {
	case "", "connect", "ndjson":
	default:
		return fmt.Errorf("server.transport must be one of connect or ndjson, got %q", c.Server.Transport)
	}

	return nil
}
