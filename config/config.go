package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	OpenAI   OpenAIConfig
	Catalog  CatalogConfig
	Database DatabaseConfig
	Proxy    ProxyConfig
	Auth     AuthConfig
	Search   SearchConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OpenAIConfig holds the Assistants API configuration. Missing credentials
// are not an error: the backend then runs in local-search-only mode.
type OpenAIConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	AssistantID  string        `mapstructure:"assistant_id"`
	BaseURL      string        `mapstructure:"base_url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PollTimeout  time.Duration `mapstructure:"poll_timeout"`
}

// Enabled reports whether the assistant integration is configured.
// The Assistants API needs both the key and an assistant ID.
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != "" && c.AssistantID != ""
}

// CatalogConfig holds the product catalog source location
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// DatabaseConfig holds Postgres connection configuration
type DatabaseConfig struct {
	DSN   string `mapstructure:"dsn"`
	Debug bool   `mapstructure:"debug"`
}

// ProxyConfig holds image proxy configuration
type ProxyConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig holds static session tokens (token -> user ID) registered at
// startup. Interactive session creation is owned by the auth frontend.
type AuthConfig struct {
	StaticTokens map[string]string `mapstructure:"static_tokens"`
}

// SearchConfig holds local search configuration
type SearchConfig struct {
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/lojabot/")

	// Environment variable settings
	v.SetEnvPrefix("LOJABOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// OpenAI defaults
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.poll_interval", "1s")
	v.SetDefault("openai.poll_timeout", "60s")

	// Catalog defaults
	v.SetDefault("catalog.path", "./produtos.json")

	// Proxy defaults
	v.SetDefault("proxy.timeout", "60s")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.DSN == "" {
		return fmt.Errorf("database DSN is required (set LOJABOT_DATABASE_DSN)")
	}

	if config.OpenAI.PollInterval <= 0 {
		return fmt.Errorf("openai poll interval must be positive, got: %s", config.OpenAI.PollInterval)
	}

	if config.OpenAI.PollTimeout <= 0 {
		return fmt.Errorf("openai poll timeout must be positive, got: %s", config.OpenAI.PollTimeout)
	}

	if config.Proxy.Timeout <= 0 {
		return fmt.Errorf("proxy timeout must be positive, got: %s", config.Proxy.Timeout)
	}

	return nil
}
