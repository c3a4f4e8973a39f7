// Package config loads and validates process configuration. Required values
// must be present at startup or Load returns an error and the process refuses
// to start.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/skillsenselab/voice-capture/internal/logger"
	"github.com/skillsenselab/voice-capture/internal/mail"
	"github.com/skillsenselab/voice-capture/internal/server"
	"github.com/skillsenselab/voice-capture/internal/transcribe"
	"github.com/skillsenselab/voice-capture/internal/validation"
)

// ServiceName is the fixed service identifier used in logs and metrics.
const ServiceName = "voice-capture"

// Config is the validated settings object available at startup.
type Config struct {
	Service ServiceConfig     `mapstructure:"service"`
	Server  server.Config     `mapstructure:"server"`
	Logging logger.Config     `mapstructure:"logging"`
	Auth    AuthConfig        `mapstructure:"auth"`
	Whisper transcribe.Config `mapstructure:"whisper"`
	SMTP    mail.Config       `mapstructure:"smtp"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
}

// ServiceConfig holds service metadata.
type ServiceConfig struct {
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment" validate:"omitempty,oneof=development production"`
}

// AuthConfig holds the ingest credential.
type AuthConfig struct {
	IngestToken string `mapstructure:"ingest_token" validate:"required"`
}

// MetricsConfig configures the optional OTLP metric exporter.
type MetricsConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

// envBindings maps viper keys to the environment variables operators set.
// The names follow the deployment contract of the original service.
var envBindings = map[string]string{
	"service.version":      "SERVICE_VERSION",
	"service.environment":  "ENVIRONMENT",
	"server.host":          "HOST",
	"server.port":          "PORT",
	"server.max_body_size": "MAX_UPLOAD_SIZE",
	"logging.level":        "LOG_LEVEL",
	"logging.format":       "LOG_FORMAT",
	"auth.ingest_token":    "INGEST_TOKEN",
	"whisper.api_key":      "VOICE_API_KEY",
	"whisper.base_url":     "VOICE_API_BASE_URL",
	"smtp.host":            "SMTP_HOST",
	"smtp.port":            "SMTP_PORT",
	"smtp.user":            "SMTP_USER",
	"smtp.pass":            "SMTP_PASS",
	"smtp.from":            "MAIL_FROM",
	"smtp.to":              "MAIL_TO",
	"metrics.endpoint":     "OTEL_ENDPOINT",
	"metrics.insecure":     "OTEL_INSECURE",
}

// Load reads configuration from an optional config.yml, the environment, and
// an optional .env file, applies defaults, and validates the result.
func Load(opts ...Option) (*Config, error) {
	var lo loadOptions
	for _, opt := range opts {
		opt(&lo)
	}

	if lo.envFile == "" {
		if _, err := os.Stat(".env"); err == nil {
			lo.envFile = ".env"
		}
	}
	if lo.envFile != "" {
		if err := godotenv.Load(lo.envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", lo.envFile, err)
		}
	}

	v := viper.New()
	if lo.configFile != "" {
		v.SetConfigFile(lo.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", lo.configFile, err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Service.Version == "" {
		c.Service.Version = "unknown"
	}
	if c.Service.Environment == "" {
		c.Service.Environment = "development"
	}
	c.Server.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.Whisper.ApplyDefaults()
	c.SMTP.ApplyDefaults()
}

// Validate checks the full configuration. Struct tags cover required and
// format constraints; sub-configs validate their own ranges.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}

// Ready reports whether every setting required to serve traffic is present.
// Used by the readiness endpoint.
func (c *Config) Ready() bool {
	return c.Auth.IngestToken != "" &&
		c.Whisper.APIKey != "" &&
		c.SMTP.Host != "" &&
		c.SMTP.Username != "" &&
		c.SMTP.Password != "" &&
		c.SMTP.From != "" &&
		c.SMTP.To != ""
}

// Option customizes Load behavior.
type Option func(*loadOptions)

type loadOptions struct {
	configFile string
	envFile    string
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) Option {
	return func(lo *loadOptions) { lo.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(lo *loadOptions) { lo.envFile = path }
}
