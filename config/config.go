package config

import (
	"fmt"

	"github.com/skillsenselab/speakertime/logger"
	"github.com/skillsenselab/speakertime/server"
)

// ServiceConfig contains the essential configuration fields every service needs.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the base configuration.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	for _, v := range validEnvs {
		if c.Environment == v {
			return c.Logging.Validate()
		}
	}
	return fmt.Errorf("environment must be one of [development, staging, production] (got: %s)", c.Environment)
}

// ResolverConfig selects the speaker identity resolution strategy.
type ResolverConfig struct {
	// Strategy is either "proximity" (anchor timecodes) or "overlap"
	// (cross-run segment overlap).
	Strategy string `yaml:"strategy" mapstructure:"strategy"`
}

// ApplyDefaults applies default values to resolver configuration.
func (c *ResolverConfig) ApplyDefaults() {
	if c.Strategy == "" {
		c.Strategy = "proximity"
	}
}

// Validate validates resolver configuration.
func (c *ResolverConfig) Validate() error {
	if c.Strategy != "proximity" && c.Strategy != "overlap" {
		return fmt.Errorf("resolver.strategy must be one of [proximity, overlap] (got: %s)", c.Strategy)
	}
	return nil
}

// PyannoteConfig configures the pyannote.ai diarization adapter.
type PyannoteConfig struct {
	APIKey          string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL         string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	PollIntervalMS  int    `yaml:"poll_interval_ms" mapstructure:"poll_interval_ms"`
	MaxPollAttempts int    `yaml:"max_poll_attempts" mapstructure:"max_poll_attempts"`
	WebhookURL      string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// ApplyDefaults applies default values to pyannote configuration.
func (c *PyannoteConfig) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.pyannote.ai/v1"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
	if c.PollIntervalMS == 0 {
		c.PollIntervalMS = 1000
	}
	if c.MaxPollAttempts == 0 {
		c.MaxPollAttempts = 120
	}
}

// Validate validates pyannote configuration.
func (c *PyannoteConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("pyannote.api_key is required")
	}
	if c.MaxPollAttempts < 1 {
		return fmt.Errorf("pyannote.max_poll_attempts must be positive (got: %d)", c.MaxPollAttempts)
	}
	return nil
}

// APIConfig tunes the HTTP handler layer.
type APIConfig struct {
	// DiarizePerMinute rate-limits diarization submissions per client IP.
	// Zero disables the limit.
	DiarizePerMinute int `yaml:"diarize_per_minute" mapstructure:"diarize_per_minute"`
}

// ApplyDefaults applies default values to API configuration.
func (c *APIConfig) ApplyDefaults() {
	if c.DiarizePerMinute == 0 {
		c.DiarizePerMinute = 12
	}
}

// Validate validates API configuration.
func (c *APIConfig) Validate() error {
	if c.DiarizePerMinute < 0 {
		return fmt.Errorf("api.diarize_per_minute must be non-negative (got: %d)", c.DiarizePerMinute)
	}
	return nil
}

// ObservabilityConfig configures OpenTelemetry exporters.
type ObservabilityConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure bool   `yaml:"insecure" mapstructure:"insecure"`
}

// ApplyDefaults applies default values to observability configuration.
func (c *ObservabilityConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
		c.Insecure = true
	}
}

// AppConfig is the full configuration for the speakertime service.
type AppConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config       `yaml:"server" mapstructure:"server"`
	API           APIConfig           `yaml:"api" mapstructure:"api"`
	Resolver      ResolverConfig      `yaml:"resolver" mapstructure:"resolver"`
	Pyannote      PyannoteConfig      `yaml:"pyannote" mapstructure:"pyannote"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies defaults to every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "speakertime"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.API.ApplyDefaults()
	c.Resolver.ApplyDefaults()
	c.Pyannote.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.API.Validate(); err != nil {
		return err
	}
	if err := c.Resolver.Validate(); err != nil {
		return err
	}
	if err := c.Pyannote.Validate(); err != nil {
		return err
	}
	return nil
}
