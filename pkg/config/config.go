package config

import (
	"net/url"
	"strings"

	"github.com/ajitpratap0/txt2metadata/pkg/clients"
	"github.com/ajitpratap0/txt2metadata/pkg/errors"
	"github.com/ajitpratap0/txt2metadata/pkg/logger"
	"github.com/ajitpratap0/txt2metadata/pkg/observability"
)

// DefaultMatches is the number of suggestions requested when no count is given
const DefaultMatches = 10

// Config is the complete configuration of a txt2metadata connector.
type Config struct {
	// Connector holds the service location and call defaults
	Connector ConnectorConfig `yaml:"connector" mapstructure:"connector"`

	// HTTP configures the transport
	HTTP clients.HTTPConfig `yaml:"http" mapstructure:"http"`

	// Retry decides which failed attempts are retried
	Retry clients.RetryPolicy `yaml:"retry" mapstructure:"retry"`

	Logging logger.Config               `yaml:"logging" mapstructure:"logging"`
	Tracing observability.TracingConfig `yaml:"tracing" mapstructure:"tracing"`
}

// ConnectorConfig contains the connector specific settings.
type ConnectorConfig struct {
	// BaseURL of the txt2metadata service, e.g. http://txt2metadata:8080
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// TimingLogLevel is the level request timings are logged at (TRACE, DEBUG, INFO, WARN, ERROR)
	TimingLogLevel string `yaml:"timing_log_level" mapstructure:"timing_log_level"`
	// DefaultMatches is the suggestion count used by calls without an explicit count
	DefaultMatches int `yaml:"default_matches" mapstructure:"default_matches"`
}

// Default returns a configuration with production defaults and no base URL.
func Default() *Config {
	return &Config{
		Connector: ConnectorConfig{
			TimingLogLevel: string(logger.TimingInfo),
			DefaultMatches: DefaultMatches,
		},
		HTTP:  *clients.DefaultHTTPConfig(),
		Retry: clients.DefaultRetryPolicy(),
		Logging: logger.Config{
			Level:    "info",
			Encoding: "json",
		},
		Tracing: observability.DefaultTracingConfig(),
	}
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if err := c.Connector.Validate(); err != nil {
		return err
	}
	if c.Retry.MaxRetries < 0 {
		return errors.New(errors.ErrorTypeConfig, "retry.max_retries cannot be negative")
	}
	if c.Retry.Delay < 0 {
		return errors.New(errors.ErrorTypeConfig, "retry.delay cannot be negative")
	}
	if c.HTTP.RateLimit < 0 {
		return errors.New(errors.ErrorTypeConfig, "http.rate_limit cannot be negative")
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return errors.Newf(errors.ErrorTypeConfig, "tracing.sampling_rate must be between 0 and 1, got %v", c.Tracing.SamplingRate)
	}
	return nil
}

// Validate checks the connector section
func (c *ConnectorConfig) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New(errors.ErrorTypeConfig, "connector.base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "connector.base_url is not a valid URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Newf(errors.ErrorTypeConfig, "connector.base_url must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if c.TimingLogLevel != "" && !logger.IsTimingLevel(c.TimingLogLevel) {
		return errors.Newf(errors.ErrorTypeConfig, "connector.timing_log_level %q is not one of TRACE, DEBUG, INFO, WARN, ERROR", c.TimingLogLevel)
	}
	if c.DefaultMatches <= 0 {
		return errors.New(errors.ErrorTypeConfig, "connector.default_matches must be positive")
	}
	return nil
}

// TimingLevel returns the parsed timing log level
func (c *ConnectorConfig) TimingLevel() logger.TimingLevel {
	return logger.ParseTimingLevel(c.TimingLogLevel)
}
