package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/ajitpratap0/txt2metadata/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv
const EnvPrefix = "TXT2METADATA"

// Environment keys, read as TXT2METADATA_<KEY>
const (
	EnvURL            = "url"
	EnvTimingLogLevel = "timing_log_level"
	EnvMatches        = "matches"
	EnvRetryMax       = "retry_max"
	EnvRetryDelay     = "retry_delay"
	EnvRequestTimeout = "request_timeout"
	EnvLogLevel       = "log_level"
	EnvLogEncoding    = "log_encoding"
	EnvTracing        = "tracing_enabled"
)

// FromEnv builds a configuration from Default and the environment.
// TXT2METADATA_URL is required; TXT2METADATA_TIMING_LOG_LEVEL defaults to INFO.
func FromEnv() (*Config, error) {
	cfg := Default()
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with the TXT2METADATA_* variables that are set.
func ApplyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range []string{
		EnvURL, EnvTimingLogLevel, EnvMatches, EnvRetryMax, EnvRetryDelay,
		EnvRequestTimeout, EnvLogLevel, EnvLogEncoding, EnvTracing,
	} {
		if err := v.BindEnv(key); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, "failed to bind environment variable").
				WithDetail("key", key)
		}
	}

	if v.IsSet(EnvURL) {
		cfg.Connector.BaseURL = v.GetString(EnvURL)
	}
	if v.IsSet(EnvTimingLogLevel) {
		cfg.Connector.TimingLogLevel = v.GetString(EnvTimingLogLevel)
	}
	if v.IsSet(EnvMatches) {
		cfg.Connector.DefaultMatches = v.GetInt(EnvMatches)
	}
	if v.IsSet(EnvRetryMax) {
		cfg.Retry.MaxRetries = v.GetInt(EnvRetryMax)
	}
	if v.IsSet(EnvRetryDelay) {
		cfg.Retry.Delay = v.GetDuration(EnvRetryDelay)
	}
	if v.IsSet(EnvRequestTimeout) {
		cfg.HTTP.RequestTimeout = v.GetDuration(EnvRequestTimeout)
	}
	if v.IsSet(EnvLogLevel) {
		cfg.Logging.Level = v.GetString(EnvLogLevel)
	}
	if v.IsSet(EnvLogEncoding) {
		cfg.Logging.Encoding = v.GetString(EnvLogEncoding)
	}
	if v.IsSet(EnvTracing) {
		cfg.Tracing.Enabled = v.GetBool(EnvTracing)
	}

	return nil
}
