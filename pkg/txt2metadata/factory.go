package txt2metadata

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/txt2metadata/pkg/clients"
	"github.com/ajitpratap0/txt2metadata/pkg/config"
	"github.com/ajitpratap0/txt2metadata/pkg/errors"
)

// Create builds a connector for baseURL with the default transport and
// retry policy.
func Create(baseURL string, opts ...Option) (*Connector, error) {
	cfg := config.Default()
	cfg.Connector.BaseURL = baseURL
	return NewFromConfig(cfg, opts...)
}

// NewFromEnv builds a connector from the TXT2METADATA_* environment
// variables.
func NewFromEnv(opts ...Option) (*Connector, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, opts...)
}

// NewFromConfig builds the transport described by cfg and a connector on
// top of it. opts are applied after the values taken from cfg.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Connector, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := applyOptions(append([]Option{
		WithTimingLevel(cfg.Connector.TimingLevel()),
		WithDefaultMatches(cfg.Connector.DefaultMatches),
	}, opts...))

	o.logger.Info("Creating connector for", zap.String("url", cfg.Connector.BaseURL))

	httpConfig := cfg.HTTP
	client := clients.NewFailSafeClient(clients.NewHTTPClient(&httpConfig, o.logger), cfg.Retry, o.logger)
	return newConnector(client, cfg.Connector.BaseURL, o)
}
