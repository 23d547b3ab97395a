package txt2metadata

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/txt2metadata/pkg/logger"
	"github.com/ajitpratap0/txt2metadata/pkg/observability"
)

// Option configures a Connector
type Option func(*options)

type options struct {
	timingLevel    logger.TimingLevel
	logger         *zap.Logger
	defaultMatches int
	tracer         *observability.ConnectorTracer
}

func defaultOptions() *options {
	return &options{
		timingLevel:    logger.TimingInfo,
		defaultMatches: DefaultMatches,
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Get()
	}
	if o.tracer == nil {
		o.tracer = observability.NewConnectorTracer(ServiceName)
	}
	return o
}

// WithTimingLevel sets the level request timings are logged at. Unknown
// levels log at INFO.
func WithTimingLevel(level logger.TimingLevel) Option {
	return func(o *options) {
		o.timingLevel = level
	}
}

// WithLogger sets the logger used by the connector
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithDefaultMatches sets the match count used by the calls without an
// explicit count. Values below one are ignored.
func WithDefaultMatches(matches int) Option {
	return func(o *options) {
		if matches > 0 {
			o.defaultMatches = matches
		}
	}
}

// WithTracer sets the tracer spans are started with
func WithTracer(tracer *observability.ConnectorTracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}
