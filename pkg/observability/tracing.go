// Package observability provides OpenTelemetry tracing for txt2metadata
// connector calls.
//
// Tracing is off until Init installs a tracer provider. Before that the
// global no-op provider is used and spans cost next to nothing.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer used for connector spans
const InstrumentationName = "github.com/ajitpratap0/txt2metadata"

var (
	providerMu sync.Mutex
	provider   *sdktrace.TracerProvider
)

// TracingConfig contains tracing configuration
type TracingConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	ServiceName    string        `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string        `yaml:"service_version" mapstructure:"service_version"`
	Environment    string        `yaml:"environment" mapstructure:"environment"`
	SamplingRate   float64       `yaml:"sampling_rate" mapstructure:"sampling_rate"`
	Exporter       string        `yaml:"exporter" mapstructure:"exporter"` // stdout
	BatchTimeout   time.Duration `yaml:"batch_timeout" mapstructure:"batch_timeout"`
}

// DefaultTracingConfig returns tracing disabled with sensible values for
// when it is switched on.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		Enabled:        false,
		ServiceName:    "txt2metadata-connector",
		ServiceVersion: "1.0.0",
		Environment:    "development",
		SamplingRate:   1.0,
		Exporter:       "stdout",
		BatchTimeout:   5 * time.Second,
	}
}

// Init installs a global tracer provider exporting spans to stderr. It does
// nothing when tracing is disabled.
func Init(config TracingConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.Exporter != "" && config.Exporter != "stdout" {
		return fmt.Errorf("unsupported trace exporter: %s", config.Exporter)
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(os.Stderr),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	batchTimeout := config.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 5 * time.Second
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(config.SamplingRate)),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(batchTimeout)),
	)

	providerMu.Lock()
	provider = tp
	providerMu.Unlock()

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return nil
}

// Sampler maps a sampling rate to a sampler. Rates at or below zero never
// sample, rates at or above one always do.
func Sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate <= 0:
		return sdktrace.NeverSample()
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// Shutdown flushes and stops the provider installed by Init
func Shutdown(ctx context.Context) error {
	providerMu.Lock()
	tp := provider
	provider = nil
	providerMu.Unlock()

	if tp == nil {
		return nil
	}
	if err := tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer: %w", err)
	}
	return nil
}

// Span wraps a trace span, batching attributes until End
type Span struct {
	span       trace.Span
	attributes []attribute.KeyValue
}

// SetAttribute adds an attribute to the span
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue

	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}

	s.attributes = append(s.attributes, attr)
}

// RecordError marks the span as failed. A nil error marks it as ok.
func (s *Span) RecordError(err error) {
	if err == nil {
		s.span.SetStatus(codes.Ok, "")
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// End flushes the batched attributes and ends the span
func (s *Span) End() {
	if len(s.attributes) > 0 {
		s.span.SetAttributes(s.attributes...)
	}
	s.span.End()
}

// ConnectorTracer starts spans for a named connector
type ConnectorTracer struct {
	connectorName string
	tracer        trace.Tracer
}

// NewConnectorTracer creates a tracer using the global provider. The
// provider is resolved lazily, so tracers created before Init still export.
func NewConnectorTracer(connectorName string) *ConnectorTracer {
	return NewConnectorTracerWithProvider(connectorName, otel.GetTracerProvider())
}

// NewConnectorTracerWithProvider creates a tracer using tp
func NewConnectorTracerWithProvider(connectorName string, tp trace.TracerProvider) *ConnectorTracer {
	return &ConnectorTracer{
		connectorName: connectorName,
		tracer:        tp.Tracer(InstrumentationName),
	}
}

// StartSpan starts a span named <connector>.<operation>
func (ct *ConnectorTracer) StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	ctx, span := ct.tracer.Start(ctx, ct.connectorName+"."+operation, trace.WithSpanKind(trace.SpanKindClient))

	s := &Span{span: span}
	s.SetAttribute("connector.name", ct.connectorName)
	s.SetAttribute("connector.operation", operation)
	return ctx, s
}

// InjectHeaders writes the trace context of ctx into headers
func InjectHeaders(ctx context.Context, headers http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
}
