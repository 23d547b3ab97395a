package observability

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer(t *testing.T) (*ConnectorTracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewConnectorTracerWithProvider("txt2metadata", tp), recorder
}

func attributeMap(attrs []attribute.KeyValue) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value.Emit()
	}
	return m
}

func TestConnectorTracer_StartSpan(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	_, span := tracer.StartSpan(context.Background(), "article")
	span.SetAttribute("article.id", "e70a69a1")
	span.SetAttribute("matches", 10)
	span.SetAttribute("retried", false)
	span.RecordError(nil)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "txt2metadata.article", ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)

	attrs := attributeMap(ended[0].Attributes())
	assert.Equal(t, "txt2metadata", attrs["connector.name"])
	assert.Equal(t, "article", attrs["connector.operation"])
	assert.Equal(t, "e70a69a1", attrs["article.id"])
	assert.Equal(t, "10", attrs["matches"])
	assert.Equal(t, "false", attrs["retried"])
}

func TestSpan_RecordError(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	_, span := tracer.StartSpan(context.Background(), "text")
	span.RecordError(errors.New("unexpected status"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "unexpected status", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestSampler(t *testing.T) {
	assert.Contains(t, Sampler(0).Description(), "AlwaysOff")
	assert.Contains(t, Sampler(1).Description(), "AlwaysOn")
	assert.Contains(t, Sampler(0.5).Description(), "TraceIDRatioBased")
}

func TestInitDisabled(t *testing.T) {
	require.NoError(t, Init(DefaultTracingConfig()))
	assert.NoError(t, Shutdown(context.Background()))
}

func TestInitUnsupportedExporter(t *testing.T) {
	cfg := DefaultTracingConfig()
	cfg.Enabled = true
	cfg.Exporter = "jaeger"

	assert.Error(t, Init(cfg))
}

func TestInitAndShutdown(t *testing.T) {
	cfg := DefaultTracingConfig()
	cfg.Enabled = true

	require.NoError(t, Init(cfg))
	assert.NoError(t, Shutdown(context.Background()))
	assert.NoError(t, Shutdown(context.Background()))
}

func TestInjectHeaders(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "call")
	defer span.End()

	headers := make(http.Header)
	propagation.TraceContext{}.Inject(ctx, propagation.HeaderCarrier(headers))
	assert.NotEmpty(t, headers.Get("traceparent"))

	// a context without a span injects nothing
	global := make(http.Header)
	InjectHeaders(context.Background(), global)
	assert.Empty(t, global.Get("traceparent"))
}
