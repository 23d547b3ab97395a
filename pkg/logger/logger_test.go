package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseTimingLevel(t *testing.T) {
	tests := []struct {
		in   string
		want TimingLevel
	}{
		{"TRACE", TimingTrace},
		{"debug", TimingDebug},
		{" Info ", TimingInfo},
		{"WARN", TimingWarn},
		{"error", TimingError},
		{"", TimingInfo},
		{"VERBOSE", TimingInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTimingLevel(tt.in))
		})
	}
}

func TestIsTimingLevel(t *testing.T) {
	assert.True(t, IsTimingLevel("trace"))
	assert.True(t, IsTimingLevel("ERROR"))
	assert.False(t, IsTimingLevel(""))
	assert.False(t, IsTimingLevel("VERBOSE"))
}

func TestLevelFunc(t *testing.T) {
	tests := []struct {
		level     TimingLevel
		wantLevel zapcore.Level
		wantTrace bool
	}{
		{TimingTrace, zapcore.DebugLevel, true},
		{TimingDebug, zapcore.DebugLevel, false},
		{TimingInfo, zapcore.InfoLevel, false},
		{TimingWarn, zapcore.WarnLevel, false},
		{TimingError, zapcore.ErrorLevel, false},
		{TimingLevel("bogus"), zapcore.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			log := LevelFunc(zap.New(core), tt.level)

			log("GET took", zap.Int64("elapsed_ms", 3))

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.wantLevel, entry.Level)
			_, traced := entry.ContextMap()["trace"]
			assert.Equal(t, tt.wantTrace, traced)
		})
	}
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, OperationKey, "article")

	FromContext(ctx, zap.New(core)).Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "article", fields["operation"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestGet_ReturnsLogger(t *testing.T) {
	assert.NotNil(t, Get())
	assert.NotNil(t, WithContext(context.Background()))
}
