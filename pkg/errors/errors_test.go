package errors

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeConnection, "ignored"))
}

func TestWrap_PreservesCauseAndStack(t *testing.T) {
	inner := New(ErrorTypeTimeout, "deadline exceeded")
	outer := Wrap(inner, ErrorTypeConnection, "request failed")

	require.NotNil(t, outer)
	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, stderrors.Is(outer, inner))
	assert.Equal(t, "connection: request failed: timeout: deadline exceeded", outer.Error())
}

func TestWrap_StandardError(t *testing.T) {
	err := Wrap(io.EOF, ErrorTypeMalformedResponse, "empty body")

	assert.True(t, stderrors.Is(err, io.EOF))
	assert.NotEmpty(t, err.Stack)
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOK   bool
	}{
		{name: "unexpected status", err: UnexpectedStatus("txt2metadata", 404), wantCode: 404, wantOK: true},
		{name: "wrapped unexpected status", err: Wrap(UnexpectedStatus("txt2metadata", 502), ErrorTypeUnexpectedStatus, "outer"), wantCode: 0, wantOK: false},
		{name: "other type", err: New(ErrorTypeConnection, "reset"), wantOK: false},
		{name: "plain error", err: io.EOF, wantOK: false},
		{name: "nil", err: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := StatusCode(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    bool
	}{
		{ErrorTypeConnection, true},
		{ErrorTypeTimeout, true},
		{ErrorTypeRateLimit, true},
		{ErrorTypeCircuitOpen, true},
		{ErrorTypeConfig, false},
		{ErrorTypeUnexpectedStatus, false},
		{ErrorTypeMalformedResponse, false},
		{ErrorTypeClosed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(New(tt.errType, "x")))
		})
	}
	assert.False(t, IsRetryable(io.EOF))
}
