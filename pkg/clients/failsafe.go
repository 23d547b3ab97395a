package clients

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/txt2metadata/pkg/errors"
	"github.com/ajitpratap0/txt2metadata/pkg/metrics"
)

// FailSafeClient executes requests through an HTTPClient, retrying
// attempts according to a RetryPolicy.
type FailSafeClient struct {
	client *HTTPClient
	policy RetryPolicy
	logger *zap.Logger
}

// NewFailSafeClient wraps client with policy
func NewFailSafeClient(client *HTTPClient, policy RetryPolicy, logger *zap.Logger) *FailSafeClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FailSafeClient{
		client: client,
		policy: policy.Clone(),
		logger: logger.With(zap.String("component", "failsafe_client")),
	}
}

// Client returns the wrapped HTTP client
func (c *FailSafeClient) Client() *HTTPClient {
	return c.client
}

// Policy returns a copy of the retry policy
func (c *FailSafeClient) Policy() RetryPolicy {
	return c.policy.Clone()
}

// Execute sends req, retrying while the policy allows it. It returns the
// last response, or the last transport error when no response was
// obtained. Responses are not checked for status beyond the retry
// condition; callers validate the final status themselves.
func (c *FailSafeClient) Execute(ctx context.Context, req *Request) (*http.Response, error) {
	for attempts := 1; ; attempts++ {
		httpReq, err := req.Build(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid request").
				WithDetail("url", req.URL())
		}

		resp, err := c.client.Do(httpReq)

		outcome := Outcome{Err: err}
		if resp != nil {
			outcome.StatusCode = resp.StatusCode
		}

		delay, retry := c.policy.Decide(attempts, outcome)
		if !retry || ctx.Err() != nil {
			return resp, err
		}

		reason := "transport"
		if err == nil {
			reason = strconv.Itoa(outcome.StatusCode)
		}
		metrics.RetriesTotal.WithLabelValues(req.Method, reason).Inc()
		c.logger.Warn("retrying request",
			zap.String("method", req.Method),
			zap.String("path", req.Path()),
			zap.String("reason", reason),
			zap.Int("attempt", attempts),
			zap.Duration("delay", delay),
			zap.Error(err))

		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		if err := sleep(ctx, delay); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeTimeout, "retry cancelled").
				WithDetail("attempts", attempts)
		}
	}
}

// Close closes the wrapped HTTP client
func (c *FailSafeClient) Close() error {
	return c.client.Close()
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
