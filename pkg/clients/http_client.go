// Package clients provides the HTTP transport used by the txt2metadata
// connector: a tuned HTTP client with optional rate limiting and circuit
// breaking, and a fail-safe wrapper applying a retry policy.
package clients

import (
	"context"
	"crypto/tls"
	stderrors "errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"

	"github.com/ajitpratap0/txt2metadata/pkg/errors"
	"github.com/ajitpratap0/txt2metadata/pkg/metrics"
)

// DefaultUserAgent is sent when a request carries no User-Agent
const DefaultUserAgent = "txt2metadata-connector/1.0"

// HTTPClient is the transport handle shared by all connector calls. It is
// safe for concurrent use.
type HTTPClient struct {
	config     *HTTPConfig
	logger     *zap.Logger
	httpClient *http.Client
	transport  *http.Transport

	circuitBreaker *CircuitBreaker
	rateLimiter    RateLimiter

	totalRequests  int64
	failedRequests int64

	closed    atomic.Bool
	closeOnce sync.Once
}

// HTTPConfig configures the HTTP client
type HTTPConfig struct {
	// Connection settings
	MaxIdleConns        int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `yaml:"max_conns_per_host" mapstructure:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout" mapstructure:"idle_conn_timeout"`
	DisableKeepAlives   bool          `yaml:"disable_keep_alives" mapstructure:"disable_keep_alives"`
	DisableCompression  bool          `yaml:"disable_compression" mapstructure:"disable_compression"`
	EnableHTTP2         bool          `yaml:"enable_http2" mapstructure:"enable_http2"`

	// Timeouts
	DialTimeout           time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout" mapstructure:"tls_handshake_timeout"`
	ResponseHeaderTimeout time.Duration `yaml:"response_header_timeout" mapstructure:"response_header_timeout"`
	RequestTimeout        time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	KeepAlive             time.Duration `yaml:"keep_alive" mapstructure:"keep_alive"`

	// TLS settings
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`

	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Rate limiting, disabled when RateLimit is 0
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst"`

	// Circuit breaker
	CircuitBreakerEnabled bool          `yaml:"circuit_breaker_enabled" mapstructure:"circuit_breaker_enabled"`
	FailureThreshold      int           `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	SuccessThreshold      int           `yaml:"success_threshold" mapstructure:"success_threshold"`
	OpenTimeout           time.Duration `yaml:"open_timeout" mapstructure:"open_timeout"`
}

// DefaultHTTPConfig returns the default transport configuration
func DefaultHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       0,
		IdleConnTimeout:       90 * time.Second,
		DisableKeepAlives:     false,
		DisableCompression:    false,
		EnableHTTP2:           true,
		DialTimeout:           30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		RequestTimeout:        90 * time.Second,
		KeepAlive:             30 * time.Second,
		InsecureSkipVerify:    false,
		UserAgent:             DefaultUserAgent,
		RateLimit:             0,
		RateBurst:             10,
		CircuitBreakerEnabled: false,
		FailureThreshold:      5,
		SuccessThreshold:      2,
		OpenTimeout:           30 * time.Second,
	}
}

// NewHTTPClient creates a new HTTP client. A nil config uses DefaultHTTPConfig.
func NewHTTPClient(config *HTTPConfig, logger *zap.Logger) *HTTPClient {
	if config == nil {
		config = DefaultHTTPConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &HTTPClient{
		config: config,
		logger: logger.With(zap.String("component", "http_client")),
	}

	client.transport = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		MaxConnsPerHost:       config.MaxConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		DisableKeepAlives:     config.DisableKeepAlives,
		DisableCompression:    config.DisableCompression,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ResponseHeaderTimeout: config.ResponseHeaderTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify, //nolint:gosec // opt-in for test environments
			MinVersion:         tls.VersionTLS12,
		},
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(client.transport); err != nil {
			client.logger.Warn("failed to configure HTTP/2", zap.Error(err))
		}
	}

	client.httpClient = &http.Client{
		Transport: client.transport,
		Timeout:   config.RequestTimeout,
	}

	if config.RateLimit > 0 {
		client.rateLimiter = NewTokenBucketRateLimiter(config.RateLimit, config.RateBurst)
	}

	if config.CircuitBreakerEnabled {
		client.circuitBreaker = NewCircuitBreaker(config.FailureThreshold, config.SuccessThreshold, config.OpenTimeout, logger)
	}

	return client
}

// Do performs a single HTTP attempt. Transport failures are returned as
// structured errors of type connection, timeout, rate_limit, circuit_open
// or closed. Any response, whatever its status, is returned without error.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	if c.closed.Load() {
		return nil, errors.New(errors.ErrorTypeClosed, "http client is closed")
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(req.Context()); err != nil {
			atomic.AddInt64(&c.failedRequests, 1)
			return nil, errors.Wrap(err, errors.ErrorTypeRateLimit, "rate limit wait aborted")
		}
	}

	if c.circuitBreaker != nil && !c.circuitBreaker.Allow() {
		atomic.AddInt64(&c.failedRequests, 1)
		return nil, errors.New(errors.ErrorTypeCircuitOpen, "circuit breaker open").
			WithDetail("host", req.URL.Host)
	}

	c.applyDefaultHeaders(req)

	atomic.AddInt64(&c.totalRequests, 1)
	start := time.Now()

	resp, err := c.httpClient.Do(req)

	duration := time.Since(start)
	if err != nil {
		metrics.ObserveHTTP(req.Method, req.URL.Host, "error", duration)
		atomic.AddInt64(&c.failedRequests, 1)
		if c.circuitBreaker != nil {
			c.circuitBreaker.RecordFailure()
		}
		return nil, classifyTransportError(err)
	}
	metrics.ObserveHTTP(req.Method, req.URL.Host, metrics.StatusOutcome(resp.StatusCode), duration)

	if c.circuitBreaker != nil {
		if resp.StatusCode >= http.StatusInternalServerError {
			c.circuitBreaker.RecordFailure()
		} else {
			c.circuitBreaker.RecordSuccess()
		}
	}

	if !c.config.DisableCompression {
		decodeBody(resp)
	}

	return resp, nil
}

// applyDefaultHeaders sets the headers every request carries
func (c *HTTPClient) applyDefaultHeaders(req *http.Request) {
	if req.Header.Get("Accept-Encoding") == "" && !c.config.DisableCompression {
		req.Header.Set("Accept-Encoding", "gzip, deflate")
	}

	if req.Header.Get("User-Agent") == "" {
		userAgent := c.config.UserAgent
		if userAgent == "" {
			userAgent = DefaultUserAgent
		}
		req.Header.Set("User-Agent", userAgent)
	}
}

// classifyTransportError maps a client error to a structured error
func classifyTransportError(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.Wrap(err, errors.ErrorTypeTimeout, "request aborted")
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.Wrap(err, errors.ErrorTypeTimeout, "request timed out")
	}
	return errors.Wrap(err, errors.ErrorTypeConnection, "request failed")
}

// Stats returns the number of attempts made and how many failed at transport level
func (c *HTTPClient) Stats() (total, failed int64) {
	return atomic.LoadInt64(&c.totalRequests), atomic.LoadInt64(&c.failedRequests)
}

// CircuitState returns the circuit breaker state, or StateClosed when disabled
func (c *HTTPClient) CircuitState() CircuitState {
	if c.circuitBreaker == nil {
		return StateClosed
	}
	return c.circuitBreaker.State()
}

// Close releases idle connections. It is safe to call more than once; only
// the first call has an effect.
func (c *HTTPClient) Close() error {
	c.closeOnce.Do(func() {
		c.logger.Info("closing HTTP client")
		c.closed.Store(true)
		c.transport.CloseIdleConnections()
	})
	return nil
}
