package txt2metadata

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ajitpratap0/txt2metadata/pkg/clients"
	"github.com/ajitpratap0/txt2metadata/pkg/errors"
	"github.com/ajitpratap0/txt2metadata/pkg/json"
	"github.com/ajitpratap0/txt2metadata/pkg/logger"
	"github.com/ajitpratap0/txt2metadata/pkg/metrics"
	"github.com/ajitpratap0/txt2metadata/pkg/observability"
)

const (
	// ServiceName names the remote service in errors, spans and logs
	ServiceName = "txt2metadata"

	// DefaultMatches is the number of suggestions requested when no count is given
	DefaultMatches = 10

	PathSimilarToArticle  = "/api/documents/similar/{articleId}"
	PathSimilarToArticles = "/api/documents/similar/articleids"
	PathSimilarToText     = "/api/documents/similar"
)

// Operation names used in metrics, spans and logs
const (
	OperationArticle  = "article"
	OperationArticles = "articles"
	OperationText     = "text"
)

const (
	contentTypeText = "text/plain"
	mediaTypeJSON   = "application/json"
	headerRequestID = "X-Request-Id"
)

// Connector is a client for the txt2metadata service. It is safe for
// concurrent use. Close releases the underlying transport.
type Connector struct {
	client         *clients.FailSafeClient
	baseURL        string
	logger         *zap.Logger
	logTiming      logger.LogFunc
	defaultMatches int
	tracer         *observability.ConnectorTracer

	closed    atomic.Bool
	closeOnce sync.Once
}

// New creates a connector using client and the default retry policy.
func New(client *clients.HTTPClient, baseURL string, opts ...Option) (*Connector, error) {
	return NewWithRetryPolicy(client, clients.DefaultRetryPolicy(), baseURL, opts...)
}

// NewWithRetryPolicy creates a connector retrying requests according to policy.
func NewWithRetryPolicy(client *clients.HTTPClient, policy clients.RetryPolicy, baseURL string, opts ...Option) (*Connector, error) {
	if client == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "http client cannot be nil")
	}
	o := applyOptions(opts)
	return newConnector(clients.NewFailSafeClient(client, policy, o.logger), baseURL, o)
}

// NewWithFailSafe creates a connector on an already configured fail-safe client.
func NewWithFailSafe(client *clients.FailSafeClient, baseURL string, opts ...Option) (*Connector, error) {
	if client == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "fail-safe client cannot be nil")
	}
	return newConnector(client, baseURL, applyOptions(opts))
}

func newConnector(client *clients.FailSafeClient, baseURL string, o *options) (*Connector, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "base URL cannot be empty")
	}

	l := o.logger.With(zap.String("connector", ServiceName))
	return &Connector{
		client:         client,
		baseURL:        baseURL,
		logger:         l,
		logTiming:      logger.LevelFunc(l, o.timingLevel),
		defaultMatches: o.defaultMatches,
		tracer:         o.tracer,
	}, nil
}

// BaseURL returns the service base URL
func (c *Connector) BaseURL() string {
	return c.baseURL
}

// GetMetadataForArticle returns suggestions for the article with articleID
func (c *Connector) GetMetadataForArticle(ctx context.Context, articleID string) ([]Metadata, error) {
	return c.GetMetadataForArticleWithMatches(ctx, articleID, c.defaultMatches)
}

// GetMetadataForArticleWithMatches returns at most matches suggestions for
// the article with articleID
func (c *Connector) GetMetadataForArticleWithMatches(ctx context.Context, articleID string, matches int) ([]Metadata, error) {
	if articleID == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "article id cannot be empty")
	}

	path := clients.NewPathBuilder(PathSimilarToArticle).
		Bind("articleId", articleID).
		Build()

	req := clients.NewGet(c.baseURL).
		WithPathElements(path...)

	return c.call(ctx, OperationArticle, req, matches)
}

// GetMetadataForArticles returns suggestions for a set of articles
func (c *Connector) GetMetadataForArticles(ctx context.Context, articleIDs []string) ([]Metadata, error) {
	return c.GetMetadataForArticlesWithMatches(ctx, articleIDs, c.defaultMatches)
}

// GetMetadataForArticlesWithMatches returns at most matches suggestions
// for a set of articles. The ids are sent as "id1","id2"; an empty set is
// sent as "".
func (c *Connector) GetMetadataForArticlesWithMatches(ctx context.Context, articleIDs []string, matches int) ([]Metadata, error) {
	req := clients.NewPost(c.baseURL).
		WithPathElements(clients.NewPathBuilder(PathSimilarToArticles).Build()...).
		WithData(quoteArticleIDs(articleIDs), contentTypeText)

	return c.call(ctx, OperationArticles, req, matches)
}

// GetMetadataForText returns suggestions for text
func (c *Connector) GetMetadataForText(ctx context.Context, text string) ([]Metadata, error) {
	return c.GetMetadataForTextWithMatches(ctx, text, c.defaultMatches)
}

// GetMetadataForTextWithMatches returns at most matches suggestions for text
func (c *Connector) GetMetadataForTextWithMatches(ctx context.Context, text string, matches int) ([]Metadata, error) {
	if text == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "text cannot be empty")
	}

	req := clients.NewPost(c.baseURL).
		WithPathElements(clients.NewPathBuilder(PathSimilarToText).Build()...).
		WithData(text, contentTypeText)

	return c.call(ctx, OperationText, req, matches)
}

// call executes req with the retry policy, validates the status and decodes
// the suggestions. Timing is logged whatever the outcome.
func (c *Connector) call(ctx context.Context, operation string, req *clients.Request, matches int) (result []Metadata, err error) {
	if c.closed.Load() {
		return nil, errors.New(errors.ErrorTypeClosed, "connector is closed")
	}
	if matches < 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "matches cannot be negative: %d", matches)
	}

	requestID := uuid.NewString()
	ctx = context.WithValue(ctx, logger.RequestIDKey, requestID)
	ctx = context.WithValue(ctx, logger.OperationKey, operation)
	log := logger.FromContext(ctx, c.logger)

	req.WithQueryParameter("matches", matches).
		WithHeader("Accept", mediaTypeJSON).
		WithHeader(headerRequestID, requestID)

	ctx, span := c.tracer.StartSpan(ctx, operation)
	span.SetAttribute("http.method", req.Method)
	span.SetAttribute("http.path", req.Path())
	span.SetAttribute("matches", matches)
	observability.InjectHeaders(ctx, req.Headers)

	if req.Method == http.MethodPost {
		log.Info("dispatching request",
			zap.String("method", req.Method),
			zap.String("path", req.Path()),
			zap.ByteString("data", req.Body))
	} else {
		log.Info("dispatching request",
			zap.String("method", req.Method),
			zap.String("path", req.Path()))
	}

	// The timing covers execution and status validation, not decoding.
	timer := metrics.NewTimer(operation)
	timed := false
	logTiming := func() {
		if timed {
			return
		}
		timed = true
		c.logTiming("request timing",
			zap.String("request_id", requestID),
			zap.String("method", req.Method),
			zap.String("path", req.Path()),
			zap.Int64("elapsed_ms", timer.Stop().Milliseconds()))
	}
	defer func() {
		logTiming()
		metrics.ObserveCall(operation, metrics.Outcome(err), timer.Stop(), len(result))
		span.SetAttribute("suggestions", len(result))
		span.RecordError(err)
		span.End()
	}()

	resp, err := c.client.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	log.Info("response received", zap.Int("status_code", resp.StatusCode))

	if err := assertResponseStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}
	logTiming()

	return readResponseEntity(resp)
}

// Close releases the transport. Calls after the first return nil.
func (c *Connector) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		err = c.client.Close()
	})
	return err
}

func assertResponseStatus(resp *http.Response, expected int) error {
	if resp.StatusCode == expected {
		return nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return errors.UnexpectedStatus(ServiceName, resp.StatusCode)
}

func readResponseEntity(resp *http.Response) ([]Metadata, error) {
	var entity *[]Metadata
	if err := json.Decode(resp.Body, &entity); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeMalformedResponse, "failed to decode "+ServiceName+" response")
	}
	if entity == nil {
		return nil, errors.Newf(errors.ErrorTypeMalformedResponse,
			"%s service returned with null-valued %T entity", ServiceName, []Metadata(nil))
	}
	if *entity == nil {
		return []Metadata{}, nil
	}
	return *entity, nil
}

func quoteArticleIDs(ids []string) string {
	if len(ids) == 0 {
		return `""`
	}
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = `"` + id + `"`
	}
	return strings.Join(quoted, ",")
}
