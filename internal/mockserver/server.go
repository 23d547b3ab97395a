// Package mockserver implements an in-process stand-in for the txt2metadata
// service. It serves fixture suggestions, records every request and can be
// told to reply with arbitrary statuses and bodies to exercise failure paths.
package mockserver

import (
	"bytes"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// DefaultMatches is used when a request has no matches parameter
const DefaultMatches = 10

// Suggestion is one entry of a txt2metadata response
type Suggestion struct {
	Value string `json:"value"`
	Score int    `json:"score"`
	Type  string `json:"type"`
}

// Reply is a canned response served instead of the fixtures
type Reply struct {
	Status int
	Body   string
	// Gzip compresses Body and sets Content-Encoding
	Gzip bool
	// Delay is waited before replying, or until the client goes away
	Delay time.Duration
	// Headers are set on the response as given, after Gzip
	Headers map[string]string
}

// RecordedRequest is a request received by the server
type RecordedRequest struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Accept      string
	RequestID   string
	Body        string
}

// Server serves txt2metadata requests from fixtures
type Server struct {
	logger *zap.Logger
	router *gin.Engine

	mu          sync.Mutex
	articles    map[string][]Suggestion
	articleSets map[string][]Suggestion
	texts       map[string][]Suggestion
	replies     []Reply
	requests    []RecordedRequest
}

// New creates a server loaded with the default fixtures
func New(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	server := &Server{
		logger:      logger.With(zap.String("component", "mockserver")),
		articles:    defaultArticles(),
		articleSets: defaultArticleSets(),
		texts:       defaultTexts(),
	}

	router := gin.New()
	router.Use(gin.Recovery(), server.record, server.canned)

	router.GET("/api/documents/similar/:articleId", server.similarToArticle)
	router.POST("/api/documents/similar/articleids", server.similarToArticles)
	router.POST("/api/documents/similar", server.similarToText)

	server.router = router
	return server
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetArticle sets the suggestions returned for a single article
func (s *Server) SetArticle(id string, suggestions ...Suggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[id] = suggestions
}

// SetArticles sets the suggestions returned for a set of articles
func (s *Server) SetArticles(ids []string, suggestions ...Suggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articleSets[articleSetKey(ids)] = suggestions
}

// SetText sets the suggestions returned for text
func (s *Server) SetText(text string, suggestions ...Suggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[text] = suggestions
}

// Enqueue queues canned replies. Each request consumes the oldest queued
// reply; fixtures are served once the queue is empty.
func (s *Server) Enqueue(replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

// EnqueueStatus queues count replies with status and an empty body
func (s *Server) EnqueueStatus(status, count int) {
	replies := make([]Reply, count)
	for i := range replies {
		replies[i] = Reply{Status: status}
	}
	s.Enqueue(replies...)
}

// Requests returns the requests received so far
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// RequestCount returns the number of requests received so far
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Reset restores the default fixtures and drops queued replies and
// recorded requests
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = defaultArticles()
	s.articleSets = defaultArticleSets()
	s.texts = defaultTexts()
	s.replies = nil
	s.requests = nil
}

// record stores the request and restores its body for the handlers
func (s *Server) record(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Query:       c.Request.URL.RawQuery,
		ContentType: c.GetHeader("Content-Type"),
		Accept:      c.GetHeader("Accept"),
		RequestID:   c.GetHeader("X-Request-Id"),
		Body:        string(body),
	})
	s.mu.Unlock()

	s.logger.Debug("request received",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("body_bytes", len(body)))

	c.Next()
}

// canned serves the oldest queued reply, if any
func (s *Server) canned(c *gin.Context) {
	s.mu.Lock()
	if len(s.replies) == 0 {
		s.mu.Unlock()
		c.Next()
		return
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	s.mu.Unlock()

	if reply.Delay > 0 {
		select {
		case <-time.After(reply.Delay):
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}

	body := []byte(reply.Body)
	if reply.Gzip {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write(body)
		_ = zw.Close()
		body = buf.Bytes()
		c.Header("Content-Encoding", "gzip")
	}

	for name, value := range reply.Headers {
		c.Header(name, value)
	}

	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	c.Data(status, "application/json", body)
	c.Abort()
}

func (s *Server) similarToArticle(c *gin.Context) {
	matches, ok := parseMatches(c)
	if !ok {
		return
	}

	s.mu.Lock()
	suggestions, found := s.articles[c.Param("articleId")]
	s.mu.Unlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	c.JSON(http.StatusOK, limit(suggestions, matches))
}

func (s *Server) similarToArticles(c *gin.Context) {
	matches, ok := parseMatches(c)
	if !ok {
		return
	}
	body, _ := io.ReadAll(c.Request.Body)
	ids := ParseArticleIDs(string(body))

	s.mu.Lock()
	suggestions, found := s.articleSets[articleSetKey(ids)]
	if !found {
		suggestions = s.merge(ids)
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, limit(suggestions, matches))
}

func (s *Server) similarToText(c *gin.Context) {
	matches, ok := parseMatches(c)
	if !ok {
		return
	}
	body, _ := io.ReadAll(c.Request.Body)

	s.mu.Lock()
	suggestions := s.texts[strings.TrimSpace(string(body))]
	s.mu.Unlock()

	c.JSON(http.StatusOK, limit(suggestions, matches))
}

// merge combines the suggestions of known single articles, best score
// first. Caller holds mu.
func (s *Server) merge(ids []string) []Suggestion {
	seen := make(map[string]bool)
	merged := make([]Suggestion, 0)
	for _, id := range ids {
		for _, suggestion := range s.articles[id] {
			if seen[suggestion.Value] {
				continue
			}
			seen[suggestion.Value] = true
			merged = append(merged, suggestion)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged
}

// ParseArticleIDs parses a "id1","id2" request body
func ParseArticleIDs(body string) []string {
	ids := make([]string, 0)
	for _, part := range strings.Split(body, ",") {
		id := strings.Trim(strings.TrimSpace(part), `"`)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func articleSetKey(ids []string) string {
	return strings.Join(ids, ",")
}

func parseMatches(c *gin.Context) (int, bool) {
	raw := c.Query("matches")
	if raw == "" {
		return DefaultMatches, true
	}
	matches, err := strconv.Atoi(raw)
	if err != nil || matches < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "matches must be a non-negative integer"})
		return 0, false
	}
	return matches, true
}

func limit(suggestions []Suggestion, matches int) []Suggestion {
	if len(suggestions) > matches {
		suggestions = suggestions[:matches]
	}
	return append(make([]Suggestion, 0, len(suggestions)), suggestions...)
}
