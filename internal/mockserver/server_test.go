package mockserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, s *Server, method, target, body string) (int, []Suggestion) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out []Suggestion
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func TestSimilarToArticle(t *testing.T) {
	s := New(nil)

	status, out := serve(t, s, http.MethodGet, "/api/documents/similar/"+ArticleSports+"?matches=10", "")

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, out, 2)
	assert.Equal(t, Suggestion{Value: "652*m97.8", Score: 2, Type: "dk5"}, out[0])
	assert.Equal(t, "610*aJydsk Boldspil-Union*2ARTB", out[1].Value)
}

func TestSimilarToArticle_Matches(t *testing.T) {
	s := New(nil)

	_, out := serve(t, s, http.MethodGet, "/api/documents/similar/"+ArticleSports+"?matches=1", "")
	assert.Len(t, out, 1)

	status, _ := serve(t, s, http.MethodGet, "/api/documents/similar/"+ArticleSports+"?matches=many", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSimilarToArticle_Unknown(t *testing.T) {
	status, _ := serve(t, New(nil), http.MethodGet, "/api/documents/similar/unknown", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSimilarToArticles(t *testing.T) {
	s := New(nil)

	status, out := serve(t, s, http.MethodPost, "/api/documents/similar/articleids?matches=10",
		`"e70a69a1","e70a7341"`)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, out, 2)
	assert.Equal(t, "652*m97.8", out[0].Value)
	assert.Equal(t, "666*fvelfærdsstaten", out[1].Value)
}

func TestSimilarToArticles_MergesKnownArticles(t *testing.T) {
	s := New(nil)

	_, out := serve(t, s, http.MethodPost, "/api/documents/similar/articleids", `"e70a7341","unknown","e70a69a1"`)

	require.Len(t, out, 3)
	assert.Equal(t, 2, out[0].Score)
}

func TestSimilarToArticles_Empty(t *testing.T) {
	status, out := serve(t, New(nil), http.MethodPost, "/api/documents/similar/articleids", `""`)

	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestSimilarToText(t *testing.T) {
	s := New(nil)

	_, out := serve(t, s, http.MethodPost, "/api/documents/similar?matches=10", TextTheMule)
	require.Len(t, out, 3)
	assert.Equal(t, "630*ftrash metal*2ARTB", out[0].Value)
	assert.Equal(t, "630*aArtillery (rockgruppe)", out[1].Value)
	assert.Equal(t, "630*ferkendelsesteori*2ARTB", out[2].Value)

	status, out := serve(t, s, http.MethodPost, "/api/documents/similar", "unknown text")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, out)
}

func TestSetFixtures(t *testing.T) {
	s := New(nil)
	s.SetArticle("a1", Suggestion{Value: "v1", Score: 5, Type: "dk5"})
	s.SetArticles([]string{"a1", "a2"}, Suggestion{Value: "v12", Score: 4, Type: "emne"})
	s.SetText("hello", Suggestion{Value: "greeting", Score: 1, Type: "emne"})

	_, out := serve(t, s, http.MethodGet, "/api/documents/similar/a1", "")
	assert.Equal(t, "v1", out[0].Value)

	_, out = serve(t, s, http.MethodPost, "/api/documents/similar/articleids", `"a1","a2"`)
	assert.Equal(t, "v12", out[0].Value)

	_, out = serve(t, s, http.MethodPost, "/api/documents/similar", "hello")
	assert.Equal(t, "greeting", out[0].Value)
}

func TestEnqueue(t *testing.T) {
	s := New(nil)
	s.EnqueueStatus(http.StatusBadGateway, 2)
	s.Enqueue(Reply{Status: http.StatusOK, Body: "null"})

	status, _ := serve(t, s, http.MethodGet, "/api/documents/similar/"+ArticleSports, "")
	assert.Equal(t, http.StatusBadGateway, status)
	status, _ = serve(t, s, http.MethodGet, "/api/documents/similar/"+ArticleSports, "")
	assert.Equal(t, http.StatusBadGateway, status)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents/similar/"+ArticleSports, nil))
	assert.Equal(t, "null", rec.Body.String())

	status, out := serve(t, s, http.MethodGet, "/api/documents/similar/"+ArticleSports, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, out, 2)
}

func TestEnqueue_Gzip(t *testing.T) {
	s := New(nil)
	s.Enqueue(Reply{Body: `[]`, Gzip: true})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents/similar/x", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.NotEqual(t, "[]", rec.Body.String())
}

func TestRequests(t *testing.T) {
	s := New(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/similar?matches=3", strings.NewReader("some text"))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", "req-1")
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	requests := s.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, RecordedRequest{
		Method:      http.MethodPost,
		Path:        "/api/documents/similar",
		Query:       "matches=3",
		ContentType: "text/plain",
		Accept:      "application/json",
		RequestID:   "req-1",
		Body:        "some text",
	}, requests[0])
	assert.Equal(t, 1, s.RequestCount())

	s.Reset()
	assert.Zero(t, s.RequestCount())
}

func TestParseArticleIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseArticleIDs(`"a","b"`))
	assert.Equal(t, []string{"a"}, ParseArticleIDs(`"a"`))
	assert.Empty(t, ParseArticleIDs(`""`))
	assert.Empty(t, ParseArticleIDs(``))
}
