package testutil

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/txt2metadata/internal/mockserver"
)

// NewMockService starts a mock txt2metadata service loaded with the default
// fixtures. It is stopped when the test completes.
func NewMockService(t testing.TB) (*mockserver.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := mockserver.New(zaptest.NewLogger(t))
	server := httptest.NewServer(service.Handler())
	t.Cleanup(server.Close)

	return service, server.URL
}

// ServiceSuite provides a mock txt2metadata service to every test of a suite.
// Replies and recorded requests are reset before each test.
type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	cancel    context.CancelFunc
	service   *mockserver.Server
	server    *httptest.Server
	startTime time.Time
}

// SetupSuite runs before all tests in the suite
func (s *ServiceSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.startTime = time.Now()

	s.service = mockserver.New(nil)
	s.server = httptest.NewServer(s.service.Handler())

	s.T().Logf("mock txt2metadata service listening on %s", s.server.URL)
}

// SetupTest runs before each test
func (s *ServiceSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 30*time.Second)
	s.service.Reset()
}

// TearDownTest runs after each test
func (s *ServiceSuite) TearDownTest() {
	s.cancel()
}

// TearDownSuite runs after all tests in the suite
func (s *ServiceSuite) TearDownSuite() {
	s.server.Close()
	s.T().Logf("suite completed in %v", time.Since(s.startTime))
}

// Context returns the context of the current test
func (s *ServiceSuite) Context() context.Context {
	return s.ctx
}

// Service returns the mock service
func (s *ServiceSuite) Service() *mockserver.Server {
	return s.service
}

// BaseURL returns the URL the mock service listens on
func (s *ServiceSuite) BaseURL() string {
	return s.server.URL
}
