package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	oidcV3 "github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/inference-gateway/support-chat/config"
	"github.com/inference-gateway/support-chat/logger"
	"github.com/inference-gateway/support-chat/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.POST("/api/chat", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r http.Handler, remoteAddr string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(logger.NewNoOpLogger(), 1, 2).(*RateLimiterImpl)
	now := time.Unix(1700000000, 0)
	limiter.now = func() time.Time { return now }

	r := newEngine(limiter.Middleware())

	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1:1234", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1:1234", nil).Code)

	w := doRequest(r, "10.0.0.1:1234", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.2:1234", nil).Code)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1:1234", nil).Code)
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(logger.NewNoOpLogger(), 1, 1).(*RateLimiterImpl)
	now := time.Unix(1700000000, 0)
	limiter.now = func() time.Time { return now }

	limiter.limiter("a")
	now = now.Add(idleLimiterTTL + time.Second)
	limiter.limiter("b")

	assert.Len(t, limiter.clients, 1)
	assert.Contains(t, limiter.clients, "b")
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(logger.NewNoOpLogger(), 0, 0)
	_, ok := limiter.(*RateLimiterNoop)
	require.True(t, ok)

	r := newEngine(limiter.Middleware())
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1:1234", nil).Code)
	}
}

type fakeVerifier struct {
	token string
}

func (f fakeVerifier) Verify(ctx context.Context, raw string) (*oidcV3.IDToken, error) {
	if raw != f.token {
		return nil, errors.New("signature mismatch")
	}
	return &oidcV3.IDToken{Subject: "customer-1"}, nil
}

func TestOIDCAuthenticator(t *testing.T) {
	auth := NewOIDCAuthenticatorWithVerifier(logger.NewNoOpLogger(), fakeVerifier{token: "good"})

	var subject string
	r := gin.New()
	r.Use(auth.Middleware())
	r.POST("/api/chat", func(c *gin.Context) {
		if tok, ok := c.Get(string(IDTokenContextKey)); ok {
			subject = tok.(*oidcV3.IDToken).Subject
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name     string
		header   string
		expected int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
		{"bad token", "Bearer bad", http.StatusUnauthorized},
		{"good token", "Bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.expected, doRequest(r, "10.0.0.1:1234", header).Code)
		})
	}
	assert.Equal(t, "customer-1", subject)
}

func TestOIDCAuthenticator_Disabled(t *testing.T) {
	auth, err := NewOIDCAuthenticatorMiddleware(context.Background(), logger.NewNoOpLogger(), config.Config{EnableAuth: false})
	require.NoError(t, err)

	r := newEngine(auth.Middleware())
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1:1234", nil).Code)
}

func TestTelemetryMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	telemetry := mocks.NewMockOpenTelemetry(ctrl)

	telemetry.EXPECT().RecordRequestDuration(gomock.Any(), http.MethodPost, "/api/chat", http.StatusOK, gomock.Any())
	telemetry.EXPECT().RecordRequestDuration(gomock.Any(), http.MethodGet, "unmatched", http.StatusNotFound, gomock.Any())

	r := newEngine(NewTelemetryMiddleware(telemetry, logger.NewNoOpLogger()).Middleware())
	doRequest(r, "10.0.0.1:1234", nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoggerMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := mocks.NewMockLogger(ctrl)
	l.EXPECT().Info("request served",
		"method", http.MethodPost,
		"path", "/api/chat",
		"status", http.StatusOK,
		"latency", gomock.Any(),
		"client_ip", "10.0.0.1",
	)

	r := newEngine(NewLoggerMiddleware(l).Middleware())
	assert.Equal(t, http.StatusOK, doRequest(r, "10.0.0.1:1234", nil).Code)
}
