package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/inference-gateway/support-chat/agent"
	"github.com/inference-gateway/support-chat/config"
	"github.com/inference-gateway/support-chat/logger"
	"github.com/inference-gateway/support-chat/mcp"
	"github.com/inference-gateway/support-chat/mocks"
	"github.com/inference-gateway/support-chat/providers"
	"github.com/inference-gateway/support-chat/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine   *gin.Engine
	agent    *mocks.MockAgent
	mcp      *mocks.MockMCPClientInterface
	sessions *session.MemoryStore
}

func newTestServer(t *testing.T, opts ...func(*config.Config)) *testServer {
	ctrl := gomock.NewController(t)
	s := &testServer{
		agent:    mocks.NewMockAgent(ctrl),
		mcp:      mocks.NewMockMCPClientInterface(ctrl),
		sessions: session.NewMemoryStore(time.Hour),
	}

	cfg := config.Config{Chat: &config.ChatConfig{MaxMessageLength: 20, HistoryLimit: 20, TurnTimeout: time.Minute}}
	for _, opt := range opts {
		opt(&cfg)
	}
	router := NewRouter(cfg, logger.NewNoOpLogger(), s.agent, s.mcp, s.sessions)

	r := gin.New()
	r.GET("/", router.IndexHandler)
	r.POST("/api/chat", router.ChatHandler)
	r.POST("/api/clear", router.ClearHandler)
	r.GET("/api/tools", router.ListToolsHandler)
	r.GET("/health", router.HealthcheckHandler)
	r.NoRoute(router.NotFoundHandler)
	s.engine = r
	return s
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func doneResult(history []providers.Message, user, reply string) *agent.Result {
	transcript := append(append([]providers.Message{}, history...),
		providers.Message{Role: providers.MessageRoleUser, Content: user},
		providers.Message{Role: providers.MessageRoleAssistant, Content: reply},
	)
	return &agent.Result{State: agent.StateDone, Response: reply, Transcript: transcript, Iterations: 1}
}

func TestIndexHandler(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "TechStore Support")
}

func TestChatHandler_NewSessionThenContinue(t *testing.T) {
	s := newTestServer(t)

	s.agent.EXPECT().Run(gomock.Any(), []providers.Message{}, "Hi").
		Return(doneResult(nil, "Hi", "Hello! **How** can I help?"), nil)

	w := s.do(http.MethodPost, "/api/chat", ChatRequest{Message: "  Hi \n"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	first := decode[ChatResponse](t, w)
	assert.True(t, session.ValidID(first.SessionID))
	assert.Equal(t, "Hello! **How** can I help?", first.Response)
	assert.Contains(t, first.HTML, "<strong>How</strong>")
	assert.Len(t, first.Transcript, 2)
	assert.NotNil(t, first.ToolCalls)

	s.agent.EXPECT().Run(gomock.Any(), gomock.Len(2), "Thanks").
		DoAndReturn(func(_ context.Context, history []providers.Message, msg string) (*agent.Result, error) {
			return doneResult(history, msg, "You're welcome!"), nil
		})

	w = s.do(http.MethodPost, "/api/chat", ChatRequest{Message: "Thanks", SessionID: first.SessionID})
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[ChatResponse](t, w)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Len(t, second.Transcript, 4)

	stored, err := s.sessions.Load(context.Background(), first.SessionID)
	require.NoError(t, err)
	assert.Len(t, stored, 4)
}

func TestChatHandler_Validation(t *testing.T) {
	tests := []struct {
		name     string
		body     interface{}
		expected int
	}{
		{"malformed json", `{"message":`, http.StatusBadRequest},
		{"empty message", ChatRequest{Message: ""}, http.StatusBadRequest},
		{"whitespace message", ChatRequest{Message: " \t\n "}, http.StatusBadRequest},
		{"too long", ChatRequest{Message: strings.Repeat("a", 21)}, http.StatusRequestEntityTooLarge},
		{"invalid session id", ChatRequest{Message: "Hi", SessionID: "../../etc/passwd"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.agent.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			w := s.do(http.MethodPost, "/api/chat", tt.body)
			assert.Equal(t, tt.expected, w.Code)
			assert.NotEmpty(t, decode[ErrorResponse](t, w).Error)
		})
	}
}

func TestChatHandler_LengthCountsCharacters(t *testing.T) {
	s := newTestServer(t)
	msg := strings.Repeat("\u00e9", 20)

	s.agent.EXPECT().Run(gomock.Any(), gomock.Any(), msg).Return(doneResult(nil, msg, "ok"), nil)

	w := s.do(http.MethodPost, "/api/chat", ChatRequest{Message: msg})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChatHandler_NormalizesInput(t *testing.T) {
	s := newTestServer(t)
	decomposed := "Cafe\u0301 monitor"
	composed := "Caf\u00e9 monitor"

	s.agent.EXPECT().Run(gomock.Any(), gomock.Any(), composed).Return(doneResult(nil, composed, "ok"), nil)

	w := s.do(http.MethodPost, "/api/chat", ChatRequest{Message: decomposed})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChatHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		expected string
	}{
		{"rate limited", &providers.RateLimitError{Message: "slow down"}, http.StatusTooManyRequests, MessageBusy},
		{"provider error", &providers.ProviderError{StatusCode: 500, Message: "boom"}, http.StatusBadGateway, MessageTryAgain},
		{"mcp unreachable", &mcp.ConnectionError{URL: "http://mcp", Err: errors.New("refused")}, http.StatusServiceUnavailable, MessageToolsOffline},
		{"iteration cap", fmt.Errorf("%w: after 6 calls", agent.ErrIterationCapExceeded), http.StatusInternalServerError, MessageIncomplete},
		{"unknown", errors.New("???"), http.StatusInternalServerError, MessageInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			id := session.NewID()
			history := []providers.Message{{Role: providers.MessageRoleUser, Content: "earlier"}}
			require.NoError(t, s.sessions.Save(context.Background(), id, history))

			s.agent.EXPECT().Run(gomock.Any(), gomock.Any(), "Hi").
				Return(&agent.Result{State: agent.StateFailed}, tt.err)

			w := s.do(http.MethodPost, "/api/chat", ChatRequest{Message: "Hi", SessionID: id})
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.expected, decode[ErrorResponse](t, w).Error)
			assert.NotContains(t, w.Body.String(), tt.err.Error(), "internal errors must not leak")

			stored, err := s.sessions.Load(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, history, stored, "failed turns are not persisted")
		})
	}
}

func TestChatHandler_TurnDeadline(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Chat.TurnTimeout = 50 * time.Millisecond })
	id := session.NewID()

	s.agent.EXPECT().Run(gomock.Any(), gomock.Any(), "Hi").
		DoAndReturn(func(ctx context.Context, _ []providers.Message, _ string) (*agent.Result, error) {
			<-ctx.Done()
			return &agent.Result{State: agent.StateFailed}, &mcp.ConnectionError{URL: "http://mcp", Err: ctx.Err()}
		})

	start := time.Now()
	w := s.do(http.MethodPost, "/api/chat", ChatRequest{Message: "Hi", SessionID: id})
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, MessageIncomplete, decode[ErrorResponse](t, w).Error)

	stored, err := s.sessions.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestChatHandler_TrimsStoredTranscript(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Chat.HistoryLimit = 2 })
	id := session.NewID()

	var long []providers.Message
	for i := 0; i < 10; i++ {
		long = append(long,
			providers.Message{Role: providers.MessageRoleUser, Content: fmt.Sprintf("question %d", i)},
			providers.Message{Role: providers.MessageRoleAssistant, Content: fmt.Sprintf("answer %d", i)},
		)
	}
	require.NoError(t, s.sessions.Save(context.Background(), id, long))

	s.agent.EXPECT().Run(gomock.Any(), gomock.Any(), "Hi").
		DoAndReturn(func(_ context.Context, history []providers.Message, msg string) (*agent.Result, error) {
			return doneResult(history, msg, "Hello"), nil
		})

	w := s.do(http.MethodPost, "/api/chat", ChatRequest{Message: "Hi", SessionID: id})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := s.sessions.Load(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, stored, 3*2)
	assert.Equal(t, providers.MessageRoleUser, stored[0].Role)
	assert.Equal(t, "question 8", stored[0].Content)
	assert.Equal(t, "Hello", stored[len(stored)-1].Content)
}

func TestClearHandler(t *testing.T) {
	s := newTestServer(t)
	id := session.NewID()
	require.NoError(t, s.sessions.Save(context.Background(), id, []providers.Message{{Role: providers.MessageRoleUser, Content: "hi"}}))

	w := s.do(http.MethodPost, "/api/clear", ClearRequest{SessionID: id})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[StatusResponse](t, w).Status)

	stored, err := s.sessions.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, stored)

	w = s.do(http.MethodPost, "/api/clear", ClearRequest{SessionID: "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListToolsHandler(t *testing.T) {
	s := newTestServer(t)
	s.agent.EXPECT().Tools(gomock.Any()).Return([]providers.ChatCompletionTool{{
		Type:     providers.ChatCompletionToolTypeFunction,
		Function: providers.FunctionObject{Name: "get_product"},
	}}, nil)

	w := s.do(http.MethodGet, "/api/tools", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[ToolsResponse](t, w)
	assert.Equal(t, "list", resp.Object)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "get_product", resp.Data[0].Function.Name)

	s.agent.EXPECT().Tools(gomock.Any()).Return(nil, &mcp.ConnectionError{URL: "http://mcp", Err: errors.New("down")})
	w = s.do(http.MethodGet, "/api/tools", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthcheckHandler(t *testing.T) {
	tests := []struct {
		name        string
		initialized bool
		tools       []mcp.Tool
		listErr     error
		expected    HealthResponse
	}{
		{
			name:        "connected",
			initialized: true,
			tools:       []mcp.Tool{{Name: "get_product"}, {Name: "get_order"}},
			expected:    HealthResponse{Status: "healthy", MCPConnected: true, ToolsCount: 2},
		},
		{
			name:     "not initialized",
			expected: HealthResponse{Status: "healthy"},
		},
		{
			name:        "listing fails",
			initialized: true,
			listErr:     &mcp.ConnectionError{URL: "http://mcp", Err: errors.New("down")},
			expected:    HealthResponse{Status: "healthy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.mcp.EXPECT().IsInitialized().Return(tt.initialized)
			if tt.initialized {
				s.mcp.EXPECT().ListTools(gomock.Any()).Return(tt.tools, tt.listErr)
			}

			w := s.do(http.MethodGet, "/health", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expected, decode[HealthResponse](t, w))
		})
	}
}

func TestNotFoundHandler(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRenderMarkdown_DropsRawHTML(t *testing.T) {
	out, err := renderMarkdown("Price: **$349.99**\n<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>$349.99</strong>")
	assert.NotContains(t, out, "<script>")
}
