package api

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	gin "github.com/gin-gonic/gin"
	"golang.org/x/text/unicode/norm"

	agent "github.com/inference-gateway/support-chat/agent"
	config "github.com/inference-gateway/support-chat/config"
	l "github.com/inference-gateway/support-chat/logger"
	mcp "github.com/inference-gateway/support-chat/mcp"
	providers "github.com/inference-gateway/support-chat/providers"
	session "github.com/inference-gateway/support-chat/session"
)

//go:embed static/index.html
var indexHTML []byte

// Messages shown to the user when a turn fails
const (
	MessageTryAgain      = "Sorry, the assistant is unavailable right now. Please try again."
	MessageBusy          = "The assistant is busy right now. Please try again in a moment."
	MessageToolsOffline  = "Our store systems are unreachable right now, so I can't look that up. Please try again later."
	MessageIncomplete    = "Sorry, I could not complete your request. Please try rephrasing it."
	MessageInternalError = "Something went wrong. Please try again."
)

// Sessions keep this many history windows, the rest is dropped on save
const storedHistoryWindows = 3

type Router interface {
	NotFoundHandler(c *gin.Context)
	IndexHandler(c *gin.Context)
	ChatHandler(c *gin.Context)
	ClearHandler(c *gin.Context)
	ListToolsHandler(c *gin.Context)
	HealthcheckHandler(c *gin.Context)
}

type RouterImpl struct {
	cfg       config.Config
	logger    l.Logger
	agent     agent.Agent
	mcpClient mcp.MCPClientInterface
	sessions  session.Store
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type ChatResponse struct {
	SessionID  string                 `json:"session_id"`
	Response   string                 `json:"response"`
	HTML       string                 `json:"html"`
	Transcript []providers.Message    `json:"transcript"`
	ToolCalls  []agent.ToolCallResult `json:"tool_calls"`
	Iterations int                    `json:"iterations"`
}

type ClearRequest struct {
	SessionID string `json:"session_id"`
}

type StatusResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id,omitempty"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	MCPConnected bool   `json:"mcp_connected"`
	ToolsCount   int    `json:"tools_count"`
}

type ToolsResponse struct {
	Object string                         `json:"object"`
	Data   []providers.ChatCompletionTool `json:"data"`
}

func NewRouter(cfg config.Config, logger l.Logger, a agent.Agent, mcpClient mcp.MCPClientInterface, sessions session.Store) Router {
	return &RouterImpl{
		cfg:       cfg,
		logger:    logger,
		agent:     a,
		mcpClient: mcpClient,
		sessions:  sessions,
	}
}

func (router *RouterImpl) NotFoundHandler(c *gin.Context) {
	router.logger.Debug("requested route is not found", "path", c.Request.URL.Path)
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "Requested route is not found"})
}

func (router *RouterImpl) IndexHandler(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// ChatHandler runs one chat turn. The session lock is held for the whole turn
// so concurrent messages to one session are applied in order.
func (router *RouterImpl) ChatHandler(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to decode request"})
		return
	}

	message := normalizeMessage(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Message cannot be empty"})
		return
	}

	maxLength := router.cfg.Chat.MaxMessageLength
	if utf8.RuneCountInString(message) > maxLength {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Message is too long"})
		return
	}

	sessionID := req.SessionID
	switch {
	case sessionID == "":
		sessionID = session.NewID()
	case !session.ValidID(sessionID):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid session id"})
		return
	}

	logger := router.logger.With("session_id", sessionID)
	ctx := c.Request.Context()

	unlock := router.sessions.Lock(sessionID)
	defer unlock()

	history, err := router.sessions.Load(ctx, sessionID)
	if err != nil {
		logger.Error("failed to load session", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MessageInternalError})
		return
	}

	turnCtx := ctx
	if timeout := router.cfg.Chat.TurnTimeout; timeout > 0 {
		var cancel context.CancelFunc
		turnCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := router.agent.Run(turnCtx, history, message)
	if err != nil {
		status, msg := classifyTurnError(err)
		if ctx.Err() == nil && errors.Is(turnCtx.Err(), context.DeadlineExceeded) {
			// the deadline surfaces as whatever call was in flight
			status, msg = http.StatusGatewayTimeout, MessageIncomplete
		}
		if errors.Is(err, context.Canceled) {
			logger.Debug("client went away during chat turn")
		} else {
			logger.Error("chat turn failed", err, "status", status)
		}
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	stored := agent.WindowHistory(result.Transcript, storedHistoryWindows*router.cfg.Chat.HistoryLimit)
	if err := router.sessions.Save(ctx, sessionID, stored); err != nil {
		logger.Error("failed to save session", err)
	}

	html, err := renderMarkdown(result.Response)
	if err != nil {
		logger.Error("failed to render reply", err)
	}

	toolCalls := result.ToolCalls
	if toolCalls == nil {
		toolCalls = []agent.ToolCallResult{}
	}

	c.JSON(http.StatusOK, ChatResponse{
		SessionID:  sessionID,
		Response:   result.Response,
		HTML:       html,
		Transcript: result.Transcript,
		ToolCalls:  toolCalls,
		Iterations: result.Iterations,
	})
}

func (router *RouterImpl) ClearHandler(c *gin.Context) {
	var req ClearRequest
	if err := c.ShouldBindJSON(&req); err != nil || !session.ValidID(req.SessionID) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid session id"})
		return
	}

	unlock := router.sessions.Lock(req.SessionID)
	defer unlock()

	if err := router.sessions.Delete(c.Request.Context(), req.SessionID); err != nil {
		router.logger.Error("failed to clear session", err, "session_id", req.SessionID)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MessageInternalError})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "ok", SessionID: req.SessionID})
}

func (router *RouterImpl) ListToolsHandler(c *gin.Context) {
	tools, err := router.agent.Tools(c.Request.Context())
	if err != nil {
		router.logger.Error("failed to list tools", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: MessageToolsOffline})
		return
	}

	c.JSON(http.StatusOK, ToolsResponse{Object: "list", Data: tools})
}

func (router *RouterImpl) HealthcheckHandler(c *gin.Context) {
	resp := HealthResponse{Status: "healthy"}

	if router.mcpClient.IsInitialized() {
		tools, err := router.mcpClient.ListTools(c.Request.Context())
		if err != nil {
			router.logger.Debug("health check could not list tools", "error", err.Error())
		} else {
			resp.ToolsCount = len(tools)
			resp.MCPConnected = len(tools) > 0
		}
	}

	c.JSON(http.StatusOK, resp)
}

// normalizeMessage composes the text to NFC and trims surrounding whitespace
func normalizeMessage(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.TrimSpace(norm.NFC.String(s))
}

// classifyTurnError maps a failed turn to a status code and a message safe to show the user
func classifyTurnError(err error) (int, string) {
	var rateErr *providers.RateLimitError
	var providerErr *providers.ProviderError
	var connErr *mcp.ConnectionError

	switch {
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests, MessageBusy
	case errors.As(err, &providerErr):
		return http.StatusBadGateway, MessageTryAgain
	case errors.As(err, &connErr):
		return http.StatusServiceUnavailable, MessageToolsOffline
	case errors.Is(err, agent.ErrIterationCapExceeded):
		return http.StatusInternalServerError, MessageIncomplete
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, MessageTryAgain
	default:
		return http.StatusInternalServerError, MessageInternalError
	}
}
