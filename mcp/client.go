package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	mcpgo "github.com/metoro-io/mcp-golang"
	mcphttp "github.com/metoro-io/mcp-golang/transport/http"
	"github.com/patrickmn/go-cache"

	"github.com/inference-gateway/support-chat/logger"
)

const manifestKey = "manifest"

// MCPClientInterface is the tool client used by the relay loop
//
//go:generate mockgen -source=client.go -destination=../mocks/mcp_client.go -package=mocks -exclude_interfaces=session
type MCPClientInterface interface {
	// Initialize performs the MCP handshake and loads the tool manifest
	Initialize(ctx context.Context) error

	// IsInitialized returns whether the handshake has succeeded
	IsInitialized() bool

	// ListTools returns the manifest in server order, refreshing it once the TTL lapses
	ListTools(ctx context.Context) ([]Tool, error)

	// CallTool executes a tool by name
	CallTool(ctx context.Context, name string, args Arguments) (*ToolResult, error)
}

// session is the part of the mcp-golang client this package relies on
type session interface {
	Initialize(ctx context.Context) (*mcpgo.InitializeResponse, error)
	ListTools(ctx context.Context, cursor *string) (*mcpgo.ToolsResponse, error)
	CallTool(ctx context.Context, name string, arguments any) (*mcpgo.ToolResponse, error)
}

type dialFunc func(serverURL, authToken string, timeout time.Duration) session

// dialHTTP builds a session over the streamable HTTP transport. The transport
// sends requests without the caller's context, so the HTTP client carries the
// timeout and boundedSession returns as soon as the context is done.
func dialHTTP(serverURL, authToken string, timeout time.Duration) session {
	t := mcphttp.NewHTTPClientTransport(serverURL).
		WithClient(&http.Client{Timeout: timeout}).
		WithHeader("Accept", "application/json")
	if authToken != "" {
		t.WithHeader("Authorization", "Bearer "+authToken)
	}
	return &boundedSession{client: mcpgo.NewClient(t)}
}

type boundedSession struct {
	client session
}

func (s *boundedSession) Initialize(ctx context.Context) (*mcpgo.InitializeResponse, error) {
	return await(ctx, func() (*mcpgo.InitializeResponse, error) { return s.client.Initialize(ctx) })
}

func (s *boundedSession) ListTools(ctx context.Context, cursor *string) (*mcpgo.ToolsResponse, error) {
	return await(ctx, func() (*mcpgo.ToolsResponse, error) { return s.client.ListTools(ctx, cursor) })
}

func (s *boundedSession) CallTool(ctx context.Context, name string, arguments any) (*mcpgo.ToolResponse, error) {
	return await(ctx, func() (*mcpgo.ToolResponse, error) { return s.client.CallTool(ctx, name, arguments) })
}

// await runs fn in the background and gives up when ctx is done. The abandoned
// request is still bounded by the HTTP client timeout.
func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Config holds the settings of the tool client
type Config struct {
	ServerURL string
	AuthToken string
	Timeout   time.Duration
	ToolsTTL  time.Duration
}

type manifest struct {
	tools  []Tool
	byName map[string]Tool
}

// MCPClient talks to a single MCP server over the streamable HTTP transport
type MCPClient struct {
	ServerURL string
	AuthToken string
	Timeout   time.Duration
	Logger    logger.Logger

	dial     dialFunc
	cache    *cache.Cache
	ttl      time.Duration
	mu       sync.Mutex
	client   session
	initDone bool
}

// NewMCPClient creates a client for cfg.ServerURL. No connection is made until Initialize.
func NewMCPClient(cfg Config, l logger.Logger) *MCPClient {
	return newMCPClient(cfg, l, dialHTTP)
}

func newMCPClient(cfg Config, l logger.Logger, dial dialFunc) *MCPClient {
	if cfg.ToolsTTL <= 0 {
		cfg.ToolsTTL = 5 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &MCPClient{
		ServerURL: cfg.ServerURL,
		AuthToken: cfg.AuthToken,
		Timeout:   cfg.Timeout,
		Logger:    l,
		dial:      dial,
		cache:     cache.New(cfg.ToolsTTL, 2*cfg.ToolsTTL),
		ttl:       cfg.ToolsTTL,
	}
}

// Initialize follows the MCP initialization handshake and fetches the manifest
func (c *MCPClient) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initializeLocked(ctx)
}

func (c *MCPClient) initializeLocked(ctx context.Context) error {
	client := c.dial(c.ServerURL, c.AuthToken, c.Timeout)

	callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	if _, err := client.Initialize(callCtx); err != nil {
		c.Logger.Error("failed to initialize mcp server", err, "server", c.ServerURL)
		return c.wrapTransportError(ctx, err)
	}

	c.client = client
	c.initDone = true
	c.Logger.Info("mcp server initialized", "server", c.ServerURL)

	if _, err := c.refreshLocked(ctx); err != nil {
		return err
	}
	return nil
}

func (c *MCPClient) IsInitialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initDone
}

func (c *MCPClient) ListTools(ctx context.Context) ([]Tool, error) {
	m, err := c.manifest(ctx, false)
	if err != nil {
		return nil, err
	}
	tools := make([]Tool, len(m.tools))
	copy(tools, m.tools)
	return tools, nil
}

// CallTool runs name with args. Unknown names trigger one manifest refresh
// before failing with ErrToolNotFound, so tools added on the server are picked up.
func (c *MCPClient) CallTool(ctx context.Context, name string, args Arguments) (*ToolResult, error) {
	tool, err := c.lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	if missing := args.Missing(tool.RequiredArguments()); len(missing) > 0 {
		return nil, &ToolExecutionError{
			Tool:    name,
			Message: fmt.Sprintf("missing required arguments: %s", strings.Join(missing, ", ")),
		}
	}
	if args == nil {
		args = Arguments{}
	}

	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := client.CallTool(callCtx, name, map[string]interface{}(args))
	if err != nil {
		if isConnectionFailure(err) || ctx.Err() != nil {
			c.Logger.Error("mcp call failed", err, "tool", name, "server", c.ServerURL)
			return nil, c.wrapTransportError(ctx, err)
		}
		c.Logger.Debug("mcp tool returned an error", "tool", name, "error", err.Error())
		return nil, &ToolExecutionError{Tool: name, Message: err.Error(), Err: err}
	}

	c.Logger.Debug("mcp tool executed", "tool", name, "elapsed", time.Since(start).String())
	return &ToolResult{Tool: name, Content: responseText(resp)}, nil
}

func (c *MCPClient) lookup(ctx context.Context, name string) (Tool, error) {
	m, err := c.manifest(ctx, false)
	if err != nil {
		return Tool{}, err
	}
	if tool, ok := m.byName[name]; ok {
		return tool, nil
	}

	m, err = c.manifest(ctx, true)
	if err != nil {
		return Tool{}, err
	}
	if tool, ok := m.byName[name]; ok {
		return tool, nil
	}
	return Tool{}, fmt.Errorf("%w: %s", ErrToolNotFound, name)
}

func (c *MCPClient) manifest(ctx context.Context, force bool) (*manifest, error) {
	if !force {
		if cached, ok := c.cache.Get(manifestKey); ok {
			return cached.(*manifest), nil
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// another caller may have refreshed while we waited
	if !force {
		if cached, ok := c.cache.Get(manifestKey); ok {
			return cached.(*manifest), nil
		}
	}

	if !c.initDone {
		if err := c.initializeLocked(ctx); err != nil {
			return nil, err
		}
		if cached, ok := c.cache.Get(manifestKey); ok {
			return cached.(*manifest), nil
		}
	}

	return c.refreshLocked(ctx)
}

func (c *MCPClient) refreshLocked(ctx context.Context) (*manifest, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	m := &manifest{byName: map[string]Tool{}}
	var cursor *string
	for {
		resp, err := c.client.ListTools(callCtx, cursor)
		if err != nil {
			c.Logger.Error("failed to list tools", err, "server", c.ServerURL)
			if isConnectionFailure(err) || ctx.Err() != nil {
				return nil, c.wrapTransportError(ctx, err)
			}
			return nil, fmt.Errorf("failed to list tools: %w", err)
		}
		if resp == nil {
			break
		}

		for _, t := range resp.Tools {
			if _, dup := m.byName[t.Name]; dup {
				continue
			}
			tool := Tool{Name: t.Name, InputSchema: schemaMap(t.InputSchema)}
			if t.Description != nil {
				tool.Description = *t.Description
			}
			m.tools = append(m.tools, tool)
			m.byName[tool.Name] = tool
		}

		if resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	c.cache.Set(manifestKey, m, c.ttl)
	c.Logger.Debug("tool manifest refreshed", "server", c.ServerURL, "tools", len(m.tools))
	return m, nil
}

// wrapTransportError keeps cancellation of the caller's request distinct from
// an unreachable server.
func (c *MCPClient) wrapTransportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
		return ctxErr
	}
	return &ConnectionError{URL: c.ServerURL, Err: err}
}

func schemaMap(schema interface{}) map[string]interface{} {
	switch s := schema.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		return s
	default:
		raw, err := json.Marshal(s)
		if err != nil {
			return nil
		}
		var out map[string]interface{}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil
		}
		return out
	}
}

func responseText(resp *mcpgo.ToolResponse) string {
	if resp == nil {
		return ""
	}
	parts := make([]string, 0, len(resp.Content))
	for _, content := range resp.Content {
		if content != nil && content.TextContent != nil {
			parts = append(parts, content.TextContent.Text)
		}
	}
	return strings.Join(parts, "\n")
}
