package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/inference-gateway/support-chat/logger"
	"github.com/inference-gateway/support-chat/mcp"
	"github.com/inference-gateway/support-chat/otel"
	"github.com/inference-gateway/support-chat/providers"
)

// DefaultMaxIterations is the default number of LLM calls allowed per turn
const DefaultMaxIterations = 6

// maxParallelTools bounds concurrent MCP calls within one turn
const maxParallelTools = 4

// ErrIterationCapExceeded is returned when the model still asks for tools
// after the last allowed LLM call.
var ErrIterationCapExceeded = errors.New("relay iteration cap exceeded")

// State of a relay run
type State string

const (
	StateAwaitingLLM    State = "AWAITING_LLM"
	StateExecutingTools State = "EXECUTING_TOOLS"
	StateDone           State = "DONE"
	StateFailed         State = "FAILED"
)

// Agent relays a user turn between the LLM and the MCP server
//
//go:generate mockgen -source=agent.go -destination=../mocks/agent.go -package=mocks
type Agent interface {
	Run(ctx context.Context, history []providers.Message, userMessage string) (*Result, error)
	ExecuteTools(ctx context.Context, toolCalls []providers.ChatCompletionMessageToolCall) ([]providers.Message, []ToolCallResult, error)
	Tools(ctx context.Context) ([]providers.ChatCompletionTool, error)
}

// ToolCallResult is the outcome of one requested tool call
type ToolCallResult struct {
	CallID    string `json:"call_id"`
	Tool      string `json:"tool"`
	Arguments string `json:"arguments"`
	Success   bool   `json:"success"`
	Content   string `json:"content"`
}

// Result of a relay run. Transcript holds the history plus every message of
// this turn; the system prompt is never part of it.
type Result struct {
	State      State
	Response   string
	Transcript []providers.Message
	ToolCalls  []ToolCallResult
	Iterations int
	Usage      providers.CompletionUsage
}

type Config struct {
	MaxIterations int
	HistoryLimit  int
	SystemPrompt  string
	Provider      string
	Model         string
}

// Ensure agentImpl implements Agent interface at compile time
var _ Agent = (*agentImpl)(nil)

type agentImpl struct {
	logger    logger.Logger
	mcpClient mcp.MCPClientInterface
	driver    providers.Driver
	telemetry otel.OpenTelemetry
	cfg       Config
}

// NewAgent creates a new Agent instance
func NewAgent(l logger.Logger, mcpClient mcp.MCPClientInterface, driver providers.Driver, telemetry otel.OpenTelemetry, cfg Config) Agent {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if telemetry == nil {
		telemetry = otel.NoopTelemetry{}
	}
	return &agentImpl{
		logger:    l,
		mcpClient: mcpClient,
		driver:    driver,
		telemetry: telemetry,
		cfg:       cfg,
	}
}

// Run drives one turn to DONE or FAILED. On failure the returned Result still
// describes how far the turn got, but its transcript must not be persisted.
func (a *agentImpl) Run(ctx context.Context, history []providers.Message, userMessage string) (*Result, error) {
	result := &Result{
		State:      StateAwaitingLLM,
		Transcript: append(cloneMessages(history), providers.Message{Role: providers.MessageRoleUser, Content: userMessage}),
	}
	turnStart := len(history)

	tools, err := a.Tools(ctx)
	if err != nil {
		// Without a manifest the model can still answer general questions
		a.logger.Error("Agent: tool manifest unavailable, continuing without tools", err)
		tools = nil
	}

	fail := func(err error) (*Result, error) {
		result.State = StateFailed
		a.telemetry.RecordTurn(ctx, otel.StatusFailed, result.Iterations)
		return result, err
	}

	for result.Iterations < a.cfg.MaxIterations {
		result.State = StateAwaitingLLM
		result.Iterations++

		messages := a.buildRequestMessages(result.Transcript[:turnStart], result.Transcript[turnStart:])

		a.logger.Debug("Agent: calling llm", "iteration", result.Iterations, "messages", len(messages), "tools", len(tools))
		start := time.Now()
		completion, err := a.driver.Complete(ctx, messages, tools)
		if err != nil {
			a.logger.Error("Agent: llm call failed", err, "iteration", result.Iterations)
			return fail(err)
		}
		a.recordUsage(ctx, result, completion, time.Since(start))

		if completion.IsFinal() {
			result.Transcript = append(result.Transcript, completion.Message)
			result.Response = completion.Text()
			result.State = StateDone
			a.telemetry.RecordTurn(ctx, otel.StatusDone, result.Iterations)
			a.logger.Debug("Agent: turn completed", "iterations", result.Iterations, "toolCalls", len(result.ToolCalls))
			return result, nil
		}

		if result.Iterations >= a.cfg.MaxIterations {
			break
		}

		result.State = StateExecutingTools
		result.Transcript = append(result.Transcript, completion.Message)

		a.logger.Debug("Agent: executing tool calls", "count", len(completion.ToolCalls()))
		toolMessages, toolResults, err := a.ExecuteTools(ctx, completion.ToolCalls())
		result.ToolCalls = append(result.ToolCalls, toolResults...)
		if err != nil {
			a.logger.Error("Agent: aborting turn", err)
			return fail(err)
		}

		result.Transcript = append(result.Transcript, toolMessages...)
	}

	err = fmt.Errorf("%w: model still requested tools after %d llm calls", ErrIterationCapExceeded, a.cfg.MaxIterations)
	a.logger.Error("Agent: agent loop reached maximum iterations", err)
	return fail(err)
}

// ExecuteTools runs the requested calls concurrently and returns one tool
// message per call, in request order. Tool failures become messages carrying
// the error text; only an unreachable server or a cancelled context is
// returned as an error.
func (a *agentImpl) ExecuteTools(ctx context.Context, toolCalls []providers.ChatCompletionMessageToolCall) ([]providers.Message, []ToolCallResult, error) {
	results := make([]ToolCallResult, len(toolCalls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelTools)

	for i, toolCall := range toolCalls {
		i, toolCall := i, toolCall
		g.Go(func() error {
			res, err := a.executeTool(gctx, toolCall)
			results[i] = res
			return err
		})
	}

	err := g.Wait()

	messages := make([]providers.Message, 0, len(results))
	for i, res := range results {
		if res.CallID == "" {
			// not executed because a sibling call aborted the batch
			results[i] = ToolCallResult{
				CallID:    toolCalls[i].ID,
				Tool:      toolCalls[i].Function.Name,
				Arguments: toolCalls[i].Function.Arguments,
				Content:   "Error: tool call was not executed",
			}
		}
		messages = append(messages, providers.Message{
			Role:       providers.MessageRoleTool,
			Content:    results[i].Content,
			ToolCallID: results[i].CallID,
		})
	}

	if err != nil {
		return nil, results, err
	}
	return messages, results, nil
}

func (a *agentImpl) executeTool(ctx context.Context, toolCall providers.ChatCompletionMessageToolCall) (ToolCallResult, error) {
	res := ToolCallResult{
		CallID:    toolCall.ID,
		Tool:      toolCall.Function.Name,
		Arguments: toolCall.Function.Arguments,
	}

	args, err := mcp.ParseArguments(toolCall.Function.Arguments)
	if err != nil {
		a.logger.Error("Agent: failed to parse tool arguments", err, "tool", res.Tool, "args", toolCall.Function.Arguments)
		res.Content = fmt.Sprintf("Error: Failed to parse arguments: %v", err)
		a.telemetry.RecordToolCall(ctx, res.Tool, false)
		return res, nil
	}

	out, err := a.mcpClient.CallTool(ctx, res.Tool, args)
	if err != nil {
		a.telemetry.RecordToolCall(ctx, res.Tool, false)

		var connErr *mcp.ConnectionError
		if errors.As(err, &connErr) || errors.Is(err, context.Canceled) {
			res.Content = fmt.Sprintf("Error: %v", err)
			return res, err
		}

		a.logger.Debug("Agent: tool call failed, reporting back to llm", "tool", res.Tool, "error", err.Error())
		res.Content = fmt.Sprintf("Error: %v", err)
		return res, nil
	}

	a.telemetry.RecordToolCall(ctx, res.Tool, true)
	res.Success = true
	res.Content = out.Content
	return res, nil
}

// Tools converts the MCP manifest into the function tools offered to the LLM
func (a *agentImpl) Tools(ctx context.Context) ([]providers.ChatCompletionTool, error) {
	manifest, err := a.mcpClient.ListTools(ctx)
	if err != nil {
		return nil, err
	}

	tools := make([]providers.ChatCompletionTool, 0, len(manifest))
	for _, t := range manifest {
		tools = append(tools, providers.ChatCompletionTool{
			Type: providers.ChatCompletionToolTypeFunction,
			Function: providers.FunctionObject{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters(),
			},
		})
	}
	return tools, nil
}

func (a *agentImpl) buildRequestMessages(history, turn []providers.Message) []providers.Message {
	window := WindowHistory(history, a.cfg.HistoryLimit)

	messages := make([]providers.Message, 0, 1+len(window)+len(turn))
	messages = append(messages, providers.Message{Role: providers.MessageRoleSystem, Content: a.cfg.SystemPrompt})
	messages = append(messages, window...)
	messages = append(messages, turn...)
	return messages
}

func (a *agentImpl) recordUsage(ctx context.Context, result *Result, completion *providers.Completion, elapsed time.Duration) {
	a.telemetry.RecordLLMLatency(ctx, a.cfg.Provider, a.cfg.Model, float64(elapsed.Milliseconds()))
	if completion.Usage == nil {
		return
	}
	u := completion.Usage
	result.Usage.PromptTokens += u.PromptTokens
	result.Usage.CompletionTokens += u.CompletionTokens
	result.Usage.TotalTokens += u.TotalTokens
	a.telemetry.RecordTokenUsage(ctx, a.cfg.Provider, a.cfg.Model, u.PromptTokens, u.CompletionTokens, u.TotalTokens)
}

// WindowHistory keeps at most limit trailing messages of history, starting at
// a user message so tool results never lose the assistant message that
// requested them. A limit of zero or less keeps everything.
func WindowHistory(history []providers.Message, limit int) []providers.Message {
	if limit <= 0 || len(history) <= limit {
		return history
	}

	start := len(history) - limit
	for start < len(history) && history[start].Role != providers.MessageRoleUser {
		start++
	}
	return history[start:]
}

func cloneMessages(in []providers.Message) []providers.Message {
	out := make([]providers.Message, 0, len(in)+8)
	return append(out, in...)
}
