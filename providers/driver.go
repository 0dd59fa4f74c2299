package providers

import (
	"context"
	"strings"

	"github.com/inference-gateway/support-chat/logger"
)

// Completion is the interpreted answer of one LLM call: either a final text
// answer or a set of tool calls to run before asking again.
type Completion struct {
	Message      Message
	FinishReason FinishReason
	Usage        *CompletionUsage
}

// IsFinal reports whether the model answered without requesting tools
func (c *Completion) IsFinal() bool {
	return len(c.Message.ToolCalls) == 0
}

// Text returns the final answer
func (c *Completion) Text() string {
	return c.Message.Content
}

// ToolCalls returns the tool calls requested by the model, in the order it sent them
func (c *Completion) ToolCalls() []ChatCompletionMessageToolCall {
	return c.Message.ToolCalls
}

// Driver sends a transcript and the tool manifest to the LLM
//
//go:generate mockgen -source=driver.go -destination=../mocks/driver.go -package=mocks
type Driver interface {
	Complete(ctx context.Context, transcript []Message, tools []ChatCompletionTool) (*Completion, error)
}

type DriverImpl struct {
	provider    IProvider
	model       string
	temperature *float64
	logger      logger.Logger
}

// NewDriver binds a provider to a model. A negative temperature leaves the
// provider default in place.
func NewDriver(provider IProvider, model string, temperature float64, l logger.Logger) Driver {
	d := &DriverImpl{
		provider: provider,
		model:    model,
		logger:   l,
	}
	if temperature >= 0 {
		d.temperature = Float64Ptr(temperature)
	}
	return d
}

func (d *DriverImpl) Complete(ctx context.Context, transcript []Message, tools []ChatCompletionTool) (*Completion, error) {
	req := CreateChatCompletionRequest{
		Model:       d.model,
		Messages:    transcript,
		Temperature: d.temperature,
	}
	if len(tools) > 0 {
		req.Tools = tools
	}

	resp, err := d.provider.ChatCompletions(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Message: "response contained no choices"}
	}

	choice := resp.Choices[0]
	msg := choice.Message
	if msg.Role == "" {
		msg.Role = MessageRoleAssistant
	}

	if choice.FinishReason == FinishReasonToolCalls && len(msg.ToolCalls) == 0 {
		return nil, &ProviderError{Message: "finish reason tool_calls without any tool call"}
	}

	for i, tc := range msg.ToolCalls {
		if tc.ID == "" || tc.Function.Name == "" {
			return nil, &ProviderError{Message: "tool call is missing its id or function name"}
		}
		if tc.Type == "" {
			msg.ToolCalls[i].Type = ChatCompletionToolTypeFunction
		}
		if strings.TrimSpace(tc.Function.Arguments) == "" {
			msg.ToolCalls[i].Function.Arguments = "{}"
		}
	}

	if len(msg.ToolCalls) == 0 && strings.TrimSpace(msg.Content) == "" {
		return nil, &ProviderError{Message: "model returned an empty answer"}
	}

	d.logger.Debug("llm completion",
		"provider", d.provider.GetID(),
		"model", d.model,
		"finish_reason", string(choice.FinishReason),
		"tool_calls", len(msg.ToolCalls),
	)

	return &Completion{
		Message:      msg,
		FinishReason: choice.FinishReason,
		Usage:        resp.Usage,
	}, nil
}
