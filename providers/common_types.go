package providers

// MessageRole is the author of a transcript message
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleTool      MessageRole = "tool"
)

// ChatCompletionToolType is the kind of tool offered to the model. Only functions exist today.
type ChatCompletionToolType string

const ChatCompletionToolTypeFunction ChatCompletionToolType = "function"

// FinishReason tells why the model stopped generating
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonToolCalls     FinishReason = "tool_calls"
	FinishReasonContentFilter FinishReason = "content_filter"
)

// Message is one entry of a conversation transcript
type Message struct {
	Role       MessageRole                     `json:"role"`
	Content    string                          `json:"content"`
	ToolCalls  []ChatCompletionMessageToolCall `json:"tool_calls,omitempty"`
	ToolCallID string                          `json:"tool_call_id,omitempty"`
}

// ChatCompletionMessageToolCall is a tool invocation requested by the model
type ChatCompletionMessageToolCall struct {
	ID       string                                `json:"id"`
	Type     ChatCompletionToolType                `json:"type"`
	Function ChatCompletionMessageToolCallFunction `json:"function"`
}

// ChatCompletionMessageToolCallFunction carries the function name and its JSON encoded arguments
type ChatCompletionMessageToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatCompletionTool is an entry of the tool manifest sent with a request
type ChatCompletionTool struct {
	Type     ChatCompletionToolType `json:"type"`
	Function FunctionObject         `json:"function"`
}

type FunctionObject struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

type CreateChatCompletionRequest struct {
	Model       string               `json:"model"`
	Messages    []Message            `json:"messages"`
	Tools       []ChatCompletionTool `json:"tools,omitempty"`
	Temperature *float64             `json:"temperature,omitempty"`
}

type CreateChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   *CompletionUsage       `json:"usage,omitempty"`
}

type ChatCompletionChoice struct {
	Index        int          `json:"index"`
	Message      Message      `json:"message"`
	FinishReason FinishReason `json:"finish_reason"`
}

type CompletionUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

func Float64Ptr(v float64) *float64 {
	return &v
}
