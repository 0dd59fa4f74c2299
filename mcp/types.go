package mcp

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Tool describes a remote procedure exposed by the MCP server
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// RequiredArguments lists the keys the input schema marks as required
func (t Tool) RequiredArguments() []string {
	raw, ok := t.InputSchema["required"]
	if !ok {
		return nil
	}

	var required []string
	switch v := raw.(type) {
	case []string:
		required = append(required, v...)
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				required = append(required, s)
			}
		}
	}
	return required
}

// Parameters returns the schema to advertise to the LLM. Servers that omit a
// schema get an empty object schema.
func (t Tool) Parameters() map[string]interface{} {
	if len(t.InputSchema) == 0 {
		return map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		}
	}
	return t.InputSchema
}

// Arguments holds the loosely typed arguments of a tool call. Values are
// whatever encoding/json produces: string, float64, bool, nil, []interface{}
// and map[string]interface{}. The server owns the real schema.
type Arguments map[string]interface{}

// ParseArguments decodes the JSON object the LLM sent as tool arguments.
// An empty string is treated as no arguments.
func ParseArguments(raw string) (Arguments, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Arguments{}, nil
	}

	var args Arguments
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("arguments are not a JSON object: %w", err)
	}
	if args == nil {
		args = Arguments{}
	}
	return args, nil
}

// Missing returns the required keys absent from args, sorted
func (a Arguments) Missing(required []string) []string {
	var missing []string
	for _, key := range required {
		if v, ok := a[key]; !ok || v == nil {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// ToolResult is the text payload returned by a successful tool call
type ToolResult struct {
	Tool    string `json:"tool"`
	Content string `json:"content"`
}
