package providers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ProviderError is returned when the LLM provider answers with a non-2xx
// status or with a payload that cannot be interpreted.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("provider error: %s", e.Message)
	}
	return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
}

// RateLimitError is returned on HTTP 429 so callers can back off
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider rate limit exceeded, retry after %s: %s", e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("provider rate limit exceeded: %s", e.Message)
}

const maxErrorBodyLength = 256

// parseErrorBody extracts a readable message from an OpenAI style error payload
func parseErrorBody(body []byte) string {
	for _, path := range []string{"error.message", "error", "message"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBodyLength {
		msg = msg[:maxErrorBodyLength] + "..."
	}
	if msg == "" {
		msg = "empty response body"
	}
	return msg
}

// parseRetryAfter understands the delta-seconds form of the Retry-After header
func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
