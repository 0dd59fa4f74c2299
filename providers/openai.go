package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/inference-gateway/support-chat/logger"
)

// Backoff bounds for rate limited calls
const (
	DefaultRetryBackoff = 500 * time.Millisecond
	MaxRetryBackoff     = 10 * time.Second
)

const maxResponseBodySize = 10 << 20

// IProvider sends chat completion requests to an OpenAI compatible API
//
//go:generate mockgen -source=openai.go -destination=../mocks/provider.go -package=mocks
type IProvider interface {
	GetID() string
	GetName() string
	ChatCompletions(ctx context.Context, req CreateChatCompletionRequest) (CreateChatCompletionResponse, error)
}

var _ IProvider = (*ProviderImpl)(nil)

type ProviderImpl struct {
	ID           string
	Name         string
	URL          string
	ExtraHeaders map[string][]string
	MaxRetries   int
	RetryBackoff time.Duration

	client *http.Client
	logger logger.Logger
}

// NewProvider creates a provider for cfg. Requests go through client, which
// carries authentication and timeouts (see NewHTTPClient).
func NewProvider(cfg Config, client *http.Client, maxRetries int, l logger.Logger) IProvider {
	return &ProviderImpl{
		ID:           cfg.ID,
		Name:         cfg.Name,
		URL:          cfg.URL,
		ExtraHeaders: cfg.ExtraHeaders,
		MaxRetries:   maxRetries,
		RetryBackoff: DefaultRetryBackoff,
		client:       client,
		logger:       l,
	}
}

func (p *ProviderImpl) GetID() string {
	return p.ID
}

func (p *ProviderImpl) GetName() string {
	return p.Name
}

// ChatCompletions posts req to the provider. Rate limited calls are retried up
// to MaxRetries times with exponential backoff; every other failure returns at once.
func (p *ProviderImpl) ChatCompletions(ctx context.Context, req CreateChatCompletionRequest) (CreateChatCompletionResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return CreateChatCompletionResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		resp, err := p.send(ctx, payload)
		if err == nil {
			return resp, nil
		}

		var rateErr *RateLimitError
		if !errors.As(err, &rateErr) || attempt >= p.MaxRetries {
			return CreateChatCompletionResponse{}, err
		}

		wait := p.backoff(attempt, rateErr.RetryAfter)
		p.logger.Debug("provider rate limited, backing off", "provider", p.ID, "attempt", attempt+1, "wait", wait.String())
		if err := sleepCtx(ctx, wait); err != nil {
			return CreateChatCompletionResponse{}, err
		}
	}
}

func (p *ProviderImpl) backoff(attempt int, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		return min(retryAfter, MaxRetryBackoff)
	}
	base := p.RetryBackoff
	if base <= 0 {
		base = DefaultRetryBackoff
	}
	return min(base<<attempt, MaxRetryBackoff)
}

func (p *ProviderImpl) send(ctx context.Context, payload []byte) (CreateChatCompletionResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL+ChatCompletionsEndpoint, bytes.NewReader(payload))
	if err != nil {
		return CreateChatCompletionResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for k, values := range p.ExtraHeaders {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return CreateChatCompletionResponse{}, ctx.Err()
		}
		return CreateChatCompletionResponse{}, &ProviderError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return CreateChatCompletionResponse{}, &ProviderError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	p.logger.Debug("provider responded", "provider", p.ID, "status", resp.StatusCode, "elapsed", time.Since(start).String())

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return CreateChatCompletionResponse{}, &RateLimitError{
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    parseErrorBody(body),
		}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return CreateChatCompletionResponse{}, &ProviderError{StatusCode: resp.StatusCode, Message: parseErrorBody(body)}
	}

	var response CreateChatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return CreateChatCompletionResponse{}, &ProviderError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("malformed response: %v", err)}
	}

	return response, nil
}
