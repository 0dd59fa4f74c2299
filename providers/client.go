package providers

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/inference-gateway/support-chat/internal/devlog"
	"github.com/inference-gateway/support-chat/logger"
	"golang.org/x/oauth2"
)

// ClientConfig holds the transport settings of the outbound LLM client
type ClientConfig struct {
	Token               string
	Timeout             time.Duration
	DialTimeout         time.Duration
	TLSHandshakeTimeout time.Duration
	LogResponses        bool
}

// NewHTTPClient builds the client used to talk to the provider. The API key is
// attached as a bearer token by an oauth2 transport and every call is bounded by
// cfg.Timeout.
func NewHTTPClient(cfg ClientConfig, l logger.Logger) *http.Client {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if cfg.TLSHandshakeTimeout == 0 {
		cfg.TLSHandshakeTimeout = 10 * time.Second
	}

	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	var rt http.RoundTripper = base
	if cfg.LogResponses {
		rt = devlog.NewTransport(rt, l)
	}

	if cfg.Token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}),
			Base:   rt,
		}
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: rt,
	}
}

// sleepCtx waits for d or until ctx is done
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
