package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Bounds for the number of LLM calls a single chat turn may make
const (
	MinRelayIterations = 1
	MaxRelayIterations = 10
)

// Session backends
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// ConfigurationError reports a setting that prevents the service from starting
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

// Config holds the configuration for the support chat service.
//
//go:generate go run ../cmd/generate/main.go -type=Env -output=../.env.example
//go:generate go run ../cmd/generate/main.go -type=ConfigMap -output=../deploy/kubernetes/configmap.yaml
//go:generate go run ../cmd/generate/main.go -type=Secret -output=../deploy/kubernetes/secret.yaml
//go:generate go run ../cmd/generate/main.go -type=MD -output=../Configurations.md
type Config struct {
	// General settings
	ApplicationName string `env:"APPLICATION_NAME, default=support-chat" description:"The name of the application"`
	Environment     string `env:"ENVIRONMENT, default=production" description:"The environment"`
	EnableTelemetry bool   `env:"ENABLE_TELEMETRY, default=false" description:"Enable telemetry"`
	EnableAuth      bool   `env:"ENABLE_AUTH, default=false" description:"Enable authentication"`
	UseOpenRouter   bool   `env:"USE_OPEN_ROUTER, default=false" description:"Send LLM requests through OpenRouter"`

	// Auth settings
	OIDC *OIDC `env:", prefix=OIDC_" description:"OIDC configuration"`

	// Server settings
	Server *ServerConfig `env:", prefix=SERVER_" description:"Server configuration"`

	// LLM settings
	OpenAI *OpenAIConfig `env:", prefix=OPENAI_" description:"LLM provider configuration"`

	// MCP settings
	MCP *MCPConfig `env:", prefix=MCP_" description:"MCP server configuration"`

	// Relay loop settings
	Relay *RelayConfig `env:", prefix=RELAY_" description:"Relay loop configuration"`

	// Chat endpoint settings
	Chat *ChatConfig `env:", prefix=CHAT_" description:"Chat endpoint configuration"`

	// Session storage settings
	Session *SessionConfig `env:", prefix=SESSION_" description:"Session configuration"`
	Redis   *RedisConfig   `env:", prefix=REDIS_" description:"Redis configuration"`

	// Rate limit settings
	RateLimit *RateLimitConfig `env:", prefix=RATE_LIMIT_" description:"Rate limit configuration"`
}

// OIDC configuration
type OIDC struct {
	IssuerURL    string `env:"ISSUER_URL, default=http://keycloak:8080/realms/support-chat-realm" description:"OIDC issuer URL"`
	ClientID     string `env:"CLIENT_ID, default=support-chat-client" type:"secret" description:"OIDC client ID"`
	ClientSecret string `env:"CLIENT_SECRET" type:"secret" description:"OIDC client secret"`
}

// Server configuration
type ServerConfig struct {
	Host         string        `env:"HOST, default=0.0.0.0" description:"Server host"`
	Port         string        `env:"PORT, default=8080" description:"Server port"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT, default=30s" description:"Read timeout"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT, default=120s" description:"Write timeout"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT, default=120s" description:"Idle timeout"`
	TLSCertPath  string        `env:"TLS_CERT_PATH" description:"TLS certificate path"`
	TLSKeyPath   string        `env:"TLS_KEY_PATH" description:"TLS key path"`
}

// OpenAIConfig configures the OpenAI compatible chat completions API
type OpenAIConfig struct {
	APIKey      string        `env:"API_KEY" type:"secret" description:"API key of the LLM provider"`
	Model       string        `env:"MODEL, default=gpt-4o-mini" description:"Chat model identifier"`
	URL         string        `env:"API_URL" description:"Override the provider base URL"`
	Timeout     time.Duration `env:"TIMEOUT, default=60s" description:"Timeout of a single LLM call"`
	Temperature float64       `env:"TEMPERATURE, default=0.7" description:"Sampling temperature"`
	MaxRetries  int           `env:"MAX_RETRIES, default=0" description:"Retries on rate limited LLM calls"`
}

// MCPConfig configures the remote tool server
type MCPConfig struct {
	ServerURL string        `env:"SERVER_URL, default=https://vipfapwm3x.us-east-1.awsapprunner.com/mcp" description:"MCP server endpoint"`
	AuthToken string        `env:"AUTH_TOKEN" type:"secret" description:"Bearer token sent to the MCP server"`
	Timeout   time.Duration `env:"TIMEOUT, default=30s" description:"Timeout of a single MCP call"`
	ToolsTTL  time.Duration `env:"TOOLS_TTL, default=5m" description:"How long the tool manifest is cached"`
}

// RelayConfig bounds the tool-call relay loop
type RelayConfig struct {
	MaxIterations int `env:"MAX_ITERATIONS, default=6" description:"Maximum LLM calls per chat turn"`
}

// ChatConfig configures the chat endpoint
type ChatConfig struct {
	MaxMessageLength int           `env:"MAX_MESSAGE_LENGTH, default=4000" description:"Maximum characters in a user message"`
	HistoryLimit     int           `env:"HISTORY_LIMIT, default=20" description:"Transcript messages sent to the LLM"`
	TurnTimeout      time.Duration `env:"TURN_TIMEOUT, default=100s" description:"Deadline of a whole chat turn, kept below the server write timeout"`
}

// SessionConfig configures where transcripts are kept between turns
type SessionConfig struct {
	Backend string        `env:"BACKEND, default=memory" description:"Session backend, memory or redis"`
	TTL     time.Duration `env:"TTL, default=24h" description:"Idle session expiry"`
}

// RedisConfig configures the redis session backend
type RedisConfig struct {
	Addr     string `env:"ADDR, default=localhost:6379" description:"Redis address"`
	Password string `env:"PASSWORD" type:"secret" description:"Redis password"`
	DB       int    `env:"DB, default=0" description:"Redis database"`
}

// RateLimitConfig configures the per client chat rate limit
type RateLimitConfig struct {
	RPS   float64 `env:"RPS, default=1" description:"Chat requests per second per client, 0 disables"`
	Burst int     `env:"BURST, default=5" description:"Chat request burst per client"`
}

// Load configuration
func (cfg *Config) Load(lookuper envconfig.Lookuper) (Config, error) {
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return *cfg, nil
}

// Validate checks the settings the service cannot run without
func (cfg *Config) Validate() error {
	if cfg.OpenAI == nil || cfg.OpenAI.APIKey == "" {
		return &ConfigurationError{Field: "OPENAI_API_KEY", Reason: "is required"}
	}
	if cfg.Relay.MaxIterations < MinRelayIterations || cfg.Relay.MaxIterations > MaxRelayIterations {
		return &ConfigurationError{
			Field:  "RELAY_MAX_ITERATIONS",
			Reason: fmt.Sprintf("must be between %d and %d", MinRelayIterations, MaxRelayIterations),
		}
	}
	if cfg.Chat.MaxMessageLength <= 0 {
		return &ConfigurationError{Field: "CHAT_MAX_MESSAGE_LENGTH", Reason: "must be positive"}
	}
	if cfg.Chat.HistoryLimit <= 0 {
		return &ConfigurationError{Field: "CHAT_HISTORY_LIMIT", Reason: "must be positive"}
	}
	if cfg.Chat.TurnTimeout <= 0 {
		return &ConfigurationError{Field: "CHAT_TURN_TIMEOUT", Reason: "must be positive"}
	}
	if cfg.Server != nil && cfg.Server.WriteTimeout > 0 && cfg.Chat.TurnTimeout >= cfg.Server.WriteTimeout {
		return &ConfigurationError{
			Field:  "CHAT_TURN_TIMEOUT",
			Reason: fmt.Sprintf("must be shorter than SERVER_WRITE_TIMEOUT (%s)", cfg.Server.WriteTimeout),
		}
	}
	switch cfg.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return &ConfigurationError{Field: "SESSION_BACKEND", Reason: fmt.Sprintf("unsupported backend %q", cfg.Session.Backend)}
	}
	if cfg.MCP.ServerURL == "" {
		return &ConfigurationError{Field: "MCP_SERVER_URL", Reason: "is required"}
	}
	return nil
}
