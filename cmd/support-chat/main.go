package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/sethvargo/go-envconfig"

	agent "github.com/inference-gateway/support-chat/agent"
	api "github.com/inference-gateway/support-chat/api"
	middlewares "github.com/inference-gateway/support-chat/api/middlewares"
	config "github.com/inference-gateway/support-chat/config"
	l "github.com/inference-gateway/support-chat/logger"
	mcp "github.com/inference-gateway/support-chat/mcp"
	otel "github.com/inference-gateway/support-chat/otel"
	providers "github.com/inference-gateway/support-chat/providers"
	session "github.com/inference-gateway/support-chat/session"
)

func main() {
	var conf config.Config
	cfg, err := conf.Load(envconfig.OsLookuper())
	if err != nil {
		log.Printf("Config load error: %v", err)
		return
	}

	var logger l.Logger
	logger, err = l.NewLogger(cfg.Environment)
	if err != nil {
		log.Printf("Logger init error: %v", err)
		return
	}

	ctx := context.Background()

	var telemetry otel.OpenTelemetry = otel.NoopTelemetry{}
	if cfg.EnableTelemetry {
		otelImpl, err := otel.Init(cfg.ApplicationName)
		if err != nil {
			logger.Error("OpenTelemetry init error", err)
			return
		}
		telemetry = otelImpl
	}

	oidcAuthenticator, err := middlewares.NewOIDCAuthenticatorMiddleware(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize OIDC authenticator", err)
		return
	}

	providerCfg, model := providers.Resolve(cfg.UseOpenRouter, cfg.OpenAI.URL, cfg.OpenAI.Model)
	client := providers.NewHTTPClient(providers.ClientConfig{
		Token:        cfg.OpenAI.APIKey,
		Timeout:      cfg.OpenAI.Timeout,
		LogResponses: cfg.Environment == "development",
	}, logger)
	provider := providers.NewProvider(providerCfg, client, cfg.OpenAI.MaxRetries, logger)
	driver := providers.NewDriver(provider, model, cfg.OpenAI.Temperature, logger)

	mcpClient := mcp.NewMCPClient(mcp.Config{
		ServerURL: cfg.MCP.ServerURL,
		AuthToken: cfg.MCP.AuthToken,
		Timeout:   cfg.MCP.Timeout,
		ToolsTTL:  cfg.MCP.ToolsTTL,
	}, logger)

	initCtx, cancelInit := context.WithTimeout(ctx, cfg.MCP.Timeout)
	if err := mcpClient.Initialize(initCtx); err != nil {
		// The first chat turn retries the handshake
		logger.Error("MCP server is not reachable yet", err, "url", cfg.MCP.ServerURL)
	} else if tools, err := mcpClient.ListTools(initCtx); err == nil {
		logger.Info("Connected to MCP server", "url", cfg.MCP.ServerURL, "tools", len(tools))
	}
	cancelInit()

	var sessions session.Store
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		redisStore, err := session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Session.TTL,
		})
		if err != nil {
			logger.Error("Failed to connect to redis", err, "addr", cfg.Redis.Addr)
			return
		}
		defer redisStore.Close()
		sessions = redisStore
	default:
		sessions = session.NewMemoryStore(cfg.Session.TTL)
	}

	chatAgent := agent.NewAgent(logger, mcpClient, driver, telemetry, agent.Config{
		MaxIterations: cfg.Relay.MaxIterations,
		HistoryLimit:  cfg.Chat.HistoryLimit,
		Provider:      providerCfg.ID,
		Model:         model,
	})

	router := api.NewRouter(cfg, logger, chatAgent, mcpClient, sessions)
	rateLimiter := middlewares.NewRateLimiter(logger, cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.NewLoggerMiddleware(logger).Middleware())
	if cfg.EnableTelemetry {
		r.Use(middlewares.NewTelemetryMiddleware(telemetry, logger).Middleware())
		r.GET("/metrics", gin.WrapH(telemetry.Handler()))
	}

	r.GET("/", router.IndexHandler)
	r.GET("/health", router.HealthcheckHandler)

	apiGroup := r.Group("/api", oidcAuthenticator.Middleware())
	apiGroup.POST("/chat", rateLimiter.Middleware(), router.ChatHandler)
	apiGroup.POST("/clear", router.ClearHandler)
	apiGroup.GET("/tools", router.ListToolsHandler)

	r.NoRoute(router.NotFoundHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if cfg.Server.TLSCertPath != "" && cfg.Server.TLSKeyPath != "" {
		go func() {
			logger.Info("Starting support chat with TLS", "port", cfg.Server.Port, "model", model)

			if err := server.ListenAndServeTLS(cfg.Server.TLSCertPath, cfg.Server.TLSKeyPath); err != nil && err != http.ErrServerClosed {
				logger.Error("ListenAndServeTLS error", err)
			}
		}()
	} else {
		go func() {
			logger.Info("Starting support chat", "port", cfg.Server.Port, "model", model)

			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("ListenAndServe error", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("Server Shutdown error", err)
	} else {
		logger.Info("Server gracefully stopped")
	}

	if err := telemetry.Shutdown(ctxShutdown); err != nil {
		logger.Error("Telemetry shutdown error", err)
	}
}
