package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inference-gateway/support-chat/logger"
	"github.com/inference-gateway/support-chat/otel"
)

type Telemetry interface {
	Middleware() gin.HandlerFunc
}

type TelemetryImpl struct {
	telemetry otel.OpenTelemetry
	logger    logger.Logger
}

func NewTelemetryMiddleware(telemetry otel.OpenTelemetry, l logger.Logger) Telemetry {
	return &TelemetryImpl{
		telemetry: telemetry,
		logger:    l,
	}
}

// Middleware records the duration of every request against its route template
func (t *TelemetryImpl) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		elapsed := float64(time.Since(start).Microseconds()) / 1000
		t.telemetry.RecordRequestDuration(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), elapsed)
	}
}
