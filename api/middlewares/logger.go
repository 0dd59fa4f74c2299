package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inference-gateway/support-chat/logger"
)

type Logger interface {
	Middleware() gin.HandlerFunc
}

type LoggerImpl struct {
	logger logger.Logger
}

func NewLoggerMiddleware(l logger.Logger) Logger {
	return &LoggerImpl{logger: l}
}

// Middleware logs every request once it has been served
func (m *LoggerImpl) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}

		if len(c.Errors) > 0 {
			m.logger.Error("request failed", c.Errors.Last().Err, fields...)
			return
		}
		m.logger.Info("request served", fields...)
	}
}
