package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ita-manila/todo-api/internal/infrastructure/log"
)

// AccessLog 记录请求访问日志
func AccessLog(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = log.NewModuleLogger("http", "access")
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		reqLogger := log.FromContext(c.Request.Context(), logger)
		switch {
		case status >= 500:
			reqLogger.Error("HTTP request", attrs...)
		case status >= 400:
			reqLogger.Warn("HTTP request", attrs...)
		default:
			reqLogger.Info("HTTP request", attrs...)
		}
	}
}
