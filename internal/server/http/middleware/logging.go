package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs information about incoming requests using slog.
// Server errors are logged at error level together with the handler errors.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		attrs := []any{
			slog.String("request_id", CurrentRequestID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
		}
		if status >= 500 {
			if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
				attrs = append(attrs, slog.String("error", errs.String()))
			}
			logger.Error("http request", attrs...)
			return
		}
		logger.Info("http request", attrs...)
	}
}
