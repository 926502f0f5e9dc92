package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ContextKeyRequestID = "request_id"
	contextKeyLogger    = "logger"
)

// RequestID injects an X-Request-ID header into the request and response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger attaches a request-scoped logger and logs each HTTP request with
// method, path, status, and latency.
func Logger(base *zap.Logger) gin.HandlerFunc {
	if base == nil {
		base = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetString(ContextKeyRequestID)
		reqLogger := base.With(zap.String("request_id", requestID))
		c.Set(contextKeyLogger, reqLogger)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if subject := c.GetString(ContextKeySubject); subject != "" {
			fields = append(fields, zap.String("subject", subject))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			reqLogger.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			reqLogger.Warn("request", fields...)
		default:
			reqLogger.Info("request", fields...)
		}
	}
}

// LoggerFrom returns the request-scoped logger, or a no-op logger outside
// the Logger middleware.
func LoggerFrom(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(contextKeyLogger); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}

// Recovery recovers from panics, logs them and returns a 500 error.
func Recovery(base *zap.Logger) gin.HandlerFunc {
	if base == nil {
		base = zap.NewNop()
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		base.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("request_id", c.GetString(ContextKeyRequestID)),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "INTERNAL_ERROR", "message": "an internal error occurred"},
		})
	})
}

// MaxBodySize limits request bodies to limit bytes.
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
