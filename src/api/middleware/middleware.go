package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pixura/pixura-contracts/src/common/errcode"
	"github.com/pixura/pixura-contracts/src/common/xhttp"
	"github.com/pixura/pixura-contracts/src/common/xzap"
)

// RecoverMiddleware turns a handler panic into a logged error response
// instead of a dropped connection.
func RecoverMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				xzap.WithContext(c.Request.Context()).Error("handler panic",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path))
				c.Abort()
				xhttp.Error(c, errcode.ErrUnexpected)
			}
		}()
		c.Next()
	}
}

// RLog tags every request with a trace id and logs method, path, status and
// latency once the handler chain finishes.
func RLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		traceID := uuid.New().String()
		c.Request = c.Request.WithContext(xzap.NewContext(c.Request.Context(), traceID))
		c.Writer.Header().Set("X-Trace-Id", traceID)

		c.Next()

		xzap.WithContext(c.Request.Context()).Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
