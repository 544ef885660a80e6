package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kajkor/kajkor-backend/internal/platform/ctxutil"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

var quietPaths = map[string]bool{
	"/healthcheck": true,
	"/metrics":     true,
}

// RequestLogger writes one access line per request. 5xx logs at error, 4xx at
// warn; probes and scrapes that succeed drop to debug.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := accessFields(c, route, status, time.Since(start))

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		case quietPaths[route]:
			log.Debug("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func accessFields(c *gin.Context, route string, status int, dur time.Duration) []interface{} {
	fields := []interface{}{
		"method", strings.ToUpper(c.Request.Method),
		"path", route,
		"status", status,
		"duration_ms", dur.Milliseconds(),
		"bytes", c.Writer.Size(),
		"client_ip", c.ClientIP(),
	}
	ctx := c.Request.Context()
	fields = append(fields, ctxutil.GetTraceData(ctx).LogFields()...)
	if rd := ctxutil.GetRequestData(ctx); rd != nil && rd.UserID != uuid.Nil {
		fields = append(fields, "user_id", rd.UserID.String())
	}
	if len(c.Errors) > 0 {
		fields = append(fields, "error", c.Errors.String())
	}
	return fields
}
