package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/maxviazov/users-admin/internal/notify"
	"github.com/maxviazov/users-admin/internal/trace"
)

// RequestID makes sure every inbound request carries an id, in its context and in both headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(trace.HeaderRequestID)
		if id == "" {
			id = trace.GenerateID()
		}
		c.Request = c.Request.WithContext(trace.WithRequestID(c.Request.Context(), id))
		c.Writer.Header().Set(trace.HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger logs one line per request and attaches a request-scoped logger to the context.
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		l := base.With().Str("request_id", trace.RequestIDFromContext(c.Request.Context())).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		event := l.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = l.Error()
		case status >= http.StatusBadRequest:
			event = l.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("completed request")
	}
}

// NotificationInbox gives every request its own inbox; notify.ContextInbox delivers into it.
func NotificationInbox() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _ := notify.WithInbox(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CORS applies rs/cors to requests under prefix. No origins means no cross-origin access.
func CORS(prefix string, origins []string) gin.HandlerFunc {
	policy := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", trace.HeaderRequestID},
		ExposedHeaders: []string{trace.HeaderRequestID},
	})
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, prefix) {
			c.Next()
			return
		}
		policy.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			// preflight already answered
			c.Abort()
			return
		}
		c.Next()
	}
}
