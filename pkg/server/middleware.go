package server

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/milan604/netservice/pkg/logger"
)

// HeaderRequestID carries the request id, the same header the client sets
// on every outgoing call.
const HeaderRequestID = "X-Request-ID"

// requestID keeps the caller's X-Request-ID or generates one, puts it into
// the request context for *FCtx logging and echoes it back.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// accessLog writes one line per request. Successful requests log at debug.
func accessLog(l logger.LogManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := logger.WithEndpoint(c.Request.Context(), c.Request.Method+" "+c.Request.URL.Path)
		status := c.Writer.Status()
		elapsed := time.Since(start)
		switch {
		case status >= http.StatusInternalServerError:
			l.ErrorFCtx(ctx, "%d in %s", status, elapsed)
		case status >= http.StatusBadRequest:
			l.WarnFCtx(ctx, "%d in %s", status, elapsed)
		default:
			l.DebugFCtx(ctx, "%d in %s", status, elapsed)
		}
	}
}

// recovery turns a handler panic into a 500 and logs the stack.
func recovery(l logger.LogManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				l.ErrorFCtx(c.Request.Context(), "panic: %v\n%s", r, debug.Stack())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}
