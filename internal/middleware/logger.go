package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"trademind/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorLogger logs detailed error information and recovers from panics.
func ErrorLogger() gin.HandlerFunc {
	log := logger.Component("http")
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logRequestError(log.Error(), c, start, "panic", err.Error()).
					Bytes("stack", debug.Stack()).
					Send()

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_SERVER_ERROR",
						"message": "Internal Server Error",
					},
				})
				return
			}

			if len(c.Errors) == 0 {
				if c.Writer.Status() >= http.StatusInternalServerError {
					logRequestError(log.Error(), c, start, "http_error", fmt.Sprintf("status=%d", c.Writer.Status())).Send()
				}
				return
			}

			for _, err := range c.Errors {
				ev := log.Warn()
				if c.Writer.Status() >= http.StatusInternalServerError {
					ev = log.Error()
				}
				logRequestError(ev, c, start, fmt.Sprintf("%v", err.Type), err.Error()).Send()
			}
		}()

		c.Next()
	}
}

// RequestLogger writes one line per request.
func RequestLogger() gin.HandlerFunc {
	log := logger.Component("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if isUpgrade(c) {
			return
		}
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("request_id", requestID(c)).
			Msg("request")
	}
}

func logRequestError(ev *zerolog.Event, c *gin.Context, start time.Time, errType, message string) *zerolog.Event {
	return ev.
		Str("type", errType).
		Int("status", c.Writer.Status()).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("query", c.Request.URL.RawQuery).
		Str("client_ip", c.ClientIP()).
		Str("user_id", UserID(c)).
		Str("role", c.GetString(ctxRole)).
		Str("request_id", requestID(c)).
		Dur("latency", time.Since(start)).
		Str("error", message)
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
