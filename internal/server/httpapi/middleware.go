package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/cryptown/internal/common"
	"github.com/dmitrijs2005/cryptown/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "requestID"
	userIDKey    = "userID"
	tokenKey     = "token"
)

// NewRequestIDMiddleware tags each request with an ID, reusing the one sent
// by the client if present. The ID also rides on the request context so
// every log line written while serving it carries request_id.
func NewRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			var err error
			if id, err = common.MakeRandHexString(8); err != nil {
				id = uuid.NewString()
			}
		}
		c.Set(requestIDKey, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// NewRequestLogMiddleware logs one line per request. HEAD requests are
// skipped, they're health checks.
func NewRequestLogMiddleware(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if v := c.GetString(userIDKey); v != "" {
			args = append(args, "user_id", v)
		}
		log.Info(c.Request.Context(), "request", args...)
	}
}

// NewBearerAuthMiddleware resolves the Authorization bearer token to a user
// and stores both on the context.
func NewBearerAuthMiddleware(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString(requestIDKey)

		header := c.GetHeader(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.AuthorizationScheme)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Missing bearer token",
				"requestID": requestID,
			})
			return
		}

		userID, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			status := statusFor(err)
			msg := "Invalid token"
			if status == http.StatusInternalServerError {
				msg = "Internal server error"
			} else {
				status = http.StatusUnauthorized
			}
			c.AbortWithStatusJSON(status, gin.H{
				"error":     msg,
				"requestID": requestID,
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Set(tokenKey, token)
		c.Next()
	}
}
