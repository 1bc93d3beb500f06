package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/cryptown/internal/common"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError aborts with the status matching err. Server-side failures are
// logged and their details kept out of the response.
func (a *API) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	requestID := c.GetString(requestIDKey)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		a.log.Error(c.Request.Context(), "request failed",
			"request_id", requestID, "path", c.FullPath(), "error", err)
		msg = "Internal server error"
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":     msg,
		"requestID": requestID,
	})
}

func (a *API) badRequest(c *gin.Context, err error) {
	a.log.Debug(c.Request.Context(), "can't bind request body",
		"request_id", c.GetString(requestIDKey), "error", err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":     "Invalid request body",
		"requestID": c.GetString(requestIDKey),
	})
}
