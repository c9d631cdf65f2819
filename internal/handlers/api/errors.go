package api

import (
	"net/http"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`

	// RetryAfterSeconds is set on 429 responses
	RetryAfterSeconds int `json:"retryAfterSeconds,omitempty"`
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindLockConflict:
		return http.StatusConflict
	case apperr.KindTransientDelivery, apperr.KindPermanentDelivery:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// abortWithError writes err with the status of its kind. Internal errors
// are not echoed to the client.
func abortWithError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(status, errorResponse{Error: message, Kind: string(kind)})
}

func badRequest(c *gin.Context, err error) {
	abortWithError(c, apperr.Wrap(apperr.KindValidation, "", err))
}
