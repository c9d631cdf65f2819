package webpush

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
)

var (
	ErrNilConfig        = errors.New("config cannot be nil")
	ErrMissingVAPIDKeys = errors.New("VAPID public and private keys are required")
	ErrMissingSubject   = errors.New("VAPID subject is required")
)

// StatusError is a non-2xx response from a push service
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("push service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("push service returned status %d: %s", e.StatusCode, e.Body)
}

// IsPermanentStatus reports whether a status means the endpoint will never
// accept deliveries again
func IsPermanentStatus(code int) bool {
	switch code {
	case http.StatusNotFound, http.StatusGone, http.StatusUnauthorized:
		return true
	}
	return false
}

// StatusCode returns the push service status carried by err, or 0
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

func statusFailure(code int, body string) error {
	kind := apperr.KindTransientDelivery
	if IsPermanentStatus(code) {
		kind = apperr.KindPermanentDelivery
	}
	return apperr.Wrap(kind, "webpush.Send", &StatusError{StatusCode: code, Body: body})
}
