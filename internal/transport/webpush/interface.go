package webpush

//go:generate mockgen -package=mocks -destination=mocks/mock_sender.go github.com/KirkDiggler/barcrew/internal/transport/webpush Sender

import (
	"context"
)

// Sender delivers one serialized payload to one push endpoint
type Sender interface {
	// Send returns nil on a 2xx response. Failures are apperr errors of kind
	// permanent_delivery when the endpoint is dead and transient_delivery
	// otherwise; StatusCode extracts the HTTP status when there is one.
	Send(ctx context.Context, input *SendInput) error
}
