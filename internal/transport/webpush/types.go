package webpush

import (
	"net/http"
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
	"go.uber.org/zap"
)

// DefaultTTL is how long the push service holds an undelivered message
const DefaultTTL = 24 * time.Hour

// Urgency hints delivery priority to the push service
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// Config holds configuration for the Web Push transport
type Config struct {
	// VAPID key pair, base64url encoded
	VAPIDPublicKey  string
	VAPIDPrivateKey string

	// Subject identifies the sender to push services, usually a mailto: address
	Subject string

	// TTL defaults to DefaultTTL
	TTL time.Duration

	// HTTPClient defaults to a client with a 10s timeout
	HTTPClient *http.Client

	Logger *zap.Logger
}

// SendInput contains parameters for one delivery
type SendInput struct {
	Endpoint string
	Keys     models.PushKeys
	Payload  []byte

	// Topic replaces a pending message with the same topic on the push service
	Topic   string
	Urgency Urgency
}
