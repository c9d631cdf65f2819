package webpush

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	"github.com/KirkDiggler/barcrew/internal/common/logger"
	webpushgo "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"
)

const maxErrorBody = 512

type transport struct {
	publicKey  string
	privateKey string
	subject    string
	ttl        int
	httpClient *http.Client
	log        *zap.Logger
}

// New creates a Web Push transport. Missing signing keys are a
// configuration error and the caller is expected to abort.
func New(cfg *Config) (*transport, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return nil, ErrMissingVAPIDKeys
	}

	if cfg.Subject == "" {
		return nil, ErrMissingSubject
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &transport{
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
		// webpush-go prefixes mailto: itself
		subject:    strings.TrimPrefix(cfg.Subject, "mailto:"),
		ttl:        int(ttl.Seconds()),
		httpClient: httpClient,
		log:        logger.OrNop(cfg.Logger),
	}, nil
}

// Send encrypts and delivers one payload
func (t *transport) Send(ctx context.Context, input *SendInput) error {
	if input == nil || input.Endpoint == "" {
		return apperr.Validation("endpoint cannot be empty")
	}
	if input.Keys.P256dh == "" || input.Keys.Auth == "" {
		return apperr.Wrap(apperr.KindPermanentDelivery, "webpush.Send", apperr.Validation("subscription has no key material"))
	}

	urgency := webpushgo.UrgencyNormal
	if input.Urgency == UrgencyHigh {
		urgency = webpushgo.UrgencyHigh
	}

	resp, err := webpushgo.SendNotificationWithContext(ctx, input.Payload, &webpushgo.Subscription{
		Endpoint: input.Endpoint,
		Keys: webpushgo.Keys{
			P256dh: input.Keys.P256dh,
			Auth:   input.Keys.Auth,
		},
	}, &webpushgo.Options{
		HTTPClient:      t.httpClient,
		Subscriber:      t.subject,
		Topic:           input.Topic,
		TTL:             t.ttl,
		Urgency:         urgency,
		VAPIDPublicKey:  t.publicKey,
		VAPIDPrivateKey: t.privateKey,
	})
	if err != nil {
		return apperr.Wrap(apperr.KindTransientDelivery, "webpush.Send", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	t.log.Debug("push service rejected delivery",
		zap.Int("status", resp.StatusCode),
		zap.String("endpoint_host", endpointHost(input.Endpoint)),
	)

	return statusFailure(resp.StatusCode, strings.TrimSpace(string(body)))
}

// endpointHost keeps the push service host for logs without the
// per-subscription token in the path
func endpointHost(endpoint string) string {
	rest := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i]
	}
	return rest
}
