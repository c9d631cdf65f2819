package webpush

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	"github.com/KirkDiggler/barcrew/internal/models"
	webpushgo "github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/suite"
)

type TransportTestSuite struct {
	suite.Suite
	ctx        context.Context
	server     *httptest.Server
	status     int
	lastHeader http.Header
	keys       models.PushKeys
	transport  *transport
}

func (s *TransportTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.status = http.StatusCreated

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastHeader = r.Header.Clone()
		w.WriteHeader(s.status)
	}))

	privateKey, publicKey, err := webpushgo.GenerateVAPIDKeys()
	s.Require().NoError(err)

	// a browser's subscription keys
	clientKey, err := ecdh.P256().GenerateKey(rand.Reader)
	s.Require().NoError(err)
	authSecret := make([]byte, 16)
	_, err = rand.Read(authSecret)
	s.Require().NoError(err)
	s.keys = models.PushKeys{
		P256dh: base64.RawURLEncoding.EncodeToString(clientKey.PublicKey().Bytes()),
		Auth:   base64.RawURLEncoding.EncodeToString(authSecret),
	}

	s.transport, err = New(&Config{
		VAPIDPublicKey:  publicKey,
		VAPIDPrivateKey: privateKey,
		Subject:         "mailto:crew@example.com",
		TTL:             time.Hour,
		HTTPClient:      s.server.Client(),
	})
	s.Require().NoError(err)
}

func (s *TransportTestSuite) TearDownTest() {
	s.server.Close()
}

func TestTransportTestSuite(t *testing.T) {
	suite.Run(t, new(TransportTestSuite))
}

func (s *TransportTestSuite) send() error {
	return s.transport.Send(s.ctx, &SendInput{
		Endpoint: s.server.URL + "/push/abc",
		Keys:     s.keys,
		Payload:  []byte(`{"title":"hi"}`),
		Topic:    "milestone",
	})
}

func (s *TransportTestSuite) TestNewRequiresKeys() {
	_, err := New(&Config{Subject: "mailto:crew@example.com"})
	s.ErrorIs(err, ErrMissingVAPIDKeys)

	_, err = New(&Config{VAPIDPublicKey: "pub", VAPIDPrivateKey: "priv"})
	s.ErrorIs(err, ErrMissingSubject)

	_, err = New(nil)
	s.ErrorIs(err, ErrNilConfig)
}

func (s *TransportTestSuite) TestSendSuccess() {
	s.Require().NoError(s.send())

	s.Equal("3600", s.lastHeader.Get("TTL"))
	s.Equal("milestone", s.lastHeader.Get("Topic"))
	s.Equal("aes128gcm", s.lastHeader.Get("Content-Encoding"))
	s.Contains(s.lastHeader.Get("Authorization"), "vapid")
}

func (s *TransportTestSuite) TestPermanentStatuses() {
	for _, status := range []int{http.StatusGone, http.StatusNotFound, http.StatusUnauthorized} {
		s.status = status

		err := s.send()

		s.Require().Error(err)
		s.True(errors.Is(err, apperr.ErrPermanentDelivery), "status %d", status)
		s.Equal(status, StatusCode(err))
	}
}

func (s *TransportTestSuite) TestTransientStatuses() {
	for _, status := range []int{http.StatusInternalServerError, http.StatusTooManyRequests, http.StatusRequestEntityTooLarge} {
		s.status = status

		err := s.send()

		s.Require().Error(err)
		s.True(errors.Is(err, apperr.ErrTransientDelivery), "status %d", status)
		s.False(errors.Is(err, apperr.ErrPermanentDelivery))
	}
}

func (s *TransportTestSuite) TestUnreachableEndpointIsTransient() {
	s.server.Close()

	err := s.send()

	s.True(errors.Is(err, apperr.ErrTransientDelivery))
	s.Equal(0, StatusCode(err))
}

func (s *TransportTestSuite) TestMissingKeyMaterialIsPermanent() {
	err := s.transport.Send(s.ctx, &SendInput{Endpoint: s.server.URL, Payload: []byte("{}")})

	s.True(errors.Is(err, apperr.ErrPermanentDelivery))
}

func (s *TransportTestSuite) TestEndpointHost() {
	s.Equal("fcm.googleapis.com", endpointHost("https://fcm.googleapis.com/fcm/send/token"))
	s.Equal("push.example", endpointHost("push.example"))
}
