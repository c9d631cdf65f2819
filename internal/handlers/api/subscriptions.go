package api

import (
	"net/http"

	"github.com/KirkDiggler/barcrew/internal/models"
	subscriptionRepo "github.com/KirkDiggler/barcrew/internal/repositories/subscription"
	"github.com/gin-gonic/gin"
)

// subscriptionRequest mirrors the browser's PushSubscription.toJSON()
type subscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys"`
}

type revokeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

func (s *Server) upsertSubscription(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	subscription, err := s.subscriptionRepo.Upsert(c.Request.Context(), &subscriptionRepo.UpsertInput{
		UserID:    userID(c),
		Endpoint:  req.Endpoint,
		Keys:      models.PushKeys{P256dh: req.Keys.P256dh, Auth: req.Keys.Auth},
		UserAgent: c.Request.UserAgent(),
		At:        s.clock.Now(),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscription)
}

func (s *Server) revokeSubscription(c *gin.Context) {
	var req revokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := s.subscriptionRepo.Revoke(c.Request.Context(), &subscriptionRepo.RevokeInput{
		UserID:   userID(c),
		Endpoint: req.Endpoint,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
