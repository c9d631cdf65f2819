package api

import (
	"net/http"
	"time"

	"github.com/KirkDiggler/barcrew/internal/services/notification"
	"github.com/gin-gonic/gin"
)

type broadcastRequest struct {
	GroupID string `json:"groupId" binding:"required"`
	Title   string `json:"title" binding:"required,max=80"`
	Body    string `json:"body" binding:"required,max=280"`
	URL     string `json:"url"`
}

type beaconRequest struct {
	GroupID         string  `json:"groupId" binding:"required"`
	Title           string  `json:"title" binding:"required,max=80"`
	Latitude        float64 `json:"lat" binding:"gte=-90,lte=90"`
	Longitude       float64 `json:"lng" binding:"gte=-180,lte=180"`
	DurationMinutes int     `json:"durationMinutes" binding:"gte=0"`
}

func (s *Server) broadcast(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	stats, err := s.notificationService.Broadcast(c.Request.Context(), &notification.BroadcastInput{
		GroupID:  req.GroupID,
		SenderID: userID(c),
		Title:    req.Title,
		Body:     req.Body,
		URL:      req.URL,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (s *Server) createBeacon(c *gin.Context) {
	var req beaconRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	output, err := s.notificationService.CreateBeacon(c.Request.Context(), &notification.CreateBeaconInput{
		GroupID:   req.GroupID,
		CreatedBy: userID(c),
		Title:     req.Title,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Duration:  time.Duration(req.DurationMinutes) * time.Minute,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"beacon": output.Beacon, "stats": output.Stats})
}
