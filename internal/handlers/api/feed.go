package api

import (
	"net/http"
	"strconv"

	feedRepo "github.com/KirkDiggler/barcrew/internal/repositories/feed"
	"github.com/gin-gonic/gin"
)

type markReadRequest struct {
	// IDs is empty to mark the whole feed
	IDs []string `json:"ids"`
}

func (s *Server) listFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	output, err := s.feedRepo.List(c.Request.Context(), &feedRepo.ListInput{UserID: userID(c), Limit: limit})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": output.Items, "unread": output.Unread})
}

func (s *Server) markFeedRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	output, err := s.feedRepo.MarkRead(c.Request.Context(), &feedRepo.MarkReadInput{UserID: userID(c), ItemIDs: req.IDs})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": output.Marked})
}
