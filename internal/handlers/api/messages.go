package api

import (
	"net/http"
	"strconv"

	"github.com/KirkDiggler/barcrew/internal/models"
	beaconRepo "github.com/KirkDiggler/barcrew/internal/repositories/beacon"
	memberRepo "github.com/KirkDiggler/barcrew/internal/repositories/member"
	messageRepo "github.com/KirkDiggler/barcrew/internal/repositories/message"
	"github.com/gin-gonic/gin"
)

type messageRequest struct {
	GroupID string `json:"groupId" binding:"required"`
	Text    string `json:"text" binding:"required"`
}

func (s *Server) postMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	author, err := s.memberRepo.GetMember(ctx, &memberRepo.GetMemberInput{MemberID: userID(c)})
	if err != nil {
		abortWithError(c, err)
		return
	}

	message := &models.Message{
		ID:         s.uuid.NewUUID(),
		GroupID:    req.GroupID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Text:       req.Text,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.messageRepo.Save(ctx, &messageRepo.SaveInput{Message: message}); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (s *Server) listMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	output, err := s.messageRepo.List(c.Request.Context(), &messageRepo.ListInput{
		GroupID: c.Param("id"),
		Limit:   limit,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": output.Messages})
}

func (s *Server) listBeacons(c *gin.Context) {
	output, err := s.beaconRepo.ListActive(c.Request.Context(), &beaconRepo.ListActiveInput{
		GroupID: c.Param("id"),
		Now:     s.clock.Now(),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"beacons": output.Beacons})
}
