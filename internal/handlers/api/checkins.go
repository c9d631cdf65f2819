package api

import (
	"net/http"

	memberRepo "github.com/KirkDiggler/barcrew/internal/repositories/member"
	"github.com/gin-gonic/gin"
)

type checkInRequest struct {
	VenueName string `json:"venueName" binding:"max=120"`
}

func (s *Server) checkIn(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	change, err := s.memberRepo.SetCheckIn(c.Request.Context(), &memberRepo.SetCheckInInput{
		MemberID:  userID(c),
		CheckedIn: true,
		VenueName: req.VenueName,
		At:        s.clock.Now(),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, change.After)
}

func (s *Server) checkOut(c *gin.Context) {
	change, err := s.memberRepo.SetCheckIn(c.Request.Context(), &memberRepo.SetCheckInInput{
		MemberID:  userID(c),
		CheckedIn: false,
		At:        s.clock.Now(),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, change.After)
}
