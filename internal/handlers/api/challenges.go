package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/KirkDiggler/barcrew/internal/models"
	"github.com/KirkDiggler/barcrew/internal/services/challenge"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createChallengeRequest struct {
	ReceiverID      string `json:"receiverId" binding:"required"`
	GroupID         string `json:"groupId"`
	StartInProgress bool   `json:"startInProgress"`
}

type advancePhaseRequest struct {
	Phase    models.ChallengePhase `json:"phase" binding:"required"`
	ProofRef string                `json:"proofRef"`

	// WrittenAt is the device time of the change
	WrittenAt *time.Time `json:"writtenAt"`
}

type failChallengeRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) createChallenge(c *gin.Context) {
	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	output, err := s.challengeService.Create(c.Request.Context(), &challenge.CreateInput{
		SenderID:        userID(c),
		ReceiverID:      req.ReceiverID,
		GroupID:         req.GroupID,
		StartInProgress: req.StartInProgress,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, output.Challenge)
}

func (s *Server) openChallenge(c *gin.Context) {
	output, err := s.challengeService.Open(c.Request.Context(), &challenge.OpenInput{
		ChallengeID: c.Param("id"),
		UserID:      userID(c),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenge": output.Challenge, "promoted": output.Promoted})
}

func (s *Server) promoteChallenge(c *gin.Context) {
	output, err := s.challengeService.Promote(c.Request.Context(), &challenge.PromoteInput{
		ChallengeID: c.Param("id"),
		UserID:      userID(c),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenge": output.Challenge, "promoted": output.Promoted})
}

func (s *Server) advancePhase(c *gin.Context) {
	var req advancePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	input := &challenge.AdvancePhaseInput{
		ChallengeID: c.Param("id"),
		UserID:      userID(c),
		Phase:       req.Phase,
		ProofRef:    req.ProofRef,
	}
	if req.WrittenAt != nil {
		input.WrittenAt = *req.WrittenAt
	}

	output, err := s.challengeService.AdvancePhase(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenge": output.Challenge, "applied": output.Applied})
}

func (s *Server) failChallenge(c *gin.Context) {
	var req failChallengeRequest
	// the body is optional
	_ = c.ShouldBindJSON(&req)

	output, err := s.challengeService.Fail(c.Request.Context(), &challenge.FailInput{
		ChallengeID: c.Param("id"),
		UserID:      userID(c),
		Reason:      req.Reason,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenge": output.Challenge, "failed": output.Failed})
}

func (s *Server) reconcileChallenges(c *gin.Context) {
	output, err := s.challengeService.Reconcile(c.Request.Context(), &challenge.ReconcileInput{UserID: userID(c)})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"released": output.Released})
}

func (s *Server) checkLuckyWheel(c *gin.Context) {
	output, err := s.challengeService.CheckLuckyWheel(c.Request.Context(), &challenge.LuckyWheelInput{UserID: userID(c)})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

func (s *Server) grantLuckyWheel(c *gin.Context) {
	output, err := s.challengeService.GrantLuckyWheel(c.Request.Context(), &challenge.LuckyWheelInput{UserID: userID(c)})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

// streamChallenges pushes the member's merged dare list as server-sent
// events. While connected, the member's running dares are failed by a
// deadline watcher as soon as they expire.
func (s *Server) streamChallenges(c *gin.Context) {
	member := userID(c)
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	updates, err := s.challengeService.Watch(ctx, &challenge.WatchInput{
		UserID:      member,
		AutoPromote: c.Query("autoPromote") == "true",
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	watcher, err := challenge.NewDeadlineWatcher(&challenge.DeadlineWatcherConfig{
		UserID:  member,
		Service: s.challengeService,
		Tick:    s.watchTick,
		Clock:   s.clock,
		Logger:  s.logger,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	go watcher.Run(ctx)

	s.logger.Debug("challenge stream opened", zap.String("member", member))

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case list, ok := <-updates:
			if !ok {
				return false
			}
			for _, ch := range list {
				watcher.Observe(ch)
			}
			c.SSEvent("challenges", list)
			return true
		}
	})
}
