package api

import (
	"net/http"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	"github.com/KirkDiggler/barcrew/internal/models"
	ledgerRepo "github.com/KirkDiggler/barcrew/internal/repositories/drink_ledger"
	memberRepo "github.com/KirkDiggler/barcrew/internal/repositories/member"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type drinkRequest struct {
	RunID         string `json:"runId" binding:"required"`
	CategoryID    string `json:"categoryId" binding:"required"`
	VariationName string `json:"variationName" binding:"required"`
	Delta         int    `json:"delta" binding:"required,oneof=1 -1"`
	EventID       string `json:"eventId" binding:"required"`
}

type drinkResponse struct {
	Count          int  `json:"count"`
	RunTotal       int  `json:"runTotal"`
	RunTotalBefore int  `json:"runTotalBefore"`
	Duplicate      bool `json:"duplicate"`
}

type snapshotResponse struct {
	RunID     string          `json:"runId"`
	StartedAt time.Time       `json:"startedAt"`
	Snapshot  models.Snapshot `json:"snapshot"`
	Total     int             `json:"total"`
}

type startRunRequest struct {
	RunID string `json:"runId"`
}

func (s *Server) getSnapshot(c *gin.Context) {
	output, err := s.ledgerRepo.GetSnapshot(c.Request.Context(), &ledgerRepo.GetSnapshotInput{UserID: userID(c)})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshotResponse{
		RunID:     output.RunID,
		StartedAt: output.StartedAt,
		Snapshot:  output.Snapshot,
		Total:     output.Total,
	})
}

// logDrink is the server side of a drink write. The limiter only stops
// floods; the per-category cooldown lives in the client session.
func (s *Server) logDrink(c *gin.Context) {
	var req drinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	member := userID(c)
	if req.Delta > 0 && s.drinkLimiter != nil && !s.drinkLimiter.Allow(member) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{
			Error:             "too many drinks logged, slow down",
			Kind:              string(apperr.KindValidation),
			RetryAfterSeconds: 20,
		})
		return
	}

	ctx := c.Request.Context()
	output, err := s.ledgerRepo.ApplyDelta(ctx, &ledgerRepo.ApplyDeltaInput{
		UserID:        member,
		RunID:         req.RunID,
		CategoryID:    req.CategoryID,
		VariationName: req.VariationName,
		Delta:         req.Delta,
		EventID:       req.EventID,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	if !output.Duplicate && output.TotalAfter != output.TotalBefore {
		// the member document drives the milestone trigger
		_, err := s.memberRepo.SetRunDrinkCount(ctx, &memberRepo.SetRunDrinkCountInput{
			MemberID: member,
			RunID:    req.RunID,
			Count:    output.TotalAfter,
		})
		if err != nil {
			s.logger.Warn("failed to update run drink count", zap.String("member", member), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, drinkResponse{
		Count:          output.Count,
		RunTotal:       output.TotalAfter,
		RunTotalBefore: output.TotalBefore,
		Duplicate:      output.Duplicate,
	})
}

func (s *Server) startRun(c *gin.Context) {
	var req startRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.RunID == "" {
		req.RunID = s.uuid.NewUUID()
	}

	ctx := c.Request.Context()
	member := userID(c)
	err := s.ledgerRepo.StartRun(ctx, &ledgerRepo.StartRunInput{
		UserID:    member,
		RunID:     req.RunID,
		StartedAt: s.clock.Now(),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	_, err = s.memberRepo.SetRunDrinkCount(ctx, &memberRepo.SetRunDrinkCountInput{MemberID: member, RunID: req.RunID})
	if err != nil {
		s.logger.Warn("failed to reset run drink count", zap.String("member", member), zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{"runId": req.RunID})
}
