package message

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/barcrew/internal/common/apperr"
	"github.com/KirkDiggler/barcrew/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	ctx     context.Context
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.ctx = context.Background()
	s.testNow = time.Date(2025, 4, 5, 19, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) save(id, groupID string, at time.Time) {
	s.Require().NoError(s.repo.Save(s.ctx, &SaveInput{
		Message: &models.Message{
			ID:         id,
			GroupID:    groupID,
			AuthorID:   "alice",
			AuthorName: "Alice",
			Text:       "round on me",
			CreatedAt:  at,
		},
	}))
}

func (s *RedisRepositoryTestSuite) TestSaveAndList() {
	s.save("m1", "crew", s.testNow)
	s.save("m2", "crew", s.testNow.Add(time.Minute))
	s.save("m3", "other", s.testNow)

	output, err := s.repo.List(s.ctx, &ListInput{GroupID: "crew"})
	s.Require().NoError(err)
	s.Require().Len(output.Messages, 2)
	s.Equal("m2", output.Messages[0].ID)
	s.Equal("Alice", output.Messages[1].AuthorName)
}

func (s *RedisRepositoryTestSuite) TestSaveValidation() {
	err := s.repo.Save(s.ctx, &SaveInput{Message: &models.Message{ID: "m1", GroupID: "crew", AuthorID: "alice"}})
	s.ErrorIs(err, apperr.ErrValidation)

	err = s.repo.Save(s.ctx, &SaveInput{Message: &models.Message{
		ID: "m1", GroupID: "crew", AuthorID: "alice", Text: strings.Repeat("x", MaxTextLength+1),
	}})
	s.ErrorIs(err, apperr.ErrValidation)
}

func (s *RedisRepositoryTestSuite) TestPurgeOlderThan() {
	s.save("old", "crew", s.testNow.Add(-48*time.Hour))
	s.save("fresh", "crew", s.testNow)

	output, err := s.repo.PurgeOlderThan(s.ctx, &PurgeOlderThanInput{Before: s.testNow.Add(-24 * time.Hour)})
	s.Require().NoError(err)
	s.Equal(1, output.Deleted)

	list, err := s.repo.List(s.ctx, &ListInput{GroupID: "crew"})
	s.Require().NoError(err)
	s.Require().Len(list.Messages, 1)
	s.Equal("fresh", list.Messages[0].ID)
}

func (s *RedisRepositoryTestSuite) TestSubscribeCreated() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	created, err := s.repo.SubscribeCreated(ctx)
	s.Require().NoError(err)

	s.save("m1", "crew", s.testNow)

	select {
	case message := <-created:
		s.Equal("m1", message.ID)
		s.Equal("crew", message.GroupID)
	case <-time.After(2 * time.Second):
		s.Fail("timed out waiting for message")
	}

	cancel()
	select {
	case _, ok := <-created:
		s.False(ok)
	case <-time.After(2 * time.Second):
		s.Fail("stream not closed after cancel")
	}
}
