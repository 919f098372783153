package repository

import (
	"context"
	"testing"
	"time"

	"octoberpages/media-cleanup-service/internal/app/media-cleanup/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// EventDedupRepositoryTestSuite тестовый suite для Redis repository
type EventDedupRepositoryTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	repo      EventDedupRepository
}

func TestEventDedupRepositorySuite(t *testing.T) {
	suite.Run(t, new(EventDedupRepositoryTestSuite))
}

func (s *EventDedupRepositoryTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client = redis.NewClient(&redis.Options{
		Addr: s.miniRedis.Addr(),
	})

	s.repo = NewEventDedupRepository(s.client, 24*time.Hour)
}

func (s *EventDedupRepositoryTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

func (s *EventDedupRepositoryTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

// ===================== MarkProcessed Tests =====================

func (s *EventDedupRepositoryTestSuite) TestMarkProcessed_FirstTime() {
	ctx := context.Background()

	fresh, err := s.repo.MarkProcessed(ctx, "product_events:0:42")

	assert.NoError(s.T(), err)
	assert.True(s.T(), fresh)
}

func (s *EventDedupRepositoryTestSuite) TestMarkProcessed_Duplicate() {
	ctx := context.Background()

	fresh, err := s.repo.MarkProcessed(ctx, "product_events:0:42")
	require.NoError(s.T(), err)
	require.True(s.T(), fresh)

	// Повторная пометка того же события
	fresh, err = s.repo.MarkProcessed(ctx, "product_events:0:42")

	assert.NoError(s.T(), err)
	assert.False(s.T(), fresh)
}

func (s *EventDedupRepositoryTestSuite) TestMarkProcessed_DifferentKeysIndependent() {
	ctx := context.Background()

	fresh1, err := s.repo.MarkProcessed(ctx, "product_events:0:1")
	require.NoError(s.T(), err)

	fresh2, err := s.repo.MarkProcessed(ctx, "product_events:1:1")
	require.NoError(s.T(), err)

	assert.True(s.T(), fresh1)
	assert.True(s.T(), fresh2)
}

func (s *EventDedupRepositoryTestSuite) TestMarkProcessed_TTLSet() {
	ctx := context.Background()

	_, err := s.repo.MarkProcessed(ctx, "product_events:0:42")
	require.NoError(s.T(), err)

	key := entity.GetRedisKeyForEvent("product_events:0:42")
	ttl := s.miniRedis.TTL(key)
	assert.Equal(s.T(), 24*time.Hour, ttl)
}

func (s *EventDedupRepositoryTestSuite) TestMarkProcessed_ExpiredKeyFreshAgain() {
	ctx := context.Background()

	_, err := s.repo.MarkProcessed(ctx, "product_events:0:42")
	require.NoError(s.T(), err)

	// После истечения TTL событие снова считается новым
	s.miniRedis.FastForward(25 * time.Hour)

	fresh, err := s.repo.MarkProcessed(ctx, "product_events:0:42")
	assert.NoError(s.T(), err)
	assert.True(s.T(), fresh)
}
