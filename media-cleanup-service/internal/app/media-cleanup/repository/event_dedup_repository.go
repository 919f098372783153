package repository

import (
	"context"
	"fmt"
	"time"

	"octoberpages/media-cleanup-service/internal/app/media-cleanup/entity"
	"octoberpages/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// eventDedupRepository реализует EventDedupRepository поверх Redis
type eventDedupRepository struct {
	client *redis.Client
	ttl    time.Duration // TTL ключей дедупликации
}

// NewEventDedupRepository создает новый репозиторий дедупликации событий
func NewEventDedupRepository(client *redis.Client, ttl time.Duration) EventDedupRepository {
	return &eventDedupRepository{
		client: client,
		ttl:    ttl,
	}
}

// MarkProcessed атомарно помечает событие обработанным через SETNX
// Возвращает false, если ключ уже существовал (событие - дубликат)
func (r *eventDedupRepository) MarkProcessed(ctx context.Context, eventKey string) (bool, error) {
	key := entity.GetRedisKeyForEvent(eventKey)

	timer := metrics.NewRedisTimer("media-cleanup-service", metrics.RedisOpSetNX)
	set, err := r.client.SetNX(ctx, key, "1", r.ttl).Result()
	if err != nil {
		metrics.RecordRedisError("media-cleanup-service", metrics.RedisOpSetNX)
		return false, fmt.Errorf("failed to mark event as processed: %w", err)
	}
	timer.ObserveDuration()

	return set, nil
}
