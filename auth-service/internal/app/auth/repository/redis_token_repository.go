package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"octoberpages/auth-service/internal/app/auth/entity"
	"octoberpages/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	refreshKeyPrefix   = "auth:refresh:"
	userTokensPrefix   = "auth:user_tokens:"
	blacklistKeyPrefix = "auth:blacklist:"
)

type redisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository создает Redis репозиторий для refresh токенов и черного списка
func NewRedisTokenRepository(client *redis.Client) TokenRepository {
	return &redisTokenRepository{client: client}
}

// SaveRefreshToken сохраняет refresh токен с TTL до истечения
func (r *redisTokenRepository) SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired")
	}

	tokenKey := refreshKeyPrefix + token
	userKey := userTokensPrefix + userID.String()

	// Храним токен хешем: user_id для поиска владельца, created_at для аудита.
	// Множество user_tokens позволяет отозвать все сессии пользователя разом.
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, tokenKey, "user_id", userID.String(), "created_at", time.Now().UTC().Format(time.RFC3339))
	pipe.Expire(ctx, tokenKey, ttl)
	pipe.SAdd(ctx, userKey, token)
	pipe.Expire(ctx, userKey, ttl)

	timer := metrics.NewRedisTimer("auth-service", metrics.RedisOpPipeline)
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.RecordRedisError("auth-service", metrics.RedisOpPipeline)
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	timer.ObserveDuration()

	return nil
}

// GetRefreshToken получает refresh токен из Redis
func (r *redisTokenRepository) GetRefreshToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	tokenKey := refreshKeyPrefix + token

	timer := metrics.NewRedisTimer("auth-service", metrics.RedisOpHGet)
	fields, err := r.client.HGetAll(ctx, tokenKey).Result()
	if err != nil {
		metrics.RecordRedisError("auth-service", metrics.RedisOpHGet)
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	timer.ObserveDuration()
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	userID, err := uuid.Parse(fields["user_id"])
	if err != nil {
		return nil, fmt.Errorf("invalid user id stored for refresh token: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339, fields["created_at"])
	if err != nil {
		createdAt = time.Now().UTC()
	}

	ttl, err := r.client.TTL(ctx, tokenKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token TTL: %w", err)
	}

	return &entity.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: createdAt,
	}, nil
}

// DeleteRefreshToken удаляет refresh токен и вычищает его из множества пользователя
func (r *redisTokenRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	tokenKey := refreshKeyPrefix + token

	userIDStr, err := r.client.HGet(ctx, tokenKey, "user_id").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to resolve refresh token owner: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, tokenKey)
	if userIDStr != "" {
		pipe.SRem(ctx, userTokensPrefix+userIDStr, token)
	}

	timer := metrics.NewRedisTimer("auth-service", metrics.RedisOpPipeline)
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.RecordRedisError("auth-service", metrics.RedisOpPipeline)
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	timer.ObserveDuration()

	return nil
}

// DeleteUserRefreshTokens отзывает все refresh токены пользователя
func (r *redisTokenRepository) DeleteUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	userKey := userTokensPrefix + userID.String()

	timer := metrics.NewRedisTimer("auth-service", metrics.RedisOpSMembers)
	tokens, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil {
		metrics.RecordRedisError("auth-service", metrics.RedisOpSMembers)
		return fmt.Errorf("failed to get user refresh tokens: %w", err)
	}
	timer.ObserveDuration()

	pipe := r.client.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, refreshKeyPrefix+token)
	}
	pipe.Del(ctx, userKey)

	pipeTimer := metrics.NewRedisTimer("auth-service", metrics.RedisOpPipeline)
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.RecordRedisError("auth-service", metrics.RedisOpPipeline)
		return fmt.Errorf("failed to delete user refresh tokens: %w", err)
	}
	pipeTimer.ObserveDuration()

	return nil
}

// AddToBlacklist добавляет access токен в черный список до момента его истечения
func (r *redisTokenRepository) AddToBlacklist(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Истекший токен и так не пройдет валидацию
		return nil
	}

	timer := metrics.NewRedisTimer("auth-service", metrics.RedisOpSet)
	if err := r.client.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err(); err != nil {
		metrics.RecordRedisError("auth-service", metrics.RedisOpSet)
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	timer.ObserveDuration()

	return nil
}

// IsBlacklisted проверяет наличие токена в черном списке
func (r *redisTokenRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	timer := metrics.NewRedisTimer("auth-service", metrics.RedisOpExists)
	exists, err := r.client.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		metrics.RecordRedisError("auth-service", metrics.RedisOpExists)
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	timer.ObserveDuration()

	return exists > 0, nil
}
