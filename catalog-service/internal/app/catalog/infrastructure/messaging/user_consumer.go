package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"octoberpages/catalog-service/internal/app/catalog/entity"
	"octoberpages/catalog-service/internal/app/catalog/repository"
	"octoberpages/pkg/logger"
	"octoberpages/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// UserEventConsumer слушает топик user_events и поддерживает локальные
// проекции пользователей (коллекция reviewers) для отображения отзывов
type UserEventConsumer struct {
	reader    *kafka.Reader
	reviewers repository.ReviewerRepository
	doneChan  chan struct{}
}

// NewUserEventConsumer создает consumer событий пользователей
func NewUserEventConsumer(brokers []string, topic, groupID string, reviewers repository.ReviewerRepository) *UserEventConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: time.Second,
	})

	return &UserEventConsumer{
		reader:    reader,
		reviewers: reviewers,
		doneChan:  make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *UserEventConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.reader.Config().Topic).Msg("Starting user events consumer")
	go c.consume(ctx)
}

func (c *UserEventConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return
			}
			logger.Error().Err(err).Msg("Failed to read user event")
			metrics.RecordKafkaError("catalog-service", c.reader.Config().Topic, "consume")
			continue
		}

		received := time.Now()

		var event entity.UserEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			logger.Warn().Err(err).Msg("Skipping malformed user event")
			continue
		}

		switch event.EventType {
		case "USER_REGISTERED", "USER_UPDATED":
			profile := &entity.ReviewerProfile{
				ID:        event.UserID,
				Fullname:  event.Fullname,
				Email:     event.Email,
				AvatarURL: event.AvatarURL,
			}
			if err := c.reviewers.Upsert(ctx, profile); err != nil {
				logger.Error().Err(err).Str("user_id", event.UserID).Msg("Failed to upsert reviewer profile")
			}
		default:
			logger.Debug().Str("event_type", event.EventType).Msg("Ignoring user event")
		}

		metrics.RecordKafkaMessageConsumed(
			"catalog-service", c.reader.Config().Topic, c.reader.Config().GroupID, time.Since(received),
		)
	}
}

// Stop останавливает consumer и дожидается завершения цикла чтения
func (c *UserEventConsumer) Stop() error {
	err := c.reader.Close()

	select {
	case <-c.doneChan:
	case <-time.After(5 * time.Second):
		logger.Warn().Msg("Timed out waiting for user events consumer to stop")
	}

	return err
}
