package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"octoberpages/media-cleanup-service/internal/app/media-cleanup/entity"
	"octoberpages/media-cleanup-service/internal/app/media-cleanup/service"
	"octoberpages/pkg/logger"
	"octoberpages/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// KafkaConsumer обрабатывает события из топика product_events
type KafkaConsumer struct {
	reader     *kafka.Reader
	cleanupSvc service.CleanupServiceInterface
	groupID    string
	stopChan   chan struct{}
	doneChan   chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	cleanupSvc service.CleanupServiceInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       minBytes,
		MaxBytes:       maxBytes,
		StartOffset:    kafka.FirstOffset, // Удаления нельзя терять, читаем с начала
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:     reader,
		cleanupSvc: cleanupSvc,
		groupID:    groupID,
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

// Stop останавливает consumer и ждет завершения обработки
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer")
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	logger.Info().Msg("Kafka consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// Таймаут при пустом топике - штатная ситуация
				if errors.Is(err, context.DeadlineExceeded) {
					continue
				}

				metrics.RecordKafkaError("media-cleanup-service", c.reader.Config().Topic, "consume")
				logger.Error().Err(err).Msg("Error fetching message")
				time.Sleep(time.Second)
				continue
			}

			if err := c.processMessage(ctx, message); err != nil {
				logger.Error().
					Err(err).
					Int64("offset", message.Offset).
					Msg("Error processing message")
				// Offset не коммитим: сообщение будет обработано повторно
			} else {
				if err := c.reader.CommitMessages(ctx, message); err != nil {
					logger.Error().Err(err).Msg("Error committing message")
				}
			}
		}
	}
}

// processMessage обрабатывает одно сообщение из Kafka
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.ProductEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal product event: %w", err)
	}

	logger.Debug().
		Str("event_type", event.EventType).
		Str("product_id", event.ProductID).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received product event")

	// Ключ дедупликации привязан к позиции сообщения в топике
	eventKey := fmt.Sprintf("%s:%d:%d", message.Topic, message.Partition, message.Offset)

	start := time.Now()
	if err := c.cleanupSvc.ProcessProductEvent(ctx, &event, eventKey); err != nil {
		return fmt.Errorf("failed to process product event: %w", err)
	}
	metrics.RecordKafkaMessageConsumed("media-cleanup-service", message.Topic, c.groupID, time.Since(start))

	return nil
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
