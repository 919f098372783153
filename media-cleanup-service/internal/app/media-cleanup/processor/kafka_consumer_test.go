package processor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"octoberpages/media-cleanup-service/internal/app/media-cleanup/entity"
	"octoberpages/media-cleanup-service/internal/app/media-cleanup/repository/mocks"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ===================== NewKafkaConsumer Tests =====================

func TestNewKafkaConsumer(t *testing.T) {
	// Arrange
	cleanupSvc := new(mocks.MockCleanupService)

	brokers := []string{"localhost:9092"}
	topic := "product_events"
	groupID := "media-cleanup-service"

	// Act
	consumer := NewKafkaConsumer(brokers, topic, groupID, 1, 10e6, cleanupSvc)

	// Assert
	assert.NotNil(t, consumer)
	assert.NotNil(t, consumer.reader)
	assert.NotNil(t, consumer.cleanupSvc)
	assert.NotNil(t, consumer.stopChan)
	assert.NotNil(t, consumer.doneChan)

	// Cleanup
	consumer.reader.Close()
}

// ===================== processMessage Tests =====================

func TestKafkaConsumer_ProcessMessage_Success(t *testing.T) {
	// Arrange
	cleanupSvc := new(mocks.MockCleanupService)

	consumer := &KafkaConsumer{
		cleanupSvc: cleanupSvc,
		groupID:    "media-cleanup-service",
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}

	ctx := context.Background()
	event := entity.ProductEvent{
		EventType:  entity.EventTypeProductDeleted,
		ProductID:  "68a1b2c3d4e5f60718293a4b",
		Storefront: "books",
		ImageIDs:   []string{"products/cover_1"},
		Timestamp:  time.Now(),
	}

	value, err := json.Marshal(event)
	assert.NoError(t, err)

	message := kafka.Message{
		Topic:     "product_events",
		Partition: 2,
		Offset:    17,
		Value:     value,
	}

	cleanupSvc.On("ProcessProductEvent", ctx, mock.MatchedBy(func(e *entity.ProductEvent) bool {
		return e.EventType == entity.EventTypeProductDeleted && e.ProductID == event.ProductID
	}), "product_events:2:17").Return(nil)

	// Act
	err = consumer.processMessage(ctx, message)

	// Assert
	assert.NoError(t, err)
	cleanupSvc.AssertExpectations(t)
}

func TestKafkaConsumer_ProcessMessage_InvalidJSON(t *testing.T) {
	// Arrange
	cleanupSvc := new(mocks.MockCleanupService)

	consumer := &KafkaConsumer{
		cleanupSvc: cleanupSvc,
		groupID:    "media-cleanup-service",
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}

	ctx := context.Background()
	message := kafka.Message{
		Topic: "product_events",
		Value: []byte("not a json"),
	}

	// Act
	err := consumer.processMessage(ctx, message)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal")
	cleanupSvc.AssertNotCalled(t, "ProcessProductEvent")
}

func TestKafkaConsumer_ProcessMessage_ServiceError(t *testing.T) {
	// Arrange
	cleanupSvc := new(mocks.MockCleanupService)

	consumer := &KafkaConsumer{
		cleanupSvc: cleanupSvc,
		groupID:    "media-cleanup-service",
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}

	ctx := context.Background()
	event := entity.ProductEvent{
		EventType: entity.EventTypeProductDeleted,
		ProductID: "68a1b2c3d4e5f60718293a4b",
	}

	value, _ := json.Marshal(event)
	message := kafka.Message{
		Topic:     "product_events",
		Partition: 0,
		Offset:    1,
		Value:     value,
	}

	cleanupSvc.On("ProcessProductEvent", ctx, mock.Anything, "product_events:0:1").
		Return(errors.New("redis down"))

	// Act
	err := consumer.processMessage(ctx, message)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to process")
}

func TestKafkaConsumer_EventKeyUniquePerOffset(t *testing.T) {
	// Ключ дедупликации различает сообщения по позиции в топике
	// Arrange
	cleanupSvc := new(mocks.MockCleanupService)

	consumer := &KafkaConsumer{
		cleanupSvc: cleanupSvc,
		groupID:    "media-cleanup-service",
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}

	ctx := context.Background()
	event := entity.ProductEvent{EventType: entity.EventTypeProductDeleted}
	value, _ := json.Marshal(event)

	cleanupSvc.On("ProcessProductEvent", ctx, mock.Anything, "product_events:0:1").Return(nil).Once()
	cleanupSvc.On("ProcessProductEvent", ctx, mock.Anything, "product_events:0:2").Return(nil).Once()

	// Act
	err1 := consumer.processMessage(ctx, kafka.Message{Topic: "product_events", Offset: 1, Value: value})
	err2 := consumer.processMessage(ctx, kafka.Message{Topic: "product_events", Offset: 2, Value: value})

	// Assert
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	cleanupSvc.AssertExpectations(t)
}
