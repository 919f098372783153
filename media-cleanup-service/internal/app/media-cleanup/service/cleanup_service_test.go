package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"octoberpages/media-cleanup-service/internal/app/media-cleanup/entity"
	"octoberpages/media-cleanup-service/internal/app/media-cleanup/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestCleanupService() (*CleanupService, *mocks.MockPendingReleaseRepository, *mocks.MockEventDedupRepository, *mocks.MockMediaDestroyer) {
	pendingRepo := new(mocks.MockPendingReleaseRepository)
	dedupRepo := new(mocks.MockEventDedupRepository)
	media := new(mocks.MockMediaDestroyer)

	svc := NewCleanupService(pendingRepo, dedupRepo, media, 3, 50)
	return svc, pendingRepo, dedupRepo, media
}

func deletedEvent(imageIDs ...string) *entity.ProductEvent {
	return &entity.ProductEvent{
		EventType:  entity.EventTypeProductDeleted,
		ProductID:  "68a1b2c3d4e5f60718293a4b",
		Storefront: "books",
		ImageIDs:   imageIDs,
		Timestamp:  time.Now(),
	}
}

// ===================== ProcessProductEvent Tests =====================

func TestProcessProductEvent_ProductDeleted_ReleasesAllImages(t *testing.T) {
	// Arrange
	svc, pendingRepo, dedupRepo, media := newTestCleanupService()

	ctx := context.Background()
	event := deletedEvent("products/cover_1", "products/cover_2")

	dedupRepo.On("MarkProcessed", ctx, "product_events:0:42").Return(true, nil)
	media.On("Destroy", ctx, "products/cover_1").Return(nil)
	media.On("Destroy", ctx, "products/cover_2").Return(nil)

	// Act
	err := svc.ProcessProductEvent(ctx, event, "product_events:0:42")

	// Assert
	assert.NoError(t, err)
	media.AssertExpectations(t)
	pendingRepo.AssertNotCalled(t, "Enqueue")
}

func TestProcessProductEvent_DuplicateEvent_Skipped(t *testing.T) {
	// Arrange
	svc, _, dedupRepo, media := newTestCleanupService()

	ctx := context.Background()
	event := deletedEvent("products/cover_1")

	dedupRepo.On("MarkProcessed", ctx, "product_events:0:42").Return(false, nil)

	// Act
	err := svc.ProcessProductEvent(ctx, event, "product_events:0:42")

	// Assert
	assert.NoError(t, err)
	media.AssertNotCalled(t, "Destroy")
}

func TestProcessProductEvent_DestroyFailure_QueuedForRetry(t *testing.T) {
	// Destroy не удался - изображение уходит в очередь, событие обработано
	// Arrange
	svc, pendingRepo, dedupRepo, media := newTestCleanupService()

	ctx := context.Background()
	event := deletedEvent("products/cover_1", "products/cover_2")

	dedupRepo.On("MarkProcessed", ctx, mock.Anything).Return(true, nil)
	media.On("Destroy", ctx, "products/cover_1").Return(errors.New("cloudinary unavailable"))
	media.On("Destroy", ctx, "products/cover_2").Return(nil)

	pendingRepo.On("Enqueue", ctx, mock.MatchedBy(func(r *entity.PendingRelease) bool {
		return r.PublicID == "products/cover_1" && r.Storefront == "books"
	})).Return(nil)

	// Act
	err := svc.ProcessProductEvent(ctx, event, "product_events:0:1")

	// Assert
	assert.NoError(t, err)
	pendingRepo.AssertExpectations(t)
	media.AssertExpectations(t)
}

func TestProcessProductEvent_EnqueueFailure_EventStillProcessed(t *testing.T) {
	// Arrange
	svc, pendingRepo, dedupRepo, media := newTestCleanupService()

	ctx := context.Background()
	event := deletedEvent("products/cover_1")

	dedupRepo.On("MarkProcessed", ctx, mock.Anything).Return(true, nil)
	media.On("Destroy", ctx, "products/cover_1").Return(errors.New("cloudinary unavailable"))
	pendingRepo.On("Enqueue", ctx, mock.Anything).Return(errors.New("db down"))

	// Act
	err := svc.ProcessProductEvent(ctx, event, "product_events:0:2")

	// Assert
	assert.NoError(t, err)
}

func TestProcessProductEvent_ProductCreated_Ignored(t *testing.T) {
	// Arrange
	svc, pendingRepo, dedupRepo, media := newTestCleanupService()

	ctx := context.Background()
	event := &entity.ProductEvent{
		EventType: entity.EventTypeProductCreated,
		ProductID: "68a1b2c3d4e5f60718293a4b",
	}

	// Act
	err := svc.ProcessProductEvent(ctx, event, "product_events:0:3")

	// Assert
	assert.NoError(t, err)
	dedupRepo.AssertNotCalled(t, "MarkProcessed")
	media.AssertNotCalled(t, "Destroy")
	pendingRepo.AssertNotCalled(t, "Enqueue")
}

func TestProcessProductEvent_ReviewCreated_Ignored(t *testing.T) {
	// Arrange
	svc, _, _, media := newTestCleanupService()

	ctx := context.Background()
	event := &entity.ProductEvent{
		EventType: entity.EventTypeReviewCreated,
		ProductID: "68a1b2c3d4e5f60718293a4b",
	}

	// Act
	err := svc.ProcessProductEvent(ctx, event, "product_events:0:4")

	// Assert
	assert.NoError(t, err)
	media.AssertNotCalled(t, "Destroy")
}

func TestProcessProductEvent_NoImages_NothingToRelease(t *testing.T) {
	// Arrange
	svc, _, dedupRepo, media := newTestCleanupService()

	ctx := context.Background()
	event := deletedEvent()

	dedupRepo.On("MarkProcessed", ctx, mock.Anything).Return(true, nil)

	// Act
	err := svc.ProcessProductEvent(ctx, event, "product_events:0:5")

	// Assert
	assert.NoError(t, err)
	media.AssertNotCalled(t, "Destroy")
}

func TestProcessProductEvent_DedupError_ReturnsError(t *testing.T) {
	// Ошибка Redis - offset не коммитится, событие придет повторно
	// Arrange
	svc, _, dedupRepo, media := newTestCleanupService()

	ctx := context.Background()
	event := deletedEvent("products/cover_1")

	dedupRepo.On("MarkProcessed", ctx, mock.Anything).Return(false, errors.New("redis down"))

	// Act
	err := svc.ProcessProductEvent(ctx, event, "product_events:0:6")

	// Assert
	assert.Error(t, err)
	media.AssertNotCalled(t, "Destroy")
}

// ===================== RetryPending Tests =====================

func TestRetryPending_Success_RemovesFromQueue(t *testing.T) {
	// Arrange
	svc, pendingRepo, _, media := newTestCleanupService()

	ctx := context.Background()
	release := &entity.PendingRelease{
		ID:         uuid.New(),
		PublicID:   "products/cover_1",
		ProductID:  "68a1b2c3d4e5f60718293a4b",
		Storefront: "books",
		Attempts:   1,
	}

	pendingRepo.On("ListBatch", ctx, 50).Return([]*entity.PendingRelease{release}, nil)
	media.On("Destroy", ctx, "products/cover_1").Return(nil)
	pendingRepo.On("Delete", ctx, release.ID).Return(nil)
	pendingRepo.On("Count", ctx).Return(int64(0), nil)

	// Act
	err := svc.RetryPending(ctx)

	// Assert
	assert.NoError(t, err)
	pendingRepo.AssertExpectations(t)
	media.AssertExpectations(t)
}

func TestRetryPending_FailureBelowLimit_AttemptsIncremented(t *testing.T) {
	// Arrange
	svc, pendingRepo, _, media := newTestCleanupService()

	ctx := context.Background()
	release := &entity.PendingRelease{
		ID:       uuid.New(),
		PublicID: "products/cover_1",
		Attempts: 0,
	}

	pendingRepo.On("ListBatch", ctx, 50).Return([]*entity.PendingRelease{release}, nil)
	media.On("Destroy", ctx, "products/cover_1").Return(errors.New("still unavailable"))
	pendingRepo.On("MarkFailed", ctx, release.ID, "still unavailable").Return(nil)
	pendingRepo.On("Count", ctx).Return(int64(1), nil)

	// Act
	err := svc.RetryPending(ctx)

	// Assert
	assert.NoError(t, err)
	pendingRepo.AssertExpectations(t)
	pendingRepo.AssertNotCalled(t, "Delete")
}

func TestRetryPending_MaxAttemptsReached_Dropped(t *testing.T) {
	// После исчерпания попыток запись отбрасывается
	// Arrange
	svc, pendingRepo, _, media := newTestCleanupService()

	ctx := context.Background()
	release := &entity.PendingRelease{
		ID:       uuid.New(),
		PublicID: "products/cover_1",
		Attempts: 2, // maxAttempts = 3
	}

	pendingRepo.On("ListBatch", ctx, 50).Return([]*entity.PendingRelease{release}, nil)
	media.On("Destroy", ctx, "products/cover_1").Return(errors.New("still unavailable"))
	pendingRepo.On("Delete", ctx, release.ID).Return(nil)
	pendingRepo.On("Count", ctx).Return(int64(0), nil)

	// Act
	err := svc.RetryPending(ctx)

	// Assert
	assert.NoError(t, err)
	pendingRepo.AssertExpectations(t)
	pendingRepo.AssertNotCalled(t, "MarkFailed")
}

func TestRetryPending_EmptyQueue_NoOp(t *testing.T) {
	// Arrange
	svc, pendingRepo, _, media := newTestCleanupService()

	ctx := context.Background()
	pendingRepo.On("ListBatch", ctx, 50).Return([]*entity.PendingRelease{}, nil)
	pendingRepo.On("Count", ctx).Return(int64(0), nil)

	// Act
	err := svc.RetryPending(ctx)

	// Assert
	assert.NoError(t, err)
	media.AssertNotCalled(t, "Destroy")
}

func TestRetryPending_ListError_ReturnsError(t *testing.T) {
	// Arrange
	svc, pendingRepo, _, _ := newTestCleanupService()

	ctx := context.Background()
	pendingRepo.On("ListBatch", ctx, 50).Return(nil, errors.New("db down"))

	// Act
	err := svc.RetryPending(ctx)

	// Assert
	assert.Error(t, err)
}

// ===================== PendingCount Tests =====================

func TestPendingCount_ReturnsQueueSize(t *testing.T) {
	// Arrange
	svc, pendingRepo, _, _ := newTestCleanupService()

	ctx := context.Background()
	pendingRepo.On("Count", ctx).Return(int64(7), nil)

	// Act
	count, err := svc.PendingCount(ctx)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
