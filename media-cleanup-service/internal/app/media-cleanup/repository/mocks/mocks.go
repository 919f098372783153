package mocks

import (
	"context"

	"octoberpages/media-cleanup-service/internal/app/media-cleanup/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPendingReleaseRepository мок для PendingReleaseRepository
type MockPendingReleaseRepository struct {
	mock.Mock
}

func (m *MockPendingReleaseRepository) Enqueue(ctx context.Context, release *entity.PendingRelease) error {
	args := m.Called(ctx, release)
	return args.Error(0)
}

func (m *MockPendingReleaseRepository) ListBatch(ctx context.Context, limit int) ([]*entity.PendingRelease, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.PendingRelease), args.Error(1)
}

func (m *MockPendingReleaseRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	args := m.Called(ctx, id, lastError)
	return args.Error(0)
}

func (m *MockPendingReleaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPendingReleaseRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventDedupRepository мок для EventDedupRepository
type MockEventDedupRepository struct {
	mock.Mock
}

func (m *MockEventDedupRepository) MarkProcessed(ctx context.Context, eventKey string) (bool, error) {
	args := m.Called(ctx, eventKey)
	return args.Bool(0), args.Error(1)
}

// MockMediaDestroyer мок для MediaDestroyer
type MockMediaDestroyer struct {
	mock.Mock
}

func (m *MockMediaDestroyer) Destroy(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

// MockCleanupService мок для CleanupServiceInterface
type MockCleanupService struct {
	mock.Mock
}

func (m *MockCleanupService) ProcessProductEvent(ctx context.Context, event *entity.ProductEvent, eventKey string) error {
	args := m.Called(ctx, event, eventKey)
	return args.Error(0)
}

func (m *MockCleanupService) RetryPending(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCleanupService) PendingCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
