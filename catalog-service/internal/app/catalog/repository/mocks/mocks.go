package mocks

import (
	"context"

	"octoberpages/catalog-service/internal/app/catalog/entity"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockBookRepository мок для BookRepository
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(ctx context.Context, book *entity.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Book), args.Error(1)
}

func (m *MockBookRepository) Delete(ctx context.Context, id primitive.ObjectID) (*entity.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Book), args.Error(1)
}

func (m *MockBookRepository) List(ctx context.Context, skip, limit int) ([]entity.Book, int64, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) Search(ctx context.Context, query string, skip, limit int) ([]entity.Book, int64, error) {
	args := m.Called(ctx, query, skip, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) FilterByGenre(ctx context.Context, genre string, skip, limit int) ([]entity.Book, int64, error) {
	args := m.Called(ctx, genre, skip, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) AppendReview(ctx context.Context, id primitive.ObjectID, review entity.Review, expectedCount int, newAverage float64) error {
	args := m.Called(ctx, id, review, expectedCount, newAverage)
	return args.Error(0)
}

// MockClothingRepository мок для ClothingRepository
type MockClothingRepository struct {
	mock.Mock
}

func (m *MockClothingRepository) Create(ctx context.Context, item *entity.ClothingItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockClothingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.ClothingItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ClothingItem), args.Error(1)
}

func (m *MockClothingRepository) Delete(ctx context.Context, id primitive.ObjectID) (*entity.ClothingItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ClothingItem), args.Error(1)
}

func (m *MockClothingRepository) List(ctx context.Context, skip, limit int) ([]entity.ClothingItem, int64, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.ClothingItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockClothingRepository) Search(ctx context.Context, query string, skip, limit int) ([]entity.ClothingItem, int64, error) {
	args := m.Called(ctx, query, skip, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.ClothingItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockClothingRepository) FilterByType(ctx context.Context, itemType string, skip, limit int) ([]entity.ClothingItem, int64, error) {
	args := m.Called(ctx, itemType, skip, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.ClothingItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockClothingRepository) AppendReview(ctx context.Context, id primitive.ObjectID, review entity.Review, expectedCount int, newAverage float64) error {
	args := m.Called(ctx, id, review, expectedCount, newAverage)
	return args.Error(0)
}

// MockReviewerRepository мок для ReviewerRepository
type MockReviewerRepository struct {
	mock.Mock
}

func (m *MockReviewerRepository) Upsert(ctx context.Context, profile *entity.ReviewerProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockReviewerRepository) GetByIDs(ctx context.Context, ids []string) (map[string]entity.ReviewerProfile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]entity.ReviewerProfile), args.Error(1)
}

// MockMediaStore мок для Cloudinary MediaStore
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, data []byte, folder, filename string) (*entity.Image, error) {
	args := m.Called(ctx, data, folder, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Image), args.Error(1)
}

func (m *MockMediaStore) Destroy(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
