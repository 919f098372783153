package repository

import (
	"context"
	"errors"

	"octoberpages/catalog-service/internal/app/catalog/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// Стандартные ошибки репозиториев для обработки в service layer
	ErrProductNotFound = errors.New("product not found")
	// ErrReviewConflict - конкурентное добавление отзыва, нужен retry
	ErrReviewConflict = errors.New("concurrent review append")
)

// BookRepository - доступ к коллекции books
// Методы выборки возвращают страницу и общее число подходящих документов
type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Book, error)
	// Delete возвращает удалённый документ, чтобы caller мог освободить изображения
	Delete(ctx context.Context, id primitive.ObjectID) (*entity.Book, error)
	List(ctx context.Context, skip, limit int) ([]entity.Book, int64, error)
	Search(ctx context.Context, query string, skip, limit int) ([]entity.Book, int64, error)
	FilterByGenre(ctx context.Context, genre string, skip, limit int) ([]entity.Book, int64, error)
	// AppendReview добавляет отзыв атомарно относительно конкурентных отзывов:
	// обновление проходит только если текущее число отзывов равно expectedCount,
	// иначе возвращается ErrReviewConflict
	AppendReview(ctx context.Context, id primitive.ObjectID, review entity.Review, expectedCount int, newAverage float64) error
}

// ClothingRepository - доступ к коллекции clothing
type ClothingRepository interface {
	Create(ctx context.Context, item *entity.ClothingItem) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.ClothingItem, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*entity.ClothingItem, error)
	List(ctx context.Context, skip, limit int) ([]entity.ClothingItem, int64, error)
	Search(ctx context.Context, query string, skip, limit int) ([]entity.ClothingItem, int64, error)
	FilterByType(ctx context.Context, itemType string, skip, limit int) ([]entity.ClothingItem, int64, error)
	AppendReview(ctx context.Context, id primitive.ObjectID, review entity.Review, expectedCount int, newAverage float64) error
}

// ReviewerRepository - проекции пользователей для отображения отзывов
type ReviewerRepository interface {
	Upsert(ctx context.Context, profile *entity.ReviewerProfile) error
	GetByIDs(ctx context.Context, ids []string) (map[string]entity.ReviewerProfile, error)
}
