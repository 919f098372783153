package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"octoberpages/catalog-service/internal/app/catalog/entity"
	"octoberpages/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookRepository struct {
	collection *mongo.Collection
}

// NewBookRepository создает репозиторий книг
// Автоматически создает индексы для сортировки по дате и фильтра по жанру
func NewBookRepository(db *mongo.Database) BookRepository {
	collection := db.Collection("books")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_idx"),
		},
		{
			Keys:    bson.D{{Key: "genre", Value: 1}},
			Options: options.Index().SetName("genre_idx"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Индексы могут уже существовать, работу не прерываем
		logger.Warn().Err(err).Msg("Failed to create indexes on books collection")
	}

	return &bookRepository{collection: collection}
}

// Create вставляет новую книгу в MongoDB
func (r *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, book)
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		book.ID = oid
	}

	return nil
}

// GetByID получает книгу со всеми отзывами
func (r *bookRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Book, error) {
	var book entity.Book
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return &book, nil
}

// Delete удаляет книгу вместе со встроенными отзывами одним документом
// Возвращает удалённый документ для освобождения изображений
func (r *bookRepository) Delete(ctx context.Context, id primitive.ObjectID) (*entity.Book, error) {
	var book entity.Book
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&book)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to delete book: %w", err)
	}

	return &book, nil
}

// List возвращает страницу книг, отсортированных по дате создания (новые первыми)
// Отзывы исключаются из выдачи, чтобы страницы оставались лёгкими
func (r *bookRepository) List(ctx context.Context, skip, limit int) ([]entity.Book, int64, error) {
	return r.findPage(ctx, bson.M{}, skip, limit)
}

// Search ищет книги по названию и автору (см. searchFilter)
func (r *bookRepository) Search(ctx context.Context, query string, skip, limit int) ([]entity.Book, int64, error) {
	return r.findPage(ctx, searchFilter(query, "name", "author"), skip, limit)
}

// FilterByGenre возвращает книги строго заданного жанра
// Сортировка по свежести такая же, как в List и Search
func (r *bookRepository) FilterByGenre(ctx context.Context, genre string, skip, limit int) ([]entity.Book, int64, error) {
	return r.findPage(ctx, bson.M{"genre": genre}, skip, limit)
}

// findPage - общий путь пагинации: total считается по фильтру,
// страница вырезается через skip/limit
func (r *bookRepository) findPage(ctx context.Context, filter bson.M, skip, limit int) ([]entity.Book, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"reviews": 0})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find books: %w", err)
	}
	defer cursor.Close(ctx)

	books := []entity.Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, 0, fmt.Errorf("failed to decode books: %w", err)
	}

	return books, total, nil
}

// AppendReview добавляет отзыв и новое среднее одним условным обновлением.
// Фильтр по текущему размеру списка отзывов защищает от гонки двух
// конкурентных отзывов: проигравший получает ErrReviewConflict и повторяет
func (r *bookRepository) AppendReview(ctx context.Context, id primitive.ObjectID, review entity.Review, expectedCount int, newAverage float64) error {
	filter := bson.M{
		"_id":     id,
		"reviews": bson.M{"$size": expectedCount},
	}
	update := bson.M{
		"$push": bson.M{"reviews": review},
		"$set": bson.M{
			"average_rating": newAverage,
			"updated_at":     time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to append review: %w", err)
	}

	if result.MatchedCount == 0 {
		// Либо товар удалён, либо список отзывов изменился под нами
		exists, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("failed to check book existence: %w", err)
		}
		if exists == 0 {
			return ErrProductNotFound
		}
		return ErrReviewConflict
	}

	return nil
}
