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

type clothingRepository struct {
	collection *mongo.Collection
}

// NewClothingRepository создает репозиторий предметов одежды
func NewClothingRepository(db *mongo.Database) ClothingRepository {
	collection := db.Collection("clothing")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_idx"),
		},
		{
			Keys:    bson.D{{Key: "item_type", Value: 1}},
			Options: options.Index().SetName("item_type_idx"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn().Err(err).Msg("Failed to create indexes on clothing collection")
	}

	return &clothingRepository{collection: collection}
}

// Create вставляет новый предмет одежды в MongoDB
func (r *clothingRepository) Create(ctx context.Context, item *entity.ClothingItem) error {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to create clothing item: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid
	}

	return nil
}

// GetByID получает предмет одежды со всеми отзывами
func (r *clothingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.ClothingItem, error) {
	var item entity.ClothingItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get clothing item: %w", err)
	}

	return &item, nil
}

// Delete удаляет предмет одежды вместе со встроенными отзывами
func (r *clothingRepository) Delete(ctx context.Context, id primitive.ObjectID) (*entity.ClothingItem, error) {
	var item entity.ClothingItem
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to delete clothing item: %w", err)
	}

	return &item, nil
}

// List возвращает страницу одежды, новые первыми, без отзывов
func (r *clothingRepository) List(ctx context.Context, skip, limit int) ([]entity.ClothingItem, int64, error) {
	return r.findPage(ctx, bson.M{}, skip, limit)
}

// Search ищет по названию и типу предмета
func (r *clothingRepository) Search(ctx context.Context, query string, skip, limit int) ([]entity.ClothingItem, int64, error) {
	return r.findPage(ctx, searchFilter(query, "name", "item_type"), skip, limit)
}

// FilterByType возвращает предметы строго заданного типа
func (r *clothingRepository) FilterByType(ctx context.Context, itemType string, skip, limit int) ([]entity.ClothingItem, int64, error) {
	return r.findPage(ctx, bson.M{"item_type": itemType}, skip, limit)
}

func (r *clothingRepository) findPage(ctx context.Context, filter bson.M, skip, limit int) ([]entity.ClothingItem, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count clothing items: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"reviews": 0})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find clothing items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []entity.ClothingItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode clothing items: %w", err)
	}

	return items, total, nil
}

// AppendReview - условное добавление отзыва, см. bookRepository.AppendReview
func (r *clothingRepository) AppendReview(ctx context.Context, id primitive.ObjectID, review entity.Review, expectedCount int, newAverage float64) error {
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
		exists, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("failed to check clothing item existence: %w", err)
		}
		if exists == 0 {
			return ErrProductNotFound
		}
		return ErrReviewConflict
	}

	return nil
}
