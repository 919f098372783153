package repository

import (
	"context"
	"fmt"

	"octoberpages/catalog-service/internal/app/catalog/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewerRepository struct {
	collection *mongo.Collection
}

// NewReviewerRepository создает репозиторий проекций пользователей
// Коллекция reviewers наполняется consumer-ом событий user_events
func NewReviewerRepository(db *mongo.Database) ReviewerRepository {
	return &reviewerRepository{collection: db.Collection("reviewers")}
}

// Upsert создает или обновляет проекцию пользователя
func (r *reviewerRepository) Upsert(ctx context.Context, profile *entity.ReviewerProfile) error {
	filter := bson.M{"_id": profile.ID}
	update := bson.M{"$set": bson.M{
		"fullname":   profile.Fullname,
		"email":      profile.Email,
		"avatar_url": profile.AvatarURL,
	}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert reviewer profile: %w", err)
	}

	return nil
}

// GetByIDs получает проекции пачкой для декорирования списка отзывов
// Отсутствующие пользователи просто не попадают в результат
func (r *reviewerRepository) GetByIDs(ctx context.Context, ids []string) (map[string]entity.ReviewerProfile, error) {
	profiles := make(map[string]entity.ReviewerProfile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find reviewer profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var found []entity.ReviewerProfile
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode reviewer profiles: %w", err)
	}

	for _, p := range found {
		profiles[p.ID] = p
	}

	return profiles, nil
}
