package infrastructure

import (
	"context"

	"octoberpages/catalog-service/internal/app/catalog/entity"
)

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
// Используется для dependency injection и упрощения тестирования
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// MediaStore - внешнее хранилище изображений (Cloudinary)
// Upload обязан завершиться до сохранения товара; Destroy - best-effort
type MediaStore interface {
	Upload(ctx context.Context, data []byte, folder, filename string) (*entity.Image, error)
	Destroy(ctx context.Context, publicID string) error
}
