package service

import (
	"context"

	"octoberpages/media-cleanup-service/internal/app/media-cleanup/entity"
)

// CleanupServiceInterface определяет интерфейс обработки событий каталога
type CleanupServiceInterface interface {
	// ProcessProductEvent обрабатывает событие из Kafka.
	// eventKey - уникальный ключ сообщения для дедупликации
	ProcessProductEvent(ctx context.Context, event *entity.ProductEvent, eventKey string) error
	// RetryPending повторяет отложенные удаления из очереди
	RetryPending(ctx context.Context) error
	// PendingCount возвращает размер очереди отложенных удалений
	PendingCount(ctx context.Context) (int64, error)
}

// MediaDestroyer определяет интерфейс освобождения изображений в хранилище
type MediaDestroyer interface {
	// Destroy удаляет изображение по public_id
	Destroy(ctx context.Context, publicID string) error
}
