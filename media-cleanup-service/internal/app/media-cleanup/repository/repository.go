package repository

import (
	"context"

	"octoberpages/media-cleanup-service/internal/app/media-cleanup/entity"

	"github.com/google/uuid"
)

// PendingReleaseRepository интерфейс очереди отложенных удалений в PostgreSQL
type PendingReleaseRepository interface {
	// Enqueue ставит изображение в очередь на повторное удаление.
	// Повторная постановка того же public_id обновляет существующую запись
	Enqueue(ctx context.Context, release *entity.PendingRelease) error

	// ListBatch возвращает порцию записей для очередного свипа, старые первыми
	ListBatch(ctx context.Context, limit int) ([]*entity.PendingRelease, error)

	// MarkFailed инкрементирует счетчик попыток и сохраняет текст ошибки
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error

	// Delete удаляет запись после успешного освобождения изображения
	Delete(ctx context.Context, id uuid.UUID) error

	// Count возвращает текущий размер очереди
	Count(ctx context.Context) (int64, error)
}

// EventDedupRepository интерфейс дедупликации событий Kafka в Redis
type EventDedupRepository interface {
	// MarkProcessed атомарно помечает событие обработанным (SETNX).
	// Возвращает false, если событие уже было обработано ранее
	MarkProcessed(ctx context.Context, eventKey string) (bool, error)
}
