package repository

import (
	"context"
	"fmt"

	"octoberpages/media-cleanup-service/internal/app/media-cleanup/entity"
	"octoberpages/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pendingReleaseRepository реализует PendingReleaseRepository через GORM
type pendingReleaseRepository struct {
	db *gorm.DB
}

// NewPendingReleaseRepository создает новый репозиторий очереди удалений
func NewPendingReleaseRepository(db *gorm.DB) PendingReleaseRepository {
	return &pendingReleaseRepository{db: db}
}

// Enqueue ставит изображение в очередь на повторное удаление
// Upsert по public_id: событие может прийти повторно после ребалансировки группы
func (r *pendingReleaseRepository) Enqueue(ctx context.Context, release *entity.PendingRelease) error {
	if release.ID == uuid.Nil {
		release.ID = uuid.New()
	}

	timer := metrics.NewDbTimer("media-cleanup-service", metrics.DbOpInsert, entity.PendingRelease{}.TableName())
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "public_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_error": release.LastError,
			}),
		}).
		Create(release)

	if result.Error != nil {
		metrics.RecordDbError("media-cleanup-service", metrics.DbOpInsert)
		return fmt.Errorf("failed to enqueue pending release: %w", result.Error)
	}

	return nil
}

// ListBatch возвращает порцию записей для свипа, старые первыми
func (r *pendingReleaseRepository) ListBatch(ctx context.Context, limit int) ([]*entity.PendingRelease, error) {
	var releases []*entity.PendingRelease

	timer := metrics.NewDbTimer("media-cleanup-service", metrics.DbOpSelect, entity.PendingRelease{}.TableName())
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).
		Order("created_at ASC").
		Limit(limit).
		Find(&releases)

	if result.Error != nil {
		metrics.RecordDbError("media-cleanup-service", metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to list pending releases: %w", result.Error)
	}

	return releases, nil
}

// MarkFailed инкрементирует счетчик попыток и сохраняет последнюю ошибку
func (r *pendingReleaseRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	timer := metrics.NewDbTimer("media-cleanup-service", metrics.DbOpUpdate, entity.PendingRelease{}.TableName())
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).
		Model(&entity.PendingRelease{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
		})

	if result.Error != nil {
		metrics.RecordDbError("media-cleanup-service", metrics.DbOpUpdate)
		return fmt.Errorf("failed to mark pending release as failed: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("pending release %s not found", id)
	}

	return nil
}

// Delete удаляет запись после успешного освобождения изображения
func (r *pendingReleaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	timer := metrics.NewDbTimer("media-cleanup-service", metrics.DbOpDelete, entity.PendingRelease{}.TableName())
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.PendingRelease{})

	if result.Error != nil {
		metrics.RecordDbError("media-cleanup-service", metrics.DbOpDelete)
		return fmt.Errorf("failed to delete pending release: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("pending release %s not found", id)
	}

	return nil
}

// Count возвращает текущий размер очереди
func (r *pendingReleaseRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	timer := metrics.NewDbTimer("media-cleanup-service", metrics.DbOpSelect, entity.PendingRelease{}.TableName())
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).
		Model(&entity.PendingRelease{}).
		Count(&count)

	if result.Error != nil {
		metrics.RecordDbError("media-cleanup-service", metrics.DbOpSelect)
		return 0, fmt.Errorf("failed to count pending releases: %w", result.Error)
	}

	return count, nil
}
