package service

import (
	"context"
	"fmt"

	"octoberpages/media-cleanup-service/internal/app/media-cleanup/entity"
	"octoberpages/media-cleanup-service/internal/app/media-cleanup/repository"
	"octoberpages/pkg/logger"
	"octoberpages/pkg/metrics"
)

// CleanupService освобождает изображения удалённых товаров best-effort:
// неудачное удаление никогда не ломает обработку события, а уходит
// в очередь pending_releases и повторяется cron-свипом
type CleanupService struct {
	pendingRepo repository.PendingReleaseRepository
	dedupRepo   repository.EventDedupRepository
	media       MediaDestroyer
	maxAttempts int
	batchSize   int
}

// NewCleanupService создает новый сервис очистки изображений
func NewCleanupService(
	pendingRepo repository.PendingReleaseRepository,
	dedupRepo repository.EventDedupRepository,
	media MediaDestroyer,
	maxAttempts int,
	batchSize int,
) *CleanupService {
	return &CleanupService{
		pendingRepo: pendingRepo,
		dedupRepo:   dedupRepo,
		media:       media,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
	}
}

// ProcessProductEvent обрабатывает событие каталога
// PRODUCT_CREATED и REVIEW_CREATED игнорируются: worker интересуют
// только удаления товаров
func (s *CleanupService) ProcessProductEvent(ctx context.Context, event *entity.ProductEvent, eventKey string) error {
	switch event.EventType {
	case entity.EventTypeProductDeleted:
		return s.processProductDeleted(ctx, event, eventKey)
	case entity.EventTypeProductCreated, entity.EventTypeReviewCreated:
		logger.Debug().
			Str("event_type", event.EventType).
			Str("product_id", event.ProductID).
			Msg("Ignoring product event")
		return nil
	default:
		logger.Warn().
			Str("event_type", event.EventType).
			Msg("Unknown product event type")
		return nil
	}
}

// processProductDeleted освобождает все изображения удалённого товара
func (s *CleanupService) processProductDeleted(ctx context.Context, event *entity.ProductEvent, eventKey string) error {
	// Дедупликация: после ребалансировки группы событие может прийти повторно
	fresh, err := s.dedupRepo.MarkProcessed(ctx, eventKey)
	if err != nil {
		return fmt.Errorf("failed to check event deduplication: %w", err)
	}
	if !fresh {
		logger.Info().
			Str("event_key", eventKey).
			Str("product_id", event.ProductID).
			Msg("Duplicate event, skipping")
		return nil
	}

	if len(event.ImageIDs) == 0 {
		logger.Debug().
			Str("product_id", event.ProductID).
			Msg("Deleted product has no images")
		return nil
	}

	for _, publicID := range event.ImageIDs {
		if err := s.media.Destroy(ctx, publicID); err != nil {
			metrics.MediaAssetsReleased.WithLabelValues("failed").Inc()
			logger.Error().
				Err(err).
				Str("public_id", publicID).
				Str("product_id", event.ProductID).
				Msg("Failed to destroy image, queueing for retry")

			s.enqueueRelease(ctx, event, publicID, err)
			continue
		}

		metrics.MediaAssetsReleased.WithLabelValues("success").Inc()
		logger.Info().
			Str("public_id", publicID).
			Str("product_id", event.ProductID).
			Msg("Image released")
	}

	return nil
}

// enqueueRelease ставит изображение в очередь отложенных удалений
// Ошибка постановки только логируется: событие все равно считается обработанным
func (s *CleanupService) enqueueRelease(ctx context.Context, event *entity.ProductEvent, publicID string, destroyErr error) {
	release := &entity.PendingRelease{
		PublicID:   publicID,
		ProductID:  event.ProductID,
		Storefront: event.Storefront,
		LastError:  destroyErr.Error(),
	}

	if err := s.pendingRepo.Enqueue(ctx, release); err != nil {
		logger.Error().
			Err(err).
			Str("public_id", publicID).
			Msg("Failed to enqueue pending release")
	}
}

// RetryPending повторяет отложенные удаления из очереди
// Записи, исчерпавшие лимит попыток, отбрасываются с warning
func (s *CleanupService) RetryPending(ctx context.Context) error {
	releases, err := s.pendingRepo.ListBatch(ctx, s.batchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending releases: %w", err)
	}

	if len(releases) == 0 {
		s.updateQueueDepth(ctx)
		return nil
	}

	logger.Info().
		Int("count", len(releases)).
		Msg("Retrying pending releases")

	for _, release := range releases {
		if err := s.media.Destroy(ctx, release.PublicID); err != nil {
			if release.Attempts+1 >= s.maxAttempts {
				logger.Warn().
					Str("public_id", release.PublicID).
					Int("attempts", release.Attempts+1).
					Msg("Giving up on pending release after max attempts")

				if delErr := s.pendingRepo.Delete(ctx, release.ID); delErr != nil {
					logger.Error().Err(delErr).Str("public_id", release.PublicID).Msg("Failed to drop pending release")
				}
				continue
			}

			if markErr := s.pendingRepo.MarkFailed(ctx, release.ID, err.Error()); markErr != nil {
				logger.Error().Err(markErr).Str("public_id", release.PublicID).Msg("Failed to update pending release")
			}
			continue
		}

		metrics.MediaAssetsReleased.WithLabelValues("retried").Inc()
		logger.Info().
			Str("public_id", release.PublicID).
			Int("attempts", release.Attempts).
			Msg("Pending release succeeded")

		if err := s.pendingRepo.Delete(ctx, release.ID); err != nil {
			logger.Error().Err(err).Str("public_id", release.PublicID).Msg("Failed to delete completed release")
		}
	}

	s.updateQueueDepth(ctx)
	return nil
}

// PendingCount возвращает размер очереди отложенных удалений
func (s *CleanupService) PendingCount(ctx context.Context) (int64, error) {
	return s.pendingRepo.Count(ctx)
}

func (s *CleanupService) updateQueueDepth(ctx context.Context) {
	count, err := s.pendingRepo.Count(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count pending releases")
		return
	}
	metrics.MediaReleaseQueueDepth.Set(float64(count))
}
