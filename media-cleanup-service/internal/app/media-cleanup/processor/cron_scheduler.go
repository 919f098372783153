package processor

import (
	"context"

	"octoberpages/media-cleanup-service/internal/app/media-cleanup/service"
	"octoberpages/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CronScheduler периодически повторяет отложенные удаления изображений
type CronScheduler struct {
	cron       *cron.Cron
	cleanupSvc service.CleanupServiceInterface
}

// NewCronScheduler создает новый планировщик свипов
func NewCronScheduler(cleanupSvc service.CleanupServiceInterface) *CronScheduler {
	c := cron.New(cron.WithSeconds())

	return &CronScheduler{
		cron:       c,
		cleanupSvc: cleanupSvc,
	}
}

// Start регистрирует задачу и запускает планировщик
// Первый свип выполняется сразу: очередь могла накопиться за время простоя
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		logger.Debug().Msg("Cron job triggered: retrying pending releases")

		if err := s.cleanupSvc.RetryPending(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to retry pending releases")
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()

	if err := s.cleanupSvc.RetryPending(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed initial pending releases sweep")
	}

	return nil
}

// Stop останавливает планировщик и ждет завершения текущей задачи
func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

// GetEntries возвращает зарегистрированные задачи
func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
