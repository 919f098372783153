package infrastructure

import (
	"context"
)

// MessagePublisher публикует события пользователей в брокер сообщений
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// MediaStore хранит аватары пользователей во внешнем медиахранилище
type MediaStore interface {
	// Upload загружает аватар и возвращает публичный URL и идентификатор ресурса
	Upload(ctx context.Context, data []byte, folder, filename string) (url string, publicID string, err error)
	Destroy(ctx context.Context, publicID string) error
}
