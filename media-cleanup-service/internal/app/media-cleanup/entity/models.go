package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProductEvent - событие из топика product_events (producer - Catalog Service)
// Worker реагирует только на PRODUCT_DELETED: ImageIDs содержит public_id
// всех изображений удалённого товара
type ProductEvent struct {
	EventType  string    `json:"event_type"`
	ProductID  string    `json:"product_id"`
	Storefront string    `json:"storefront"` // books или clothing
	Name       string    `json:"name,omitempty"`
	Price      float64   `json:"price,omitempty"`
	ImageIDs   []string  `json:"image_ids,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// PendingRelease - отложенное удаление изображения из Cloudinary
// Записывается, когда Destroy не удался при обработке события,
// и повторяется cron-свипом до успеха или исчерпания попыток
type PendingRelease struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PublicID   string    `json:"public_id" gorm:"type:varchar(255);not null;uniqueIndex"`
	ProductID  string    `json:"product_id" gorm:"type:varchar(64);not null"`
	Storefront string    `json:"storefront" gorm:"type:varchar(20);not null"`
	Attempts   int       `json:"attempts" gorm:"not null;default:0"`
	LastError  string    `json:"last_error" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (PendingRelease) TableName() string {
	return "pending_releases"
}

const (
	EventTypeProductCreated = "PRODUCT_CREATED"
	EventTypeProductDeleted = "PRODUCT_DELETED"
	EventTypeReviewCreated  = "REVIEW_CREATED"
)

const (
	// Префикс ключей дедупликации событий: media:event:<topic>:<partition>:<offset>
	RedisKeyPrefixEvent = "media:event:"
)

func GetRedisKeyForEvent(eventKey string) string {
	return RedisKeyPrefixEvent + eventKey
}
