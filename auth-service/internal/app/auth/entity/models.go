package entity

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей. Роль хранится строкой в таблице users
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User представляет пользователя в системе
type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Fullname       string    `json:"fullname" db:"fullname"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"` // не возвращаем в JSON
	Role           string    `json:"role" db:"role"`       // USER или ADMIN
	AvatarURL      string    `json:"avatar_url,omitempty" db:"avatar_url"`
	AvatarPublicID string    `json:"-" db:"avatar_public_id"` // для удаления из Cloudinary
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// RefreshToken хранит refresh токены для обновления JWT
type RefreshToken struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair содержит access и refresh токены
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // время жизни access token в секундах
}

// UserEvent - событие для топика user_events
// Каталог поддерживает по этим событиям локальные проекции авторов отзывов
type UserEvent struct {
	EventType string    `json:"event_type"` // USER_REGISTERED, USER_UPDATED
	UserID    string    `json:"user_id"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
