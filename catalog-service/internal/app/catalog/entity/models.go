package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Витрины каталога. Книги и одежда хранятся в отдельных коллекциях
// и никогда не смешиваются в выдаче
const (
	StorefrontBooks    = "books"
	StorefrontClothing = "clothing"
)

// Image - пара идентификаторов загруженного в Cloudinary изображения
type Image struct {
	PublicID  string `json:"public_id" bson:"public_id"`
	SecureURL string `json:"secure_url" bson:"secure_url"`
}

// Review - отзыв, встроенный в документ товара (отдельной коллекции нет)
// Отзывы не редактируются и не удаляются по отдельности
type Review struct {
	Rating    int       `json:"rating" bson:"rating"`   // Оценка от 1 до 5
	Comment   string    `json:"comment" bson:"comment"` // Текст отзыва, может быть пустым
	UserID    string    `json:"user_id" bson:"user_id"` // UUID пользователя из Auth Service
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// ReviewerProfile - локальная проекция пользователя для отображения отзывов
// Обновляется consumer-ом событий user_events, коллекция reviewers
type ReviewerProfile struct {
	ID        string `json:"id" bson:"_id"`
	Fullname  string `json:"fullname" bson:"fullname"`
	Email     string `json:"email" bson:"email"`
	AvatarURL string `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
}

// ReviewWithUser - отзыв с развёрнутой проекцией автора для read-путей
type ReviewWithUser struct {
	Review
	User ReviewerProfile `json:"user"`
}

// Book - товар книжной витрины
// averageRating - денормализованное поле, пересчитывается при каждом
// изменении списка отзывов и никогда не читается устаревшим
type Book struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"` // нормализуется: trim + lowercase
	Images        []Image            `json:"images" bson:"images"`
	Reviews       []Review           `json:"reviews" bson:"reviews"`
	AverageRating float64            `json:"average_rating" bson:"average_rating"`
	Price         float64            `json:"price" bson:"price"`
	Genre         string             `json:"genre" bson:"genre"` // закрытый enum BookGenres
	Author        string             `json:"author" bson:"author"`
	Publication   string             `json:"publication" bson:"publication"`
	ISBN          string             `json:"isbn,omitempty" bson:"isbn,omitempty"`
	Description   string             `json:"description" bson:"description"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// ClothingItem - товар витрины одежды, структурно повторяет Book
// за вычетом книжных полей
type ClothingItem struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Images        []Image            `json:"images" bson:"images"`
	Reviews       []Review           `json:"reviews" bson:"reviews"`
	AverageRating float64            `json:"average_rating" bson:"average_rating"`
	Price         float64            `json:"price" bson:"price"`
	ItemType      string             `json:"item_type" bson:"item_type"` // закрытый enum ClothingTypes
	Description   string             `json:"description" bson:"description"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// BookGenres - допустимые жанры книг
var BookGenres = []string{
	"comedy", "study", "romantic", "horror", "fiction",
	"non-fiction", "mystery", "fantasy", "biography",
}

// ClothingTypes - допустимые типы одежды
var ClothingTypes = []string{
	"shirt", "pants", "shoes", "sports gear", "jacket",
	"dress", "skirt", "sweater", "accessories",
}

// IsValidBookGenre проверяет принадлежность жанра закрытому множеству
func IsValidBookGenre(genre string) bool {
	for _, g := range BookGenres {
		if g == genre {
			return true
		}
	}
	return false
}

// IsValidClothingType проверяет принадлежность типа закрытому множеству
func IsValidClothingType(itemType string) bool {
	for _, t := range ClothingTypes {
		if t == itemType {
			return true
		}
	}
	return false
}

// ProductEvent - событие каталога для топика product_events
type ProductEvent struct {
	EventType  string    `json:"event_type"` // PRODUCT_CREATED, PRODUCT_DELETED
	ProductID  string    `json:"product_id"`
	Storefront string    `json:"storefront"` // books или clothing
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	ImageIDs   []string  `json:"image_ids,omitempty"` // public_id для освобождения при удалении
	Timestamp  time.Time `json:"timestamp"`
}

// ReviewEvent - событие о новом отзыве для топика product_events
type ReviewEvent struct {
	EventType  string    `json:"event_type"` // REVIEW_CREATED
	ProductID  string    `json:"product_id"`
	Storefront string    `json:"storefront"`
	UserID     string    `json:"user_id"`
	Rating     int       `json:"rating"`
	Timestamp  time.Time `json:"timestamp"`
}

// UserEvent - событие из топика user_events (producer - Auth Service)
// Используется для поддержания проекций reviewers
type UserEvent struct {
	EventType string    `json:"event_type"` // USER_REGISTERED, USER_UPDATED
	UserID    string    `json:"user_id"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
