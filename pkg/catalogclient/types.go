package catalogclient

import (
	"fmt"
	"time"
)

// Storefront - витрина каталога, обслуживаемая клиентом
type Storefront string

const (
	StorefrontBooks    Storefront = "books"
	StorefrontClothing Storefront = "clothing"
)

// Image - пара идентификаторов изображения товара
type Image struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Review - отзыв к товару
type Review struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewerProfile - проекция автора отзыва
type ReviewerProfile struct {
	ID        string `json:"id"`
	Fullname  string `json:"fullname"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ReviewWithUser - отзыв с развёрнутым автором
// В страничных выдачах поле User пустое: там отзывы не разворачиваются
type ReviewWithUser struct {
	Review
	User ReviewerProfile `json:"user"`
}

// Product - товар любой витрины
// Книжные поля и поле ItemType взаимно исключают друг друга
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Images        []Image          `json:"images"`
	Reviews       []ReviewWithUser `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
	Price         float64          `json:"price"`
	Genre         string           `json:"genre,omitempty"`
	Author        string           `json:"author,omitempty"`
	Publication   string           `json:"publication,omitempty"`
	ISBN          string           `json:"isbn,omitempty"`
	ItemType      string           `json:"item_type,omitempty"`
	Description   string           `json:"description"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Page - страница выдачи каталога вместе с итогами контекста
type Page struct {
	Products    []Product
	TotalItems  int64
	TotalPages  int
	CurrentPage int
}

// ImageFile - файл изображения для multipart загрузки
type ImageFile struct {
	Filename string
	Data     []byte
}

// BookParams - поля формы создания книги
type BookParams struct {
	Name        string
	Price       float64
	Genre       string
	Author      string
	Publication string
	ISBN        string
	Description string
}

// ClothingParams - поля формы создания предмета одежды
type ClothingParams struct {
	Name        string
	Price       float64
	ItemType    string
	Description string
}

// APIError - ошибка, которую вернул сервис каталога
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog: %s (status %d)", e.Message, e.StatusCode)
}
