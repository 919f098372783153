package entity

import "strings"

// ValidationError - нарушения предусловий, собранные до любой мутации
// Наружу уходит одна строка без внутренних деталей
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// NewValidationError собирает ошибку валидации из списка нарушений
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// CreateBookRequest - поля multipart формы создания книги
// Изображения (1-5 файлов) идут отдельными файлами формы
type CreateBookRequest struct {
	Name        string  `form:"name"`
	Price       float64 `form:"price"`
	Genre       string  `form:"genre"`
	Author      string  `form:"author"`
	Publication string  `form:"publication"`
	ISBN        string  `form:"isbn"`
	Description string  `form:"description"`
}

// Validate возвращает список нарушений предусловий (пустой = запрос валиден)
func (r *CreateBookRequest) Validate() []string {
	var violations []string

	if strings.TrimSpace(r.Name) == "" {
		violations = append(violations, "book name is required")
	}
	if r.Price < 0 {
		violations = append(violations, "price cannot be negative")
	}
	if r.Genre == "" {
		violations = append(violations, "book genre is required")
	} else if !IsValidBookGenre(r.Genre) {
		violations = append(violations, r.Genre+" is not a valid book genre")
	}
	if strings.TrimSpace(r.Author) == "" {
		violations = append(violations, "author is required")
	}
	if strings.TrimSpace(r.Publication) == "" {
		violations = append(violations, "publication is required")
	}

	return violations
}

// CreateClothingRequest - поля multipart формы создания предмета одежды
type CreateClothingRequest struct {
	Name        string  `form:"name"`
	Price       float64 `form:"price"`
	ItemType    string  `form:"item_type"`
	Description string  `form:"description"`
}

func (r *CreateClothingRequest) Validate() []string {
	var violations []string

	if strings.TrimSpace(r.Name) == "" {
		violations = append(violations, "item name is required")
	}
	if r.Price < 0 {
		violations = append(violations, "price cannot be negative")
	}
	if r.ItemType == "" {
		violations = append(violations, "item type is required")
	} else if !IsValidClothingType(r.ItemType) {
		violations = append(violations, r.ItemType+" is not a valid item type")
	}

	return violations
}

// CreateReviewRequest - запрос на добавление отзыва к товару
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// BookView - книга с развёрнутыми авторами отзывов для детальных ответов
// Внешнее поле Reviews затеняет встроенное при сериализации в JSON
type BookView struct {
	*Book
	Reviews []ReviewWithUser `json:"reviews"`
}

// ClothingItemView - предмет одежды с развёрнутыми авторами отзывов
type ClothingItemView struct {
	*ClothingItem
	Reviews []ReviewWithUser `json:"reviews"`
}

// === HTTP ответы: конверт {success, message?, ...} ===

// ErrorResponse - стандартный ответ об ошибке, одна строка для пользователя
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MessageResponse - ответ успеха без данных
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BookListResponse - страница книжной витрины (отзывы исключены из выдачи)
type BookListResponse struct {
	Success     bool   `json:"success"`
	Books       []Book `json:"books"`
	TotalBooks  int64  `json:"total_books"`
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
}

// ClothingListResponse - страница витрины одежды
type ClothingListResponse struct {
	Success     bool           `json:"success"`
	Items       []ClothingItem `json:"items"`
	TotalItems  int64          `json:"total_items"`
	TotalPages  int            `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
}

// BookResponse - ответ с одной книгой
type BookResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Book    *BookView `json:"book"`
}

// ClothingResponse - ответ с одним предметом одежды
type ClothingResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Item    *ClothingItemView `json:"item"`
}

// ReviewListResponse - отзывы товара с текущим средним рейтингом
type ReviewListResponse struct {
	Success       bool             `json:"success"`
	Reviews       []ReviewWithUser `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
}
