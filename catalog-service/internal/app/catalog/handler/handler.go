package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"octoberpages/catalog-service/internal/app/catalog/entity"
	"octoberpages/catalog-service/internal/app/catalog/service"
	"octoberpages/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CatalogServiceInterface - контракт сервиса каталога для handlers
type CatalogServiceInterface interface {
	CreateBook(ctx context.Context, req *entity.CreateBookRequest, images []service.ImageUpload) (*entity.Book, error)
	ListBooks(ctx context.Context, page, limit int) (*entity.BookListResponse, error)
	SearchBooks(ctx context.Context, query string, page, limit int) (*entity.BookListResponse, error)
	FilterBooks(ctx context.Context, genre string, page, limit int) (*entity.BookListResponse, error)
	GetBook(ctx context.Context, id string) (*entity.BookView, error)
	AddBookReview(ctx context.Context, id, userID string, req *entity.CreateReviewRequest) (*entity.Review, error)
	GetBookReviews(ctx context.Context, id string) (*entity.ReviewListResponse, error)
	DeleteBook(ctx context.Context, id string) error

	CreateClothingItem(ctx context.Context, req *entity.CreateClothingRequest, images []service.ImageUpload) (*entity.ClothingItem, error)
	ListClothing(ctx context.Context, page, limit int) (*entity.ClothingListResponse, error)
	SearchClothing(ctx context.Context, query string, page, limit int) (*entity.ClothingListResponse, error)
	FilterClothing(ctx context.Context, itemType string, page, limit int) (*entity.ClothingListResponse, error)
	GetClothingItem(ctx context.Context, id string) (*entity.ClothingItemView, error)
	AddClothingReview(ctx context.Context, id, userID string, req *entity.CreateReviewRequest) (*entity.Review, error)
	GetClothingReviews(ctx context.Context, id string) (*entity.ReviewListResponse, error)
	DeleteClothingItem(ctx context.Context, id string) error
}

// CatalogHandler обрабатывает HTTP запросы обеих витрин каталога
type CatalogHandler struct {
	catalogService CatalogServiceInterface
	validator      *validator.Validate
}

// NewCatalogHandler создает handler каталога
func NewCatalogHandler(catalogService CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

// pageParams извлекает параметры пагинации из query string
// Кривые значения игнорируются: сервис подставит значения по умолчанию
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return page, limit
}

// formImages читает файлы "images" из multipart формы
func formImages(c *gin.Context) ([]service.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	files := form.File["images"]
	images := make([]service.ImageUpload, 0, len(files))
	for _, fh := range files {
		data, err := readFormFile(fh)
		if err != nil {
			return nil, err
		}
		images = append(images, service.ImageUpload{
			Filename: fh.Filename,
			Data:     data,
		})
	}

	return images, nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// authUserID достает идентификатор пользователя, положенный Authenticate
func authUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Message: "Unauthorized"})
		return "", false
	}

	userIDStr, ok := userID.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Invalid user ID"})
		return "", false
	}

	return userIDStr, true
}

// respondError отображает ошибки сервиса на HTTP статусы
// Внутренние детали наружу не уходят, только логируются
func respondError(c *gin.Context, err error, fallback string) {
	var validationErr *entity.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: validationErr.Error()})
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "Product not found"})
	case errors.Is(err, service.ErrReviewContention):
		c.JSON(http.StatusConflict, entity.ErrorResponse{Message: "Too many concurrent reviews, try again"})
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: fallback})
	}
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
