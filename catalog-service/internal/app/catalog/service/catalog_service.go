package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"octoberpages/catalog-service/internal/app/catalog/entity"
	"octoberpages/catalog-service/internal/app/catalog/infrastructure"
	"octoberpages/catalog-service/internal/app/catalog/repository"
	"octoberpages/pkg/logger"
	"octoberpages/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrProductNotFound = errors.New("product not found")
	// ErrReviewContention - не удалось добавить отзыв за отведённое число
	// попыток из-за конкурентных записей
	ErrReviewContention = errors.New("review append retries exhausted")
)

const (
	defaultPage  = 1
	defaultLimit = 12

	minImages = 1
	maxImages = 5

	// Максимум повторов optimistic-append отзыва
	maxReviewRetries = 5
)

// ImageUpload - сырое изображение из multipart формы
type ImageUpload struct {
	Filename string
	Data     []byte
}

// CatalogService обрабатывает бизнес-логику каталога обеих витрин
// Координирует репозитории MongoDB, Cloudinary и Kafka
type CatalogService struct {
	books       repository.BookRepository
	clothing    repository.ClothingRepository
	reviewers   repository.ReviewerRepository
	media       infrastructure.MediaStore
	producer    infrastructure.MessagePublisher
	mediaFolder string
}

// NewCatalogService создает сервис каталога с внедрением зависимостей
func NewCatalogService(
	books repository.BookRepository,
	clothing repository.ClothingRepository,
	reviewers repository.ReviewerRepository,
	media infrastructure.MediaStore,
	producer infrastructure.MessagePublisher,
	mediaFolder string,
) *CatalogService {
	return &CatalogService{
		books:       books,
		clothing:    clothing,
		reviewers:   reviewers,
		media:       media,
		producer:    producer,
		mediaFolder: mediaFolder,
	}
}

// normalizePagination приводит параметры страницы к допустимым значениям
// и возвращает skip/limit для репозитория
func normalizePagination(page, limit int) (int, int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, (page - 1) * limit, limit
}

// totalPages считает число страниц с округлением вверх
func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// normalizeName нормализует имя товара: обрезка пробелов + нижний регистр
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// validateImages проверяет число изображений (от 1 до 5)
func validateImages(images []ImageUpload) []string {
	if len(images) < minImages {
		return []string{"at least one product image is required"}
	}
	if len(images) > maxImages {
		return []string{fmt.Sprintf("no more than %d product images are allowed", maxImages)}
	}
	return nil
}

// uploadImages загружает изображения в Cloudinary
// При частичном сбое уже загруженные изображения освобождаются
func (s *CatalogService) uploadImages(ctx context.Context, images []ImageUpload) ([]entity.Image, error) {
	uploaded := make([]entity.Image, 0, len(images))

	for _, img := range images {
		result, err := s.media.Upload(ctx, img.Data, s.mediaFolder, img.Filename)
		if err != nil {
			// Откатываем уже загруженное, товар ещё не создан
			s.releaseImages(ctx, uploaded)
			return nil, fmt.Errorf("failed to upload image %q: %w", img.Filename, err)
		}
		uploaded = append(uploaded, *result)
	}

	return uploaded, nil
}

// releaseImages удаляет изображения из Cloudinary, ошибки только логируются
func (s *CatalogService) releaseImages(ctx context.Context, images []entity.Image) {
	for _, img := range images {
		if err := s.media.Destroy(ctx, img.PublicID); err != nil {
			logger.Error().Err(err).Str("public_id", img.PublicID).Msg("Failed to release image")
		}
	}
}

// decorateReviews разворачивает авторов отзывов из локальных проекций
// Недоступность проекций не валит read-путь: отзыв уходит без профиля
func (s *CatalogService) decorateReviews(ctx context.Context, reviews []entity.Review) []entity.ReviewWithUser {
	decorated := make([]entity.ReviewWithUser, 0, len(reviews))
	if len(reviews) == 0 {
		return decorated
	}

	seen := make(map[string]struct{}, len(reviews))
	ids := make([]string, 0, len(reviews))
	for _, r := range reviews {
		if _, ok := seen[r.UserID]; !ok {
			seen[r.UserID] = struct{}{}
			ids = append(ids, r.UserID)
		}
	}

	profiles, err := s.reviewers.GetByIDs(ctx, ids)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load reviewer profiles")
		profiles = map[string]entity.ReviewerProfile{}
	}

	for _, r := range reviews {
		profile, ok := profiles[r.UserID]
		if !ok {
			profile = entity.ReviewerProfile{ID: r.UserID}
		}
		decorated = append(decorated, entity.ReviewWithUser{Review: r, User: profile})
	}

	return decorated
}

// publishEvent отправляет событие каталога в Kafka
// Сбой публикации не прерывает операцию: данные уже сохранены
func (s *CatalogService) publishEvent(ctx context.Context, key string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal catalog event")
		return
	}

	if err := s.producer.PublishMessage(ctx, key, data); err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to publish catalog event")
	}
}

// parseProductID разбирает hex-идентификатор товара
// Кривой идентификатор - ошибка клиента, не внутренняя
func parseProductID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, entity.NewValidationError("invalid product id")
	}
	return oid, nil
}

// === Книжная витрина ===

// CreateBook создает книгу: валидация, загрузка изображений, запись,
// событие PRODUCT_CREATED. Изображения грузятся до записи, при сбое
// записи они освобождаются
func (s *CatalogService) CreateBook(ctx context.Context, req *entity.CreateBookRequest, images []ImageUpload) (*entity.Book, error) {
	violations := req.Validate()
	violations = append(violations, validateImages(images)...)
	if len(violations) > 0 {
		return nil, entity.NewValidationError(violations...)
	}

	uploaded, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}

	book := &entity.Book{
		Name:        normalizeName(req.Name),
		Images:      uploaded,
		Reviews:     []entity.Review{},
		Price:       req.Price,
		Genre:       req.Genre,
		Author:      strings.TrimSpace(req.Author),
		Publication: strings.TrimSpace(req.Publication),
		ISBN:        strings.TrimSpace(req.ISBN),
		Description: strings.TrimSpace(req.Description),
	}

	if err := s.books.Create(ctx, book); err != nil {
		s.releaseImages(ctx, uploaded)
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	metrics.ProductsCreated.WithLabelValues(entity.StorefrontBooks).Inc()

	s.publishEvent(ctx, book.ID.Hex(), entity.ProductEvent{
		EventType:  "PRODUCT_CREATED",
		ProductID:  book.ID.Hex(),
		Storefront: entity.StorefrontBooks,
		Name:       book.Name,
		Price:      book.Price,
		Timestamp:  time.Now(),
	})

	return book, nil
}

// ListBooks возвращает страницу книг, новые сверху
func (s *CatalogService) ListBooks(ctx context.Context, page, limit int) (*entity.BookListResponse, error) {
	page, skip, limit := normalizePagination(page, limit)

	books, total, err := s.books.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	metrics.CatalogQueries.WithLabelValues(entity.StorefrontBooks, "list").Inc()

	return &entity.BookListResponse{
		Success:     true,
		Books:       books,
		TotalBooks:  total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// SearchBooks ищет книги по имени и автору
// Пустой запрос - ошибка клиента, а не полная выдача
func (s *CatalogService) SearchBooks(ctx context.Context, query string, page, limit int) (*entity.BookListResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, entity.NewValidationError("search query is required")
	}

	page, skip, limit := normalizePagination(page, limit)

	books, total, err := s.books.Search(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}

	metrics.CatalogQueries.WithLabelValues(entity.StorefrontBooks, "search").Inc()

	return &entity.BookListResponse{
		Success:     true,
		Books:       books,
		TotalBooks:  total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// FilterBooks возвращает книги жанра, новые сверху
// Неизвестный жанр дает пустую выдачу, отсутствующий - ошибку клиента
func (s *CatalogService) FilterBooks(ctx context.Context, genre string, page, limit int) (*entity.BookListResponse, error) {
	if strings.TrimSpace(genre) == "" {
		return nil, entity.NewValidationError("genre is required")
	}

	page, skip, limit := normalizePagination(page, limit)

	books, total, err := s.books.FilterByGenre(ctx, genre, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to filter books: %w", err)
	}

	metrics.CatalogQueries.WithLabelValues(entity.StorefrontBooks, "filter").Inc()

	return &entity.BookListResponse{
		Success:     true,
		Books:       books,
		TotalBooks:  total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// GetBook возвращает книгу с развёрнутыми авторами отзывов
func (s *CatalogService) GetBook(ctx context.Context, id string) (*entity.BookView, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return nil, err
	}

	book, err := s.books.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return &entity.BookView{
		Book:    book,
		Reviews: s.decorateReviews(ctx, book.Reviews),
	}, nil
}

// AddBookReview добавляет отзыв к книге и пересчитывает средний рейтинг
// Запись optimistic: при конкурентном добавлении отзыв и среднее
// пересчитываются заново, до maxReviewRetries попыток
func (s *CatalogService) AddBookReview(ctx context.Context, id, userID string, req *entity.CreateReviewRequest) (*entity.Review, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return nil, err
	}

	review := entity.Review{
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	var appendErr error
	for attempt := 0; attempt < maxReviewRetries; attempt++ {
		book, err := s.books.GetByID(ctx, oid)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to get book: %w", err)
		}

		newAverage := entity.AverageRating(append(book.Reviews, review))

		appendErr = s.books.AppendReview(ctx, oid, review, len(book.Reviews), newAverage)
		if appendErr == nil {
			break
		}
		if errors.Is(appendErr, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		if !errors.Is(appendErr, repository.ErrReviewConflict) {
			return nil, fmt.Errorf("failed to append review: %w", appendErr)
		}
		metrics.ReviewRetries.Inc()
	}
	if appendErr != nil {
		return nil, ErrReviewContention
	}

	metrics.ReviewsCreated.WithLabelValues(entity.StorefrontBooks).Inc()
	metrics.ReviewsRating.Observe(float64(review.Rating))

	s.publishEvent(ctx, id, entity.ReviewEvent{
		EventType:  "REVIEW_CREATED",
		ProductID:  id,
		Storefront: entity.StorefrontBooks,
		UserID:     userID,
		Rating:     review.Rating,
		Timestamp:  time.Now(),
	})

	return &review, nil
}

// GetBookReviews возвращает отзывы книги с текущим средним рейтингом
func (s *CatalogService) GetBookReviews(ctx context.Context, id string) (*entity.ReviewListResponse, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return nil, err
	}

	book, err := s.books.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return &entity.ReviewListResponse{
		Success:       true,
		Reviews:       s.decorateReviews(ctx, book.Reviews),
		AverageRating: book.AverageRating,
	}, nil
}

// DeleteBook удаляет книгу и отправляет PRODUCT_DELETED
// с идентификаторами изображений для освобождения worker-ом
func (s *CatalogService) DeleteBook(ctx context.Context, id string) error {
	oid, err := parseProductID(id)
	if err != nil {
		return err
	}

	book, err := s.books.Delete(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete book: %w", err)
	}

	metrics.ProductsDeleted.WithLabelValues(entity.StorefrontBooks).Inc()

	imageIDs := make([]string, 0, len(book.Images))
	for _, img := range book.Images {
		imageIDs = append(imageIDs, img.PublicID)
	}

	s.publishEvent(ctx, id, entity.ProductEvent{
		EventType:  "PRODUCT_DELETED",
		ProductID:  id,
		Storefront: entity.StorefrontBooks,
		Name:       book.Name,
		Price:      book.Price,
		ImageIDs:   imageIDs,
		Timestamp:  time.Now(),
	})

	return nil
}
