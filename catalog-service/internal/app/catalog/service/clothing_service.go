package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"octoberpages/catalog-service/internal/app/catalog/entity"
	"octoberpages/catalog-service/internal/app/catalog/repository"
	"octoberpages/pkg/metrics"
)

// === Витрина одежды ===
// Операции зеркалят книжную витрину, но работают с отдельной
// коллекцией: выдачи витрин никогда не смешиваются

// CreateClothingItem создает предмет одежды
func (s *CatalogService) CreateClothingItem(ctx context.Context, req *entity.CreateClothingRequest, images []ImageUpload) (*entity.ClothingItem, error) {
	violations := req.Validate()
	violations = append(violations, validateImages(images)...)
	if len(violations) > 0 {
		return nil, entity.NewValidationError(violations...)
	}

	uploaded, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}

	item := &entity.ClothingItem{
		Name:        normalizeName(req.Name),
		Images:      uploaded,
		Reviews:     []entity.Review{},
		Price:       req.Price,
		ItemType:    req.ItemType,
		Description: strings.TrimSpace(req.Description),
	}

	if err := s.clothing.Create(ctx, item); err != nil {
		s.releaseImages(ctx, uploaded)
		return nil, fmt.Errorf("failed to create clothing item: %w", err)
	}

	metrics.ProductsCreated.WithLabelValues(entity.StorefrontClothing).Inc()

	s.publishEvent(ctx, item.ID.Hex(), entity.ProductEvent{
		EventType:  "PRODUCT_CREATED",
		ProductID:  item.ID.Hex(),
		Storefront: entity.StorefrontClothing,
		Name:       item.Name,
		Price:      item.Price,
		Timestamp:  time.Now(),
	})

	return item, nil
}

// ListClothing возвращает страницу одежды, новые сверху
func (s *CatalogService) ListClothing(ctx context.Context, page, limit int) (*entity.ClothingListResponse, error) {
	page, skip, limit := normalizePagination(page, limit)

	items, total, err := s.clothing.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list clothing: %w", err)
	}

	metrics.CatalogQueries.WithLabelValues(entity.StorefrontClothing, "list").Inc()

	return &entity.ClothingListResponse{
		Success:     true,
		Items:       items,
		TotalItems:  total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// SearchClothing ищет одежду по имени и типу
func (s *CatalogService) SearchClothing(ctx context.Context, query string, page, limit int) (*entity.ClothingListResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, entity.NewValidationError("search query is required")
	}

	page, skip, limit := normalizePagination(page, limit)

	items, total, err := s.clothing.Search(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search clothing: %w", err)
	}

	metrics.CatalogQueries.WithLabelValues(entity.StorefrontClothing, "search").Inc()

	return &entity.ClothingListResponse{
		Success:     true,
		Items:       items,
		TotalItems:  total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// FilterClothing возвращает одежду заданного типа, новые сверху
func (s *CatalogService) FilterClothing(ctx context.Context, itemType string, page, limit int) (*entity.ClothingListResponse, error) {
	if strings.TrimSpace(itemType) == "" {
		return nil, entity.NewValidationError("item type is required")
	}

	page, skip, limit := normalizePagination(page, limit)

	items, total, err := s.clothing.FilterByType(ctx, itemType, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to filter clothing: %w", err)
	}

	metrics.CatalogQueries.WithLabelValues(entity.StorefrontClothing, "filter").Inc()

	return &entity.ClothingListResponse{
		Success:     true,
		Items:       items,
		TotalItems:  total,
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// GetClothingItem возвращает предмет одежды с развёрнутыми авторами отзывов
func (s *CatalogService) GetClothingItem(ctx context.Context, id string) (*entity.ClothingItemView, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.clothing.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get clothing item: %w", err)
	}

	return &entity.ClothingItemView{
		ClothingItem: item,
		Reviews:      s.decorateReviews(ctx, item.Reviews),
	}, nil
}

// AddClothingReview добавляет отзыв к предмету одежды
// Та же optimistic-схема, что и у книг
func (s *CatalogService) AddClothingReview(ctx context.Context, id, userID string, req *entity.CreateReviewRequest) (*entity.Review, error) {
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
		item, err := s.clothing.GetByID(ctx, oid)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to get clothing item: %w", err)
		}

		newAverage := entity.AverageRating(append(item.Reviews, review))

		appendErr = s.clothing.AppendReview(ctx, oid, review, len(item.Reviews), newAverage)
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

	metrics.ReviewsCreated.WithLabelValues(entity.StorefrontClothing).Inc()
	metrics.ReviewsRating.Observe(float64(review.Rating))

	s.publishEvent(ctx, id, entity.ReviewEvent{
		EventType:  "REVIEW_CREATED",
		ProductID:  id,
		Storefront: entity.StorefrontClothing,
		UserID:     userID,
		Rating:     review.Rating,
		Timestamp:  time.Now(),
	})

	return &review, nil
}

// GetClothingReviews возвращает отзывы предмета одежды
func (s *CatalogService) GetClothingReviews(ctx context.Context, id string) (*entity.ReviewListResponse, error) {
	oid, err := parseProductID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.clothing.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get clothing item: %w", err)
	}

	return &entity.ReviewListResponse{
		Success:       true,
		Reviews:       s.decorateReviews(ctx, item.Reviews),
		AverageRating: item.AverageRating,
	}, nil
}

// DeleteClothingItem удаляет предмет одежды и отправляет PRODUCT_DELETED
func (s *CatalogService) DeleteClothingItem(ctx context.Context, id string) error {
	oid, err := parseProductID(id)
	if err != nil {
		return err
	}

	item, err := s.clothing.Delete(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete clothing item: %w", err)
	}

	metrics.ProductsDeleted.WithLabelValues(entity.StorefrontClothing).Inc()

	imageIDs := make([]string, 0, len(item.Images))
	for _, img := range item.Images {
		imageIDs = append(imageIDs, img.PublicID)
	}

	s.publishEvent(ctx, id, entity.ProductEvent{
		EventType:  "PRODUCT_DELETED",
		ProductID:  id,
		Storefront: entity.StorefrontClothing,
		Name:       item.Name,
		Price:      item.Price,
		ImageIDs:   imageIDs,
		Timestamp:  time.Now(),
	})

	return nil
}
