package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"octoberpages/catalog-service/internal/app/catalog/entity"
	"octoberpages/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateBook(ctx context.Context, req *entity.CreateBookRequest, images []service.ImageUpload) (*entity.Book, error) {
	args := m.Called(ctx, req, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Book), args.Error(1)
}

func (m *MockCatalogService) ListBooks(ctx context.Context, page, limit int) (*entity.BookListResponse, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookListResponse), args.Error(1)
}

func (m *MockCatalogService) SearchBooks(ctx context.Context, query string, page, limit int) (*entity.BookListResponse, error) {
	args := m.Called(ctx, query, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookListResponse), args.Error(1)
}

func (m *MockCatalogService) FilterBooks(ctx context.Context, genre string, page, limit int) (*entity.BookListResponse, error) {
	args := m.Called(ctx, genre, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookListResponse), args.Error(1)
}

func (m *MockCatalogService) GetBook(ctx context.Context, id string) (*entity.BookView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookView), args.Error(1)
}

func (m *MockCatalogService) AddBookReview(ctx context.Context, id, userID string, req *entity.CreateReviewRequest) (*entity.Review, error) {
	args := m.Called(ctx, id, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockCatalogService) GetBookReviews(ctx context.Context, id string) (*entity.ReviewListResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewListResponse), args.Error(1)
}

func (m *MockCatalogService) DeleteBook(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) CreateClothingItem(ctx context.Context, req *entity.CreateClothingRequest, images []service.ImageUpload) (*entity.ClothingItem, error) {
	args := m.Called(ctx, req, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ClothingItem), args.Error(1)
}

func (m *MockCatalogService) ListClothing(ctx context.Context, page, limit int) (*entity.ClothingListResponse, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ClothingListResponse), args.Error(1)
}

func (m *MockCatalogService) SearchClothing(ctx context.Context, query string, page, limit int) (*entity.ClothingListResponse, error) {
	args := m.Called(ctx, query, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ClothingListResponse), args.Error(1)
}

func (m *MockCatalogService) FilterClothing(ctx context.Context, itemType string, page, limit int) (*entity.ClothingListResponse, error) {
	args := m.Called(ctx, itemType, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ClothingListResponse), args.Error(1)
}

func (m *MockCatalogService) GetClothingItem(ctx context.Context, id string) (*entity.ClothingItemView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ClothingItemView), args.Error(1)
}

func (m *MockCatalogService) AddClothingReview(ctx context.Context, id, userID string, req *entity.CreateReviewRequest) (*entity.Review, error) {
	args := m.Called(ctx, id, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockCatalogService) GetClothingReviews(ctx context.Context, id string) (*entity.ReviewListResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewListResponse), args.Error(1)
}

func (m *MockCatalogService) DeleteClothingItem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupTestRouter(mockService *MockCatalogService) (*gin.Engine, *CatalogHandler) {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(mockService)
	return gin.New(), h
}

func TestGetBooks_Success(t *testing.T) {
	mockService := new(MockCatalogService)
	router, h := setupTestRouter(mockService)
	router.GET("/books", h.GetBooks)

	mockService.On("ListBooks", mock.Anything, 2, 12).Return(&entity.BookListResponse{
		Success:     true,
		Books:       []entity.Book{{Name: "the hobbit"}},
		TotalBooks:  25,
		TotalPages:  3,
		CurrentPage: 2,
	}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/books?page=2&limit=12", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.BookListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Len(t, resp.Books, 1)
}

func TestGetBooks_BadPageParamsIgnored(t *testing.T) {
	mockService := new(MockCatalogService)
	router, h := setupTestRouter(mockService)
	router.GET("/books", h.GetBooks)

	// Нечисловые параметры дают нули, сервис подставит значения по умолчанию
	mockService.On("ListBooks", mock.Anything, 0, 0).Return(&entity.BookListResponse{
		Success: true, Books: []entity.Book{}, CurrentPage: 1,
	}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/books?page=abc&limit=xyz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchBooks_ValidationError(t *testing.T) {
	mockService := new(MockCatalogService)
	router, h := setupTestRouter(mockService)
	router.GET("/books/search", h.SearchBooks)

	mockService.On("SearchBooks", mock.Anything, "", 0, 0).
		Return(nil, entity.NewValidationError("search query is required"))

	req, _ := http.NewRequest(http.MethodGet, "/books/search", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "search query is required")
}

func TestGetBook_NotFound(t *testing.T) {
	mockService := new(MockCatalogService)
	router, h := setupTestRouter(mockService)
	router.GET("/books/:id", h.GetBook)

	id := primitive.NewObjectID().Hex()
	mockService.On("GetBook", mock.Anything, id).Return(nil, service.ErrProductNotFound)

	req, _ := http.NewRequest(http.MethodGet, "/books/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddBookReview_Success(t *testing.T) {
	mockService := new(MockCatalogService)
	router, h := setupTestRouter(mockService)

	userID := "user-123"
	router.POST("/books/:id/reviews", func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}, h.AddBookReview)

	id := primitive.NewObjectID().Hex()
	mockService.On("AddBookReview", mock.Anything, id, userID, mock.AnythingOfType("*entity.CreateReviewRequest")).
		Return(&entity.Review{Rating: 5, Comment: "Great!", UserID: userID}, nil)

	body, _ := json.Marshal(entity.CreateReviewRequest{Rating: 5, Comment: "Great!"})
	req, _ := http.NewRequest(http.MethodPost, "/books/"+id+"/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAddBookReview_InvalidRating(t *testing.T) {
	mockService := new(MockCatalogService)
	router, h := setupTestRouter(mockService)

	router.POST("/books/:id/reviews", func(c *gin.Context) {
		c.Set("user_id", "user-123")
		c.Next()
	}, h.AddBookReview)

	// Оценка 6 не проходит валидацию до обращения к сервису
	body, _ := json.Marshal(entity.CreateReviewRequest{Rating: 6})
	req, _ := http.NewRequest(http.MethodPost, "/books/"+primitive.NewObjectID().Hex()+"/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "AddBookReview")
}

func TestAddBookReview_Unauthorized(t *testing.T) {
	mockService := new(MockCatalogService)
	router, h := setupTestRouter(mockService)
	router.POST("/books/:id/reviews", h.AddBookReview)

	body, _ := json.Marshal(entity.CreateReviewRequest{Rating: 5})
	req, _ := http.NewRequest(http.MethodPost, "/books/"+primitive.NewObjectID().Hex()+"/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddBookReview_Contention(t *testing.T) {
	mockService := new(MockCatalogService)
	router, h := setupTestRouter(mockService)

	router.POST("/books/:id/reviews", func(c *gin.Context) {
		c.Set("user_id", "user-123")
		c.Next()
	}, h.AddBookReview)

	id := primitive.NewObjectID().Hex()
	mockService.On("AddBookReview", mock.Anything, id, "user-123", mock.Anything).
		Return(nil, service.ErrReviewContention)

	body, _ := json.Marshal(entity.CreateReviewRequest{Rating: 4})
	req, _ := http.NewRequest(http.MethodPost, "/books/"+id+"/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteBook_Success(t *testing.T) {
	mockService := new(MockCatalogService)
	router, h := setupTestRouter(mockService)
	router.DELETE("/books/:id", h.DeleteBook)

	id := primitive.NewObjectID().Hex()
	mockService.On("DeleteBook", mock.Anything, id).Return(nil)

	req, _ := http.NewRequest(http.MethodDelete, "/books/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "deleted successfully")
}

func TestGetClothing_Success(t *testing.T) {
	mockService := new(MockCatalogService)
	router, h := setupTestRouter(mockService)
	router.GET("/clothing", h.GetClothing)

	mockService.On("ListClothing", mock.Anything, 0, 0).Return(&entity.ClothingListResponse{
		Success:     true,
		Items:       []entity.ClothingItem{{Name: "running shoes"}},
		TotalItems:  1,
		TotalPages:  1,
		CurrentPage: 1,
	}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/clothing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.ClothingListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 1)
}

func TestFilterClothing_TypeParam(t *testing.T) {
	mockService := new(MockCatalogService)
	router, h := setupTestRouter(mockService)
	router.GET("/clothing/filter", h.FilterClothing)

	mockService.On("FilterClothing", mock.Anything, "jacket", 0, 0).Return(&entity.ClothingListResponse{
		Success: true, Items: []entity.ClothingItem{}, CurrentPage: 1,
	}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/clothing/filter?type=jacket", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertCalled(t, "FilterClothing", mock.Anything, "jacket", 0, 0)
}
