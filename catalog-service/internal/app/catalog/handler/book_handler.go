package handler

import (
	"net/http"

	"octoberpages/catalog-service/internal/app/catalog/entity"

	"github.com/gin-gonic/gin"
)

// CreateBook создает книгу из multipart формы (поля + файлы images)
// Только для роли ADMIN
func (h *CatalogHandler) CreateBook(c *gin.Context) {
	var req entity.CreateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request form"})
		return
	}

	images, err := formImages(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid image upload"})
		return
	}

	book, err := h.catalogService.CreateBook(c.Request.Context(), &req, images)
	if err != nil {
		respondError(c, err, "Failed to create book")
		return
	}

	c.JSON(http.StatusCreated, entity.BookResponse{
		Success: true,
		Message: "Book created successfully",
		Book:    &entity.BookView{Book: book, Reviews: []entity.ReviewWithUser{}},
	})
}

// GetBooks возвращает страницу книг (query: page, limit)
func (h *CatalogHandler) GetBooks(c *gin.Context) {
	page, limit := pageParams(c)

	resp, err := h.catalogService.ListBooks(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err, "Failed to get books")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SearchBooks ищет книги по имени и автору (query: query, page, limit)
func (h *CatalogHandler) SearchBooks(c *gin.Context) {
	page, limit := pageParams(c)

	resp, err := h.catalogService.SearchBooks(c.Request.Context(), c.Query("query"), page, limit)
	if err != nil {
		respondError(c, err, "Failed to search books")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// FilterBooks возвращает книги жанра (query: genre, page, limit)
func (h *CatalogHandler) FilterBooks(c *gin.Context) {
	page, limit := pageParams(c)

	resp, err := h.catalogService.FilterBooks(c.Request.Context(), c.Query("genre"), page, limit)
	if err != nil {
		respondError(c, err, "Failed to filter books")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetBook возвращает книгу по ID с отзывами и их авторами
func (h *CatalogHandler) GetBook(c *gin.Context) {
	book, err := h.catalogService.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get book")
		return
	}

	c.JSON(http.StatusOK, entity.BookResponse{
		Success: true,
		Book:    book,
	})
}

// AddBookReview добавляет отзыв аутентифицированного пользователя к книге
func (h *CatalogHandler) AddBookReview(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req entity.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: formatValidationError(err)})
		return
	}

	review, err := h.catalogService.AddBookReview(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		respondError(c, err, "Failed to add review")
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetBookReviews возвращает отзывы книги со средним рейтингом
func (h *CatalogHandler) GetBookReviews(c *gin.Context) {
	resp, err := h.catalogService.GetBookReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get reviews")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteBook удаляет книгу. Только для роли ADMIN
func (h *CatalogHandler) DeleteBook(c *gin.Context) {
	if err := h.catalogService.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete book")
		return
	}

	c.JSON(http.StatusOK, entity.MessageResponse{
		Success: true,
		Message: "Book deleted successfully",
	})
}
