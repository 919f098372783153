package handler

import (
	"net/http"

	"octoberpages/catalog-service/internal/app/catalog/entity"

	"github.com/gin-gonic/gin"
)

// CreateClothingItem создает предмет одежды из multipart формы
// Только для роли ADMIN
func (h *CatalogHandler) CreateClothingItem(c *gin.Context) {
	var req entity.CreateClothingRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request form"})
		return
	}

	images, err := formImages(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid image upload"})
		return
	}

	item, err := h.catalogService.CreateClothingItem(c.Request.Context(), &req, images)
	if err != nil {
		respondError(c, err, "Failed to create clothing item")
		return
	}

	c.JSON(http.StatusCreated, entity.ClothingResponse{
		Success: true,
		Message: "Clothing item created successfully",
		Item:    &entity.ClothingItemView{ClothingItem: item, Reviews: []entity.ReviewWithUser{}},
	})
}

// GetClothing возвращает страницу одежды (query: page, limit)
func (h *CatalogHandler) GetClothing(c *gin.Context) {
	page, limit := pageParams(c)

	resp, err := h.catalogService.ListClothing(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err, "Failed to get clothing")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SearchClothing ищет одежду по имени и типу (query: query, page, limit)
func (h *CatalogHandler) SearchClothing(c *gin.Context) {
	page, limit := pageParams(c)

	resp, err := h.catalogService.SearchClothing(c.Request.Context(), c.Query("query"), page, limit)
	if err != nil {
		respondError(c, err, "Failed to search clothing")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// FilterClothing возвращает одежду типа (query: type, page, limit)
func (h *CatalogHandler) FilterClothing(c *gin.Context) {
	page, limit := pageParams(c)

	resp, err := h.catalogService.FilterClothing(c.Request.Context(), c.Query("type"), page, limit)
	if err != nil {
		respondError(c, err, "Failed to filter clothing")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetClothingItem возвращает предмет одежды по ID с отзывами
func (h *CatalogHandler) GetClothingItem(c *gin.Context) {
	item, err := h.catalogService.GetClothingItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get clothing item")
		return
	}

	c.JSON(http.StatusOK, entity.ClothingResponse{
		Success: true,
		Item:    item,
	})
}

// AddClothingReview добавляет отзыв к предмету одежды
func (h *CatalogHandler) AddClothingReview(c *gin.Context) {
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

	review, err := h.catalogService.AddClothingReview(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		respondError(c, err, "Failed to add review")
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetClothingReviews возвращает отзывы предмета одежды
func (h *CatalogHandler) GetClothingReviews(c *gin.Context) {
	resp, err := h.catalogService.GetClothingReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get reviews")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteClothingItem удаляет предмет одежды. Только для роли ADMIN
func (h *CatalogHandler) DeleteClothingItem(c *gin.Context) {
	if err := h.catalogService.DeleteClothingItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete clothing item")
		return
	}

	c.JSON(http.StatusOK, entity.MessageResponse{
		Success: true,
		Message: "Clothing item deleted successfully",
	})
}
