package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"octoberpages/pkg/logger"
	"octoberpages/pkg/metrics"
)

// SetupRoutes настраивает все маршруты Catalog Service
// Чтение каталога публичное, отзывы требуют аутентификации,
// создание и удаление товаров - только роль ADMIN
func SetupRoutes(catalogHandler *CatalogHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("catalog-service"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "catalog-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	books := router.Group("/books")
	{
		// Чтение витрины публичное
		books.GET("", catalogHandler.GetBooks)
		books.GET("/search", catalogHandler.SearchBooks)
		books.GET("/filter", catalogHandler.FilterBooks)
		books.GET("/:id", catalogHandler.GetBook)
		books.GET("/:id/reviews", catalogHandler.GetBookReviews)

		// Отзывы - любой аутентифицированный пользователь
		books.POST("/:id/reviews", authMiddleware.Authenticate(), catalogHandler.AddBookReview)

		// Управление каталогом - только ADMIN
		books.POST("", authMiddleware.Authenticate(), authMiddleware.RequireRole("ADMIN"), catalogHandler.CreateBook)
		books.DELETE("/:id", authMiddleware.Authenticate(), authMiddleware.RequireRole("ADMIN"), catalogHandler.DeleteBook)
	}

	clothing := router.Group("/clothing")
	{
		clothing.GET("", catalogHandler.GetClothing)
		clothing.GET("/search", catalogHandler.SearchClothing)
		clothing.GET("/filter", catalogHandler.FilterClothing)
		clothing.GET("/:id", catalogHandler.GetClothingItem)
		clothing.GET("/:id/reviews", catalogHandler.GetClothingReviews)

		clothing.POST("/:id/reviews", authMiddleware.Authenticate(), catalogHandler.AddClothingReview)

		clothing.POST("", authMiddleware.Authenticate(), authMiddleware.RequireRole("ADMIN"), catalogHandler.CreateClothingItem)
		clothing.DELETE("/:id", authMiddleware.Authenticate(), authMiddleware.RequireRole("ADMIN"), catalogHandler.DeleteClothingItem)
	}

	return router
}
