package handler

import (
	"net/http"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/pkg/logger"
	"gemcatalog/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig - параметры маршрутизатора из конфигурации сервиса
type RouterConfig struct {
	CORSOrigin        string
	LoginRateLimit    int
	WriteRateLimit    int
	InterestRateLimit int
	RateLimitWindow   time.Duration
	// AccessLog выключается в тестовом окружении вместе с логом внутренних ошибок
	AccessLog bool
}

// SetupRoutes настраивает все маршруты Catalog Service с использованием Gin.
// Чтение каталога публичное, запись только для ADMIN.
func SetupRoutes(
	cfg RouterConfig,
	healthHandler *HealthHandler,
	authHandler *AuthHandler,
	catalogHandler *CatalogHandler,
	interestHandler *InterestHandler,
	authMiddleware *AuthMiddleware,
	rateLimiter *RateLimitMiddleware,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	if cfg.AccessLog {
		router.Use(logger.GinLoggerMiddleware())
	}

	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type", logger.RequestIDHeader},
		ExposeHeaders:    []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Use(SecurityHeaders())
	router.Use(BodyLimit(MaxBodyBytes))
	router.Use(authMiddleware.Identify())

	router.GET("/healthz", healthHandler.Liveness)
	router.GET("/health", healthHandler.Liveness)
	router.GET("/health/readiness", healthHandler.Readiness)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	loginLimit := rateLimiter.Limit("login", cfg.LoginRateLimit, cfg.RateLimitWindow)
	writeLimit := rateLimiter.Limit("write", cfg.WriteRateLimit, cfg.RateLimitWindow)
	interestLimit := rateLimiter.Limit("interest", cfg.InterestRateLimit, cfg.RateLimitWindow)
	requireAdmin := authMiddleware.RequireRole(entity.RoleAdmin)

	auth := router.Group("/auth")
	{
		auth.POST("/login", loginLimit, authHandler.Login)
		auth.GET("/me", authHandler.Me)
		auth.POST("/logout", authHandler.Logout)
	}

	categories := router.Group("/categories")
	{
		categories.GET("", catalogHandler.ListCategories)
		categories.GET("/:slug", catalogHandler.GetCategory)
		categories.POST("", writeLimit, requireAdmin, catalogHandler.CreateCategory)
	}

	stones := router.Group("/stones")
	{
		stones.GET("", catalogHandler.ListStones)
		stones.GET("/:slug", catalogHandler.GetStone)
		stones.POST("", writeLimit, requireAdmin, catalogHandler.CreateStone)
	}

	items := router.Group("/items")
	{
		items.GET("", catalogHandler.ListItems)
		items.GET("/:code", catalogHandler.GetItem)
		items.POST("", writeLimit, requireAdmin, catalogHandler.CreateItem)
		items.POST("/:code/interest", interestLimit, interestHandler.RecordInterest)
	}

	admin := router.Group("/admin")
	admin.Use(requireAdmin)
	{
		admin.GET("/interest", interestHandler.Summary)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Not found"})
	})

	return router
}
