package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tonicwater/backend/internal/cache"
	"github.com/tonicwater/backend/internal/handlers"
	"github.com/tonicwater/backend/internal/logger"
	"github.com/tonicwater/backend/internal/middleware"
)

type RouterConfig struct {
	Log            *logger.Logger
	Cache          *cache.Cache
	AdminAuth      *middleware.AdminAuth
	PairingHandler *handlers.PairingHandler
	ArticleHandler *handlers.ArticleHandler
	AdminHandler   *handlers.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}))
	router.Use(middleware.CORS())

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	router.GET("/healthcheck", handlers.HealthCheck)

// ===============
// || Public    ||
// ===============
	api := router.Group("/api")
	api.Use(middleware.CacheResponses(cfg.Log, cfg.Cache))
	{
		api.GET("/gins", cfg.PairingHandler.List)
		api.GET("/gins/:name", cfg.PairingHandler.Get)
		api.POST("/gins", cfg.PairingHandler.Create)
		api.PUT("/gins/:name", cfg.PairingHandler.Update)
		api.DELETE("/gins/:name", cfg.PairingHandler.Delete)

		api.GET("/categories", cfg.ArticleHandler.Categories)
		api.GET("/articles", cfg.ArticleHandler.List)
		api.GET("/articles/:slug", cfg.ArticleHandler.Get)
	}

// ===============
// || Admin     ||
// ===============
	router.GET("/admin", cfg.AdminAuth.Require(), cfg.AdminHandler.Dashboard)
	admin := router.Group("/admin/api")
	admin.Use(cfg.AdminAuth.Require())
	{
		admin.GET("/articles", cfg.AdminHandler.ListArticles)
		admin.PUT("/articles/:id", cfg.AdminHandler.SetArticleStatus)
		admin.DELETE("/articles/:id", cfg.AdminHandler.DeleteArticle)
		admin.POST("/generate", cfg.AdminHandler.Generate)
		admin.GET("/generate/:taskId", cfg.AdminHandler.TaskStatus)
		admin.GET("/tasks", cfg.AdminHandler.ListTasks)
	}

	return router
}
