package http

import (
	"github.com/gin-gonic/gin"

	"github.com/lojabot/backend/config"
	"github.com/lojabot/backend/internal/domain"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, sessions domain.SessionStore) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestLogger())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Public endpoints
	router.GET("/health", handler.HealthCheck)
	router.GET("/proxy-image", handler.ProxyImage)

	// Chat endpoints require an authenticated session
	authed := router.Group("", AuthMiddleware(sessions))
	{
		authed.POST("/chat", handler.Chat)
		authed.POST("/clear_chat", handler.ClearChat)
		authed.GET("/history", handler.History)
	}

	return router
}
