package handlers

import (
	"log/slog"

	"github.com/SscSPs/finance_tracker/cmd/docs"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/SscSPs/finance_tracker/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	RegisterValidators()

	// Public routes
	registerHomeRoutes(r)

	api := r.Group("")
	if cfg.AuthEnabled {
		api.Use(middleware.APIKeyAuth(cfg.APIKeyHash), middleware.AuthMiddleware(cfg.JWTSecret))
	}

	registerTransactionRoutes(api, services.Transaction, cfg.MaxUploadBytes)
	registerChatRoutes(api, services.Chat, chatLimiter(cfg)...)

	setupSwaggerRoutes(r, cfg)
}

func chatLimiter(cfg *config.Config) []gin.HandlerFunc {
	if cfg.ChatRateLimit == "" {
		return nil
	}
	lim, err := middleware.NewMemoryRateLimiter(cfg.ChatRateLimit)
	if err != nil {
		slog.Error("Chat rate limit disabled", slog.String("rate", cfg.ChatRateLimit), slog.String("error", err.Error()))
		return nil
	}
	return []gin.HandlerFunc{middleware.RateLimit(lim)}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
