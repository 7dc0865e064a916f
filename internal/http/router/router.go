package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/freelance-flow/internal/config"
	"github.com/ignatzorin/freelance-flow/internal/http/handlers"
	"github.com/ignatzorin/freelance-flow/internal/http/middleware"
)

// Handlers хэндлеры, которые раздаёт роутер.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Views     *handlers.ViewsHandler
	Clients   *handlers.ClientsHandler
	Proposals *handlers.ProposalsHandler
	WS        *handlers.WSHandler
	Health    *handlers.HealthHandler
}

func SetupRouter(
	cfg *config.Config,
	h Handlers,
	sessions middleware.SessionResolver,
	limiterStore limiter.Store,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(limiterStore, cfg.RateLimitLimit, cfg.RateLimitPeriod)
	{
		authGroup.POST("/register", authRateLimit, h.Auth.Register)
		authGroup.POST("/login", authRateLimit, h.Auth.Login)
		authGroup.POST("/refresh", authRateLimit, h.Auth.Refresh)
		authGroup.GET("/session", h.Auth.Session)
		authGroup.GET("/me", middleware.AuthMiddleware(sessions), h.Auth.Me)
		authGroup.POST("/logout", middleware.AuthMiddleware(sessions), h.Auth.Logout)
	}

	// Публичные маршруты
	api.GET("/views/landing", h.Views.Landing)
	api.GET("/views/navigation", h.Views.Navigation)
	api.GET("/ws", h.WS.Handle)

	// Генератор работает и без входа; сохранение без входа отвечает просьбой войти.
	optional := api.Group("/")
	optional.Use(middleware.OptionalAuthMiddleware(sessions))
	{
		optional.POST("/proposals/generate", h.Proposals.Generate)
		optional.POST("/proposals/copy", h.Proposals.Copy)
		optional.POST("/proposals", h.Proposals.Save)
		optional.POST("/clients", h.Clients.Create)
	}

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(sessions))
	{
		protected.GET("/views/dashboard", h.Views.Dashboard)
		protected.GET("/views/stats", h.Views.Stats)
		protected.GET("/views/clients", h.Views.Clients)
	}

	return r
}
