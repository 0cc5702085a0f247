package api

import (
	"context"
	"fmt"
	"time"

	"health-heroes/internal/api/handlers"
	"health-heroes/internal/api/handlers/health"
	"health-heroes/internal/api/middleware"
	"health-heroes/internal/core/activity"
	aiservice "health-heroes/internal/core/ai/service"
	"health-heroes/internal/core/auth"
	"health-heroes/internal/core/chat"
	"health-heroes/internal/core/dashboard"
	"health-heroes/internal/core/family"
	"health-heroes/internal/core/meal"
	"health-heroes/internal/infrastructure/config"
	"health-heroes/internal/pkg/common"
	"health-heroes/internal/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dedupCleanupInterval = 10 * time.Minute

// SetupRouter 設置路由，ctx 結束時停止背景清理
func SetupRouter(ctx context.Context, cfg *config.Config, db *gorm.DB, aiSvc *aiservice.Service) (*gin.Engine, error) {
	if cfg == nil || db == nil || aiSvc == nil {
		return nil, fmt.Errorf("router requires config, database and AI service")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := handlers.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	origins := cfg.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.Metrics())
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 初始化儲存層與服務
	userRepo := repository.NewUserRepo(db)
	familyRepo := repository.NewFamilyRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	mealRepo := repository.NewMealRepo(db)
	chatRepo := repository.NewChatRepo(db)

	authSvc := auth.NewService(userRepo, cfg.Auth)
	familySvc := family.NewService(familyRepo)
	selector := activity.NewSelector(activity.SelectorConfigFrom(cfg.Activities), nil)
	activitySvc := activity.NewService(activityRepo, familyRepo, selector, cfg.Activities)
	mealSvc := meal.NewService(aiSvc, mealRepo, familyRepo)
	chatSvc := chat.NewService(aiSvc, chatRepo, userRepo, familyRepo)
	dashboardSvc := dashboard.NewService(activityRepo, mealRepo)

	common.LogInfo("Services initialized",
		zap.String("model", aiSvc.Model()),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
	)

	dedup := middleware.NewDeduplicator(cfg.DedupWindow)
	dedup.StartCleanup(ctx.Done(), dedupCleanupInterval)
	aiLimit := middleware.RateLimit(cfg.RateLimit, ctx.Done())
	requireAuth := middleware.Auth(authSvc)

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, db, aiSvc)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(authSvc)
	familyHandler := handlers.NewFamilyHandler(familySvc)
	activityHandler := handlers.NewActivityHandler(activitySvc)
	mealHandler := handlers.NewMealHandler(mealSvc)
	chatHandler := handlers.NewChatHandler(chatSvc)
	dashboardHandler := handlers.NewDashboardHandler(dashboardSvc)

	// API 路由組
	api := router.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", requireAuth, authHandler.Logout)
			authGroup.GET("/me", requireAuth, authHandler.Me)
		}

		private := api.Group("", requireAuth)

		familyGroup := private.Group("/family")
		{
			familyGroup.GET("", familyHandler.Get)
			familyGroup.PUT("", familyHandler.Setup)
			familyGroup.GET("/children", familyHandler.Children)
			familyGroup.POST("/children", familyHandler.AddChild)
			familyGroup.DELETE("/children/:id", familyHandler.DeleteChild)
		}

		activityGroup := private.Group("/activities")
		{
			activityGroup.GET("", activityHandler.List)
			activityGroup.GET("/catalog", activityHandler.Catalog)
			activityGroup.GET("/completions", activityHandler.Completions)
			activityGroup.GET("/:id", activityHandler.Get)
			activityGroup.POST("/:id/complete", activityHandler.Complete)
		}

		mealGroup := private.Group("/meals")
		{
			mealGroup.GET("", mealHandler.History)
			mealGroup.POST("", aiLimit, middleware.Deduplication(dedup), mealHandler.Generate)
			mealGroup.GET("/catalog", mealHandler.Catalog)
			mealGroup.GET("/:id", mealHandler.Get)
			mealGroup.DELETE("/:id", mealHandler.Delete)
			mealGroup.POST("/:id/favorite", mealHandler.ToggleFavorite)
			mealGroup.POST("/:id/regenerate", aiLimit, mealHandler.Regenerate)
		}

		chatGroup := private.Group("/chat")
		{
			chatGroup.GET("/conversations", chatHandler.List)
			chatGroup.POST("/conversations", chatHandler.Create)
			chatGroup.GET("/conversations/:id", chatHandler.Get)
			chatGroup.PUT("/conversations/:id", chatHandler.Rename)
			chatGroup.DELETE("/conversations/:id", chatHandler.Delete)
			chatGroup.POST("/messages", aiLimit, chatHandler.Send)
		}

		private.GET("/dashboard", dashboardHandler.Stats)
	}

	common.LogInfo("Router setup completed successfully",
		zap.String("environment", cfg.App.Env),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
		zap.Int("routes", len(router.Routes())),
	)

	return router, nil
}
