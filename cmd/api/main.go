package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"health-heroes/internal/api"
	"health-heroes/internal/core/ai/cache"
	"health-heroes/internal/core/ai/openrouter"
	aiservice "health-heroes/internal/core/ai/service"
	"health-heroes/internal/infrastructure/config"
	"health-heroes/internal/infrastructure/database"
	"health-heroes/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("openrouter_api_key", cfg.OpenRouter.APIKey),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.String("database", cfg.Database.Path),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	// 開啟資料庫
	db, err := database.Open(cfg.Database)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			common.LogError("Failed to close database", zap.Error(err))
		}
	}()

	// 初始化快取與 AI 閘道
	store, err := cache.New(cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	aiSvc := aiservice.NewService(openrouter.NewClient(cfg.OpenRouter), store)
	defer func() {
		if err := aiSvc.Close(); err != nil {
			common.LogError("Failed to close AI service", zap.Error(err))
		}
	}()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 設置路由
	router, err := api.SetupRouter(ctx, cfg, db, aiSvc)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		return
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	serverErr := make(chan error, 1)
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		common.LogError("Failed to start server", zap.Error(err))
		return
	}

	common.LogInfo("Shutting down server...")
	stop()

	// 設置關閉超時
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
