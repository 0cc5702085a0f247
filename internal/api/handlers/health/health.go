package health

import (
	"net/http"
	"runtime"
	"time"

	"health-heroes/internal/infrastructure/config"
	"health-heroes/internal/infrastructure/database"
	"health-heroes/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AIStatus AI 閘道狀態
type AIStatus interface {
	Model() string
	CacheStats() map[string]interface{}
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	AI        *AIInfo                `json:"ai,omitempty"`
}

// AIInfo 模型與快取資訊
type AIInfo struct {
	Model string                 `json:"model"`
	Cache map[string]interface{} `json:"cache,omitempty"`
}

// Handler 健康檢查處理器
type Handler struct {
	config *config.Config
	db     *gorm.DB
	ai     AIStatus
}

// NewHandler 創建健康檢查處理器，ai 可為 nil
func NewHandler(cfg *config.Config, db *gorm.DB, ai AIStatus) *Handler {
	return &Handler{config: cfg, db: db, ai: ai}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if h.ai != nil {
		response.AI = &AIInfo{Model: h.ai.Model(), Cache: h.ai.CacheStats()}
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查：資料庫可連線
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if err := database.Ping(h.db); err != nil {
		common.LogWarn("資料庫未就緒", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "not_ready",
			"database": "unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"database": "ok",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
