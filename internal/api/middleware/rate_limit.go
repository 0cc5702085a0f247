package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"health-heroes/internal/infrastructure/config"
	"health-heroes/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter 依客戶端分開計算的令牌桶，每個時間窗補滿 requests 個令牌
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientEntry
	limit   rate.Limit
	burst   int
	window  time.Duration
	now     func() time.Time
}

// NewClientLimiter 創建依客戶端限流器
func NewClientLimiter(requests int, window time.Duration) *ClientLimiter {
	return &ClientLimiter{
		clients: make(map[string]*clientEntry),
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
		window:  window,
		now:     time.Now,
	}
}

// Allow 檢查該客戶端是否還有令牌
func (cl *ClientLimiter) Allow(client string) bool {
	now := cl.now()

	cl.mu.Lock()
	entry, ok := cl.clients[client]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.clients[client] = entry
	}
	entry.lastSeen = now
	cl.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// Prune 移除已閒置超過一個時間窗的客戶端
func (cl *ClientLimiter) Prune() int {
	now := cl.now()

	cl.mu.Lock()
	defer cl.mu.Unlock()
	removed := 0
	for client, entry := range cl.clients {
		if now.Sub(entry.lastSeen) > cl.window {
			delete(cl.clients, client)
			removed++
		}
	}
	return removed
}

// Len 目前追蹤的客戶端數
func (cl *ClientLimiter) Len() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.clients)
}

// StartCleanup 定期清除閒置客戶端，stop 關閉時結束
func (cl *ClientLimiter) StartCleanup(stop <-chan struct{}, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := cl.Prune(); n > 0 {
					common.LogDebug("清除閒置限流紀錄",
						zap.Int("removed", n),
						zap.Int("remaining", cl.Len()),
					)
				}
			case <-stop:
				return
			}
		}
	}()
}

// RateLimit 限流中間件，已登入時以使用者區分，否則以 IP 區分；stop 關閉時停止清理
func RateLimit(cfg config.RateLimitConfig, stop <-chan struct{}) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Requests <= 0 || cfg.Window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := NewClientLimiter(cfg.Requests, cfg.Window)
	limiter.StartCleanup(stop, max(cfg.Window, time.Minute))

	return func(c *gin.Context) {
		client := "ip:" + c.ClientIP()
		if userID, ok := CurrentUserID(c); ok {
			client = "user:" + strconv.FormatUint(uint64(userID), 10)
		}

		if !limiter.Allow(client) {
			common.LogInfo("Rate limit exceeded",
				zap.String("client", client),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", fmt.Sprintf("%d", int(cfg.Window.Seconds())))
			abortWithError(c, http.StatusTooManyRequests, common.ErrCodeTooManyRequests, common.ErrTooManyRequests.Message)
			return
		}

		c.Next()
	}
}
