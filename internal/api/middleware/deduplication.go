package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"health-heroes/internal/pkg/common"
)

const defaultDedupWindow = time.Second

// Deduplicator 記錄近期請求指紋
type Deduplicator struct {
	mu       sync.Mutex
	requests map[string]time.Time
	window   time.Duration
	now      func() time.Time
}

// NewDeduplicator 創建去重器，window <= 0 時使用 1 秒
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &Deduplicator{
		requests: make(map[string]time.Time),
		window:   window,
		now:      time.Now,
	}
}

// Seen 指紋在時間窗內出現過時回傳 true，否則記錄並回傳 false
func (d *Deduplicator) Seen(fingerprint string) bool {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()
	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// Cleanup 清除超過 10 倍時間窗的指紋
func (d *Deduplicator) Cleanup() int {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()
	removed := 0
	for k, t := range d.requests {
		if now.Sub(t) > 10*d.window {
			delete(d.requests, k)
			removed++
		}
	}
	return removed
}

// Deduplication 請求去重中間件：同一使用者在時間窗內重送相同內容即拒絕
func Deduplication(d *Deduplicator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		// 計算請求體哈希
		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.Next()
				return
			}
			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		// 生成請求指紋
		fingerprint := c.Request.Method + ":" + c.Request.URL.Path
		if userID, ok := CurrentUserID(c); ok {
			fingerprint = strconv.FormatUint(uint64(userID), 10) + ":" + fingerprint
		} else {
			fingerprint = c.ClientIP() + ":" + fingerprint
		}
		if bodyHash != "" {
			fingerprint += ":" + bodyHash
		}

		if d.Seen(fingerprint) {
			common.LogWarn("重複請求",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			abortWithError(c, http.StatusTooManyRequests, common.ErrCodeTooManyRequests, "duplicate request, please wait")
			return
		}

		c.Next()
	}
}

// StartCleanup 定期清理過期指紋，stop 關閉時停止
func (d *Deduplicator) StartCleanup(stop <-chan struct{}, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := d.Cleanup(); n > 0 {
					common.LogDebug("清除過期請求指紋", zap.Int("removed", n))
				}
			case <-stop:
				return
			}
		}
	}()
}
