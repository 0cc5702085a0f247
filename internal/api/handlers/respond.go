package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"health-heroes/internal/api/middleware"
	"health-heroes/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// requestID 取得請求 ID，缺少時產生新的並回寫到 header
func requestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = common.GenerateUUID()
		c.Header("X-Request-ID", id)
	}
	return id
}

// respondError 將錯誤轉成統一的 JSON 回應
func respondError(c *gin.Context, err error) {
	status, body := common.ToResponse(err)
	fields := []zap.Field{
		zap.String("request_id", requestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogDebug("請求被拒絕", fields...)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": body})
}

// badRequest 請求格式錯誤
func badRequest(c *gin.Context, message string) {
	respondError(c, common.ErrInvalidRequest.WithMessage(message))
}

// userID 目前登入的使用者，路由必須經過 Auth 中間件
func userID(c *gin.Context) uint {
	id, _ := middleware.CurrentUserID(c)
	return id
}

// pathID 解析路徑中的數字 ID
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// bindJSON 解析並以 binding 標籤驗證 JSON 請求體，失敗時直接回應 400
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, common.ErrRequestTooLarge)
			return false
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			badRequest(c, validationMessage(verrs))
			return false
		}
		common.LogDebug("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID(c)),
		)
		badRequest(c, "invalid request format")
		return false
	}
	return true
}
