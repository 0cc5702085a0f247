package handlers

import (
	"net/http"

	"health-heroes/internal/core/auth"
	"health-heroes/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRequest 註冊請求
type RegisterRequest struct {
	Name            string `json:"name" binding:"required,notblank,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// LoginRequest 登入請求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler 帳號處理器
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler 創建帳號處理器
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: svc}
}

// Register 註冊並直接簽發 token
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.auth.Register(c.Request.Context(), auth.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	token, expiresAt, err := h.auth.IssueToken(user)
	if err != nil {
		respondError(c, common.ErrInternalError.Wrap(err))
		return
	}

	common.LogInfo("使用者註冊成功",
		zap.Uint("user_id", user.ID),
		zap.String("request_id", requestID(c)),
	)
	c.JSON(http.StatusCreated, auth.Session{Token: token, ExpiresAt: expiresAt, User: user})
}

// Login 登入
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Logout token 無狀態，由客戶端丟棄
func (h *AuthHandler) Logout(c *gin.Context) {
	common.LogInfo("使用者登出", zap.Uint("user_id", userID(c)))
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me 目前使用者
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
