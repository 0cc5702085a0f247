// Package auth 處理註冊、登入與 JWT 驗證
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"health-heroes/internal/domain"
	"health-heroes/internal/infrastructure/config"
	"health-heroes/internal/pkg/common"
	"health-heroes/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "health-heroes"

// Claims JWT 內容，Subject 為使用者 ID
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID 由 Subject 解析使用者 ID
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid subject %q", c.Subject)
	}
	return uint(id), nil
}

// RegisterParams 註冊請求，格式已由 handler 驗證
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// Session 登入結果
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// Service 帳號服務
type Service struct {
	users  repository.UserRepo
	config config.AuthConfig
	now    func() time.Time
}

// NewService 創建帳號服務
func NewService(users repository.UserRepo, cfg config.AuthConfig) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.JWTExpiration <= 0 {
		cfg.JWTExpiration = 72 * time.Hour
	}
	return &Service{users: users, config: cfg, now: time.Now}
}

// Register 建立帳號與預設家庭設定
func (s *Service) Register(ctx context.Context, p RegisterParams) (*domain.User, error) {
	name := strings.TrimSpace(p.Name)
	email := normalizeEmail(p.Email)

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, common.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{Name: name, Email: email, PasswordHash: string(hash)}
	if _, err := s.users.CreateWithProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	common.LogInfo("新使用者註冊", zap.Uint("user_id", user.ID))
	return user, nil
}

// Login 驗證密碼並簽發 token
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		common.LogWarn("更新登入時間失敗", zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLogin = &now
	}

	token, expiresAt, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	common.LogInfo("使用者登入", zap.Uint("user_id", user.ID))
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Me 取得目前使用者
func (s *Service) Me(ctx context.Context, userID uint) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// IssueToken 簽發 HS256 token
func (s *Service) IssueToken(user *domain.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.config.JWTExpiration)
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken 驗證 token 並回傳內容
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, common.ErrUnauthorized.Wrap(err)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, common.ErrUnauthorized.Wrap(err)
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
