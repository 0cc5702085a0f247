package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"health-heroes/internal/core/ai"
	"health-heroes/internal/core/ai/cache"
	"health-heroes/internal/core/ai/provider"
	"health-heroes/internal/pkg/common"

	"go.uber.org/zap"
)

// Request 對 AI 閘道的單次請求
type Request struct {
	Purpose ai.Purpose
	// System 可選的系統提示
	System string
	// History 先前的對話訊息，依時間排序
	History []provider.Message
	Prompt  string
	// Cacheable 為 true 時相同輸入直接回傳快取結果
	Cacheable   bool
	Temperature float64
	RequestID   string
}

// Service AI 閘道：快取、呼叫提供者、記錄指標
type Service struct {
	provider provider.Provider
	cache    cache.Store
}

// NewService 創建 AI 服務，store 可為 nil
func NewService(p provider.Provider, store cache.Store) *Service {
	return &Service{
		provider: p,
		cache:    store,
	}
}

// Generate 回傳模型輸出的文字；失敗時回傳 common.ErrAIServiceError
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", common.ErrInvalidRequest.WithMessage("prompt is empty")
	}

	var key string
	if req.Cacheable && s.cache != nil {
		key = cache.Key(string(req.Purpose), s.provider.GetModel(), req.System, prompt)
		val, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			ai.ObserveCache("hit")
			common.LogCacheHit(string(req.Purpose))
			return val, nil
		case errors.Is(err, common.ErrCacheMiss):
			ai.ObserveCache("miss")
			common.LogCacheMiss(string(req.Purpose))
		default:
			ai.ObserveCache("error")
			common.LogWarn("快取讀取失敗", zap.Error(err))
		}
	}

	messages := make([]provider.Message, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, provider.Message{Role: provider.RoleSystem, Content: req.System})
	}
	messages = append(messages, req.History...)
	messages = append(messages, provider.Message{Role: provider.RoleUser, Content: prompt})

	start := time.Now()
	resp, err := s.provider.Generate(ctx, &provider.Request{
		Messages:    messages,
		Temperature: req.Temperature,
	})
	duration := time.Since(start)
	ai.ObserveRequest(req.Purpose, err, duration)
	common.LogAICall(string(req.Purpose), duration, err, req.RequestID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", common.ErrGatewayTimeout.Wrap(ctxErr)
		}
		return "", common.ErrAIServiceError.Wrap(err)
	}

	content := strings.TrimSpace(resp.Content)
	if key != "" {
		if err := s.cache.Set(ctx, key, content); err != nil {
			common.LogWarn("快取寫入失敗", zap.Error(err))
		}
	}
	return content, nil
}

// Model 目前使用的模型
func (s *Service) Model() string {
	return s.provider.GetModel()
}

// CacheStats 快取統計，未啟用時回傳 nil
func (s *Service) CacheStats() map[string]interface{} {
	if s.cache == nil {
		return nil
	}
	return s.cache.Stats()
}

// Close 釋放提供者與快取資源
func (s *Service) Close() error {
	var errs []error
	if s.cache != nil {
		errs = append(errs, s.cache.Close())
	}
	errs = append(errs, s.provider.Close())
	return errors.Join(errs...)
}
