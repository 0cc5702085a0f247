// Package chat 提供以家庭資訊為背景的 AI 育兒助理
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"health-heroes/internal/core/ai"
	"health-heroes/internal/core/ai/provider"
	aiservice "health-heroes/internal/core/ai/service"
	"health-heroes/internal/domain"
	"health-heroes/internal/pkg/common"
	"health-heroes/internal/repository"

	"go.uber.org/zap"
)

const (
	// MaxTitleLength 對話標題最長字數
	MaxTitleLength = 50
	// ConversationListLimit 列表最多回傳的對話數
	ConversationListLimit = 20
	// titleAfterMessages 訊息數達到此值時自動產生標題
	titleAfterMessages = 4
)

// TextGenerator AI 文字產生器
type TextGenerator interface {
	Generate(ctx context.Context, req aiservice.Request) (string, error)
}

// SendParams 送出訊息
type SendParams struct {
	UserID         uint
	ConversationID uint
	Message        string
	Language       string
	RequestID      string
}

// SendResult 送出訊息的結果
type SendResult struct {
	ConversationID   uint                `json:"conversation_id"`
	Title            string              `json:"title"`
	UserMessage      *domain.ChatMessage `json:"user_message"`
	AssistantMessage *domain.ChatMessage `json:"ai_message"`
}

// Service 聊天服務
type Service struct {
	ai       TextGenerator
	chats    repository.ChatRepo
	users    repository.UserRepo
	families repository.FamilyRepo
	now      func() time.Time
}

// NewService 創建聊天服務
func NewService(gen TextGenerator, chats repository.ChatRepo, users repository.UserRepo, families repository.FamilyRepo) *Service {
	return &Service{
		ai:       gen,
		chats:    chats,
		users:    users,
		families: families,
		now:      time.Now,
	}
}

// List 最近更新的對話
func (s *Service) List(ctx context.Context, userID uint) ([]domain.ChatConversation, error) {
	convs, err := s.chats.ListConversations(ctx, userID, ConversationListLimit)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	if convs == nil {
		convs = []domain.ChatConversation{}
	}
	return convs, nil
}

// Create 建立新對話，語言未指定時使用家庭設定
func (s *Service) Create(ctx context.Context, userID uint, language string) (*domain.ChatConversation, error) {
	lang, err := s.resolveLanguage(ctx, userID, language)
	if err != nil {
		return nil, err
	}
	conv := &domain.ChatConversation{
		UserID:   userID,
		Title:    DefaultTitle(lang),
		Language: string(lang),
	}
	if err := s.chats.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

// Get 取得對話與訊息
func (s *Service) Get(ctx context.Context, userID, convID uint) (*domain.ChatConversation, error) {
	conv, err := s.chats.GetConversation(ctx, userID, convID, true)
	if err != nil {
		return nil, err
	}
	if conv.Messages == nil {
		conv.Messages = []domain.ChatMessage{}
	}
	return conv, nil
}

// Rename 修改標題，長度由 handler 驗證
func (s *Service) Rename(ctx context.Context, userID, convID uint, title string) (*domain.ChatConversation, error) {
	if err := s.chats.UpdateTitle(ctx, userID, convID, strings.TrimSpace(title)); err != nil {
		return nil, err
	}
	return s.chats.GetConversation(ctx, userID, convID, false)
}

// Delete 刪除對話與所有訊息
func (s *Service) Delete(ctx context.Context, userID, convID uint) error {
	return s.chats.DeleteConversation(ctx, userID, convID)
}

// Send 保存使用者訊息後呼叫 AI；AI 失敗時使用者訊息仍保留
func (s *Service) Send(ctx context.Context, p SendParams) (*SendResult, error) {
	message := strings.TrimSpace(p.Message)

	var conv *domain.ChatConversation
	var err error
	if p.ConversationID != 0 {
		conv, err = s.chats.GetConversation(ctx, p.UserID, p.ConversationID, false)
	} else {
		conv, err = s.Create(ctx, p.UserID, p.Language)
	}
	if err != nil {
		return nil, err
	}

	lang := common.ParseLanguage(conv.Language)
	if p.Language != "" {
		lang = common.ParseLanguage(p.Language)
	}

	history, err := s.chats.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	userMsg := &domain.ChatMessage{ConversationID: conv.ID, Role: domain.RoleUser, Content: message}
	if err := s.chats.AddMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}

	system, err := s.systemPrompt(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	reply, err := s.ai.Generate(ctx, aiservice.Request{
		Purpose:   ai.PurposeChat,
		System:    system,
		History:   toProviderMessages(history),
		Prompt:    UserPrompt(message, lang),
		RequestID: p.RequestID,
	})
	if err != nil {
		if terr := s.chats.Touch(ctx, conv.ID, s.now().UTC()); terr != nil {
			common.LogWarn("更新對話時間失敗",
				zap.Uint("conversation_id", conv.ID),
				zap.Error(terr),
			)
		}
		common.LogWarn("聊天回覆失敗",
			zap.String("request_id", p.RequestID),
			zap.Uint("conversation_id", conv.ID),
			zap.Error(err),
		)
		return nil, err
	}

	aiMsg := &domain.ChatMessage{ConversationID: conv.ID, Role: domain.RoleAssistant, Content: reply}
	if err := s.chats.AddMessage(ctx, aiMsg); err != nil {
		return nil, fmt.Errorf("save reply: %w", err)
	}
	if err := s.chats.Touch(ctx, conv.ID, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("touch conversation: %w", err)
	}

	title := conv.Title
	count, err := s.chats.CountMessages(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	if count == titleAfterMessages && title == DefaultTitle(common.ParseLanguage(conv.Language)) {
		title = s.generateTitle(ctx, message, lang, p.RequestID)
		if err := s.chats.UpdateTitle(ctx, p.UserID, conv.ID, title); err != nil {
			common.LogWarn("更新對話標題失敗", zap.Uint("conversation_id", conv.ID), zap.Error(err))
			title = conv.Title
		}
	}

	return &SendResult{
		ConversationID:   conv.ID,
		Title:            title,
		UserMessage:      userMsg,
		AssistantMessage: aiMsg,
	}, nil
}

func (s *Service) generateTitle(ctx context.Context, message string, lang common.Language, requestID string) string {
	raw, err := s.ai.Generate(ctx, aiservice.Request{
		Purpose:   ai.PurposeChatTitle,
		Prompt:    TitlePrompt(message, lang),
		RequestID: requestID,
	})
	if err == nil {
		if title := CleanTitle(raw); title != "" {
			return title
		}
	}
	common.LogWarn("產生對話標題失敗，使用預設標題", zap.Error(err))
	return FallbackTitle(lang, s.now())
}

func (s *Service) systemPrompt(ctx context.Context, userID uint) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	profile, err := s.families.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	return SystemPrompt(user, profile, s.now()), nil
}

func (s *Service) resolveLanguage(ctx context.Context, userID uint, language string) (common.Language, error) {
	if strings.TrimSpace(language) != "" {
		return common.ParseLanguage(language), nil
	}
	profile, err := s.families.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	return common.ParseLanguage(profile.Language), nil
}

func toProviderMessages(messages []domain.ChatMessage) []provider.Message {
	out := make([]provider.Message, 0, len(messages))
	for _, m := range messages {
		role := provider.RoleUser
		if m.Role == domain.RoleAssistant {
			role = provider.RoleAssistant
		}
		out = append(out, provider.Message{Role: role, Content: m.Content})
	}
	return out
}
