package repository

import (
	"context"
	"time"

	"health-heroes/internal/domain"

	"gorm.io/gorm"
)

type ChatRepo interface {
	ListConversations(ctx context.Context, userID uint, limit int) ([]domain.ChatConversation, error)
	CreateConversation(ctx context.Context, conv *domain.ChatConversation) error
	GetConversation(ctx context.Context, userID, convID uint, withMessages bool) (*domain.ChatConversation, error)
	UpdateTitle(ctx context.Context, userID, convID uint, title string) error
	Touch(ctx context.Context, convID uint, at time.Time) error
	DeleteConversation(ctx context.Context, userID, convID uint) error

	AddMessage(ctx context.Context, msg *domain.ChatMessage) error
	ListMessages(ctx context.Context, convID uint) ([]domain.ChatMessage, error)
	CountMessages(ctx context.Context, convID uint) (int64, error)
}

type chatRepo struct {
	db *gorm.DB
}

func NewChatRepo(db *gorm.DB) ChatRepo {
	return &chatRepo{db: db}
}

func (r *chatRepo) ListConversations(ctx context.Context, userID uint, limit int) ([]domain.ChatConversation, error) {
	var convs []domain.ChatConversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Find(&convs).Error
	return convs, err
}

func (r *chatRepo) CreateConversation(ctx context.Context, conv *domain.ChatConversation) error {
	return r.db.WithContext(ctx).Omit("Messages").Create(conv).Error
}

func (r *chatRepo) GetConversation(ctx context.Context, userID, convID uint, withMessages bool) (*domain.ChatConversation, error) {
	q := r.db.WithContext(ctx)
	if withMessages {
		q = q.Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") })
	}
	var conv domain.ChatConversation
	if err := q.Where("user_id = ? AND id = ?", userID, convID).First(&conv).Error; err != nil {
		return nil, notFound(err, "conversation")
	}
	return &conv, nil
}

func (r *chatRepo) UpdateTitle(ctx context.Context, userID, convID uint, title string) error {
	res := r.db.WithContext(ctx).Model(&domain.ChatConversation{}).
		Where("user_id = ? AND id = ?", userID, convID).
		Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "conversation")
	}
	return nil
}

func (r *chatRepo) Touch(ctx context.Context, convID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.ChatConversation{}).
		Where("id = ?", convID).
		UpdateColumn("updated_at", at).Error
}

func (r *chatRepo) DeleteConversation(ctx context.Context, userID, convID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND id = ?", userID, convID).Delete(&domain.ChatConversation{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "conversation")
		}
		return tx.Where("conversation_id = ?", convID).Delete(&domain.ChatMessage{}).Error
	})
}

func (r *chatRepo) AddMessage(ctx context.Context, msg *domain.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *chatRepo) ListMessages(ctx context.Context, convID uint) ([]domain.ChatMessage, error) {
	var msgs []domain.ChatMessage
	err := r.db.WithContext(ctx).Where("conversation_id = ?", convID).Order("created_at ASC, id ASC").Find(&msgs).Error
	return msgs, err
}

func (r *chatRepo) CountMessages(ctx context.Context, convID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ChatMessage{}).Where("conversation_id = ?", convID).Count(&count).Error
	return count, err
}
