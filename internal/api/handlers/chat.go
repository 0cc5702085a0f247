package handlers

import (
	"net/http"

	"health-heroes/internal/core/chat"

	"github.com/gin-gonic/gin"
)

// NewConversationRequest 新對話
type NewConversationRequest struct {
	Language string `json:"language" binding:"omitempty,oneof=en ar"`
}

// RenameRequest 重新命名對話
type RenameRequest struct {
	Title string `json:"title" binding:"required,notblank,max=50"`
}

// SendMessageRequest 送出訊息
type SendMessageRequest struct {
	ConversationID uint   `json:"conversation_id"`
	Message        string `json:"message" binding:"required,notblank,max=4000"`
	Language       string `json:"language" binding:"omitempty,oneof=en ar"`
}

// ChatHandler 聊天處理器
type ChatHandler struct {
	chat *chat.Service
}

// NewChatHandler 創建聊天處理器
func NewChatHandler(svc *chat.Service) *ChatHandler {
	return &ChatHandler{chat: svc}
}

func (h *ChatHandler) List(c *gin.Context) {
	conversations, err := h.chat.List(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

func (h *ChatHandler) Create(c *gin.Context) {
	var req NewConversationRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	conv, err := h.chat.Create(c.Request.Context(), userID(c), req.Language)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

// Get 對話與其訊息
func (h *ChatHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	conv, err := h.chat.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h *ChatHandler) Rename(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RenameRequest
	if !bindJSON(c, &req) {
		return
	}
	conv, err := h.chat.Rename(c.Request.Context(), userID(c), id, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h *ChatHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.chat.Delete(c.Request.Context(), userID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Send 送出訊息並取得 AI 回覆
func (h *ChatHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.chat.Send(c.Request.Context(), chat.SendParams{
		UserID:         userID(c),
		ConversationID: req.ConversationID,
		Message:        req.Message,
		Language:       req.Language,
		RequestID:      requestID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
