package handlers

import (
	"net/http"
	"strconv"

	"health-heroes/internal/core/activity"
	"health-heroes/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// CompleteRequest 完成活動
type CompleteRequest struct {
	ChildID uint   `json:"child_id"`
	Notes   string `json:"notes" binding:"max=1000"`
	Rating  *int   `json:"rating" binding:"omitempty,min=1,max=5"`
}

// ActivityHandler 活動處理器
type ActivityHandler struct {
	activities *activity.Service
}

// NewActivityHandler 創建活動處理器
func NewActivityHandler(svc *activity.Service) *ActivityHandler {
	return &ActivityHandler{activities: svc}
}

// Catalog 類別、年齡、時長與家中區域
func (h *ActivityHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.activities.Catalog())
}

// List 依類別與孩子挑選活動
func (h *ActivityHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "limit must be an integer")
			return
		}
		limit = n
	}

	var childID uint
	if raw := c.Query("child_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid child_id")
			return
		}
		childID = uint(n)
	}

	lang := common.ParseLanguage(c.Query("lang"))
	views, err := h.activities.List(c.Request.Context(), activity.ListParams{
		UserID:   userID(c),
		Category: c.Query("category"),
		ChildID:  childID,
		Language: lang,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"activities": views,
		"count":      len(views),
		"lang":       lang,
	})
}

func (h *ActivityHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.activities.Get(c.Request.Context(), id, common.ParseLanguage(c.Query("lang")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Complete 記錄完成活動
func (h *ActivityHandler) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CompleteRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	completion, err := h.activities.Complete(c.Request.Context(), activity.CompleteParams{
		UserID:     userID(c),
		ActivityID: id,
		ChildID:    req.ChildID,
		Notes:      req.Notes,
		Rating:     req.Rating,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, completion)
}

// Completions 使用者的完成紀錄，新到舊
func (h *ActivityHandler) Completions(c *gin.Context) {
	completions, err := h.activities.Completions(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completions": completions})
}
