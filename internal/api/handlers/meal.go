package handlers

import (
	"net/http"
	"strconv"

	"health-heroes/internal/core/meal"
	"health-heroes/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GenerateMealRequest 產生食譜
type GenerateMealRequest struct {
	Ingredients       []string `json:"ingredients" binding:"max=50,dive,max=100"`
	CustomIngredients string   `json:"custom_ingredients" binding:"max=500"`
	MealType          string   `json:"meal_type" binding:"required"`
	Cuisine           string   `json:"cuisine"`
}

// RegenerateRequest 重新產生食譜
type RegenerateRequest struct {
	Feedback string `json:"feedback" binding:"max=1000"`
}

// MealHandler 餐點處理器
type MealHandler struct {
	meals *meal.Service
}

// NewMealHandler 創建餐點處理器
func NewMealHandler(svc *meal.Service) *MealHandler {
	return &MealHandler{meals: svc}
}

// Catalog 食材、餐別與料理風格
func (h *MealHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.meals.Catalog())
}

// Generate 以選擇的食材產生食譜
func (h *MealHandler) Generate(c *gin.Context) {
	reqID := requestID(c)
	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", reqID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req GenerateMealRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.meals.Generate(c.Request.Context(), meal.GenerateParams{
		UserID:            userID(c),
		Ingredients:       req.Ingredients,
		CustomIngredients: req.CustomIngredients,
		MealType:          req.MealType,
		Cuisine:           req.Cuisine,
		RequestID:         reqID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("食譜生成成功",
		zap.String("request_id", reqID),
		zap.Uint("meal_id", m.ID),
		zap.Int("missing_ingredients", len(m.MissingIngredients)),
	)
	c.JSON(http.StatusCreated, m)
}

// History 食譜紀錄，favorites=true 只列收藏
func (h *MealHandler) History(c *gin.Context) {
	favoritesOnly := false
	if raw := c.Query("favorites"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "favorites must be a boolean")
			return
		}
		favoritesOnly = v
	}

	meals, err := h.meals.History(c.Request.Context(), userID(c), favoritesOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (h *MealHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := h.meals.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// ToggleFavorite 切換收藏
func (h *MealHandler) ToggleFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := h.meals.ToggleFavorite(c.Request.Context(), userID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": m.ID, "is_favorite": m.IsFavorite})
}

func (h *MealHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.meals.Delete(c.Request.Context(), userID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Regenerate 依回饋重新產生食譜
func (h *MealHandler) Regenerate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RegenerateRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	m, err := h.meals.Regenerate(c.Request.Context(), userID(c), id, req.Feedback, requestID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
