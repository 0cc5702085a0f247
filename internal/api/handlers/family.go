package handlers

import (
	"net/http"

	"health-heroes/internal/core/family"

	"github.com/gin-gonic/gin"
)

// SetupRequest 家庭設定
type SetupRequest struct {
	HomeResources []string `json:"home_resources" binding:"max=10"`
	Language      string   `json:"language" binding:"omitempty,oneof=en ar"`
	BreakfastTime string   `json:"breakfast_time" binding:"omitempty,datetime=15:04"`
	LunchTime     string   `json:"lunch_time" binding:"omitempty,datetime=15:04"`
	DinnerTime    string   `json:"dinner_time" binding:"omitempty,datetime=15:04"`
}

// ChildRequest 新增孩子
type ChildRequest struct {
	Name                string   `json:"name" binding:"required,notblank,max=100"`
	Birthdate           string   `json:"birthdate" binding:"required,datetime=2006-01-02"`
	Gender              string   `json:"gender" binding:"required,oneof=male female"`
	Interests           []string `json:"interests" binding:"max=20,dive,max=50"`
	DietaryRestrictions []string `json:"dietary_restrictions" binding:"max=20,dive,max=50"`
	OtherAllergies      string   `json:"other_allergies" binding:"max=500"`
	SpecialNeeds        string   `json:"special_needs" binding:"max=1000"`
}

// FamilyHandler 家庭設定處理器
type FamilyHandler struct {
	family *family.Service
}

// NewFamilyHandler 創建家庭設定處理器
func NewFamilyHandler(svc *family.Service) *FamilyHandler {
	return &FamilyHandler{family: svc}
}

func (h *FamilyHandler) Get(c *gin.Context) {
	view, err := h.family.View(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *FamilyHandler) Setup(c *gin.Context) {
	var req SetupRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.family.Setup(c.Request.Context(), userID(c), family.SetupParams{
		HomeResources: req.HomeResources,
		Language:      req.Language,
		BreakfastTime: req.BreakfastTime,
		LunchTime:     req.LunchTime,
		DinnerTime:    req.DinnerTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *FamilyHandler) Children(c *gin.Context) {
	children, err := h.family.Children(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"children": children})
}

func (h *FamilyHandler) AddChild(c *gin.Context) {
	var req ChildRequest
	if !bindJSON(c, &req) {
		return
	}
	child, err := h.family.AddChild(c.Request.Context(), userID(c), family.ChildParams{
		Name:                req.Name,
		Birthdate:           req.Birthdate,
		Gender:              req.Gender,
		Interests:           req.Interests,
		DietaryRestrictions: req.DietaryRestrictions,
		OtherAllergies:      req.OtherAllergies,
		SpecialNeeds:        req.SpecialNeeds,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, child)
}

func (h *FamilyHandler) DeleteChild(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.family.DeleteChild(c.Request.Context(), userID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
