package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Ingredient 雙語食材，比對時僅以 name_en 為準
type Ingredient struct {
	NameEN string `json:"name_en"`
	NameAR string `json:"name_ar"`
	Amount string `json:"amount,omitempty"`
	Icon   string `json:"icon,omitempty"`
}

// Meal AI 產生的食譜
type Meal struct {
	ID                    uint                            `gorm:"primaryKey" json:"id"`
	UserID                uint                            `gorm:"not null;index" json:"user_id"`
	NameEN                string                          `gorm:"size:200;not null" json:"name_en"`
	NameAR                string                          `gorm:"size:200" json:"name_ar"`
	MealType              string                          `gorm:"size:20;index" json:"meal_type"`
	Cuisine               string                          `gorm:"size:20" json:"cuisine"`
	Ingredients           datatypes.JSONSlice[Ingredient] `gorm:"type:json" json:"ingredients"`
	SelectedIngredients   datatypes.JSONSlice[Ingredient] `gorm:"type:json" json:"selected_ingredients"`
	MissingIngredients    datatypes.JSONSlice[Ingredient] `gorm:"type:json" json:"missing_ingredients"`
	InstructionsEN        string                          `gorm:"type:text" json:"instructions_en"`
	InstructionsAR        string                          `gorm:"type:text" json:"instructions_ar"`
	PrepTime              string                          `gorm:"size:50" json:"prep_time"`
	CookTime              string                          `gorm:"size:50" json:"cook_time"`
	NutritionalBenefitsEN string                          `gorm:"type:text" json:"nutritional_benefits_en"`
	NutritionalBenefitsAR string                          `gorm:"type:text" json:"nutritional_benefits_ar"`
	WhyHealthyEN          string                          `gorm:"type:text" json:"why_healthy_en"`
	WhyHealthyAR          string                          `gorm:"type:text" json:"why_healthy_ar"`
	IsFavorite            bool                            `gorm:"not null;default:false;index" json:"is_favorite"`
	CreatedAt             time.Time                       `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time                       `json:"updated_at"`
}
