package meal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"health-heroes/internal/core/ai"
	aiservice "health-heroes/internal/core/ai/service"
	"health-heroes/internal/domain"
	"health-heroes/internal/pkg/common"
	"health-heroes/internal/repository"

	"go.uber.org/zap"
)

// TextGenerator AI 文字產生器
type TextGenerator interface {
	Generate(ctx context.Context, req aiservice.Request) (string, error)
}

// GenerateParams 產生食譜請求
type GenerateParams struct {
	UserID            uint
	Ingredients       []string
	CustomIngredients string
	MealType          string
	Cuisine           string
	RequestID         string
}

// Recipe AI 回傳的食譜
type Recipe struct {
	NameEN                string              `json:"name_en"`
	NameAR                string              `json:"name_ar"`
	Ingredients           []domain.Ingredient `json:"ingredients"`
	InstructionsEN        string              `json:"instructions_en"`
	InstructionsAR        string              `json:"instructions_ar"`
	PrepTime              string              `json:"prep_time"`
	CookTime              string              `json:"cook_time"`
	NutritionalBenefitsEN string              `json:"nutritional_benefits_en"`
	NutritionalBenefitsAR string              `json:"nutritional_benefits_ar"`
	WhyHealthyEN          string              `json:"why_healthy_en"`
	WhyHealthyAR          string              `json:"why_healthy_ar"`
}

// ParseRecipe 解析並驗證 AI 回應，缺少欄位視為無效回應
func ParseRecipe(raw string) (*Recipe, error) {
	obj, err := common.ExtractJSONObject(raw)
	if err != nil {
		return nil, common.ErrInvalidAIResponse.Wrap(err)
	}
	var r Recipe
	if err := common.ParseJSON(obj, &r); err != nil {
		// 模型偶爾輸出未加引號的鍵
		if err2 := common.ParseJSON(common.QuoteJSONKeys(obj), &r); err2 != nil {
			return nil, common.ErrInvalidAIResponse.Wrap(err)
		}
	}

	required := []struct {
		name  string
		value string
	}{
		{"name_en", r.NameEN},
		{"name_ar", r.NameAR},
		{"instructions_en", r.InstructionsEN},
		{"instructions_ar", r.InstructionsAR},
		{"prep_time", r.PrepTime},
		{"cook_time", r.CookTime},
		{"nutritional_benefits_en", r.NutritionalBenefitsEN},
		{"nutritional_benefits_ar", r.NutritionalBenefitsAR},
		{"why_healthy_en", r.WhyHealthyEN},
		{"why_healthy_ar", r.WhyHealthyAR},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, common.ErrInvalidAIResponse.WithMessage("missing required field: " + f.name)
		}
	}
	if len(r.Ingredients) == 0 {
		return nil, common.ErrInvalidAIResponse.WithMessage("missing required field: ingredients")
	}
	for i := range r.Ingredients {
		if strings.TrimSpace(r.Ingredients[i].NameEN) == "" {
			return nil, common.ErrInvalidAIResponse.WithMessage("each ingredient must have name_en")
		}
		if r.Ingredients[i].Icon == "" {
			r.Ingredients[i].Icon = DefaultIcon
		}
	}
	return &r, nil
}

// apply 將食譜內容寫入餐點並重新計算缺少的食材
func (r *Recipe) apply(m *domain.Meal) {
	m.NameEN = strings.TrimSpace(r.NameEN)
	m.NameAR = strings.TrimSpace(r.NameAR)
	m.Ingredients = r.Ingredients
	m.InstructionsEN = r.InstructionsEN
	m.InstructionsAR = r.InstructionsAR
	m.PrepTime = r.PrepTime
	m.CookTime = r.CookTime
	m.NutritionalBenefitsEN = r.NutritionalBenefitsEN
	m.NutritionalBenefitsAR = r.NutritionalBenefitsAR
	m.WhyHealthyEN = r.WhyHealthyEN
	m.WhyHealthyAR = r.WhyHealthyAR
	m.MissingIngredients = MissingIngredients(m.Ingredients, m.SelectedIngredients)
}

// Service 餐點產生與歷史
type Service struct {
	ai       TextGenerator
	meals    repository.MealRepo
	families repository.FamilyRepo
	now      func() time.Time
}

// NewService 創建餐點服務
func NewService(gen TextGenerator, meals repository.MealRepo, families repository.FamilyRepo) *Service {
	return &Service{
		ai:       gen,
		meals:    meals,
		families: families,
		now:      time.Now,
	}
}

// Catalog 回傳食材、餐點類型與菜系
func (s *Service) Catalog() Catalog {
	return Catalog{Ingredients: Ingredients, MealTypes: MealTypes, Cuisines: Cuisines}
}

// ResolveSelected 目錄內的名稱轉成完整雙語食材，其餘以原名填入兩種語言
func ResolveSelected(names []string, custom string) []domain.Ingredient {
	all := append(append([]string{}, names...), common.SplitCommaList(custom)...)
	seen := make(map[string]bool, len(all))
	out := make([]domain.Ingredient, 0, len(all))
	for _, n := range all {
		n = strings.TrimSpace(n)
		key := NormalizeName(n)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if item, ok := FindIngredient(n); ok {
			out = append(out, item)
			continue
		}
		out = append(out, domain.Ingredient{NameEN: n, NameAR: n})
	}
	return out
}

// Generate 依選擇的食材產生食譜並保存
func (s *Service) Generate(ctx context.Context, p GenerateParams) (*domain.Meal, error) {
	selected := ResolveSelected(p.Ingredients, p.CustomIngredients)
	if len(selected) == 0 {
		return nil, common.NewValidationError("please select at least one ingredient")
	}
	mealType, ok := FindOption(MealTypes, p.MealType)
	if !ok {
		return nil, common.NewValidationError("please select a valid meal type")
	}
	cuisineKey := p.Cuisine
	if strings.TrimSpace(cuisineKey) == "" {
		cuisineKey = DefaultCuisine
	}
	cuisine, ok := FindOption(Cuisines, cuisineKey)
	if !ok {
		return nil, common.NewValidationError(fmt.Sprintf("unknown cuisine %q", p.Cuisine))
	}

	profile, err := s.families.GetByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(selected))
	for i, ing := range selected {
		names[i] = ing.NameEN
	}
	prompt := BuildGenerationPrompt(PromptInput{
		Ingredients:  names,
		MealType:     mealType.Key,
		Cuisine:      cuisine.Key,
		Children:     profile.Children,
		Restrictions: CollectRestrictions(profile.Children),
		Now:          s.now(),
	})

	raw, err := s.ai.Generate(ctx, aiservice.Request{
		Purpose:   ai.PurposeMeal,
		Prompt:    prompt,
		Cacheable: true,
		RequestID: p.RequestID,
	})
	if err != nil {
		return nil, err
	}
	recipe, err := ParseRecipe(raw)
	if err != nil {
		common.LogWarn("食譜回應無效",
			zap.String("request_id", p.RequestID),
			zap.Error(err),
		)
		return nil, err
	}

	meal := &domain.Meal{
		UserID:              p.UserID,
		MealType:            mealType.Key,
		Cuisine:             cuisine.Key,
		SelectedIngredients: selected,
	}
	recipe.apply(meal)
	if err := s.meals.Create(ctx, meal); err != nil {
		return nil, fmt.Errorf("save meal: %w", err)
	}

	common.LogInfo("食譜產生完成",
		zap.String("request_id", p.RequestID),
		zap.Uint("meal_id", meal.ID),
		zap.String("meal_type", meal.MealType),
		zap.Int("missing", len(meal.MissingIngredients)),
	)
	return meal, nil
}

// Get 取得使用者的餐點
func (s *Service) Get(ctx context.Context, userID, mealID uint) (*domain.Meal, error) {
	return s.meals.GetForUser(ctx, userID, mealID)
}

// History 使用者的餐點，新的在前
func (s *Service) History(ctx context.Context, userID uint, favoritesOnly bool) ([]domain.Meal, error) {
	meals, err := s.meals.ListForUser(ctx, userID, favoritesOnly)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	if meals == nil {
		meals = []domain.Meal{}
	}
	return meals, nil
}

// ToggleFavorite 切換收藏狀態
func (s *Service) ToggleFavorite(ctx context.Context, userID, mealID uint) (*domain.Meal, error) {
	meal, err := s.meals.GetForUser(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}
	meal.IsFavorite = !meal.IsFavorite
	if err := s.meals.Save(ctx, meal); err != nil {
		return nil, fmt.Errorf("save meal: %w", err)
	}
	return meal, nil
}

// Delete 刪除餐點
func (s *Service) Delete(ctx context.Context, userID, mealID uint) error {
	return s.meals.Delete(ctx, userID, mealID)
}

// Regenerate 依回饋重新產生食譜，直接更新原記錄，不使用快取
func (s *Service) Regenerate(ctx context.Context, userID, mealID uint, feedback, requestID string) (*domain.Meal, error) {
	meal, err := s.meals.GetForUser(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}
	profile, err := s.families.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, err := s.ai.Generate(ctx, aiservice.Request{
		Purpose:     ai.PurposeMealRevision,
		Prompt:      BuildRegenerationPrompt(meal, feedback, CollectRestrictions(profile.Children)),
		Temperature: 1.0,
		RequestID:   requestID,
	})
	if err != nil {
		return nil, err
	}
	recipe, err := ParseRecipe(raw)
	if err != nil {
		return nil, err
	}

	recipe.apply(meal)
	if err := s.meals.Save(ctx, meal); err != nil {
		return nil, fmt.Errorf("save meal: %w", err)
	}
	common.LogInfo("食譜已重新產生",
		zap.String("request_id", requestID),
		zap.Uint("meal_id", meal.ID),
	)
	return meal, nil
}
