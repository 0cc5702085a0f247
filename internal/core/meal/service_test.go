package meal

import (
	"context"
	"errors"
	"testing"
	"time"

	"health-heroes/internal/core/ai/aitest"
	aiservice "health-heroes/internal/core/ai/service"
	"health-heroes/internal/domain"
	"health-heroes/internal/pkg/common"
	"health-heroes/internal/repository"
	"health-heroes/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipeJSON = `{
  "name_en": "Chicken Machboos",
  "name_ar": "مكبوس دجاج",
  "ingredients": [
    {"name_en": "Chicken", "name_ar": "دجاج", "amount": "500g", "icon": "🍗"},
    {"name_en": "Rice (Basmati)", "name_ar": "أرز بسمتي", "amount": "2 cups"},
    {"name_en": "Dried Lemon", "name_ar": "لومي", "amount": "2"}
  ],
  "instructions_en": "Step 1: Say Bismillah",
  "instructions_ar": "الخطوة 1: قل بسم الله",
  "prep_time": "15 minutes",
  "cook_time": "45 minutes",
  "nutritional_benefits_en": "Protein.",
  "nutritional_benefits_ar": "بروتين.",
  "why_healthy_en": "Balanced.",
  "why_healthy_ar": "متوازن."
}`

func newMealService(t *testing.T, responses ...string) (*Service, *aitest.Provider, uint) {
	t.Helper()
	db := testutil.DB(t)
	user, profile := testutil.CreateUser(t, db, "cook@example.com")
	require.NoError(t, db.Create(&domain.Child{
		FamilyID:            profile.ID,
		Name:                "Sara",
		Birthdate:           time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		DietaryRestrictions: []string{"peanuts"},
	}).Error)

	fake := aitest.NewProvider(responses...)
	svc := NewService(aiservice.NewService(fake, nil), repository.NewMealRepo(db), repository.NewFamilyRepo(db))
	return svc, fake, user.ID
}

func TestParseRecipe(t *testing.T) {
	r, err := ParseRecipe("```json\n" + recipeJSON + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Chicken Machboos", r.NameEN)
	assert.Equal(t, "🍗", r.Ingredients[0].Icon)
	assert.Equal(t, DefaultIcon, r.Ingredients[1].Icon)

	_, err = ParseRecipe(`{"name_en": "x"}`)
	assert.True(t, errors.Is(err, common.ErrInvalidAIResponse))
	assert.Contains(t, err.Error(), "name_ar")

	_, err = ParseRecipe(`{name_en: "x"}`)
	assert.True(t, errors.Is(err, common.ErrInvalidAIResponse))
	assert.Contains(t, err.Error(), "name_ar")

	_, err = ParseRecipe("I can't do that")
	assert.True(t, errors.Is(err, common.ErrInvalidAIResponse))
}

func TestResolveSelected(t *testing.T) {
	got := ResolveSelected([]string{"chicken", "Saffron", ""}, " saffron, Quinoa ,, ")
	require.Len(t, got, 3)
	assert.Equal(t, domain.Ingredient{NameEN: "Chicken", NameAR: "دجاج", Icon: "🍗"}, got[0])
	assert.Equal(t, domain.Ingredient{NameEN: "Saffron", NameAR: "Saffron"}, got[1])
	assert.Equal(t, "Quinoa", got[2].NameEN)
}

func TestGenerateMeal(t *testing.T) {
	svc, fake, userID := newMealService(t, recipeJSON)
	ctx := context.Background()

	meal, err := svc.Generate(ctx, GenerateParams{
		UserID:      userID,
		Ingredients: []string{"chicken"},
		MealType:    "lunch",
	})
	require.NoError(t, err)
	assert.NotZero(t, meal.ID)
	assert.Equal(t, "arabic", meal.Cuisine)
	assert.Equal(t, []string{"Rice (Basmati)", "Dried Lemon"}, names(meal.MissingIngredients))

	prompt := fake.LastRequest().Messages[0].Content
	assert.Contains(t, prompt, "peanuts")
	assert.Contains(t, prompt, "MEAL TYPE: Lunch")
	assert.Contains(t, prompt, "Machboos")

	stored, err := svc.Get(ctx, userID, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, meal.MissingIngredients, stored.MissingIngredients)
}

func TestGenerateMealValidation(t *testing.T) {
	svc, fake, userID := newMealService(t, recipeJSON)
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerateParams{UserID: userID, MealType: "lunch"})
	assert.True(t, common.IsValidationError(err))

	_, err = svc.Generate(ctx, GenerateParams{UserID: userID, Ingredients: []string{"Eggs"}, MealType: "brunch"})
	assert.True(t, common.IsValidationError(err))

	_, err = svc.Generate(ctx, GenerateParams{UserID: userID, Ingredients: []string{"Eggs"}, MealType: "lunch", Cuisine: "martian"})
	assert.True(t, common.IsValidationError(err))

	assert.Zero(t, fake.Calls())
}

func TestGenerateMealBadAIResponse(t *testing.T) {
	svc, _, userID := newMealService(t, `{"name_en": "Soup"}`)

	_, err := svc.Generate(context.Background(), GenerateParams{UserID: userID, Ingredients: []string{"Lentils"}, MealType: "dinner"})
	require.Error(t, err)
	status, _ := common.ToResponse(err)
	assert.Equal(t, 502, status)

	history, err := svc.History(context.Background(), userID, false)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestGenerateMealAIUnavailable(t *testing.T) {
	svc, fake, userID := newMealService(t)
	fake.FailWith(errors.New("connection refused"))

	_, err := svc.Generate(context.Background(), GenerateParams{UserID: userID, Ingredients: []string{"Lentils"}, MealType: "dinner"})
	assert.True(t, errors.Is(err, common.ErrAIServiceError))
}

func TestMealLifecycle(t *testing.T) {
	revised := `{"name_en": "Chicken Salona", "name_ar": "صالونة دجاج",
	  "ingredients": [{"name_en": "chicken", "name_ar": "دجاج"}, {"name_en": "Zucchini", "name_ar": "كوسة"}],
	  "instructions_en": "a", "instructions_ar": "ب", "prep_time": "10", "cook_time": "30",
	  "nutritional_benefits_en": "a", "nutritional_benefits_ar": "ب", "why_healthy_en": "a", "why_healthy_ar": "ب"}`
	svc, fake, userID := newMealService(t, recipeJSON, revised)
	ctx := context.Background()

	meal, err := svc.Generate(ctx, GenerateParams{UserID: userID, Ingredients: []string{"Chicken"}, MealType: "dinner", Cuisine: "international"})
	require.NoError(t, err)

	fav, err := svc.ToggleFavorite(ctx, userID, meal.ID)
	require.NoError(t, err)
	assert.True(t, fav.IsFavorite)

	favorites, err := svc.History(ctx, userID, true)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)

	updated, err := svc.Regenerate(ctx, userID, meal.ID, "less spicy", "req-1")
	require.NoError(t, err)
	assert.Equal(t, meal.ID, updated.ID)
	assert.Equal(t, "Chicken Salona", updated.NameEN)
	assert.Equal(t, []string{"Zucchini"}, names(updated.MissingIngredients))
	assert.Equal(t, DefaultIcon, updated.Ingredients[1].Icon)
	assert.Contains(t, fake.LastRequest().Messages[0].Content, "less spicy")
	assert.InDelta(t, 1.0, fake.LastRequest().Temperature, 0.001)

	_, err = svc.Get(ctx, userID+100, meal.ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	require.NoError(t, svc.Delete(ctx, userID, meal.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, userID, meal.ID), common.ErrNotFound))
}
