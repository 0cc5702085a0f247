package meal

import (
	"testing"

	"health-heroes/internal/domain"

	"github.com/stretchr/testify/assert"
)

func names(in []domain.Ingredient) []string {
	out := make([]string, len(in))
	for i, ing := range in {
		out[i] = ing.NameEN
	}
	return out
}

func TestMissingIngredientsCaseInsensitive(t *testing.T) {
	all := []domain.Ingredient{{NameEN: "Chicken"}, {NameEN: "Rice"}, {NameEN: "Salt"}}
	selected := []domain.Ingredient{{NameEN: "chicken"}}

	assert.Equal(t, []domain.Ingredient{{NameEN: "Rice"}, {NameEN: "Salt"}}, MissingIngredients(all, selected))
}

func TestMissingIngredientsKeepsFullRecordsAndOrder(t *testing.T) {
	all := []domain.Ingredient{
		{NameEN: "Tomato", NameAR: "طماطم", Amount: "2", Icon: "🍅"},
		{NameEN: " Onion ", NameAR: "بصل", Amount: "1"},
		{NameEN: "Garlic", NameAR: "ثوم", Amount: "3 cloves"},
	}
	selected := []domain.Ingredient{{NameEN: "garlic"}, {NameEN: "ONION"}, {NameEN: "Pepper"}}

	got := MissingIngredients(all, selected)
	assert.Equal(t, []domain.Ingredient{all[0]}, got)

	selected = []domain.Ingredient{{NameEN: "tomato"}}
	assert.Equal(t, []string{" Onion ", "Garlic"}, names(MissingIngredients(all, selected)))
}

func TestMissingIngredientsBlankNames(t *testing.T) {
	all := []domain.Ingredient{{NameEN: ""}, {NameEN: "  "}, {NameEN: "Salt"}}
	selected := []domain.Ingredient{{NameEN: ""}, {NameEN: " "}}

	assert.Equal(t, all, MissingIngredients(all, selected))
}

func TestMissingIngredientsEmptyInputs(t *testing.T) {
	all := []domain.Ingredient{{NameEN: "Milk"}}

	assert.Equal(t, all, MissingIngredients(all, nil))
	got := MissingIngredients(nil, all)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMissingIngredientsIdempotent(t *testing.T) {
	all := []domain.Ingredient{{NameEN: "Oats"}, {NameEN: "Milk"}, {NameEN: "Honey"}, {NameEN: "Banana"}}
	selected := []domain.Ingredient{{NameEN: "milk"}}

	first := MissingIngredients(all, selected)
	assert.Equal(t, first, MissingIngredients(all, selected))

	// 已擁有的名稱重複加入不影響結果
	assert.Equal(t, first, MissingIngredients(all, append(selected, domain.Ingredient{NameEN: "MILK "})))

	// 把缺少的全部標為已擁有後不再缺少
	marked := append(append([]domain.Ingredient{}, selected...), first...)
	assert.Empty(t, MissingIngredients(all, marked))
}
