package meal

import (
	"strings"

	"health-heroes/internal/domain"
)

// NormalizeName 食材比對用的名稱：去除前後空白並轉小寫
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MissingIngredients 回傳 all 中不在 selected 的食材，保留 all 的順序與完整內容。
// 空白名稱永遠不算已擁有。
func MissingIngredients(all, selected []domain.Ingredient) []domain.Ingredient {
	have := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		if name := NormalizeName(s.NameEN); name != "" {
			have[name] = struct{}{}
		}
	}

	missing := make([]domain.Ingredient, 0, len(all))
	for _, ing := range all {
		name := NormalizeName(ing.NameEN)
		if name != "" {
			if _, ok := have[name]; ok {
				continue
			}
		}
		missing = append(missing, ing)
	}
	return missing
}
