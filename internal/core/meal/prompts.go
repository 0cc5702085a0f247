package meal

import (
	"fmt"
	"strings"
	"time"

	"health-heroes/internal/domain"
)

const arabicGuidance = `CUISINE STYLE: Arabic/Middle Eastern
- Focus on traditional UAE and Middle Eastern recipes
- Use Arabic spices and cooking methods (cumin, cardamom, saffron, dried lemon)
- Include dishes like Machboos, Harees, Thareed, Salona, or similar traditional meals
- Emphasize family-style serving
- Use traditional cooking techniques (one-pot meals, slow cooking, etc.)`

const internationalGuidance = `CUISINE STYLE: International (Healthy Global)
- Can include Western, Asian, Mediterranean, or fusion dishes
- Focus on internationally recognized healthy meals
- Ensure ingredients and methods are accessible in UAE supermarkets
- Keep it child-friendly and nutritious
- Examples: pasta dishes, stir-fries, salads, grain bowls, etc.`

const culturalRequirements = `CRITICAL UAE/ISLAMIC CULTURAL REQUIREMENTS:
- Start cooking with "Bismillah" (بسم الله) in instructions
- ONLY Halal ingredients (no pork, alcohol, non-halal gelatin)
- Use ingredients commonly available in UAE supermarkets
- Consider UAE climate and preferences
- Family-oriented meal (suitable for sharing)
- Emphasize fresh, wholesome ingredients`

const outputFormat = `OUTPUT FORMAT (STRICT JSON):
{
    "name_en": "Appealing recipe name in English (max 50 chars)",
    "name_ar": "اسم الوصفة بالعربية (max 50 chars)",
    "ingredients": [
        {
            "name_en": "ingredient name",
            "name_ar": "اسم المكون",
            "amount": "quantity with unit (e.g., 2 cups, 100g)",
            "icon": "relevant emoji"
        }
    ],
    "instructions_en": "Step 1: Say Bismillah and [instruction]\nStep 2: [instruction]\n...",
    "instructions_ar": "الخطوة 1: قل بسم الله و[التعليمات]\nالخطوة 2: [التعليمات]\n...",
    "prep_time": "X minutes",
    "cook_time": "Y minutes",
    "nutritional_benefits_en": "Brief explanation of key nutrients and health benefits (2-3 sentences)",
    "nutritional_benefits_ar": "شرح موجز للعناصر الغذائية الرئيسية والفوائد الصحية (2-3 جمل)",
    "why_healthy_en": "Parent-friendly explanation of why this meal is good for children (2-3 sentences)",
    "why_healthy_ar": "شرح للوالدين عن سبب فائدة هذه الوجبة للأطفال (2-3 جمل)"
}

IMPORTANT:
- Output ONLY valid JSON, no markdown, no code blocks, no extra text
- Arabic text must be natural and fluent (not machine-translated)
- All fields are required`

// PromptInput 產生食譜所需的家庭資訊
type PromptInput struct {
	Ingredients  []string
	MealType     string
	Cuisine      string
	Children     []domain.Child
	Restrictions []string
	Now          time.Time
}

// FormatChildren 孩子資訊摘要
func FormatChildren(children []domain.Child, now time.Time) string {
	if len(children) == 0 {
		return "No specific child profile provided. Create a generally healthy meal for children aged 2-8."
	}
	lines := make([]string, 0, len(children))
	for _, c := range children {
		line := fmt.Sprintf("- Child aged %d years", c.Age(now))
		if len(c.DietaryRestrictions) > 0 {
			line += ", allergic to: " + strings.Join(c.DietaryRestrictions, ", ")
		}
		if len(c.Interests) > 0 {
			line += ", interests: " + strings.Join(c.Interests, ", ")
		}
		if s := strings.TrimSpace(c.SpecialNeeds); s != "" {
			line += ", special needs: " + s
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// CollectRestrictions 合併所有孩子的飲食限制，去除空白與重複
func CollectRestrictions(children []domain.Child) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range children {
		for _, r := range c.DietaryRestrictions {
			key := NormalizeName(r)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, strings.TrimSpace(r))
		}
	}
	return out
}

// BuildGenerationPrompt 產生食譜提示
func BuildGenerationPrompt(in PromptInput) string {
	mealType := in.MealType
	if opt, ok := FindOption(MealTypes, in.MealType); ok {
		mealType = opt.EN
	}
	guidance := arabicGuidance
	if in.Cuisine == "international" {
		guidance = internationalGuidance
	}
	restrictions := "None - all common ingredients are safe"
	if len(in.Restrictions) > 0 {
		restrictions = "- " + strings.Join(in.Restrictions, "\n- ")
	}

	var b strings.Builder
	b.WriteString("You are a professional nutrition expert and chef specializing in healthy, child-friendly meals for families in the UAE.\n\n")
	fmt.Fprintf(&b, "FAMILY CONTEXT:\n%s\n\n", FormatChildren(in.Children, in.Now))
	fmt.Fprintf(&b, "DIETARY RESTRICTIONS (MUST AVOID):\n%s\n\n", restrictions)
	fmt.Fprintf(&b, "AVAILABLE INGREDIENTS:\n%s\n\n", strings.Join(in.Ingredients, ", "))
	fmt.Fprintf(&b, "MEAL TYPE: %s\n\n", mealType)
	b.WriteString(guidance)
	b.WriteString("\n\nYOUR TASK:\n")
	fmt.Fprintf(&b, "Create a healthy, delicious, and culturally appropriate %s recipe that:\n", mealType)
	b.WriteString("1. Uses mainly the available ingredients (common pantry items like salt, oil, spices are allowed)\n")
	b.WriteString("2. Respects all dietary restrictions - absolutely NO restricted ingredients\n")
	b.WriteString("3. Is child-friendly, nutritious and practical for busy parents\n")
	b.WriteString("4. Matches the requested cuisine style\n\n")
	b.WriteString(culturalRequirements)
	b.WriteString("\n\nRECIPE REQUIREMENTS:\n")
	b.WriteString("- Use the true known recipe name\n")
	b.WriteString("- Clear, simple numbered steps\n")
	b.WriteString("- Realistic prep and cook times\n\n")
	b.WriteString(outputFormat)
	return b.String()
}

// BuildRegenerationPrompt 依使用者回饋修改既有食譜
func BuildRegenerationPrompt(m *domain.Meal, feedback string, restrictions []string) string {
	names := make([]string, 0, len(m.Ingredients))
	for _, i := range m.Ingredients {
		names = append(names, i.NameEN)
	}
	if strings.TrimSpace(feedback) == "" {
		feedback = "Please suggest a different variation of this recipe."
	}

	var b strings.Builder
	b.WriteString("You previously created this meal recipe:\n")
	fmt.Fprintf(&b, "Name: %s\n", m.NameEN)
	fmt.Fprintf(&b, "Ingredients: %s\n\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "The user has provided this feedback:\n%q\n\n", feedback)
	b.WriteString("Please modify the recipe based on this feedback while:\n")
	b.WriteString("1. Keeping the same general concept\n")
	b.WriteString("2. Maintaining nutritional value\n")
	if len(restrictions) > 0 {
		fmt.Fprintf(&b, "3. Avoiding these restricted ingredients: %s\n", strings.Join(restrictions, ", "))
	} else {
		b.WriteString("3. Respecting all original dietary restrictions\n")
	}
	b.WriteString("4. Staying culturally appropriate for UAE families\n\n")
	b.WriteString(outputFormat)
	return b.String()
}
