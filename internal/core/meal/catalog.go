package meal

import "health-heroes/internal/domain"

// DefaultIcon AI 未提供圖示時使用
const DefaultIcon = "🥘"

// DefaultCuisine 未指定菜系時使用
const DefaultCuisine = "arabic"

// IngredientCategory 食材分類
type IngredientCategory struct {
	Key   string              `json:"key"`
	EN    string              `json:"en"`
	AR    string              `json:"ar"`
	Items []domain.Ingredient `json:"items"`
}

// Option 餐點類型與菜系選項
type Option struct {
	Key           string `json:"key"`
	EN            string `json:"en"`
	AR            string `json:"ar"`
	Icon          string `json:"icon"`
	DescriptionEN string `json:"description_en,omitempty"`
	DescriptionAR string `json:"description_ar,omitempty"`
}

func ing(en, ar, icon string) domain.Ingredient {
	return domain.Ingredient{NameEN: en, NameAR: ar, Icon: icon}
}

// Ingredients 常見食材
var Ingredients = []IngredientCategory{
	{Key: "proteins", EN: "Proteins", AR: "البروتينات", Items: []domain.Ingredient{
		ing("Chicken", "دجاج", "🍗"),
		ing("Beef", "لحم بقري", "🥩"),
		ing("Lamb", "لحم خروف", "🍖"),
		ing("Fish", "سمك", "🐟"),
		ing("Shrimp", "روبيان", "🦐"),
		ing("Eggs", "بيض", "🥚"),
		ing("Lentils", "عدس", "🫘"),
		ing("Chickpeas", "حمص", "🫘"),
		ing("Fava Beans", "فول", "🫘"),
	}},
	{Key: "grains", EN: "Grains & Carbs", AR: "الحبوب والنشويات", Items: []domain.Ingredient{
		ing("Rice (Basmati)", "أرز بسمتي", "🍚"),
		ing("Brown Rice", "أرز بني", "🍚"),
		ing("Bread (Khubz)", "خبز", "🥖"),
		ing("Oats", "شوفان", "🌾"),
		ing("Pasta", "معكرونة", "🍝"),
		ing("Bulgur", "برغل", "🌾"),
		ing("Vermicelli", "شعيرية", "🍝"),
	}},
	{Key: "vegetables", EN: "Vegetables", AR: "الخضروات", Items: []domain.Ingredient{
		ing("Tomato", "طماطم", "🍅"),
		ing("Cucumber", "خيار", "🥒"),
		ing("Onion", "بصل", "🧅"),
		ing("Garlic", "ثوم", "🧄"),
		ing("Potato", "بطاطس", "🥔"),
		ing("Sweet Potato", "بطاطا حلوة", "🍠"),
		ing("Carrot", "جزر", "🥕"),
		ing("Zucchini", "كوسة", "🥒"),
		ing("Eggplant", "باذنجان", "🍆"),
		ing("Bell Pepper", "فلفل رومي", "🫑"),
		ing("Spinach", "سبانخ", "🥬"),
		ing("Lettuce", "خس", "🥬"),
		ing("Parsley", "بقدونس", "🌿"),
		ing("Mint", "نعناع", "🌿"),
		ing("Coriander", "كزبرة", "🌿"),
	}},
	{Key: "fruits", EN: "Fruits", AR: "الفواكه", Items: []domain.Ingredient{
		ing("Dates", "تمر", "🫒"),
		ing("Banana", "موز", "🍌"),
		ing("Apple", "تفاح", "🍎"),
		ing("Orange", "برتقال", "🍊"),
		ing("Mango", "مانجو", "🥭"),
		ing("Strawberries", "فراولة", "🍓"),
		ing("Grapes", "عنب", "🍇"),
		ing("Watermelon", "بطيخ", "🍉"),
		ing("Pomegranate", "رمان", "🍒"),
		ing("Lemon", "ليمون", "🍋"),
	}},
	{Key: "dairy", EN: "Dairy Products", AR: "منتجات الألبان", Items: []domain.Ingredient{
		ing("Milk", "حليب", "🥛"),
		ing("Yogurt (Laban)", "لبن", "🥛"),
		ing("Cheese (White)", "جبنة بيضاء", "🧀"),
		ing("Labneh", "لبنة", "🥛"),
		ing("Butter", "زبدة", "🧈"),
	}},
	{Key: "spices", EN: "Spices & Seasonings", AR: "البهارات والتوابل", Items: []domain.Ingredient{
		ing("Olive Oil", "زيت زيتون", "🫒"),
		ing("Vegetable Oil", "زيت نباتي", "🌻"),
		ing("Salt", "ملح", "🧂"),
		ing("Black Pepper", "فلفل أسود", "⚫"),
		ing("Cumin", "كمون", "🌿"),
		ing("Turmeric", "كركم", "🟡"),
		ing("Cinnamon", "قرفة", "🟤"),
		ing("Cardamom", "هيل", "🟢"),
		ing("Bay Leaves", "ورق غار", "🍃"),
		ing("Dried Lemon", "لومي", "🍋"),
	}},
	{Key: "others", EN: "Other Ingredients", AR: "مكونات أخرى", Items: []domain.Ingredient{
		ing("Honey", "عسل", "🍯"),
		ing("Tahini", "طحينة", "🥜"),
		ing("Tomato Paste", "معجون طماطم", "🍅"),
		ing("Nuts (Mixed)", "مكسرات", "🥜"),
	}},
}

// MealTypes 餐點類型
var MealTypes = []Option{
	{Key: "breakfast", EN: "Breakfast", AR: "فطور", Icon: "🌅"},
	{Key: "lunch", EN: "Lunch", AR: "غداء", Icon: "☀️"},
	{Key: "dinner", EN: "Dinner", AR: "عشاء", Icon: "🌙"},
	{Key: "snack", EN: "Snack", AR: "وجبة خفيفة", Icon: "🍎"},
	{Key: "dessert", EN: "Dessert", AR: "حلى", Icon: "🍰"},
}

// Cuisines 菜系
var Cuisines = []Option{
	{Key: "arabic", EN: "Arabic Cuisine", AR: "مطبخ عربي", Icon: "🕌",
		DescriptionEN: "Traditional UAE & Middle Eastern dishes", DescriptionAR: "أطباق إماراتية وشرق أوسطية تقليدية"},
	{Key: "international", EN: "International", AR: "عالمي", Icon: "🌍",
		DescriptionEN: "Healthy global cuisines", DescriptionAR: "مطابخ عالمية صحية"},
}

// Catalog 餐點相關選項
type Catalog struct {
	Ingredients []IngredientCategory `json:"ingredients"`
	MealTypes   []Option             `json:"meal_types"`
	Cuisines    []Option             `json:"cuisines"`
}

// FindIngredient 以英文或阿拉伯文名稱查找食材（不分大小寫）
func FindIngredient(name string) (domain.Ingredient, bool) {
	key := NormalizeName(name)
	if key == "" {
		return domain.Ingredient{}, false
	}
	for _, category := range Ingredients {
		for _, item := range category.Items {
			if NormalizeName(item.NameEN) == key || NormalizeName(item.NameAR) == key {
				return item, true
			}
		}
	}
	return domain.Ingredient{}, false
}

// FindOption 依 key 查找選項
func FindOption(options []Option, key string) (Option, bool) {
	key = NormalizeName(key)
	for _, o := range options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}
