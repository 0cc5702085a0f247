package activity

import "health-heroes/internal/pkg/common"

// Option 雙語選項
type Option struct {
	Key  string `json:"key"`
	EN   string `json:"en"`
	AR   string `json:"ar"`
	Icon string `json:"icon,omitempty"`
}

// Label 依語言取得顯示名稱
func (o Option) Label(lang common.Language) string {
	return lang.Pick(o.EN, o.AR)
}

// Categories 活動類別
var Categories = []Option{
	{Key: "games", EN: "Games & Play", AR: "ألعاب", Icon: "🎲"},
	{Key: "cooking", EN: "Healthy Cooking", AR: "طبخ الصحي", Icon: "🍳"},
	{Key: "creative", EN: "Arts & Crafts", AR: "فنون وحرف يدوية", Icon: "🎨"},
	{Key: "nature", EN: "Nature Activities", AR: "أنشطة في الطبيعة", Icon: "🌿"},
	{Key: "reading", EN: "Reading & Storytelling", AR: "قراءة ورواية القصص", Icon: "📚"},
	{Key: "science", EN: "Science Experiments", AR: "تجارب علمية", Icon: "🔬"},
}

// HomeAreas 家中可用空間
var HomeAreas = []Option{
	{Key: "kitchen", EN: "Kitchen Access", AR: "المطبخ", Icon: "🍽️"},
	{Key: "balcony", EN: "Balcony/Terrace", AR: "الشرفة", Icon: "🌇"},
	{Key: "garden", EN: "Garden/Backyard", AR: "الحديقة", Icon: "🌳"},
	{Key: "living_room", EN: "Living Room Space", AR: "غرفة المعيشة", Icon: "🛋️"},
	{Key: "outdoor_nearby", EN: "Nearby Park/Outdoor Space", AR: "حديقة قريبة أو مساحة خارجية", Icon: "🏞️"},
}

// AgeRanges 活動年齡區間
var AgeRanges = []string{
	"2-3 years",
	"3-5 years",
	"5-7 years",
	"7-8 years",
}

// Durations 活動時長
var Durations = []string{
	"5-10 min",
	"10-15 min",
	"15-30 min",
	"30-45 min",
}

// CulturalRequirements 產生活動時的文化要求
const CulturalRequirements = `CRITICAL UAE/ISLAMIC CULTURAL REQUIREMENTS:
1. Start activities with "Bismillah" (بسم الله) when appropriate
2. End with "Alhamdulillah" (الحمد لله) or gratitude expression when appropriate
3. 100% Halal ingredients ONLY (no pork, alcohol, non-halal gelatin)
4. Use ingredients commonly available in UAE markets
5. Consider UAE climate (very hot summers 40°C+, mild winters)
6. Family values: respect for parents, sibling cooperation, modesty
7. Activities should be modest and appropriate for conservative families
8. Promote healthy eating and active lifestyle aligned with Islamic teachings
9. Use natural Arabic terminology (not machine-translated)
10. Emphasize safety and parental supervision`

// CategoryGuidelines 類別專屬指引
var CategoryGuidelines = map[string]string{
	"cooking":  "ONLY healthy recipes with NO junk food, excessive sugar, or processed ingredients. Use fresh, wholesome ingredients.",
	"creative": "Use safe, non-toxic materials commonly found in UAE homes. Avoid small parts for younger children.",
	"nature":   "Consider UAE hot climate - outdoor activities should be early morning (6-9 AM) or evening (5-7 PM).",
	"reading":  "Include Islamic values and teachings naturally. Use stories with moral lessons.",
	"science":  "Use safe, simple experiments with household items. Emphasize adult supervision.",
	"games":    "Promote physical activity and family bonding. Ensure activities are safe indoors.",
}

// LocationGuidelines 空間專屬指引
var LocationGuidelines = map[string]string{
	"garden":         "Consider UAE hot climate - activities should be early morning or evening. Provide shade and water breaks.",
	"balcony":        "Ensure safety measures. Activities should be suitable for limited space and hot weather.",
	"outdoor_nearby": "Recommend early morning or evening timing. Emphasize sun protection and hydration.",
	"kitchen":        "Emphasize safety and adult supervision. Keep activities simple and mess-free.",
	"living_room":    "Ensure activities don't damage furniture. Keep space requirements minimal.",
}

// FindOption 依 key 查找選項
func FindOption(options []Option, key string) (Option, bool) {
	key = common.NormalizeTag(key)
	for _, o := range options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// IsCategory 檢查類別是否存在
func IsCategory(key string) bool {
	_, ok := FindOption(Categories, key)
	return ok
}

// IsHomeArea 檢查家中空間是否存在
func IsHomeArea(key string) bool {
	_, ok := FindOption(HomeAreas, key)
	return ok
}

// IsAgeRange 檢查年齡區間是否存在
func IsAgeRange(r string) bool {
	for _, a := range AgeRanges {
		if a == r {
			return true
		}
	}
	return false
}
