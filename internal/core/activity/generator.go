package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"health-heroes/internal/core/ai"
	"health-heroes/internal/core/ai/queue"
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

// Combination 一次批次產生的條件
type Combination struct {
	HomeArea string
	Category string
	AgeRange string
}

func (c Combination) String() string {
	return c.HomeArea + "/" + c.Category + "/" + c.AgeRange
}

// AllCombinations 所有空間、類別、年齡區間的組合
func AllCombinations() []Combination {
	out := make([]Combination, 0, len(HomeAreas)*len(Categories)*len(AgeRanges))
	for _, area := range HomeAreas {
		for _, category := range Categories {
			for _, ageRange := range AgeRanges {
				out = append(out, Combination{HomeArea: area.Key, Category: category.Key, AgeRange: ageRange})
			}
		}
	}
	return out
}

// GeneratorConfig 批次產生參數
type GeneratorConfig struct {
	PerCombination int
	MaxRetries     int
	RetryWait      time.Duration
	Workers        int
	BatchSize      int
}

// DefaultGeneratorConfig 每組 5 個、失敗重試 2 次、每 10 筆寫入一次
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PerCombination: 5,
		MaxRetries:     2,
		RetryWait:      3 * time.Second,
		Workers:        3,
		BatchSize:      10,
	}
}

// Generator 以 AI 離線產生活動並寫入資料庫
type Generator struct {
	ai     TextGenerator
	repo   repository.ActivityRepo
	config GeneratorConfig
}

// NewGenerator 創建活動產生器
func NewGenerator(gen TextGenerator, repo repository.ActivityRepo, cfg GeneratorConfig) *Generator {
	def := DefaultGeneratorConfig()
	if cfg.PerCombination <= 0 {
		cfg.PerCombination = def.PerCombination
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	return &Generator{ai: gen, repo: repo, config: cfg}
}

// Report 產生結果
type Report struct {
	Generated int      `json:"generated"`
	Saved     int      `json:"saved"`
	Failed    []string `json:"failed,omitempty"`
}

// Run 透過工作佇列平行產生每個組合的活動，全部完成後分批寫入
func (g *Generator) Run(ctx context.Context, combos []Combination) (*Report, error) {
	q := queue.NewManager(g.config.Workers, len(combos))
	q.Start(ctx)

	var (
		mu        sync.Mutex
		generated []domain.Activity
	)
	results := make([]<-chan queue.Result, 0, len(combos))
	for _, combo := range combos {
		combo := combo
		ch, err := q.Enqueue(ctx, combo.String(), func(ctx context.Context) error {
			batch, err := g.GenerateBatch(ctx, combo)
			if err != nil {
				return err
			}
			mu.Lock()
			generated = append(generated, batch...)
			mu.Unlock()
			return nil
		})
		if err != nil {
			q.Close()
			return nil, fmt.Errorf("enqueue %s: %w", combo, err)
		}
		results = append(results, ch)
	}

	report := &Report{}
	for _, ch := range results {
		select {
		case r := <-ch:
			if r.Error != nil {
				report.Failed = append(report.Failed, r.Name)
			}
		case <-ctx.Done():
			q.Close()
			return nil, ctx.Err()
		}
	}
	q.Close()
	status := q.GetQueueStatus()
	common.LogInfo("工作佇列已結束",
		zap.Int("processed", status.ProcessedCount),
		zap.Int("failed", status.FailedCount),
		zap.Int("workers", status.Workers),
	)

	report.Generated = len(generated)
	if err := g.repo.CreateInBatches(ctx, generated, g.config.BatchSize); err != nil {
		return report, fmt.Errorf("save activities: %w", err)
	}
	report.Saved = len(generated)

	common.LogInfo("活動產生完成",
		zap.Int("combinations", len(combos)),
		zap.Int("saved", report.Saved),
		zap.Strings("failed", report.Failed),
	)
	return report, nil
}

// GenerateBatch 產生單一組合的活動，回應無效時重試
func (g *Generator) GenerateBatch(ctx context.Context, combo Combination) ([]domain.Activity, error) {
	prompt := BuildBatchPrompt(combo, g.config.PerCombination)

	var lastErr error
	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			common.LogWarn("重試產生活動",
				zap.String("combination", combo.String()),
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			select {
			case <-time.After(g.config.RetryWait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		raw, err := g.ai.Generate(ctx, aiservice.Request{
			Purpose: ai.PurposeActivities,
			Prompt:  prompt,
		})
		if err != nil {
			lastErr = err
			continue
		}
		activities, err := ParseActivities(raw, combo)
		if err != nil {
			lastErr = err
			continue
		}
		return activities, nil
	}
	return nil, fmt.Errorf("generate %s: %w", combo, lastErr)
}

// rawActivity AI 回應中的單一活動
type rawActivity struct {
	TitleEN       string            `json:"title_en"`
	TitleAR       string            `json:"title_ar"`
	DescriptionEN string            `json:"description_en"`
	DescriptionAR string            `json:"description_ar"`
	Duration      string            `json:"duration"`
	AgeRange      string            `json:"age_range"`
	Category      string            `json:"category"`
	Materials     []domain.Material `json:"materials"`
	StepsEN       []string          `json:"steps_en"`
	StepsAR       []string          `json:"steps_ar"`
	HomeArea      string            `json:"home_area"`
}

func (r rawActivity) missingFields() []string {
	var missing []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	check("title_en", r.TitleEN)
	check("title_ar", r.TitleAR)
	check("description_en", r.DescriptionEN)
	check("description_ar", r.DescriptionAR)
	check("duration", r.Duration)
	if len(r.Materials) == 0 {
		missing = append(missing, "materials")
	}
	if len(r.StepsEN) == 0 {
		missing = append(missing, "steps_en")
	}
	if len(r.StepsAR) == 0 {
		missing = append(missing, "steps_ar")
	}
	return missing
}

func (r rawActivity) toDomain() domain.Activity {
	return domain.Activity{
		TitleEN:          strings.TrimSpace(r.TitleEN),
		TitleAR:          strings.TrimSpace(r.TitleAR),
		DescriptionEN:    strings.TrimSpace(r.DescriptionEN),
		DescriptionAR:    strings.TrimSpace(r.DescriptionAR),
		AgeRange:         r.AgeRange,
		Duration:         strings.TrimSpace(r.Duration),
		Category:         common.NormalizeTag(r.Category),
		Materials:        r.Materials,
		StepsEN:          r.StepsEN,
		StepsAR:          r.StepsAR,
		HomeRequirements: []string{common.NormalizeTag(r.HomeArea)},
	}
}

// ParseActivities 解析 AI 回應，略過缺少欄位的項目；全部無效時回傳錯誤。
// 類別、年齡區間與家中空間一律以 combo 為準。
func ParseActivities(raw string, combo Combination) ([]domain.Activity, error) {
	items, err := decodeActivities(raw)
	if err != nil {
		return nil, common.ErrInvalidAIResponse.Wrap(err)
	}

	activities := make([]domain.Activity, 0, len(items))
	for i, item := range items {
		if missing := item.missingFields(); len(missing) > 0 {
			common.LogWarn("活動缺少欄位",
				zap.Int("index", i),
				zap.Strings("missing", missing),
			)
			continue
		}
		item.Category = combo.Category
		item.AgeRange = combo.AgeRange
		item.HomeArea = combo.HomeArea
		activities = append(activities, item.toDomain())
	}
	if len(activities) == 0 {
		return nil, common.ErrInvalidAIResponse.WithMessage("no valid activities generated")
	}
	return activities, nil
}

// decodeActivities 接受 {"activities": [...]} 或直接的陣列
func decodeActivities(raw string) ([]rawActivity, error) {
	text := common.StripCodeFence(raw)

	if obj, err := common.ExtractJSONObject(text); err == nil {
		var wrapper struct {
			Activities []rawActivity `json:"activities"`
		}
		if err := common.ParseJSON(obj, &wrapper); err == nil && wrapper.Activities != nil {
			return wrapper.Activities, nil
		}
	}

	arr, err := common.ExtractJSONArray(text)
	if err != nil {
		return nil, fmt.Errorf("missing 'activities' array in response: %w", err)
	}
	var items []rawActivity
	if err := common.ParseJSON(arr, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// LoadFile 從 JSON 檔案載入活動，格式與 AI 回應相同；每筆需自帶 category、age_range、home_area
func LoadFile(path string) ([]domain.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	items, err := decodeActivities(string(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	activities := make([]domain.Activity, 0, len(items))
	for i, item := range items {
		if missing := item.missingFields(); len(missing) > 0 {
			return nil, fmt.Errorf("activity %d missing fields: %s", i+1, strings.Join(missing, ", "))
		}
		if !IsCategory(item.Category) {
			return nil, fmt.Errorf("activity %d has unknown category %q", i+1, item.Category)
		}
		if !IsAgeRange(item.AgeRange) {
			return nil, fmt.Errorf("activity %d has unknown age range %q", i+1, item.AgeRange)
		}
		if !IsHomeArea(item.HomeArea) {
			return nil, fmt.Errorf("activity %d has unknown home area %q", i+1, item.HomeArea)
		}
		activities = append(activities, item.toDomain())
	}
	return activities, nil
}

// SaveAll 分批寫入
func (g *Generator) SaveAll(ctx context.Context, activities []domain.Activity) error {
	return g.repo.CreateInBatches(ctx, activities, g.config.BatchSize)
}

// BuildBatchPrompt 產生批次活動提示
func BuildBatchPrompt(combo Combination, n int) string {
	area, _ := FindOption(HomeAreas, combo.HomeArea)
	category, _ := FindOption(Categories, combo.Category)

	var b strings.Builder
	b.WriteString("You are a child development expert creating screen-free activities for Arab families in the UAE.\n\n")
	fmt.Fprintf(&b, "Generate %d DIFFERENT and UNIQUE activities with these specifications:\n\n", n)
	b.WriteString("SPECIFICATIONS:\n")
	fmt.Fprintf(&b, "- Location: %s (%s)\n", area.EN, area.AR)
	fmt.Fprintf(&b, "- Category: %s (%s)\n", category.EN, category.AR)
	fmt.Fprintf(&b, "- Age Range: %s\n", combo.AgeRange)
	fmt.Fprintf(&b, "- Duration: Choose from %s\n", strings.Join(Durations, ", "))
	b.WriteString("- Must be safe, fun, educational, and screen-free\n\n")
	fmt.Fprintf(&b, "Each activity must use a unique approach, different materials and different learning outcomes within %s.\n\n", category.EN)
	b.WriteString(CulturalRequirements)
	b.WriteString("\n\nLANGUAGE REQUIREMENTS:\n")
	b.WriteString("- Provide ALL activities in BOTH Arabic and English\n")
	b.WriteString("- Arabic must be natural and fluent (not machine-translated)\n")
	b.WriteString("- Keep language simple and age-appropriate\n\n")
	b.WriteString("SPECIAL GUIDELINES:\n")
	b.WriteString(CategoryGuidelines[combo.Category])
	b.WriteString("\n")
	b.WriteString(LocationGuidelines[combo.HomeArea])
	b.WriteString("\n\n")

	example := map[string]any{
		"activities": []map[string]any{{
			"title_en":       "Creative English Title (under 50 characters)",
			"title_ar":       "عنوان إبداعي بالعربية (أقل من 50 حرف)",
			"description_en": "One engaging sentence description (under 120 characters)",
			"description_ar": "وصف جذاب بجملة واحدة (أقل من 120 حرف)",
			"duration":       "one of: " + strings.Join(Durations, ", "),
			"age_range":      combo.AgeRange,
			"materials": []domain.Material{
				{NameEN: "Material name in English", NameAR: "اسم المادة بالعربية", Icon: "relevant emoji"},
			},
			"steps_en": []string{"Step 1: Clear instruction", "Step 2: Clear instruction"},
			"steps_ar": []string{"الخطوة 1: تعليمات واضحة", "الخطوة 2: تعليمات واضحة"},
		}},
	}
	format, _ := json.MarshalIndent(example, "", "  ")
	fmt.Fprintf(&b, "Provide %d activities in this EXACT JSON format (no markdown, no extra text):\n", n)
	b.Write(format)
	b.WriteString("\n\nREQUIREMENTS FOR EACH ACTIVITY:\n")
	b.WriteString("- Include 3-6 materials and 4-6 clear, simple steps\n")
	b.WriteString("- Steps should include Bismillah/Alhamdulillah when appropriate\n")
	b.WriteString("- Use relevant emojis for icons\n")
	return b.String()
}
