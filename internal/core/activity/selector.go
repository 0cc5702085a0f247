package activity

import (
	"math/rand/v2"
	"sort"

	"health-heroes/internal/domain"
	"health-heroes/internal/infrastructure/config"
	"health-heroes/internal/pkg/common"
)

// Rand 選擇器使用的隨機來源
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Signals 評分模式的相關性訊號
type Signals struct {
	Interests     []string
	HomeResources []string
}

// SelectorConfig 評分參數
type SelectorConfig struct {
	InterestBonus     int
	ResourceBonus     int
	PinnedNumerator   int
	PinnedDenominator int
	CategoryInterests map[string]string
}

// DefaultSelectorConfig 興趣 +10、每項家中資源 +5、前 2/3 固定
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		InterestBonus:     10,
		ResourceBonus:     5,
		PinnedNumerator:   2,
		PinnedDenominator: 3,
		CategoryInterests: config.DefaultCategoryInterests(),
	}
}

// SelectorConfigFrom 由應用設定建立評分參數
func SelectorConfigFrom(cfg config.ActivityConfig) SelectorConfig {
	sc := SelectorConfig{
		InterestBonus:     cfg.InterestBonus,
		ResourceBonus:     cfg.ResourceBonus,
		PinnedNumerator:   cfg.PinnedNumerator,
		PinnedDenominator: cfg.PinnedDenominator,
		CategoryInterests: cfg.CategoryInterests,
	}
	defaults := DefaultSelectorConfig()
	if sc.PinnedDenominator <= 0 {
		sc.PinnedNumerator, sc.PinnedDenominator = defaults.PinnedNumerator, defaults.PinnedDenominator
	}
	if len(sc.CategoryInterests) == 0 {
		sc.CategoryInterests = defaults.CategoryInterests
	}
	return sc
}

// Selector 從候選活動中挑選要顯示的子集合。
// 無狀態，可被多個請求同時使用（隨機來源需為並發安全）。
type Selector struct {
	config SelectorConfig
	rng    Rand
}

// NewSelector 創建選擇器，rng 為 nil 時使用全域隨機來源
func NewSelector(cfg SelectorConfig, rng Rand) *Selector {
	if rng == nil {
		rng = globalRand{}
	}
	interests := make(map[string]string, len(cfg.CategoryInterests))
	for category, interest := range cfg.CategoryInterests {
		interests[common.NormalizeTag(category)] = common.NormalizeTag(interest)
	}
	cfg.CategoryInterests = interests
	return &Selector{config: cfg, rng: rng}
}

// Variety 多樣化模式：類別輪流各取一個，再從剩餘候選中隨機補滿
func (s *Selector) Variety(candidates []domain.Activity, limit int) []domain.Activity {
	pool := dedupe(candidates)
	if limit <= 0 || len(pool) == 0 {
		return []domain.Activity{}
	}

	var order []string
	buckets := make(map[string][]int)
	for i, a := range pool {
		category := common.NormalizeTag(a.Category)
		if category == "" {
			continue
		}
		if _, ok := buckets[category]; !ok {
			order = append(order, category)
		}
		buckets[category] = append(buckets[category], i)
	}
	s.shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	chosen := make([]bool, len(pool))
	result := make([]domain.Activity, 0, min(limit, len(pool)))
	for _, category := range order {
		if len(result) == limit {
			break
		}
		idx := buckets[category]
		pick := idx[s.rng.IntN(len(idx))]
		chosen[pick] = true
		result = append(result, pool[pick])
	}

	rest := make([]domain.Activity, 0, len(pool)-len(result))
	for i, a := range pool {
		if !chosen[i] {
			rest = append(rest, a)
		}
	}
	return append(result, s.sample(rest, limit-len(result))...)
}

// Ranked 評分模式：依分數排序，超過 limit 時固定前段、其餘隨機抽樣
func (s *Selector) Ranked(candidates []domain.Activity, limit int, signals Signals) []domain.Activity {
	pool := dedupe(candidates)
	if limit <= 0 || len(pool) == 0 {
		return []domain.Activity{}
	}

	interests := tagSet(signals.Interests)
	resources := tagSet(signals.HomeResources)
	scores := make([]int, len(pool))
	order := make([]int, len(pool))
	for i, a := range pool {
		scores[i] = s.Score(a, interests, resources)
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	ranked := make([]domain.Activity, len(order))
	for i, idx := range order {
		ranked[i] = pool[idx]
	}
	if len(ranked) <= limit {
		return ranked
	}

	pinned := s.pinnedCount(limit)
	result := make([]domain.Activity, 0, limit)
	result = append(result, ranked[:pinned]...)
	return append(result, s.sample(ranked[pinned:], limit-pinned)...)
}

// Select 有相關性訊號或已過濾時用評分模式，否則用多樣化模式
func (s *Selector) Select(candidates []domain.Activity, limit int, scored bool, signals Signals) []domain.Activity {
	if scored {
		return s.Ranked(candidates, limit, signals)
	}
	return s.Variety(candidates, limit)
}

// Score 計算單一活動的相關性分數
func (s *Selector) Score(a domain.Activity, interests, resources map[string]struct{}) int {
	score := 0
	if tag, ok := s.config.CategoryInterests[common.NormalizeTag(a.Category)]; ok {
		if _, hit := interests[tag]; hit {
			score += s.config.InterestBonus
		}
	}
	for req := range tagSet(a.HomeRequirements) {
		if _, ok := resources[req]; ok {
			score += s.config.ResourceBonus
		}
	}
	return score
}

// pinnedCount ceil(limit * num / den)
func (s *Selector) pinnedCount(limit int) int {
	num, den := s.config.PinnedNumerator, s.config.PinnedDenominator
	n := (limit*num + den - 1) / den
	return min(max(n, 0), limit)
}

// sample 不放回地均勻抽取 n 個
func (s *Selector) sample(items []domain.Activity, n int) []domain.Activity {
	if n <= 0 || len(items) == 0 {
		return nil
	}
	picked := make([]domain.Activity, len(items))
	copy(picked, items)
	n = min(n, len(picked))
	for i := 0; i < n; i++ {
		j := i + s.rng.IntN(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:n]
}

func (s *Selector) shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, s.rng.IntN(i+1))
	}
}

// dedupe 以 ID 去除重複，ID 為 0 視為未持久化的獨立記錄
func dedupe(candidates []domain.Activity) []domain.Activity {
	seen := make(map[uint]struct{}, len(candidates))
	out := make([]domain.Activity, 0, len(candidates))
	for _, a := range candidates {
		if a.ID != 0 {
			if _, ok := seen[a.ID]; ok {
				continue
			}
			seen[a.ID] = struct{}{}
		}
		out = append(out, a)
	}
	return out
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t = common.NormalizeTag(t); t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}
