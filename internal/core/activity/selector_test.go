package activity

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"health-heroes/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeActivities(perCategory map[string]int) []domain.Activity {
	var out []domain.Activity
	id := uint(1)
	for _, category := range []string{"games", "cooking", "creative", "nature", "reading", "science", ""} {
		for i := 0; i < perCategory[category]; i++ {
			out = append(out, domain.Activity{ID: id, TitleEN: fmt.Sprintf("%s-%d", category, i), Category: category})
			id++
		}
	}
	return out
}

func ids(activities []domain.Activity) []uint {
	out := make([]uint, len(activities))
	for i, a := range activities {
		out[i] = a.ID
	}
	return out
}

func categories(activities []domain.Activity) map[string]int {
	out := make(map[string]int)
	for _, a := range activities {
		out[a.Category]++
	}
	return out
}

func newTestSelector(seed uint64) *Selector {
	return NewSelector(DefaultSelectorConfig(), rand.New(rand.NewPCG(seed, seed+1)))
}

func TestVarietyTwoCategoriesLimitFour(t *testing.T) {
	candidates := makeActivities(map[string]int{"games": 3, "cooking": 3})

	for seed := uint64(0); seed < 50; seed++ {
		got := newTestSelector(seed).Variety(candidates, 4)
		require.Len(t, got, 4)
		counts := categories(got)
		assert.GreaterOrEqual(t, counts["games"], 1)
		assert.GreaterOrEqual(t, counts["cooking"], 1)
		assert.ElementsMatch(t, ids(got), uniq(ids(got)))
	}
}

func TestSelectFewerCandidatesThanLimit(t *testing.T) {
	candidates := makeActivities(map[string]int{"games": 1, "science": 1})
	s := newTestSelector(1)

	assert.Len(t, s.Variety(candidates, 6), 2)
	assert.Len(t, s.Ranked(candidates, 6, Signals{}), 2)
}

func TestSelectEmptyInputs(t *testing.T) {
	s := newTestSelector(1)
	candidates := makeActivities(map[string]int{"games": 3})

	for _, limit := range []int{0, -1} {
		got := s.Variety(candidates, limit)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Empty(t, s.Ranked(candidates, limit, Signals{}))
	}
	assert.Empty(t, s.Variety(nil, 6))
	assert.Empty(t, s.Ranked(nil, 6, Signals{Interests: []string{"sports"}}))
}

func TestSelectSizeAndUniqueness(t *testing.T) {
	candidates := makeActivities(map[string]int{"games": 4, "cooking": 2, "nature": 5, "": 2})
	// 重複的記錄只算一次
	withDupes := append(append([]domain.Activity{}, candidates...), candidates[0], candidates[3])

	for seed := uint64(0); seed < 20; seed++ {
		s := newTestSelector(seed)
		for limit := 0; limit <= len(candidates)+2; limit++ {
			want := min(limit, len(candidates))

			v := s.Variety(withDupes, limit)
			assert.Len(t, v, want)
			assert.Equal(t, uniq(ids(v)), ids(v))

			r := s.Ranked(withDupes, limit, Signals{Interests: []string{"outdoor"}})
			assert.Len(t, r, want)
			assert.Equal(t, uniq(ids(r)), ids(r))
		}
	}
}

func TestVarietyCoversEveryCategory(t *testing.T) {
	candidates := makeActivities(map[string]int{"games": 5, "cooking": 1, "creative": 2, "nature": 7, "reading": 1, "science": 3})

	for seed := uint64(0); seed < 30; seed++ {
		got := newTestSelector(seed).Variety(candidates, 6)
		counts := categories(got)
		assert.Len(t, counts, 6, "seed %d: %v", seed, counts)
	}
}

func TestVarietyBlankCategoryOnlyFills(t *testing.T) {
	candidates := makeActivities(map[string]int{"games": 1, "": 3})

	for seed := uint64(0); seed < 20; seed++ {
		got := newTestSelector(seed).Variety(candidates, 1)
		require.Len(t, got, 1)
		assert.Equal(t, "games", got[0].Category)
	}
}

func TestVarietyIsNotDeterministic(t *testing.T) {
	candidates := makeActivities(map[string]int{"games": 6, "cooking": 6, "science": 6})
	s := newTestSelector(7)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		got := ids(s.Variety(candidates, 6))
		seen[fmt.Sprint(sortedIDs(got))] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestScoreResourceBonus(t *testing.T) {
	s := newTestSelector(1)
	a := domain.Activity{ID: 1, Category: "cooking", HomeRequirements: []string{"kitchen", "balcony"}}
	b := domain.Activity{ID: 2, Category: "games", HomeRequirements: []string{"garden"}}
	interests := tagSet([]string{"Cooking"})

	base := tagSet([]string{"kitchen"})
	more := tagSet([]string{"kitchen", "balcony"})

	assert.Equal(t, 15, s.Score(a, interests, base))
	assert.Equal(t, 20, s.Score(a, interests, more))
	assert.Equal(t, s.Score(b, interests, base), s.Score(b, interests, more))
	assert.Equal(t, 10, s.Score(a, tagSet(nil), more))
}

func TestScoreIgnoresMalformedFields(t *testing.T) {
	s := newTestSelector(1)
	a := domain.Activity{ID: 1, Category: "", HomeRequirements: []string{"", "  ", "Kitchen", "kitchen"}}

	// 重複的需求只計一次
	assert.Equal(t, 5, s.Score(a, tagSet([]string{"sports"}), tagSet([]string{"kitchen"})))
}

func TestRankedPinsTopScores(t *testing.T) {
	var candidates []domain.Activity
	for i := 1; i <= 12; i++ {
		a := domain.Activity{ID: uint(i), Category: "games"}
		if i > 8 {
			a.Category = "science"
			a.HomeRequirements = []string{"kitchen"}
		}
		candidates = append(candidates, a)
	}
	signals := Signals{Interests: []string{"science"}, HomeResources: []string{"kitchen"}}

	for seed := uint64(0); seed < 20; seed++ {
		got := newTestSelector(seed).Ranked(candidates, 6, signals)
		require.Len(t, got, 6)
		assert.Equal(t, []uint{9, 10, 11, 12}, ids(got[:4]))
		for _, a := range got[4:] {
			assert.Equal(t, "games", a.Category)
		}
	}
}

func TestRankedReturnsAllSortedWhenWithinLimit(t *testing.T) {
	candidates := []domain.Activity{
		{ID: 1, Category: "games"},
		{ID: 2, Category: "reading"},
		{ID: 3, Category: "games"},
		{ID: 4, Category: "nature", HomeRequirements: []string{"garden"}},
	}
	got := newTestSelector(1).Ranked(candidates, 6, Signals{Interests: []string{"reading"}, HomeResources: []string{"garden"}})

	assert.Equal(t, []uint{2, 4, 1, 3}, ids(got))
}

func TestPinnedCount(t *testing.T) {
	s := newTestSelector(1)
	tests := map[int]int{1: 1, 2: 2, 3: 2, 4: 3, 6: 4, 9: 6, 10: 7}
	for limit, want := range tests {
		assert.Equal(t, want, s.pinnedCount(limit), "limit %d", limit)
	}

	custom := DefaultSelectorConfig()
	custom.PinnedNumerator, custom.PinnedDenominator = 0, 1
	assert.Equal(t, 0, NewSelector(custom, nil).pinnedCount(6))
}

func TestSelectDispatch(t *testing.T) {
	candidates := makeActivities(map[string]int{"games": 3, "reading": 3})
	s := newTestSelector(3)

	scored := s.Select(candidates, 6, true, Signals{Interests: []string{"reading"}})
	assert.Equal(t, []uint{4, 5, 6, 1, 2, 3}, ids(scored))
	assert.Len(t, s.Select(candidates, 3, false, Signals{}), 3)
}

func TestSelectorDefaultRandIsConcurrent(t *testing.T) {
	s := NewSelector(DefaultSelectorConfig(), nil)
	candidates := makeActivities(map[string]int{"games": 5, "cooking": 5})

	done := make(chan []domain.Activity, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- s.Variety(candidates, 4) }()
	}
	for i := 0; i < 8; i++ {
		assert.Len(t, <-done, 4)
	}
}

func uniq(in []uint) []uint {
	seen := make(map[uint]bool)
	out := make([]uint, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func sortedIDs(in []uint) []uint {
	out := slices.Clone(in)
	slices.Sort(out)
	return out
}
