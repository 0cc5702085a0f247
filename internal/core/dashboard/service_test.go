package dashboard

import (
	"context"
	"testing"
	"time"

	"health-heroes/internal/domain"
	"health-heroes/internal/repository"
	"health-heroes/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-03-15 是星期日
var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestStats(t *testing.T) {
	db := testutil.DB(t)
	user, _ := testutil.CreateUser(t, db, "stats@example.com")
	other, _ := testutil.CreateUser(t, db, "other@example.com")
	activity := testutil.CreateActivity(t, db, domain.Activity{Category: "games"})

	completedAt := []time.Time{
		time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC), // Sat
		time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC), // Sat
		time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),  // Tue
		time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),   // 上週之前，本月第一週
		time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC),  // 上個月
	}
	for _, at := range completedAt {
		require.NoError(t, db.Create(&domain.ActivityCompletion{UserID: user.ID, ActivityID: activity.ID, CompletedAt: at}).Error)
	}
	require.NoError(t, db.Create(&domain.ActivityCompletion{UserID: other.ID, ActivityID: activity.ID, CompletedAt: fixedNow}).Error)

	require.NoError(t, db.Create(&domain.Meal{UserID: user.ID, NameEN: "Soup"}).Error)
	require.NoError(t, db.Create(&domain.Meal{UserID: user.ID, NameEN: "Salad", IsFavorite: true}).Error)
	require.NoError(t, db.Create(&domain.Meal{UserID: user.ID, NameEN: "Rice"}).Error)
	require.NoError(t, db.Create(&domain.Meal{UserID: other.ID, NameEN: "Bread", IsFavorite: true}).Error)

	svc := NewService(repository.NewActivityRepo(db), repository.NewMealRepo(db))
	svc.now = func() time.Time { return fixedNow }

	stats, err := svc.Stats(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.ActivitiesCompleted)
	assert.Equal(t, int64(3), stats.MealsGenerated)
	assert.Equal(t, int64(1), stats.FavoriteMeals)
	assert.Equal(t, 2, stats.StreakDays)

	assert.Equal(t, []Bucket{
		{"Sun", 0}, {"Mon", 0}, {"Tue", 1}, {"Wed", 0}, {"Thu", 0}, {"Fri", 0}, {"Sat", 2},
	}, stats.Weekly)
	assert.Equal(t, []Bucket{
		{"Week 1", 1}, {"Week 2", 3}, {"Week 3", 0}, {"Week 4", 0}, {"Week 5", 0},
	}, stats.Monthly)
	assert.Equal(t, TipFor(2), stats.Tip)
}

func TestStatsEmpty(t *testing.T) {
	db := testutil.DB(t)
	user, _ := testutil.CreateUser(t, db, "empty@example.com")

	svc := NewService(repository.NewActivityRepo(db), repository.NewMealRepo(db))
	svc.now = func() time.Time { return fixedNow }

	stats, err := svc.Stats(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.ActivitiesCompleted)
	assert.Zero(t, stats.StreakDays)
	assert.Len(t, stats.Weekly, 7)
	assert.Len(t, stats.Monthly, 5)
	assert.Contains(t, stats.Tip.EN, "Start your streak")
}

func TestMonthlyBucketsFebruary(t *testing.T) {
	now := time.Date(2026, 2, 28, 8, 0, 0, 0, time.UTC)
	buckets := MonthlyBuckets([]time.Time{
		time.Date(2026, 2, 28, 7, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 7, 7, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 8, 7, 0, 0, 0, time.UTC),
	}, now)

	require.Len(t, buckets, 4)
	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, 1, buckets[1].Count)
	assert.Equal(t, 1, buckets[3].Count)
}

func TestTipFor(t *testing.T) {
	seen := map[string]bool{}
	for _, streak := range []int{0, 1, 3, 7} {
		tip := TipFor(streak)
		assert.NotEmpty(t, tip.EN)
		assert.NotEmpty(t, tip.AR)
		seen[tip.EN] = true
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, TipFor(1), TipFor(2))
}
