// Package dashboard 彙整家庭的活動與餐點統計
package dashboard

import (
	"context"
	"fmt"
	"time"

	"health-heroes/internal/pkg/common"
	"health-heroes/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	streakWindow = 7 * 24 * time.Hour
	daysPerWeek  = 7
)

var weekdayLabels = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Bucket 圖表的一個分組
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Tip 鼓勵訊息
type Tip struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

// Stats 儀表板資料
type Stats struct {
	ActivitiesCompleted int64    `json:"activities_completed"`
	MealsGenerated      int64    `json:"meals_generated"`
	FavoriteMeals       int64    `json:"favorite_meals"`
	StreakDays          int      `json:"streak_days"`
	Weekly              []Bucket `json:"weekly"`
	Monthly             []Bucket `json:"monthly"`
	Tip                 Tip      `json:"tip"`
}

type Service struct {
	activities repository.ActivityRepo
	meals      repository.MealRepo
	now        func() time.Time
}

func NewService(activityRepo repository.ActivityRepo, mealRepo repository.MealRepo) *Service {
	return &Service{
		activities: activityRepo,
		meals:      mealRepo,
		now:        time.Now,
	}
}

// Stats 同時查詢各項統計並組合
func (s *Service) Stats(ctx context.Context, userID uint) (*Stats, error) {
	now := s.now().UTC()
	weekStart := now.Add(-streakWindow)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		stats      Stats
		weekTimes  []time.Time
		monthTimes []time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.activities.CountCompletions(gctx, userID)
		if err != nil {
			return fmt.Errorf("count completions: %w", err)
		}
		stats.ActivitiesCompleted = n
		return nil
	})
	g.Go(func() error {
		n, err := s.meals.CountForUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("count meals: %w", err)
		}
		stats.MealsGenerated = n
		return nil
	})
	g.Go(func() error {
		n, err := s.meals.CountFavorites(gctx, userID)
		if err != nil {
			return fmt.Errorf("count favorites: %w", err)
		}
		stats.FavoriteMeals = n
		return nil
	})
	g.Go(func() error {
		times, err := s.activities.CompletionTimesSince(gctx, userID, weekStart)
		if err != nil {
			return fmt.Errorf("weekly completions: %w", err)
		}
		weekTimes = times
		return nil
	})
	g.Go(func() error {
		times, err := s.activities.CompletionTimesSince(gctx, userID, monthStart)
		if err != nil {
			return fmt.Errorf("monthly completions: %w", err)
		}
		monthTimes = times
		return nil
	})
	if err := g.Wait(); err != nil {
		common.LogError("儀表板統計查詢失敗", zap.Uint("user_id", userID), zap.Error(err))
		return nil, common.ErrInternalError.Wrap(err)
	}

	stats.StreakDays = StreakDays(weekTimes)
	stats.Weekly = WeeklyBuckets(weekTimes)
	stats.Monthly = MonthlyBuckets(monthTimes, now)
	stats.Tip = TipFor(stats.StreakDays)
	return &stats, nil
}

// StreakDays 不同的完成日數
func StreakDays(times []time.Time) int {
	days := make(map[string]struct{}, len(times))
	for _, t := range times {
		days[t.UTC().Format(time.DateOnly)] = struct{}{}
	}
	return len(days)
}

// WeeklyBuckets 依星期幾統計 (Sun..Sat)
func WeeklyBuckets(times []time.Time) []Bucket {
	buckets := make([]Bucket, len(weekdayLabels))
	for i, label := range weekdayLabels {
		buckets[i].Label = label
	}
	for _, t := range times {
		buckets[t.UTC().Weekday()].Count++
	}
	return buckets
}

// MonthlyBuckets 依本月第幾週統計，第 N 週為 (日-1)/7+1
func MonthlyBuckets(times []time.Time, now time.Time) []Bucket {
	now = now.UTC()
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	weeks := weekOfMonth(lastDay)

	buckets := make([]Bucket, weeks)
	for i := range buckets {
		buckets[i].Label = fmt.Sprintf("Week %d", i+1)
	}
	for _, t := range times {
		t = t.UTC()
		if t.Year() != now.Year() || t.Month() != now.Month() {
			continue
		}
		buckets[weekOfMonth(t.Day())-1].Count++
	}
	return buckets
}

func weekOfMonth(day int) int {
	return (day-1)/daysPerWeek + 1
}

// TipFor 依連續天數挑選鼓勵訊息
func TipFor(streak int) Tip {
	switch {
	case streak == 0:
		return Tip{
			EN: "Start your streak today with a quick screen-free activity 🌟",
			AR: "ابدأ سلسلتك اليوم بنشاط سريع بعيداً عن الشاشات 🌟",
		}
	case streak < 3:
		return Tip{
			EN: "Great start! Try one more activity together this week 💪",
			AR: "بداية رائعة! جربوا نشاطاً إضافياً معاً هذا الأسبوع 💪",
		}
	case streak < 6:
		return Tip{
			EN: "Keep up the great work! Try 1 more veggie meal next week 🌱",
			AR: "استمروا في العمل الرائع! جربوا وجبة خضار إضافية الأسبوع القادم 🌱",
		}
	default:
		return Tip{
			EN: "Amazing streak! Your family is a team of Health Heroes 🏆",
			AR: "سلسلة مذهلة! عائلتكم فريق من أبطال الصحة 🏆",
		}
	}
}
