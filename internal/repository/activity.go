package repository

import (
	"context"
	"time"

	"health-heroes/internal/domain"

	"gorm.io/gorm"
)

// ActivityFilter 活動查詢條件，空字串代表不過濾
type ActivityFilter struct {
	Category string
	AgeRange string
}

type ActivityRepo interface {
	List(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error)
	GetByID(ctx context.Context, id uint) (*domain.Activity, error)
	CreateInBatches(ctx context.Context, activities []domain.Activity, batchSize int) error
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)

	CreateCompletion(ctx context.Context, completion *domain.ActivityCompletion) error
	ListCompletions(ctx context.Context, userID uint) ([]domain.ActivityCompletion, error)
	CountCompletions(ctx context.Context, userID uint) (int64, error)
	CompletionTimesSince(ctx context.Context, userID uint, since time.Time) ([]time.Time, error)
}

type activityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) ActivityRepo {
	return &activityRepo{db: db}
}

func (r *activityRepo) List(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error) {
	q := r.db.WithContext(ctx).Model(&domain.Activity{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.AgeRange != "" {
		q = q.Where("age_range = ?", filter.AgeRange)
	}
	var activities []domain.Activity
	err := q.Order("id ASC").Find(&activities).Error
	return activities, err
}

func (r *activityRepo) GetByID(ctx context.Context, id uint) (*domain.Activity, error) {
	var activity domain.Activity
	if err := r.db.WithContext(ctx).First(&activity, id).Error; err != nil {
		return nil, notFound(err, "activity")
	}
	return &activity, nil
}

func (r *activityRepo) CreateInBatches(ctx context.Context, activities []domain.Activity, batchSize int) error {
	if len(activities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(activities, batchSize).Error
}

func (r *activityRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Activity{}).Count(&count).Error
	return count, err
}

func (r *activityRepo) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Activity{})
	return res.RowsAffected, res.Error
}

func (r *activityRepo) CreateCompletion(ctx context.Context, completion *domain.ActivityCompletion) error {
	return r.db.WithContext(ctx).Omit("Activity").Create(completion).Error
}

func (r *activityRepo) ListCompletions(ctx context.Context, userID uint) ([]domain.ActivityCompletion, error) {
	var completions []domain.ActivityCompletion
	err := r.db.WithContext(ctx).
		Preload("Activity").
		Where("user_id = ?", userID).
		Order("completed_at DESC, id DESC").
		Find(&completions).Error
	return completions, err
}

func (r *activityRepo) CountCompletions(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ActivityCompletion{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *activityRepo) CompletionTimesSince(ctx context.Context, userID uint, since time.Time) ([]time.Time, error) {
	var completions []domain.ActivityCompletion
	err := r.db.WithContext(ctx).
		Select("completed_at").
		Where("user_id = ? AND completed_at >= ?", userID, since).
		Order("completed_at ASC").
		Find(&completions).Error
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		times = append(times, c.CompletedAt)
	}
	return times, nil
}
