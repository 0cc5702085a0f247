package repository

import (
	"context"

	"health-heroes/internal/domain"

	"gorm.io/gorm"
)

type MealRepo interface {
	Create(ctx context.Context, meal *domain.Meal) error
	Save(ctx context.Context, meal *domain.Meal) error
	GetForUser(ctx context.Context, userID, mealID uint) (*domain.Meal, error)
	ListForUser(ctx context.Context, userID uint, favoritesOnly bool) ([]domain.Meal, error)
	Delete(ctx context.Context, userID, mealID uint) error
	CountForUser(ctx context.Context, userID uint) (int64, error)
	CountFavorites(ctx context.Context, userID uint) (int64, error)
}

type mealRepo struct {
	db *gorm.DB
}

func NewMealRepo(db *gorm.DB) MealRepo {
	return &mealRepo{db: db}
}

func (r *mealRepo) Create(ctx context.Context, meal *domain.Meal) error {
	return r.db.WithContext(ctx).Create(meal).Error
}

func (r *mealRepo) Save(ctx context.Context, meal *domain.Meal) error {
	return r.db.WithContext(ctx).Save(meal).Error
}

func (r *mealRepo) GetForUser(ctx context.Context, userID, mealID uint) (*domain.Meal, error) {
	var meal domain.Meal
	err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, mealID).First(&meal).Error
	if err != nil {
		return nil, notFound(err, "meal")
	}
	return &meal, nil
}

func (r *mealRepo) ListForUser(ctx context.Context, userID uint, favoritesOnly bool) ([]domain.Meal, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if favoritesOnly {
		q = q.Where("is_favorite = ?", true)
	}
	var meals []domain.Meal
	err := q.Order("created_at DESC, id DESC").Find(&meals).Error
	return meals, err
}

func (r *mealRepo) Delete(ctx context.Context, userID, mealID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, mealID).Delete(&domain.Meal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "meal")
	}
	return nil
}

func (r *mealRepo) CountForUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Meal{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *mealRepo) CountFavorites(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Meal{}).
		Where("user_id = ? AND is_favorite = ?", userID, true).
		Count(&count).Error
	return count, err
}
