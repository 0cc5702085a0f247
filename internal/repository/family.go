package repository

import (
	"context"

	"health-heroes/internal/domain"

	"gorm.io/gorm"
)

type FamilyRepo interface {
	GetByUserID(ctx context.Context, userID uint) (*domain.FamilyProfile, error)
	Save(ctx context.Context, profile *domain.FamilyProfile) error
	AddChild(ctx context.Context, child *domain.Child) error
	ListChildren(ctx context.Context, familyID uint) ([]domain.Child, error)
	GetChild(ctx context.Context, familyID, childID uint) (*domain.Child, error)
	DeleteChild(ctx context.Context, familyID, childID uint) error
}

type familyRepo struct {
	db *gorm.DB
}

func NewFamilyRepo(db *gorm.DB) FamilyRepo {
	return &familyRepo{db: db}
}

func (r *familyRepo) GetByUserID(ctx context.Context, userID uint) (*domain.FamilyProfile, error) {
	var profile domain.FamilyProfile
	err := r.db.WithContext(ctx).
		Preload("Children", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, notFound(err, "family profile")
	}
	return &profile, nil
}

func (r *familyRepo) Save(ctx context.Context, profile *domain.FamilyProfile) error {
	return r.db.WithContext(ctx).Omit("Children").Save(profile).Error
}

func (r *familyRepo) AddChild(ctx context.Context, child *domain.Child) error {
	return r.db.WithContext(ctx).Create(child).Error
}

func (r *familyRepo) ListChildren(ctx context.Context, familyID uint) ([]domain.Child, error) {
	var children []domain.Child
	err := r.db.WithContext(ctx).Where("family_id = ?", familyID).Order("id ASC").Find(&children).Error
	return children, err
}

func (r *familyRepo) GetChild(ctx context.Context, familyID, childID uint) (*domain.Child, error) {
	var child domain.Child
	err := r.db.WithContext(ctx).Where("family_id = ? AND id = ?", familyID, childID).First(&child).Error
	if err != nil {
		return nil, notFound(err, "child")
	}
	return &child, nil
}

func (r *familyRepo) DeleteChild(ctx context.Context, familyID, childID uint) error {
	res := r.db.WithContext(ctx).Where("family_id = ? AND id = ?", familyID, childID).Delete(&domain.Child{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "child")
	}
	return nil
}
