// Package family 管理家庭設定與孩子資料
package family

import (
	"context"
	"fmt"
	"strings"
	"time"

	"health-heroes/internal/core/activity"
	"health-heroes/internal/domain"
	"health-heroes/internal/pkg/common"
	"health-heroes/internal/repository"

	"go.uber.org/zap"
)

const birthdateLayout = "2006-01-02"

// ChildView 附帶目前年齡與年齡區間的孩子資料
type ChildView struct {
	domain.Child
	Age      int    `json:"age"`
	AgeRange string `json:"age_range"`
}

// ProfileView 家庭設定與孩子
type ProfileView struct {
	domain.FamilyProfile
	Children []ChildView `json:"children"`
}

// SetupParams 更新家庭設定，空字串代表不變
type SetupParams struct {
	HomeResources []string
	Language      string
	BreakfastTime string
	LunchTime     string
	DinnerTime    string
}

// ChildParams 新增孩子
type ChildParams struct {
	Name                string
	Birthdate           string
	Gender              string
	Interests           []string
	DietaryRestrictions []string
	OtherAllergies      string
	SpecialNeeds        string
}

// Service 家庭設定服務
type Service struct {
	families repository.FamilyRepo
	now      func() time.Time
}

// NewService 創建家庭服務
func NewService(families repository.FamilyRepo) *Service {
	return &Service{families: families, now: time.Now}
}

// View 回傳家庭設定與孩子
func (s *Service) View(ctx context.Context, userID uint) (*ProfileView, error) {
	profile, err := s.families.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := &ProfileView{FamilyProfile: *profile, Children: s.childViews(profile.Children)}
	view.FamilyProfile.Children = nil
	return view, nil
}

// Setup 更新家中資源、語言與用餐時間
func (s *Service) Setup(ctx context.Context, userID uint, p SetupParams) (*ProfileView, error) {
	profile, err := s.families.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resources := make([]string, 0, len(p.HomeResources))
	seen := make(map[string]bool)
	for _, r := range p.HomeResources {
		tag := common.NormalizeTag(r)
		if tag == "" || seen[tag] {
			continue
		}
		if !activity.IsHomeArea(tag) {
			return nil, common.NewValidationError(fmt.Sprintf("unknown home resource %q", r))
		}
		seen[tag] = true
		resources = append(resources, tag)
	}
	profile.HomeResources = resources

	if strings.TrimSpace(p.Language) != "" {
		profile.Language = string(common.ParseLanguage(p.Language))
	}
	for _, t := range []struct {
		value string
		dst   *string
	}{
		{p.BreakfastTime, &profile.BreakfastTime},
		{p.LunchTime, &profile.LunchTime},
		{p.DinnerTime, &profile.DinnerTime},
	} {
		if v := strings.TrimSpace(t.value); v != "" {
			*t.dst = v
		}
	}

	if err := s.families.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("save family profile: %w", err)
	}
	common.LogInfo("家庭設定已更新", zap.Uint("user_id", userID))
	return s.View(ctx, userID)
}

// AddChild 新增孩子，其他過敏以逗號分隔併入飲食限制；必填與格式由 handler 驗證
func (s *Service) AddChild(ctx context.Context, userID uint, p ChildParams) (*ChildView, error) {
	birthdate, err := time.Parse(birthdateLayout, strings.TrimSpace(p.Birthdate))
	if err != nil {
		return nil, common.NewValidationError("invalid birthdate format, expected YYYY-MM-DD")
	}
	if birthdate.After(s.now()) {
		return nil, common.NewValidationError("birthdate cannot be in the future")
	}

	profile, err := s.families.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	restrictions := append(append([]string{}, p.DietaryRestrictions...), common.SplitCommaList(p.OtherAllergies)...)
	child := &domain.Child{
		FamilyID:            profile.ID,
		Name:                strings.TrimSpace(p.Name),
		Birthdate:           birthdate,
		Gender:              common.NormalizeTag(p.Gender),
		Interests:           normalizeTags(p.Interests),
		DietaryRestrictions: dedupe(restrictions),
		SpecialNeeds:        strings.TrimSpace(p.SpecialNeeds),
	}
	if err := s.families.AddChild(ctx, child); err != nil {
		return nil, fmt.Errorf("add child: %w", err)
	}

	common.LogInfo("已新增孩子",
		zap.Uint("user_id", userID),
		zap.Uint("child_id", child.ID),
	)
	view := s.childView(*child)
	return &view, nil
}

// Children 列出孩子
func (s *Service) Children(ctx context.Context, userID uint) ([]ChildView, error) {
	profile, err := s.families.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.childViews(profile.Children), nil
}

// DeleteChild 刪除孩子，只能刪除自己家庭的
func (s *Service) DeleteChild(ctx context.Context, userID, childID uint) error {
	profile, err := s.families.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.families.DeleteChild(ctx, profile.ID, childID)
}

func (s *Service) childView(c domain.Child) ChildView {
	now := s.now()
	return ChildView{Child: c, Age: c.Age(now), AgeRange: c.AgeRange(now)}
}

func (s *Service) childViews(children []domain.Child) []ChildView {
	out := make([]ChildView, 0, len(children))
	for _, c := range children {
		out = append(out, s.childView(c))
	}
	return out
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool)
	for _, t := range tags {
		t = common.NormalizeTag(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// dedupe 去除空白與重複（不分大小寫），保留原始寫法
func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool)
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
