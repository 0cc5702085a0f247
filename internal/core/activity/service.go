package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"health-heroes/internal/domain"
	"health-heroes/internal/infrastructure/config"
	"health-heroes/internal/pkg/common"
	"health-heroes/internal/repository"

	"go.uber.org/zap"
)

// CategoryAll 不限類別
const CategoryAll = "all"

// View 依語言輸出的活動，同時保留雙語欄位
type View struct {
	domain.Activity
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Steps         []string `json:"steps"`
	CategoryLabel string   `json:"category_label"`
	CategoryIcon  string   `json:"category_icon,omitempty"`
	Language      string   `json:"lang"`
}

// NewView 以指定語言包裝活動
func NewView(a domain.Activity, lang common.Language) View {
	steps := []string(a.StepsEN)
	if lang == common.LangAR && len(a.StepsAR) > 0 {
		steps = a.StepsAR
	}
	if steps == nil {
		steps = []string{}
	}
	v := View{
		Activity:    a,
		Title:       lang.Pick(a.TitleEN, a.TitleAR),
		Description: lang.Pick(a.DescriptionEN, a.DescriptionAR),
		Steps:       steps,
		Language:    string(lang),
	}
	if opt, ok := FindOption(Categories, a.Category); ok {
		v.CategoryLabel = opt.Label(lang)
		v.CategoryIcon = opt.Icon
	}
	return v
}

// ListParams 活動列表查詢
type ListParams struct {
	UserID   uint
	Category string
	ChildID  uint
	Language common.Language
	Limit    int
}

// CompleteParams 完成活動請求
type CompleteParams struct {
	UserID     uint
	ActivityID uint
	ChildID    uint
	Notes      string
	Rating     *int
}

// Catalog 活動相關的選項清單
type Catalog struct {
	Categories []Option `json:"categories"`
	AgeRanges  []string `json:"age_ranges"`
	Durations  []string `json:"durations"`
	HomeAreas  []Option `json:"home_areas"`
}

// Service 活動瀏覽與完成紀錄
type Service struct {
	activities repository.ActivityRepo
	families   repository.FamilyRepo
	selector   *Selector
	config     config.ActivityConfig
	now        func() time.Time
}

// NewService 創建活動服務
func NewService(activities repository.ActivityRepo, families repository.FamilyRepo, selector *Selector, cfg config.ActivityConfig) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 6
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = 50
	}
	return &Service{
		activities: activities,
		families:   families,
		selector:   selector,
		config:     cfg,
		now:        time.Now,
	}
}

// Catalog 回傳活動選項
func (s *Service) Catalog() Catalog {
	return Catalog{
		Categories: Categories,
		AgeRanges:  AgeRanges,
		Durations:  Durations,
		HomeAreas:  HomeAreas,
	}
}

// ClampLimit 未指定時使用預設值，超出範圍時夾到 1..MaxLimit
func (s *Service) ClampLimit(limit int) int {
	if limit == 0 {
		return s.config.DefaultLimit
	}
	return min(max(limit, 1), s.config.MaxLimit)
}

// List 無類別與孩子時走多樣化模式，否則依孩子興趣與家中資源評分
func (s *Service) List(ctx context.Context, p ListParams) ([]View, error) {
	category := common.NormalizeTag(p.Category)
	if category == CategoryAll {
		category = ""
	}
	if category != "" && !IsCategory(category) {
		return nil, common.NewValidationError(fmt.Sprintf("unknown category %q", p.Category))
	}
	limit := s.ClampLimit(p.Limit)

	if category == "" && p.ChildID == 0 {
		candidates, err := s.activities.List(ctx, repository.ActivityFilter{})
		if err != nil {
			return nil, fmt.Errorf("list activities: %w", err)
		}
		return views(s.selector.Variety(candidates, limit), p.Language), nil
	}

	profile, err := s.families.GetByUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	signals := Signals{HomeResources: profile.HomeResources}
	filter := repository.ActivityFilter{Category: category}

	if p.ChildID != 0 {
		child, err := s.families.GetChild(ctx, profile.ID, p.ChildID)
		if err != nil {
			return nil, err
		}
		signals.Interests = child.Interests
		filter.AgeRange = child.AgeRange(s.now())
	}

	candidates, err := s.activities.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	if len(candidates) == 0 && filter.AgeRange != "" {
		common.LogDebug("年齡區間沒有活動，改用類別篩選",
			zap.String("age_range", filter.AgeRange),
			zap.String("category", category),
		)
		filter.AgeRange = ""
		if candidates, err = s.activities.List(ctx, filter); err != nil {
			return nil, fmt.Errorf("list activities: %w", err)
		}
	}

	return views(s.selector.Ranked(candidates, limit, signals), p.Language), nil
}

// Get 取得單一活動
func (s *Service) Get(ctx context.Context, id uint, lang common.Language) (*View, error) {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := NewView(*a, lang)
	return &v, nil
}

// Complete 記錄完成活動
func (s *Service) Complete(ctx context.Context, p CompleteParams) (*domain.ActivityCompletion, error) {
	activity, err := s.activities.GetByID(ctx, p.ActivityID)
	if err != nil {
		return nil, err
	}

	completion := &domain.ActivityCompletion{
		UserID:      p.UserID,
		ActivityID:  activity.ID,
		CompletedAt: s.now().UTC(),
		Notes:       strings.TrimSpace(p.Notes),
		Rating:      p.Rating,
	}
	if p.ChildID != 0 {
		profile, err := s.families.GetByUserID(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		child, err := s.families.GetChild(ctx, profile.ID, p.ChildID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.NewValidationError("child does not belong to this family")
			}
			return nil, err
		}
		completion.ChildID = &child.ID
	}

	if err := s.activities.CreateCompletion(ctx, completion); err != nil {
		return nil, fmt.Errorf("create completion: %w", err)
	}
	completion.Activity = activity

	common.LogInfo("活動完成",
		zap.Uint("user_id", p.UserID),
		zap.Uint("activity_id", activity.ID),
	)
	return completion, nil
}

// Completions 使用者的完成紀錄，新的在前
func (s *Service) Completions(ctx context.Context, userID uint) ([]domain.ActivityCompletion, error) {
	completions, err := s.activities.ListCompletions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	if completions == nil {
		completions = []domain.ActivityCompletion{}
	}
	return completions, nil
}

func views(activities []domain.Activity, lang common.Language) []View {
	out := make([]View, 0, len(activities))
	for _, a := range activities {
		out = append(out, NewView(a, lang))
	}
	return out
}
