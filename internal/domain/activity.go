package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Material 活動所需材料
type Material struct {
	NameEN string `json:"name_en"`
	NameAR string `json:"name_ar"`
	Icon   string `json:"icon,omitempty"`
}

// Activity 無螢幕活動，離線批次產生後唯讀
type Activity struct {
	ID               uint                          `gorm:"primaryKey" json:"id"`
	TitleEN          string                        `gorm:"size:200;not null" json:"title_en"`
	TitleAR          string                        `gorm:"size:200;not null" json:"title_ar"`
	DescriptionEN    string                        `gorm:"type:text" json:"description_en"`
	DescriptionAR    string                        `gorm:"type:text" json:"description_ar"`
	AgeRange         string                        `gorm:"size:20;index" json:"age_range"`
	Duration         string                        `gorm:"size:20" json:"duration"`
	Category         string                        `gorm:"size:30;index" json:"category"`
	Materials        datatypes.JSONSlice[Material] `gorm:"type:json" json:"materials"`
	StepsEN          datatypes.JSONSlice[string]   `gorm:"type:json" json:"steps_en"`
	StepsAR          datatypes.JSONSlice[string]   `gorm:"type:json" json:"steps_ar"`
	HomeRequirements datatypes.JSONSlice[string]   `gorm:"type:json" json:"home_requirements"`
	CreatedAt        time.Time                     `json:"created_at"`
}

// ActivityCompletion 家庭完成活動紀錄
type ActivityCompletion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	ActivityID  uint      `gorm:"not null;index" json:"activity_id"`
	ChildID     *uint     `gorm:"index" json:"child_id,omitempty"`
	CompletedAt time.Time `gorm:"not null;index" json:"completed_at"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
	Rating      *int      `json:"rating,omitempty"`
	Activity    *Activity `gorm:"constraint:OnDelete:CASCADE" json:"activity,omitempty"`
}
