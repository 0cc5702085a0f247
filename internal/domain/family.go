package domain

import (
	"time"

	"gorm.io/datatypes"
)

// 家庭預設值
const (
	DefaultLanguage      = "en"
	DefaultBreakfastTime = "07:00"
	DefaultLunchTime     = "13:00"
	DefaultDinnerTime    = "19:00"
)

// FamilyProfile 家庭設定，每個使用者一份
type FamilyProfile struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	UserID        uint                        `gorm:"not null;uniqueIndex" json:"user_id"`
	HomeResources datatypes.JSONSlice[string] `gorm:"type:json" json:"home_resources"`
	Language      string                      `gorm:"size:2;not null" json:"language"`
	BreakfastTime string                      `gorm:"size:5;not null" json:"breakfast_time"`
	LunchTime     string                      `gorm:"size:5;not null" json:"lunch_time"`
	DinnerTime    string                      `gorm:"size:5;not null" json:"dinner_time"`
	Children      []Child                     `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE" json:"children,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// NewFamilyProfile 以預設值建立家庭設定
func NewFamilyProfile(userID uint) *FamilyProfile {
	return &FamilyProfile{
		UserID:        userID,
		HomeResources: datatypes.JSONSlice[string]{},
		Language:      DefaultLanguage,
		BreakfastTime: DefaultBreakfastTime,
		LunchTime:     DefaultLunchTime,
		DinnerTime:    DefaultDinnerTime,
	}
}

// Child 孩子資料
type Child struct {
	ID                  uint                        `gorm:"primaryKey" json:"id"`
	FamilyID            uint                        `gorm:"not null;index" json:"family_id"`
	Name                string                      `gorm:"size:100;not null" json:"name"`
	Birthdate           time.Time                   `gorm:"not null" json:"birthdate"`
	Gender              string                      `gorm:"size:10" json:"gender"`
	Interests           datatypes.JSONSlice[string] `gorm:"type:json" json:"interests"`
	DietaryRestrictions datatypes.JSONSlice[string] `gorm:"type:json" json:"dietary_restrictions"`
	SpecialNeeds        string                      `gorm:"type:text" json:"special_needs,omitempty"`
	CreatedAt           time.Time                   `json:"created_at"`
}

// Age 以整數年計算 now 當下的年齡
func (c *Child) Age(now time.Time) int {
	return AgeAt(c.Birthdate, now)
}

// AgeRange 回傳 now 當下對應的年齡區間
func (c *Child) AgeRange(now time.Time) string {
	return AgeRangeFor(c.Age(now))
}

// AgeAt 生日未到則減一歲
func AgeAt(birthdate, now time.Time) int {
	age := now.Year() - birthdate.Year()
	if now.Month() < birthdate.Month() ||
		(now.Month() == birthdate.Month() && now.Day() < birthdate.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// AgeRangeFor 年齡對應活動的年齡區間
func AgeRangeFor(age int) string {
	switch {
	case age < 2:
		return "0-2 years"
	case age < 3:
		return "2-3 years"
	case age < 5:
		return "3-5 years"
	case age < 7:
		return "5-7 years"
	case age <= 8:
		return "7-8 years"
	default:
		return "8+ years"
	}
}
