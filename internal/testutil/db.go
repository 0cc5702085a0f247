// Package testutil 提供測試共用的資料庫與固定資料
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"health-heroes/internal/domain"
	"health-heroes/internal/infrastructure/config"
	"health-heroes/internal/infrastructure/database"

	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// DB 建立每個測試獨立的記憶體 SQLite
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Path:     fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1)),
		LogLevel: "silent",
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	tb.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateUser 建立使用者與預設家庭設定
func CreateUser(tb testing.TB, db *gorm.DB, email string) (*domain.User, *domain.FamilyProfile) {
	tb.Helper()

	user := &domain.User{Name: "Parent", Email: email, PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		tb.Fatalf("create user: %v", err)
	}
	profile := domain.NewFamilyProfile(user.ID)
	if err := db.Create(profile).Error; err != nil {
		tb.Fatalf("create family profile: %v", err)
	}
	return user, profile
}

// CreateActivity 建立活動
func CreateActivity(tb testing.TB, db *gorm.DB, a domain.Activity) *domain.Activity {
	tb.Helper()

	if a.TitleEN == "" {
		a.TitleEN = a.Category + " activity"
	}
	if a.TitleAR == "" {
		a.TitleAR = "نشاط"
	}
	if err := db.Create(&a).Error; err != nil {
		tb.Fatalf("create activity: %v", err)
	}
	return &a
}
