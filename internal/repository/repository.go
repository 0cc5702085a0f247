// Package repository 以 gorm 存取各聚合的資料
package repository

import (
	"errors"

	"health-heroes/internal/pkg/common"

	"gorm.io/gorm"
)

// notFound 將 gorm 找不到紀錄轉為 common.ErrNotFound
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrNotFound.WithMessage(what + " not found")
	}
	return err
}
