package common

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// NormalizeTag 標籤正規化：去空白並轉小寫
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
