package common

import "strings"

// Language 介面語言
type Language string

const (
	LangEN Language = "en"
	LangAR Language = "ar"
)

// ParseLanguage 解析語言參數，未知值回傳英文
func ParseLanguage(raw string) Language {
	if strings.EqualFold(strings.TrimSpace(raw), string(LangAR)) {
		return LangAR
	}
	return LangEN
}

// Valid 檢查是否為支援的語言
func (l Language) Valid() bool {
	return l == LangEN || l == LangAR
}

// Pick 依語言選擇雙語文字，阿拉伯文缺失時退回英文
func (l Language) Pick(en, ar string) string {
	if l == LangAR && ar != "" {
		return ar
	}
	return en
}
