// Package domain 定義持久化模型與值型別
package domain

// Models 回傳需要 AutoMigrate 的所有模型
func Models() []interface{} {
	return []interface{}{
		&User{},
		&FamilyProfile{},
		&Child{},
		&Activity{},
		&ActivityCompletion{},
		&Meal{},
		&ChatConversation{},
		&ChatMessage{},
	}
}
