// Package ai 封裝生成式模型呼叫：提供者、快取與指標
package ai

// Purpose 標示 AI 呼叫用途，用於日誌與指標
type Purpose string

const (
	PurposeMeal         Purpose = "meal"
	PurposeMealRevision Purpose = "meal_revision"
	PurposeChat         Purpose = "chat"
	PurposeChatTitle    Purpose = "chat_title"
	PurposeActivities   Purpose = "activities"
)
