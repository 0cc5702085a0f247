package chat

import (
	"fmt"
	"strings"
	"time"

	"health-heroes/internal/domain"
	"health-heroes/internal/pkg/common"
)

const assistantInstructions = `You are a specialized AI assistant for the Health Heroes app - a family health companion focused on helping parents in the UAE raise healthy children (ages 0-8) and combat childhood obesity.

YOUR ROLE:
You are a supportive, knowledgeable parenting assistant who provides practical, culturally-sensitive advice for families in the UAE.

TOPICS YOU HELP WITH:
- Nutrition and healthy eating for young children (0-8 years)
- Physical activities and reducing screen time
- Sleep routines and schedules
- Behavior management (tantrums, picky eating, resistance)
- Child development milestones (age-appropriate expectations)
- UAE cultural considerations (Ramadan, Eid, local foods, traditions)
- General parenting advice and communication strategies

IMPORTANT BOUNDARIES:
- You do NOT provide medical diagnoses or treatment advice
- For health concerns, always suggest consulting a pediatrician
- You focus ONLY on topics related to early childhood health and parenting
- If asked about unrelated topics, politely redirect to your expertise area

YOUR APPROACH:
- Be warm, supportive, and non-judgmental
- Give practical, actionable advice that fits into busy family schedules
- Keep responses concise but helpful (2-4 short paragraphs usually)
- Respect cultural diversity and UAE family values`

// SystemPrompt 帶入家庭與孩子資訊的系統提示
func SystemPrompt(user *domain.User, profile *domain.FamilyProfile, now time.Time) string {
	var b strings.Builder
	b.WriteString(assistantInstructions)

	if user != nil && profile != nil {
		b.WriteString("\n\nFAMILY CONTEXT (Use this to personalize your advice):\n")
		fmt.Fprintf(&b, "- Parent's name: %s\n", user.Name)
		resources := "not specified"
		if len(profile.HomeResources) > 0 {
			resources = strings.Join(profile.HomeResources, ", ")
		}
		fmt.Fprintf(&b, "- Home resources: %s\n", resources)
		fmt.Fprintf(&b, "- Meal times: Breakfast %s, Lunch %s, Dinner %s\n",
			profile.BreakfastTime, profile.LunchTime, profile.DinnerTime)
	}

	if profile != nil && len(profile.Children) > 0 {
		b.WriteString("\nCHILDREN IN THIS FAMILY:\n")
		for _, c := range profile.Children {
			gender := c.Gender
			if gender == "" {
				gender = "gender not specified"
			}
			fmt.Fprintf(&b, "- %s: %d years old, %s\n", c.Name, c.Age(now), gender)
			if len(c.Interests) > 0 {
				fmt.Fprintf(&b, "  Interests: %s\n", strings.Join(c.Interests, ", "))
			}
			if len(c.DietaryRestrictions) > 0 {
				fmt.Fprintf(&b, "  Dietary restrictions: %s\n", strings.Join(c.DietaryRestrictions, ", "))
			}
		}
	}

	b.WriteString("\nRemember: Use the family context above to give personalized advice. Mention children by name when appropriate!\n")
	return b.String()
}

// UserPrompt 阿拉伯文對話要求以阿拉伯文回覆
func UserPrompt(message string, lang common.Language) string {
	if lang == common.LangAR {
		return "[Please respond in Arabic] " + message
	}
	return message
}

// TitlePrompt 產生對話標題的提示
func TitlePrompt(message string, lang common.Language) string {
	if lang == common.LangAR {
		return fmt.Sprintf("قم بإنشاء عنوان قصير (3-5 كلمات) لمحادثة تبدأ بهذه الرسالة: '%s'. أعط العنوان فقط، بدون علامات تنصيص.", message)
	}
	return fmt.Sprintf("Generate a short title (3-5 words) for a conversation starting with this message: '%s'. Give only the title, no quotes.", message)
}

// DefaultTitle 新對話的標題
func DefaultTitle(lang common.Language) string {
	return lang.Pick("New Chat", "محادثة جديدة")
}

// FallbackTitle 標題產生失敗時使用日期
func FallbackTitle(lang common.Language, now time.Time) string {
	if lang == common.LangAR {
		return "محادثة - " + now.Format("02 Jan")
	}
	return "Chat - " + now.Format("Jan 02")
}

// CleanTitle 去除引號並限制 50 字
func CleanTitle(raw string) string {
	title := strings.Trim(strings.TrimSpace(raw), `"'`)
	title = strings.TrimSpace(title)
	if r := []rune(title); len(r) > MaxTitleLength {
		title = string(r[:MaxTitleLength-3]) + "..."
	}
	return title
}
