package common

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v)
}

func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

var (
	unquotedKeyPattern = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	codeFencePattern   = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
)

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號
func QuoteJSONKeys(raw string) string {
	return unquotedKeyPattern.ReplaceAllString(raw, `$1"$2":`)
}

// StripCodeFence 移除模型回應外層的 markdown 程式碼區塊
func StripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := codeFencePattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}

// ExtractJSONObject 取出文字中第一個 '{' 到最後一個 '}' 之間的內容
func ExtractJSONObject(raw string) (string, error) {
	return extractBetween(StripCodeFence(raw), '{', '}')
}

// ExtractJSONArray 取出文字中第一個 '[' 到最後一個 ']' 之間的內容
func ExtractJSONArray(raw string) (string, error) {
	return extractBetween(StripCodeFence(raw), '[', ']')
}

func extractBetween(raw string, open, close byte) (string, error) {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON %c...%c found in response", open, close)
	}
	return raw[start : end+1], nil
}

// SplitCommaList 拆分逗號分隔字串，去除空白與重複
func SplitCommaList(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		key := strings.ToLower(part)
		if part == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, part)
	}
	return out
}
