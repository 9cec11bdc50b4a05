package chatwork

import (
	"regexp"
	"strings"
	"time"
)

// JSTOffset 所有外部日时一律按 UTC+9 的本地时间解释
const JSTOffset = "+09:00"

// JST 固定偏移时区（不依赖 tzdata）
var JST = time.FixedZone("JST", 9*60*60)

var (
	dateTimePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[T ](\d{2}:\d{2}(?::\d{2})?)$`)
	datePattern     = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})$`)
)

// ToJSTTimestamp 将日期/日时字符串转换为带 +09:00 偏移的 ISO8601 字符串
// 接受 YYYY-MM-DD[T ]HH:MM[:SS] 与 YYYY-MM-DD（"/" 视同 "-"），其余返回 false
func ToJSTTimestamp(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	s = strings.ReplaceAll(s, "/", "-")

	if m := dateTimePattern.FindStringSubmatch(s); m != nil {
		clock := m[2]
		if len(clock) == len("15:04") {
			clock += ":00"
		}
		return m[1] + "T" + clock + JSTOffset, true
	}

	if m := datePattern.FindStringSubmatch(s); m != nil {
		return m[1] + "T00:00:00" + JSTOffset, true
	}

	return "", false
}

// ParseJSTTimestamp 在 ToJSTTimestamp 的基础上解析为 time.Time（JST）
// 形状合法但日历上不存在的日时（如 2024-02-30）同样返回 false
func ParseJSTTimestamp(raw string) (time.Time, bool) {
	s, ok := ToJSTTimestamp(raw)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.In(JST), true
}
