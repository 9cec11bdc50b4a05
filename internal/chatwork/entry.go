package chatwork

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedEnvelope 请求体既不是单个对象也不是对象数组
var ErrMalformedEnvelope = errors.New("malformed chatwork envelope")

// Text 宽松的文本字段：接受 JSON 字符串、数字、布尔值或 null
// 非字符串按字面文本保存，null/缺失为空串
type Text string

// UnmarshalJSON 实现 json.Unmarshaler
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		return fmt.Errorf("expected scalar, got %s", string(data[:1]))
	}
	*t = Text(data)
	return nil
}

// Trimmed 去除首尾空白后的值
func (t Text) Trimmed() string {
	return strings.TrimSpace(string(t))
}

// RawChatEntry 外部消息集成推送的单条原始记录（不直接落库）
type RawChatEntry struct {
	Datetime     Text `json:"datetime"`
	ResidentName Text `json:"resident_name"`
	Message      Text `json:"message"`
	StaffName    Text `json:"staff_name"`
	MessageID    Text `json:"message_id"`
}

// DecodeChatEntries 解析请求体：单个对象或对象数组
// 数组中出现非对象元素时整体视为信封格式错误，不处理任何条目
func DecodeChatEntries(body []byte) ([]RawChatEntry, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedEnvelope)
	}

	switch body[0] {
	case '{':
		var entry RawChatEntry
		if err := json.Unmarshal(body, &entry); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
		}
		return []RawChatEntry{entry}, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
		}
		entries := make([]RawChatEntry, 0, len(items))
		for i, item := range items {
			item = bytes.TrimSpace(item)
			if len(item) == 0 || item[0] != '{' {
				return nil, fmt.Errorf("%w: element %d is not an object", ErrMalformedEnvelope, i)
			}
			var entry RawChatEntry
			if err := json.Unmarshal(item, &entry); err != nil {
				return nil, fmt.Errorf("%w: element %d: %v", ErrMalformedEnvelope, i, err)
			}
			entries = append(entries, entry)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("%w: expected object or array", ErrMalformedEnvelope)
	}
}
