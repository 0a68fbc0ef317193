// Package extract 从模型返回的自由文本中提取结构化 JSON 载荷。
// 模型经常把 JSON 包裹在说明性文字或代码围栏里，这里只认第一个 '{'
// 和最后一个 '}' 之间的片段，并对该片段做严格解析。
package extract

import (
	"encoding/json"
	"strings"
)

// 提取失败原因
const (
	ReasonNoJSON    = "no-json-found"
	ReasonMalformed = "malformed-json"
)

// Error 提取失败。Raw 保留完整原文，模型输出不可复现，
// 事后排查只能依赖这份原文。
type Error struct {
	Reason string
	Raw    string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return "extract: " + e.Reason + ": " + e.cause.Error()
	}
	return "extract: " + e.Reason
}

func (e *Error) Unwrap() error { return e.cause }

// Payload 在原文中定位 JSON 片段并解析为顶层键到任意值的映射。
// 只有两种结果：解析成功的载荷，或带原因的 *Error，永远不会 panic。
func Payload(raw string) (map[string]any, *Error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &Error{Reason: ReasonNoJSON, Raw: raw}
	}

	span := raw[start : end+1]

	var payload map[string]any
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return nil, &Error{Reason: ReasonMalformed, Raw: raw, cause: err}
	}

	return payload, nil
}

// Items 取出载荷中指定顶层键对应的记录列表。
// 键不存在或不是列表时返回空列表，该栏目按无数据处理。
func Items(payload map[string]any, key string) []any {
	v, ok := payload[key]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	return items
}
