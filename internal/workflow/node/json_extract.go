package node

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject 返回模型输出中第一个完整的 JSON 对象或数组；
// 会去掉 ``` 代码块标记以及 JSON 前后的说明文字。找不到时返回去空白后的原文。
func ExtractJSONObject(s string) string {
	raw := strings.TrimSpace(stripCodeFence(s))
	if raw == "" {
		return raw
	}

	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' && raw[i] != '[' {
			continue
		}
		var v json.RawMessage
		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		if err := dec.Decode(&v); err == nil {
			return string(v)
		}
	}
	return raw
}

func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(t), "```")
}
