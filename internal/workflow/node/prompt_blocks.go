// Package node 工作流节点共用的文本与 JSON 处理
package node

import "strings"

// BuildBulletBlock 每项一行 "- item"，忽略空项
func BuildBulletBlock(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

// OrNone 空串替换为 "None"
func OrNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}

// TruncateByRunes 按字符截断，maxRunes <= 0 返回空串
func TruncateByRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes])
}
