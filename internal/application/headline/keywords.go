package headline

import "strings"

const (
	DefaultMaxKeywords = 5
	minKeywordRunes    = 5
)

var stopWords = map[string]struct{}{
	"about": {}, "their": {}, "there": {}, "would": {}, "could": {},
	"should": {}, "which": {}, "where": {}, "when": {},
}

// ExtractKeywords 取正文中前 max 个长度大于 4 的非停用词（小写，保持原顺序，不去重）
func ExtractKeywords(text string, max int) []string {
	if max <= 0 {
		max = DefaultMaxKeywords
	}
	out := make([]string, 0, max)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if len([]rune(w)) < minKeywordRunes {
			continue
		}
		if _, ok := stopWords[w]; ok {
			continue
		}
		out = append(out, w)
		if len(out) == max {
			break
		}
	}
	return out
}
