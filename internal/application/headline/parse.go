package headline

import (
	"encoding/json"
	"fmt"
	"strings"

	"newsletter-headline-api/internal/domain/entity"
	wfnode "newsletter-headline-api/internal/workflow/node"
)

type headlineEnvelope struct {
	Headlines []entity.Headline `json:"headlines"`
}

// ParseHeadlines 解析模型输出：支持标题数组或 {"headlines": [...]}
func ParseHeadlines(content string) ([]entity.Headline, error) {
	raw := wfnode.ExtractJSONObject(content)
	if raw == "" {
		return nil, fmt.Errorf("empty llm output")
	}

	var list []entity.Headline
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, fmt.Errorf("decode headline list: %w", err)
		}
	} else {
		var env headlineEnvelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			return nil, fmt.Errorf("decode headline object: %w", err)
		}
		list = env.Headlines
	}

	return normalize(list), nil
}

func normalize(in []entity.Headline) []entity.Headline {
	out := make([]entity.Headline, 0, len(in))
	for _, h := range in {
		h.Title = strings.TrimSpace(h.Title)
		if h.Title == "" {
			continue
		}
		h.Reason = strings.TrimSpace(h.Reason)
		keywords := make([]string, 0, len(h.Keywords))
		for _, k := range h.Keywords {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		h.Keywords = keywords
		out = append(out, h)
	}
	return out
}
