package node

import "strings"

// 结构化输出不被支持时，各家接口错误信息里常见的片段
var responseFormatErrorHints = [][]string{
	{"response_format"},
	{"response_schema"},
	{"json_schema"},
	{"unknown parameter", "response"},
	{"invalid", "response"},
	{"failed to parse"},
}

// IsResponseFormatUnsupportedError 判断错误是否由 response_format / json_schema 不被支持引起
func IsResponseFormatUnsupportedError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range responseFormatErrorHints {
		if containsAll(msg, hint) {
			return true
		}
	}
	return false
}

func containsAll(s string, parts []string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

type errorSuggestion struct {
	parts      []string
	suggestion string
}

// 上游错误信息片段与对应的处理建议，按顺序匹配，每条建议最多出现一次
var llmErrorSuggestions = []errorSuggestion{
	{[]string{"401"}, "check the API key configured for this provider"},
	{[]string{"api key"}, "check the API key configured for this provider"},
	{[]string{"429"}, "the provider is rate limiting requests, retry later"},
	{[]string{"rate limit"}, "the provider is rate limiting requests, retry later"},
	{[]string{"quota"}, "the provider account has exhausted its quota"},
	{[]string{"context deadline exceeded"}, "the provider did not answer in time, retry or shorten the newsletter text"},
	{[]string{"model", "not found"}, "the configured model is not available for this provider"},
	{[]string{"context length"}, "the newsletter text is too long for the selected model"},
}

// SuggestionsFor 按上游错误信息给出处理建议，无匹配时返回 nil
func SuggestionsFor(err error) []string {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	var out []string
	seen := make(map[string]struct{})
	for _, s := range llmErrorSuggestions {
		if _, dup := seen[s.suggestion]; dup || !containsAll(msg, s.parts) {
			continue
		}
		seen[s.suggestion] = struct{}{}
		out = append(out, s.suggestion)
	}
	return out
}
