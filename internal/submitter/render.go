package submitter

import (
	"bytes"
	"html/template"

	"newsletter-headline-api/internal/domain/entity"
)

// 结果区的三种面板。文本统一经 html/template 转义。
var panels = template.Must(template.New("panels").Parse(`
{{- define "error" -}}
<div class="bg-red-100 border border-red-400 text-red-700 px-4 py-3 rounded relative" role="alert">
    <strong class="font-bold">Error!</strong>
    <span class="block sm:inline"> {{.}}</span>
</div>
{{- end -}}

{{- define "empty" -}}
<div class="bg-yellow-100 border border-yellow-400 text-yellow-700 px-4 py-3 rounded relative" role="status">
    <strong class="font-bold">No headlines generated.</strong>
    <span class="block sm:inline"> Please try again with different input.</span>
</div>
{{- end -}}

{{- define "cards" -}}
{{- range . }}
<div class="bg-white rounded-lg shadow-md p-6 headline-card">
    <h3 class="text-xl font-semibold text-gray-800 mb-3">{{.Title}}</h3>
    <div class="mb-3">
        {{- range .Keywords}}
        <span class="keyword-tag">{{.}}</span>
        {{- end}}
    </div>
    <p class="reason-text">{{.Reason}}</p>
</div>
{{- end }}
{{- end -}}
`))

// RenderError 渲染错误面板
func RenderError(message string) template.HTML {
	return execute("error", message)
}

// RenderEmpty 渲染“无结果”面板
func RenderEmpty() template.HTML {
	return execute("empty", nil)
}

// RenderHeadlines 每条标题渲染一张卡片；空列表渲染“无结果”面板
func RenderHeadlines(headlines []entity.Headline) template.HTML {
	if len(headlines) == 0 {
		return RenderEmpty()
	}
	return execute("cards", headlines)
}

func execute(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := panels.ExecuteTemplate(&buf, name, data); err != nil {
		// 模板在包初始化时已校验，这里只可能是数据异常
		return template.HTML(template.HTMLEscapeString(err.Error()))
	}
	// #nosec G203 -- 输出由 html/template 生成，已转义
	return template.HTML(buf.String())
}
