package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsletter-headline-api/internal/domain/entity"
	"newsletter-headline-api/internal/submitter"
	"newsletter-headline-api/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type providerOption struct {
	Value string
	Label string
}

var (
	pageProviders = []providerOption{
		{Value: string(entity.ProviderOpenAI), Label: "OpenAI"},
		{Value: string(entity.ProviderAnthropic), Label: "Anthropic"},
		{Value: string(entity.ProviderGoogle), Label: "Google"},
	}
	pageTones = []string{"professional", "casual", "friendly", "urgent", "playful"}
)

type pageData struct {
	Form      submitter.FormValues
	View      submitter.Snapshot
	Providers []providerOption
	Tones     []string
}

// PageHandler 标题生成表单页
type PageHandler struct {
	generator submitter.Generator
}

// NewPageHandler generator 为表单提交时调用 /generate 的客户端
func NewPageHandler(generator submitter.Generator) *PageHandler {
	return &PageHandler{generator: generator}
}

// Index 渲染空表单
func (h *PageHandler) Index(c *gin.Context) {
	view := submitter.NewView()
	h.render(c, pageData{
		Form: submitter.FormValues{Provider: string(entity.ProviderOpenAI), Tone: pageTones[0]},
		View: view.Snapshot(),
	})
}

// Submit 处理表单提交，每个请求使用独立的结果区
func (h *PageHandler) Submit(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}
	form := submitter.ReadForm(c.Request.PostForm)

	ctx := submitter.WithForwardedFor(c.Request.Context(), c.ClientIP())
	s := submitter.New(h.generator, submitter.NewView())
	outcome := s.Submit(ctx, form)
	logger.Debug(ctx, "form submission rendered", "outcome", string(outcome))

	h.render(c, pageData{Form: form, View: s.View().Snapshot()})
}

func (h *PageHandler) render(c *gin.Context, data pageData) {
	data.Providers = pageProviders
	data.Tones = pageTones
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(c.Writer, data); err != nil {
		logger.Error(c.Request.Context(), "failed to render page", err)
	}
}
