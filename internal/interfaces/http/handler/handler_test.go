package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-headline-api/internal/application/usage"
	"newsletter-headline-api/internal/config"
	"newsletter-headline-api/internal/domain/entity"
	"newsletter-headline-api/internal/submitter"
	apperrors "newsletter-headline-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	got     *entity.GenerationRequest
	resp    *entity.GenerationResponse
	err     error
	records []*entity.GenerationRecord
	limit   int
}

func (f *fakeService) Generate(_ context.Context, req *entity.GenerationRequest) (*entity.GenerationResponse, error) {
	f.got = req
	return f.resp, f.err
}

func (f *fakeService) Recent(_ context.Context, limit int) ([]*entity.GenerationRecord, error) {
	f.limit = limit
	return f.records, f.err
}

type fakeSettings map[string]config.ProviderConfig

func (f fakeSettings) Settings(name string) (config.ProviderConfig, bool) {
	c, ok := f[name]
	return c, ok
}

func newHeadlineEngine(svc *fakeService) *gin.Engine {
	h := NewHeadlineHandler(svc, fakeSettings{"openai": {}, "google": {}})
	r := gin.New()
	r.POST("/generate", h.Generate)
	r.GET("/v1/headlines/recent", h.ListRecent)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestGenerate_Success(t *testing.T) {
	svc := &fakeService{resp: &entity.GenerationResponse{
		Headlines:      []entity.Headline{{Title: "T", Keywords: []string{"k"}, Reason: "r"}},
		TrendingTopics: []string{},
	}}
	w := postJSON(newHeadlineEngine(svc), "/generate", `{"newsletter_text":"hello","provider":"google","tone":"casual"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"headlines":[{"title":"T","keywords":["k"],"reason":"r"}],"trending_topics":[]}`, w.Body.String())
	require.NotNil(t, svc.got)
	assert.Equal(t, "google", svc.got.Provider)
	assert.Equal(t, "casual", svc.got.Tone)
	assert.Equal(t, entity.DefaultConstraints(), svc.got.Constraints)
}

func TestGenerate_MissingTextIs422(t *testing.T) {
	svc := &fakeService{}
	w := postJSON(newHeadlineEngine(svc), "/generate", `{"goal":"x"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Nil(t, svc.got)

	w = postJSON(newHeadlineEngine(svc), "/generate", `not json`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGenerate_UnknownProviderIs400(t *testing.T) {
	svc := &fakeService{}
	w := postJSON(newHeadlineEngine(svc), "/generate", `{"newsletter_text":"x","provider":"mistral"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "mistral")
	assert.Nil(t, svc.got)
}

func TestGenerate_ModelFollowsProvider(t *testing.T) {
	svc := &fakeService{resp: &entity.GenerationResponse{Headlines: []entity.Headline{}, TrendingTopics: []string{}}}
	r := newHeadlineEngine(svc)

	w := postJSON(r, "/generate", `{"newsletter_text":"x","provider":"openai","model":"o1-pro"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "o1-pro")
	assert.Nil(t, svc.got)

	w = postJSON(r, "/generate", `{"newsletter_text":"x","provider":"google","model":"gemini-pro"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.ModelGoogle, svc.got.Model)

	w = postJSON(r, "/generate", `{"newsletter_text":"x","provider":"openai"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.ModelOpenAI, svc.got.Model)
}

func TestGenerate_LLMFailureIs502(t *testing.T) {
	svc := &fakeService{err: apperrors.ErrLLMCallFailed.WithError(errors.New("boom"))}
	w := postJSON(newHeadlineEngine(svc), "/generate", `{"newsletter_text":"x"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(502), body["code"])
}

func TestListRecent(t *testing.T) {
	svc := &fakeService{records: []*entity.GenerationRecord{{ID: "1", Provider: "openai"}}}
	w := httptest.NewRecorder()
	newHeadlineEngine(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/headlines/recent?limit=500", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, svc.limit)
	assert.Contains(t, w.Body.String(), `"provider":"openai"`)
}

type fakeReporter struct {
	window time.Duration
	err    error
}

func (f *fakeReporter) Report(_ context.Context, window time.Duration) (*usage.Report, error) {
	f.window = window
	if f.err != nil {
		return nil, f.err
	}
	until := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &usage.Report{
		Since: until.Add(-window),
		Until: until,
		Providers: []entity.ProviderUsage{
			{Provider: "openai", Model: "gpt-4", Calls: 3, PromptTokens: 90, CompletionTokens: 30},
		},
	}, nil
}

func TestUsageReport(t *testing.T) {
	rep := &fakeReporter{}
	r := gin.New()
	r.GET("/v1/usage", NewUsageHandler(rep).Report)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/usage?window=2h", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2*time.Hour, rep.window)

	var body struct {
		Data struct {
			Since       string `json:"since"`
			TotalTokens int64  `json:"total_tokens"`
			Providers   []struct {
				Provider    string `json:"provider"`
				TotalTokens int64  `json:"total_tokens"`
			} `json:"providers"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2026-03-01T10:00:00Z", body.Data.Since)
	assert.Equal(t, int64(120), body.Data.TotalTokens)
	require.Len(t, body.Data.Providers, 1)
	assert.Equal(t, "openai", body.Data.Providers[0].Provider)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/usage?window=soon", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, window := range []string{"-5h", "0s"} {
		rep.window = time.Minute
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/usage?window="+window, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, window)
		assert.Equal(t, time.Minute, rep.window, window)
	}
}

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler("1.2.0", map[string]HealthChecker{"postgres": nil, "redis": stubChecker{}})
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"healthy","version":"1.2.0"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "postgres")

	down := NewHealthHandler("", map[string]HealthChecker{"redis": stubChecker{err: errors.New("dial tcp: refused")}})
	r = gin.New()
	r.GET("/ready", down.Ready)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not_ready")
}

type fakeGenerator struct {
	got       *entity.GenerationRequest
	headlines []entity.Headline
	err       error
}

func (f *fakeGenerator) Generate(_ context.Context, req *entity.GenerationRequest) ([]entity.Headline, error) {
	f.got = req
	return f.headlines, f.err
}

func submitForm(h *PageHandler, form url.Values) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/", h.Index)
	r.POST("/submit", h.Submit)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func TestPage_Index(t *testing.T) {
	r := gin.New()
	r.GET("/", NewPageHandler(&fakeGenerator{}).Index)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="headlineForm"`)
	assert.Contains(t, body, `<option value="anthropic">Anthropic</option>`)
	assert.Contains(t, body, `id="loading" class="hidden `)
	assert.NotContains(t, body, `id="submitButton" disabled`)
}

func TestPage_SubmitRendersCards(t *testing.T) {
	gen := &fakeGenerator{headlines: []entity.Headline{{Title: "<b>Big</b> news", Keywords: []string{"ai"}, Reason: "fits"}}}
	w := submitForm(NewPageHandler(gen), url.Values{
		"newsletter_text": {"body"},
		"tone":            {"casual"},
		"provider":        {"anthropic"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gen.got)
	assert.Equal(t, entity.ModelAnthropic, gen.got.Model)
	assert.Equal(t, "", gen.got.AudienceProfile)

	body := w.Body.String()
	assert.Contains(t, body, "headline-card")
	assert.Contains(t, body, "&lt;b&gt;Big&lt;/b&gt; news")
	assert.Contains(t, body, `<span class="keyword-tag">ai</span>`)
	assert.Contains(t, body, `<option value="anthropic" selected>`)
	assert.NotContains(t, body, `id="submitButton" disabled`)
	assert.NotContains(t, body, `id="loading" class="text-center`)
}

func TestPage_SubmitRendersError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("HTTP error! status: 500, message: boom")}
	w := submitForm(NewPageHandler(gen), url.Values{"newsletter_text": {"body"}})

	body := w.Body.String()
	assert.Contains(t, body, `role="alert"`)
	assert.Contains(t, body, "HTTP error! status: 500, message: boom")
}

func TestPage_SubmitRendersEmpty(t *testing.T) {
	w := submitForm(NewPageHandler(&fakeGenerator{headlines: []entity.Headline{}}), url.Values{"newsletter_text": {"body"}})
	assert.Contains(t, w.Body.String(), "No headlines generated.")
}

func TestPageLoadingState(t *testing.T) {
	view := submitter.NewView()
	view.Begin()

	var buf bytes.Buffer
	require.NoError(t, pageTemplate.Execute(&buf, pageData{
		View:      view.Snapshot(),
		Providers: pageProviders,
		Tones:     pageTones,
	}))
	body := buf.String()
	assert.Contains(t, body, `id="submitButton" disabled`)
	assert.Contains(t, body, `id="loading" class="text-center`)
	assert.Contains(t, body, `id="results" class="hidden `)
}

func TestPageLocksFormOnSubmit(t *testing.T) {
	r := gin.New()
	r.GET("/", NewPageHandler(&fakeGenerator{}).Index)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	body := w.Body.String()
	assert.Contains(t, body, "getElementById('headlineForm').addEventListener('submit'")
	assert.Contains(t, body, "button.disabled = true;")
	assert.Contains(t, body, "getElementById('loading').classList.remove('hidden')")
	assert.Contains(t, body, "event.preventDefault();")
}

func TestReadyReportsEveryProbe(t *testing.T) {
	h := NewHealthHandler("", map[string]HealthChecker{
		"postgres": stubChecker{},
		"redis":    stubChecker{err: errors.New("timeout")},
	})
	results := h.probe(context.Background())

	require.Len(t, results, 2)
	assert.Equal(t, "ok", results["postgres"].Status)
	assert.Equal(t, "error", results["redis"].Status)
	assert.Equal(t, "timeout", results["redis"].Error)
}
