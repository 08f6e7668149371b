package submitter

import (
	"html/template"
	"sync"

	"newsletter-headline-api/internal/domain/entity"
)

// Outcome 一次提交最终渲染的结果类型
type Outcome string

const (
	OutcomeNone  Outcome = ""
	OutcomeCards Outcome = "cards"
	OutcomeEmpty Outcome = "empty"
	OutcomeError Outcome = "error"
	// OutcomeStale 响应晚于更新的提交到达，已丢弃
	OutcomeStale Outcome = "stale"
)

// Token 标识一次提交，单调递增
type Token uint64

// View 结果区状态：加载指示、结果容器、标题列表。
// 结果容器的可见性始终与加载指示相反。
type View struct {
	mu        sync.Mutex
	latest    Token
	loading   bool
	submitted bool
	list      template.HTML
	outcome   Outcome
}

// NewView 创建空的结果区
func NewView() *View {
	return &View{}
}

// Snapshot 结果区某一时刻的只读副本
type Snapshot struct {
	Loading        bool
	ResultsVisible bool
	Submitted      bool
	Headlines      template.HTML
	Outcome        Outcome
}

// Begin 进入加载态：显示加载指示、隐藏并清空结果列表，返回本次提交的 token
func (v *View) Begin() Token {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.latest++
	v.loading = true
	v.list = ""
	v.outcome = OutcomeNone
	return v.latest
}

// Finish 渲染本次提交的结果并退出加载态。
// token 不是最近一次 Begin 返回的值时丢弃结果，返回 OutcomeStale。
func (v *View) Finish(token Token, headlines []entity.Headline, err error) Outcome {
	// 渲染放在锁外
	var (
		list    template.HTML
		outcome Outcome
	)
	switch {
	case err != nil:
		list, outcome = RenderError(err.Error()), OutcomeError
	case len(headlines) == 0:
		list, outcome = RenderEmpty(), OutcomeEmpty
	default:
		list, outcome = RenderHeadlines(headlines), OutcomeCards
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if token != v.latest {
		return OutcomeStale
	}
	v.list = list
	v.outcome = outcome
	v.loading = false
	v.submitted = true
	return outcome
}

// Snapshot 返回当前状态
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	return Snapshot{
		Loading:        v.loading,
		ResultsVisible: !v.loading,
		Submitted:      v.submitted,
		Headlines:      v.list,
		Outcome:        v.outcome,
	}
}
