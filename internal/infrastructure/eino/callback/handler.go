package callback

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"newsletter-headline-api/internal/domain/service"
	"newsletter-headline-api/pkg/logger"
	"newsletter-headline-api/pkg/metrics"
)

var tracer = otel.Tracer("eino")

type callStateKey struct{}

// callState OnStart 时确定，OnEnd/OnError 复用同一组标签
type callState struct {
	start    time.Time
	workflow string
	provider string
	model    string
}

func (s *callState) labels(status string) []string {
	return []string{s.workflow, s.provider, s.model, status}
}

func (s *callState) observe(status string) time.Duration {
	elapsed := time.Since(s.start)
	metrics.LLMCallTotal.WithLabelValues(s.labels(status)...).Inc()
	metrics.LLMCallDuration.WithLabelValues(s.workflow, s.provider, s.model).Observe(elapsed.Seconds())
	return elapsed
}

func newChatModelCallbackHandler(usageRecorder service.LLMUsageRecorder) *cbtemplate.ModelCallbackHandler {
	return &cbtemplate.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			st := &callState{
				start:    time.Now(),
				workflow: service.WorkflowFromContext(ctx),
				provider: service.ProviderFromContext(ctx),
				model:    modelName(input, info),
			}
			attrs := []attribute.KeyValue{
				attribute.String("eino.workflow", st.workflow),
				attribute.String("llm.provider", st.provider),
				attribute.String("llm.model", st.model),
			}
			if info != nil {
				attrs = append(attrs, attribute.String("eino.node_name", info.Name))
			}
			ctx, _ = tracer.Start(ctx, "llm.generate", trace.WithAttributes(attrs...))
			return context.WithValue(ctx, callStateKey{}, st)
		},

		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			st := stateFrom(ctx, info)
			if output != nil && output.Config != nil && output.Config.Model != "" {
				st.model = output.Config.Model
			}
			elapsed := st.observe("success")

			span := trace.SpanFromContext(ctx)
			defer span.End()

			if output == nil || output.TokenUsage == nil {
				return ctx
			}
			usage := output.TokenUsage
			metrics.LLMTokensUsed.WithLabelValues(st.workflow, st.provider, st.model, "prompt").Add(float64(usage.PromptTokens))
			metrics.LLMTokensUsed.WithLabelValues(st.workflow, st.provider, st.model, "completion").Add(float64(usage.CompletionTokens))
			span.SetAttributes(
				attribute.Int("llm.prompt_tokens", usage.PromptTokens),
				attribute.Int("llm.completion_tokens", usage.CompletionTokens),
			)

			if usageRecorder != nil {
				in := service.LLMUsageInput{
					Workflow:         st.workflow,
					Provider:         st.provider,
					Model:            st.model,
					PromptTokens:     usage.PromptTokens,
					CompletionTokens: usage.CompletionTokens,
					DurationMs:       int(elapsed.Milliseconds()),
				}
				// 流水异步写入，不占用请求耗时
				recordCtx := context.WithoutCancel(ctx)
				go func() {
					if err := usageRecorder.Record(recordCtx, in); err != nil {
						logger.Warn(recordCtx, "failed to record llm usage", "error", err.Error())
					}
				}()
			}
			return ctx
		},

		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			stateFrom(ctx, info).observe("error")

			span := trace.SpanFromContext(ctx)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return ctx
		},
	}
}

// stateFrom 没有经过 OnStart 时按当前 context 补一份
func stateFrom(ctx context.Context, info *einocb.RunInfo) *callState {
	if st, ok := ctx.Value(callStateKey{}).(*callState); ok {
		return st
	}
	return &callState{
		start:    time.Now(),
		workflow: service.WorkflowFromContext(ctx),
		provider: service.ProviderFromContext(ctx),
		model:    modelName(nil, info),
	}
}

// modelName 优先取调用配置中的模型名，其次是组件类型
func modelName(in *model.CallbackInput, info *einocb.RunInfo) string {
	if in != nil && in.Config != nil && in.Config.Model != "" {
		return in.Config.Model
	}
	if info != nil {
		return info.Type
	}
	return ""
}
