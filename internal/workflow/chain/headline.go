package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	llmctx "newsletter-headline-api/internal/domain/service"
	wfmodel "newsletter-headline-api/internal/workflow/model"
	wfnode "newsletter-headline-api/internal/workflow/node"
	workflowport "newsletter-headline-api/internal/workflow/port"
	workflowprompt "newsletter-headline-api/internal/workflow/prompt"
	"newsletter-headline-api/pkg/logger"
)

const (
	workflowHeadline = "headline_generate"

	// 正文进入 prompt 前的最大长度
	maxNewsletterRunes = 12000
	defaultCount       = 5
	defaultMaxLength   = 60
)

type HeadlineChain struct {
	factory workflowport.ChatModelFactory
	prompts *workflowprompt.Registry

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.HeadlineGenerateInput, *schema.Message]
	chainErr  error
}

func NewHeadlineChain(factory workflowport.ChatModelFactory) *HeadlineChain {
	return &HeadlineChain{factory: factory, prompts: workflowprompt.NewRegistry()}
}

func (c *HeadlineChain) Invoke(ctx context.Context, in *wfmodel.HeadlineGenerateInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

type headlineChainState struct {
	In       *wfmodel.HeadlineGenerateInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *HeadlineChain) getChain() (compose.Runnable[*wfmodel.HeadlineGenerateInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *HeadlineChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.HeadlineGenerateInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.HeadlineGenerateInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.HeadlineGenerateInput) (*headlineChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			return &headlineChainState{In: in}, nil
		}),
		compose.WithNodeName("headline.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *headlineChainState) (*headlineChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			msgs, err := c.formatMessages(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("headline.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *headlineChainState) (*headlineChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}

			provider := strings.TrimSpace(st.In.Provider)
			ctx = llmctx.WithWorkflowProvider(ctx, workflowHeadline, provider)
			chatModel, err := c.factory.Get(ctx, provider)
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildHeadlineModelOptions(st.In, true)...)
			if err != nil && wfnode.IsResponseFormatUnsupportedError(err) {
				logger.Warn(ctx, "llm json_schema not supported, fallback to prompt-only",
					"provider", provider,
					"model", strings.TrimSpace(st.In.Model),
					"error", err.Error(),
				)
				outMsg, err = chatModel.Generate(ctx, st.Messages, buildHeadlineModelOptions(st.In, false)...)
			}
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("headline.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *headlineChainState) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("headline.finalize"),
	)

	return chain.Compile(ctx)
}

func (c *HeadlineChain) formatMessages(ctx context.Context, in *wfmodel.HeadlineGenerateInput) ([]*schema.Message, error) {
	tpl, err := c.prompts.ChatTemplate(workflowprompt.PromptHeadlineV1)
	if err != nil {
		return nil, err
	}

	count := in.HeadlineCount
	if count <= 0 {
		count = defaultCount
	}
	maxLength := in.MaxLength
	if maxLength <= 0 {
		maxLength = defaultMaxLength
	}

	vars := map[string]any{
		"headline_count":       count,
		"max_length":           maxLength,
		"audience_profile":     strings.TrimSpace(in.AudienceProfile),
		"goal":                 strings.TrimSpace(in.Goal),
		"tone":                 strings.TrimSpace(in.Tone),
		"past_headlines_block": wfnode.OrNone(wfnode.BuildBulletBlock(in.PastHeadlines)),
		"avoid_clickbait":      in.AvoidClickbait,
		"require_numbers":      in.RequireNumbers,
		"trends_block":         wfnode.OrNone(wfnode.BuildBulletBlock(in.TrendingTopics)),
		"newsletter_text":      wfnode.TruncateByRunes(strings.TrimSpace(in.NewsletterText), maxNewsletterRunes),
	}
	return tpl.Format(ctx, vars)
}

func buildHeadlineModelOptions(in *wfmodel.HeadlineGenerateInput, enableSchema bool) []model.Option {
	opts := make([]model.Option, 0, 4)
	if in == nil {
		return opts
	}

	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if m := strings.TrimSpace(in.Model); m != "" {
		opts = append(opts, model.WithModel(m))
	}

	if enableSchema {
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{
				"type": "json_schema",
				"json_schema": map[string]any{
					"name":   "headline_list",
					"strict": false,
					"schema": headlineJSONSchema(),
				},
			},
		}))
	}

	return opts
}

func headlineJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"headlines"},
		"properties": map[string]any{
			"headlines": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"title", "keywords", "reason"},
					"properties": map[string]any{
						"title":    map[string]any{"type": "string"},
						"keywords": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"reason":   map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}
