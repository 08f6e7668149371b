package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const geminiType = "Gemini"

// contentGenerator 对应 genai.Models 的最小依赖
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// GeminiChatModel 将 genai 适配为 eino BaseChatModel
type GeminiChatModel struct {
	models contentGenerator
	cfg    GeminiConfig
}

var _ model.BaseChatModel = (*GeminiChatModel)(nil)

func NewGeminiChatModel(ctx context.Context, cfg *GeminiConfig) (*GeminiChatModel, error) {
	if cfg == nil {
		return nil, fmt.Errorf("gemini config is nil")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return newGeminiChatModel(client.Models, *cfg), nil
}

func newGeminiChatModel(models contentGenerator, cfg GeminiConfig) *GeminiChatModel {
	return &GeminiChatModel{models: models, cfg: cfg}
}

func (g *GeminiChatModel) GetType() string { return geminiType }

// IsCallbacksEnabled 回调由本实现自行触发
func (g *GeminiChatModel) IsCallbacksEnabled() bool { return true }

func (g *GeminiChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (outMsg *schema.Message, err error) {
	options := model.GetCommonOptions(&model.Options{
		Model:       &g.cfg.Model,
		Temperature: &g.cfg.Temperature,
		MaxTokens:   ptrInt(g.cfg.MaxTokens),
	}, opts...)

	cbConfig := &model.Config{Model: deref(options.Model)}
	if options.MaxTokens != nil {
		cbConfig.MaxTokens = *options.MaxTokens
	}
	if options.Temperature != nil {
		cbConfig.Temperature = *options.Temperature
	}

	ctx = callbacks.EnsureRunInfo(ctx, g.GetType(), components.ComponentOfChatModel)
	ctx = callbacks.OnStart(ctx, &model.CallbackInput{Messages: input, Config: cbConfig})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	contents, genCfg := buildGeminiRequest(input, options)
	resp, err := g.models.GenerateContent(ctx, cbConfig.Model, contents, genCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	outMsg, usage, err := convertGeminiResponse(resp)
	if err != nil {
		return nil, err
	}

	callbacks.OnEnd(ctx, &model.CallbackOutput{
		Message:    outMsg,
		Config:     cbConfig,
		TokenUsage: usage,
	})
	return outMsg, nil
}

// Stream 不做增量输出，一次性返回完整结果
func (g *GeminiChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := g.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func buildGeminiRequest(input []*schema.Message, options *model.Options) ([]*genai.Content, *genai.GenerateContentConfig) {
	cfg := &genai.GenerateContentConfig{}
	if options.Temperature != nil {
		t := *options.Temperature
		cfg.Temperature = &t
	}
	if options.MaxTokens != nil {
		cfg.MaxOutputTokens = int32(*options.MaxTokens)
	}

	var system []string
	contents := make([]*genai.Content, 0, len(input))
	for _, m := range input {
		if m == nil {
			continue
		}
		switch m.Role {
		case schema.System:
			system = append(system, m.Content)
		case schema.Assistant:
			contents = append(contents, &genai.Content{
				Role:  string(genai.RoleModel),
				Parts: []*genai.Part{{Text: m.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  string(genai.RoleUser),
				Parts: []*genai.Part{{Text: m.Content}},
			})
		}
	}
	if len(system) > 0 {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
		}
	}
	return contents, cfg
}

func convertGeminiResponse(resp *genai.GenerateContentResponse) (*schema.Message, *model.TokenUsage, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, nil, fmt.Errorf("gemini: empty response")
	}

	var sb strings.Builder
	cand := resp.Candidates[0]
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p == nil || p.Thought {
				continue
			}
			sb.WriteString(p.Text)
		}
	}

	msg := schema.AssistantMessage(sb.String(), nil)
	msg.ResponseMeta = &schema.ResponseMeta{FinishReason: string(cand.FinishReason)}

	var usage *model.TokenUsage
	if um := resp.UsageMetadata; um != nil {
		usage = &model.TokenUsage{
			PromptTokens:     int(um.PromptTokenCount),
			CompletionTokens: int(um.CandidatesTokenCount),
			TotalTokens:      int(um.TotalTokenCount),
		}
		msg.ResponseMeta.Usage = &schema.TokenUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		}
	}
	return msg, usage, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
