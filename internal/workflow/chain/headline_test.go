package chain

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wfmodel "newsletter-headline-api/internal/workflow/model"
)

type scriptedModel struct {
	mu       sync.Mutex
	calls    int
	errs     []error
	reply    string
	lastMsgs []*schema.Message
	lastOpts *model.Options
}

func (m *scriptedModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.calls
	m.calls++
	m.lastMsgs = input
	m.lastOpts = model.GetCommonOptions(&model.Options{}, opts...)
	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *scriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

type staticFactory struct {
	model model.BaseChatModel
	err   error
	names []string
}

func (f *staticFactory) Get(_ context.Context, name string) (model.BaseChatModel, error) {
	f.names = append(f.names, name)
	if f.err != nil {
		return nil, f.err
	}
	return f.model, nil
}

func floatPtr(v float32) *float32 { return &v }
func intPtr(v int) *int           { return &v }

func TestHeadlineChainInvoke(t *testing.T) {
	t.Parallel()
	m := &scriptedModel{reply: `{"headlines":[]}`}
	f := &staticFactory{model: m}
	c := NewHeadlineChain(f)

	out, err := c.Invoke(context.Background(), &wfmodel.HeadlineGenerateInput{
		NewsletterText:  "Weekly product notes",
		AudienceProfile: "PMs",
		Tone:            "Friendly",
		TrendingTopics:  []string{"AI agents"},
		Provider:        "openai",
		Model:           "gpt-4",
		Temperature:     floatPtr(0.7),
		MaxTokens:       intPtr(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"headlines":[]}`, out.Content)
	assert.Equal(t, []string{"openai"}, f.names)

	require.Len(t, m.lastMsgs, 2)
	assert.Contains(t, m.lastMsgs[1].Content, "Weekly product notes")
	assert.Contains(t, m.lastMsgs[1].Content, "- AI agents")
	assert.Contains(t, m.lastMsgs[1].Content, "Past high-performing headlines:\nNone")
	require.NotNil(t, m.lastOpts.Model)
	assert.Equal(t, "gpt-4", *m.lastOpts.Model)
	require.NotNil(t, m.lastOpts.MaxTokens)
	assert.Equal(t, 1000, *m.lastOpts.MaxTokens)
}

func TestHeadlineChainFallsBackWithoutSchema(t *testing.T) {
	t.Parallel()
	m := &scriptedModel{
		errs:  []error{errors.New("400 unknown parameter: response_format")},
		reply: "[]",
	}
	c := NewHeadlineChain(&staticFactory{model: m})

	out, err := c.Invoke(context.Background(), &wfmodel.HeadlineGenerateInput{NewsletterText: "x", Provider: "anthropic"})
	require.NoError(t, err)
	assert.Equal(t, "[]", out.Content)
	assert.Equal(t, 2, m.calls)
}

func TestHeadlineChainPropagatesErrors(t *testing.T) {
	t.Parallel()
	m := &scriptedModel{errs: []error{errors.New("upstream 500")}}
	_, err := NewHeadlineChain(&staticFactory{model: m}).Invoke(context.Background(), &wfmodel.HeadlineGenerateInput{NewsletterText: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream 500")
	assert.Equal(t, 1, m.calls)

	_, err = NewHeadlineChain(&staticFactory{err: errors.New("no provider")}).Invoke(context.Background(), &wfmodel.HeadlineGenerateInput{NewsletterText: "x"})
	require.Error(t, err)

	_, err = NewHeadlineChain(nil).Invoke(context.Background(), &wfmodel.HeadlineGenerateInput{})
	require.Error(t, err)
}
