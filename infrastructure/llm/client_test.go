package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("openai", ClientConfig{})
	assert.ErrorIs(t, err, ErrEmptyAPIKey)
}

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := NewClient("no-such-provider", ClientConfig{APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestNewClientRegisteredProviders(t *testing.T) {
	for _, provider := range []string{"openai", "anthropic", "google"} {
		t.Run(provider, func(t *testing.T) {
			client, err := NewClient(provider, ClientConfig{APIKey: "test-key"})
			require.NoError(t, err)
			assert.NotEmpty(t, client.GetModel(), "providers carry a default model")
		})
	}
}

func TestClientComplete(t *testing.T) {
	mock := NewMockCoreLLM("hello from the model")
	client := NewClientFromCore(mock)

	response, err := client.Complete(context.Background(), "hi", map[string]any{"system": "be brief"})
	require.NoError(t, err)
	assert.Equal(t, "hello from the model", response)
	assert.Equal(t, "hi", mock.LastPrompt)
	assert.Equal(t, "be brief", mock.LastOpts["system"])
}

func TestClientCompleteWithUsage(t *testing.T) {
	mock := NewMockCoreLLM("response")
	mock.TokensIn = 42
	mock.TokensOut = 7
	client := NewClientFromCore(mock)

	response, tokensIn, tokensOut, err := client.CompleteWithUsage(context.Background(), "p", nil)
	require.NoError(t, err)
	assert.Equal(t, "response", response)
	assert.Equal(t, 42, tokensIn)
	assert.Equal(t, 7, tokensOut)
}

func TestClientEstimateTokens(t *testing.T) {
	client := NewClientFromCore(NewMockCoreLLM("x"))

	count, err := client.EstimateTokens(strings.Repeat("word ", 8)) // 40 chars
	require.NoError(t, err)
	assert.Equal(t, 10, count)

	count, err = client.EstimateTokens("")
	require.NoError(t, err)
	assert.Zero(t, count)
}

// taggingMiddleware appends its tag when the request passes through, proving
// the wrap order of the chain.
func taggingMiddleware(tag string, order *[]string) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &taggingLLM{next: next, tag: tag, order: order}
	}
}

type taggingLLM struct {
	next  CoreLLM
	tag   string
	order *[]string
}

func (l *taggingLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	*l.order = append(*l.order, l.tag)
	return l.next.DoRequest(ctx, prompt, opts)
}

func (l *taggingLLM) GetModel() string  { return l.next.GetModel() }
func (l *taggingLLM) SetModel(m string) { l.next.SetModel(m) }

func TestMiddlewareChainOrder(t *testing.T) {
	var order []string
	client := NewClientFromCore(NewMockCoreLLM("ok"),
		taggingMiddleware("outer", &order),
		taggingMiddleware("inner", &order),
	)

	_, err := client.Complete(context.Background(), "p", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order,
		"the first middleware listed wraps outermost")
}
