package agent

import (
	"context"
	"testing"

	"github.com/flowcraft/llmorch/prompt"
	"github.com/flowcraft/llmorch/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedder_RejectsAnthropic(t *testing.T) {
	_, err := NewEmbedder(prompt.ProviderAnthropic, &fakeTransport{}, nil, nil)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestEmbedder_OpenAI(t *testing.T) {
	ft := &fakeTransport{response: transport.Response{Status: 200, Body: []byte(
		`{"data":[{"embedding":[0.1,0.2,0.3],"index":0}],"usage":{"prompt_tokens":4,"total_tokens":4}}`,
	)}}
	e, err := NewEmbedder(prompt.ProviderOpenAI, ft, nil, nil)
	require.NoError(t, err)

	vec, usage, err := e.Embed(context.Background(), "text-embedding-3-small", "hello world")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, TokenUsage{PromptTokens: 4, TotalTokens: 4}, usage)
	assert.Equal(t, transport.OperationEmbed, ft.lastReq.Operation)
}

func TestEmbedder_Gemini(t *testing.T) {
	ft := &fakeTransport{response: transport.Response{Status: 200, Body: []byte(
		`{"embedding":{"values":[0.5,0.6]}}`,
	)}}
	e, err := NewEmbedder(prompt.ProviderGemini, ft, nil, nil)
	require.NoError(t, err)

	vec, _, err := e.Embed(context.Background(), "text-embedding-004", "bonjour")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.6}, vec)
}

func TestEmbedder_Vertex(t *testing.T) {
	ft := &fakeTransport{response: transport.Response{Status: 200, Body: []byte(
		`{"predictions":[{"embeddings":{"values":[0.9],"statistics":{"token_count":3}}}]}`,
	)}}
	e, err := NewEmbedder(prompt.ProviderVertex, ft, nil, nil)
	require.NoError(t, err)

	vec, usage, err := e.Embed(context.Background(), "text-embedding-004", "hola")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9}, vec)
	assert.Equal(t, TokenUsage{TotalTokens: 3}, usage)
}

func TestEmbedder_CancelledContext(t *testing.T) {
	e, err := NewEmbedder(prompt.ProviderOpenAI, &fakeTransport{}, nil, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = e.Embed(ctx, "text-embedding-3-small", "hi")
	assert.ErrorIs(t, err, Cancelled)
}
