package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flowcraft/llmorch/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointFor_Defaults(t *testing.T) {
	c := NewEnvClient()
	ep, err := c.EndpointFor(prompt.ProviderOpenAI, "gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "https://api.openai.com/v1", ep)
}

func TestEndpointFor_VertexRequiresProject(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	c := NewEnvClient()
	_, err := c.EndpointFor(prompt.ProviderVertex, "gemini-1.5-pro")
	assert.Error(t, err)
}

func TestCredentialsFor_MissingKeyIsConfigError(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	c := NewEnvClient()
	_, err := c.CredentialsFor(prompt.ProviderOpenAI)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestCredentialsFor_AnthropicSetsVersionHeader(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	c := NewEnvClient()
	creds, err := c.CredentialsFor(prompt.ProviderAnthropic)
	require.NoError(t, err)
	assert.Equal(t, "x-api-key", creds.AuthHeader)
	assert.Equal(t, "2023-06-01", creds.ExtraHeaders["anthropic-version"])
}

func TestExecute_SuccessAgainstMockServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_API_URL", srv.URL)

	c := NewEnvClient()
	resp, err := c.Execute(context.Background(), Request{
		Provider: prompt.ProviderOpenAI, Model: "gpt-4o", Operation: OperationGenerate,
		Body: []byte(`{}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestExecute_ServerErrorBecomesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_API_URL", srv.URL)

	c := NewEnvClient()
	_, err := c.Execute(context.Background(), Request{
		Provider: prompt.ProviderOpenAI, Model: "gpt-4o", Operation: OperationGenerate, Body: []byte(`{}`),
	})
	require.Error(t, err)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, 500, provErr.Status)
	assert.True(t, provErr.Retryable())
}

func TestExecute_ClientErrorIsNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_API_URL", srv.URL)

	c := NewEnvClient()
	_, err := c.Execute(context.Background(), Request{
		Provider: prompt.ProviderOpenAI, Model: "gpt-4o", Operation: OperationGenerate, Body: []byte(`{}`),
	})
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.False(t, provErr.Retryable())
}

func TestPathFor_GeminiAndVertexEmbed(t *testing.T) {
	p, err := pathFor(prompt.ProviderGemini, "gemini-1.5-pro", OperationEmbed)
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro:embedContent", p)

	p, err = pathFor(prompt.ProviderVertex, "text-embedding-004", OperationEmbed)
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-004:predict", p)
}
