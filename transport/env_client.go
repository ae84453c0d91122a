package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/flowcraft/llmorch/prompt"
)

const defaultTimeout = 60 * time.Second

// EnvClient resolves endpoints and credentials from environment
// variables per the provider table, and executes requests with a
// timeout-bound net/http.Client, grounded on the same
// validate-method/set-headers/read-body shape as a hand-rolled HTTP tool
// call, generalized from a single tool invocation to a provider-call
// boundary.
type EnvClient struct {
	HTTPClient      *http.Client
	VertexTokenFunc func(ctx context.Context) (string, error) // overridable for tests; defaults to ADC
}

func NewEnvClient() *EnvClient {
	return &EnvClient{HTTPClient: &http.Client{Timeout: defaultTimeout}}
}

func (c *EnvClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: defaultTimeout}
}

func (c *EnvClient) EndpointFor(provider prompt.Provider, model string) (string, error) {
	switch provider {
	case prompt.ProviderOpenAI:
		return envOr("OPENAI_API_URL", "https://api.openai.com/v1"), nil
	case prompt.ProviderGemini:
		return envOr("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta/models"), nil
	case prompt.ProviderVertex:
		project := os.Getenv("GOOGLE_CLOUD_PROJECT")
		if project == "" {
			return "", &ConfigError{Reason: "GOOGLE_CLOUD_PROJECT is required for the vertex provider"}
		}
		location := envOr("GOOGLE_CLOUD_LOCATION", "us-central1")
		apiVersion := envOr("VERTEX_API_VERSION", "v1beta1")
		host := fmt.Sprintf("%s-aiplatform.googleapis.com", location)
		if location == "global" {
			host = "aiplatform.googleapis.com"
		}
		return fmt.Sprintf("https://%s/%s/projects/%s/locations/%s/publishers/google/models",
			host, apiVersion, project, location), nil
	case prompt.ProviderAnthropic:
		return envOr("ANTHROPIC_API_URL", "https://api.anthropic.com/v1"), nil
	default:
		return "", &ConfigError{Reason: fmt.Sprintf("unknown provider %q", provider)}
	}
}

func (c *EnvClient) CredentialsFor(provider prompt.Provider) (Credentials, error) {
	switch provider {
	case prompt.ProviderOpenAI:
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return Credentials{}, &ConfigError{Reason: "OPENAI_API_KEY is not set"}
		}
		return Credentials{AuthHeader: "Authorization", AuthValue: "Bearer " + key}, nil
	case prompt.ProviderGemini:
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			return Credentials{}, &ConfigError{Reason: "GEMINI_API_KEY is not set"}
		}
		return Credentials{AuthHeader: "x-goog-api-key", AuthValue: key}, nil
	case prompt.ProviderVertex:
		token, err := c.vertexToken(context.Background())
		if err != nil {
			return Credentials{}, err
		}
		return Credentials{AuthHeader: "Authorization", AuthValue: "Bearer " + token}, nil
	case prompt.ProviderAnthropic:
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return Credentials{}, &ConfigError{Reason: "ANTHROPIC_API_KEY is not set"}
		}
		return Credentials{
			AuthHeader:   "x-api-key",
			AuthValue:    key,
			ExtraHeaders: map[string]string{"anthropic-version": "2023-06-01"},
		}, nil
	default:
		return Credentials{}, &ConfigError{Reason: fmt.Sprintf("unknown provider %q", provider)}
	}
}

func (c *EnvClient) vertexToken(ctx context.Context) (string, error) {
	if c.VertexTokenFunc != nil {
		return c.VertexTokenFunc(ctx)
	}
	return DefaultVertexToken(ctx)
}

// Execute issues the HTTP call described by req, resolving its endpoint,
// path and credentials first. Network/timeout failures become
// *TransportError, HTTP 4xx/5xx become *ProviderError, anything else is
// returned as a plain Response.
func (c *EnvClient) Execute(ctx context.Context, req Request) (Response, error) {
	provider := req.Provider
	endpoint, err := c.EndpointFor(provider, req.Model)
	if err != nil {
		return Response{}, err
	}
	path, err := pathFor(provider, req.Model, req.Operation)
	if err != nil {
		return Response{}, err
	}
	fullURL, err := url.JoinPath(endpoint, path)
	if err != nil {
		return Response{}, &TransportError{Provider: string(provider), Op: "build url", Err: err}
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, fullURL, bytes.NewReader(req.Body))
	if err != nil {
		return Response{}, &TransportError{Provider: string(provider), Op: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "llmorch/1.0")

	creds, err := c.CredentialsFor(provider)
	if err != nil {
		return Response{}, err
	}
	if creds.AuthHeader != "" {
		httpReq.Header.Set(creds.AuthHeader, creds.AuthValue)
	}
	for k, v := range creds.ExtraHeaders {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return Response{}, &TransportError{Provider: string(provider), Op: "execute", Err: ErrTimeout}
		}
		return Response{}, &TransportError{Provider: string(provider), Op: "execute", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, &TransportError{Provider: string(provider), Op: "read body", Err: err}
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	if resp.StatusCode >= 400 {
		return Response{Status: resp.StatusCode, Body: body, Headers: headers},
			&ProviderError{Provider: string(provider), Status: resp.StatusCode, Body: body}
	}

	return Response{Status: resp.StatusCode, Body: body, Headers: headers}, nil
}

// pathFor returns the request path appended to the resolved endpoint, per
// spec.md's endpoint table.
func pathFor(provider prompt.Provider, model string, op Operation) (string, error) {
	switch provider {
	case prompt.ProviderOpenAI:
		if op == OperationEmbed {
			return "embeddings", nil
		}
		return "chat/completions", nil
	case prompt.ProviderGemini:
		if op == OperationEmbed {
			return model + ":embedContent", nil
		}
		return model + ":generateContent", nil
	case prompt.ProviderVertex:
		if op == OperationEmbed {
			return model + ":predict", nil
		}
		return model + ":generateContent", nil
	case prompt.ProviderAnthropic:
		return "messages", nil
	default:
		return "", &ConfigError{Reason: fmt.Sprintf("unknown provider %q", provider)}
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimRight(v, "/")
	}
	return def
}
