package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flowcraft/llmorch/prompt"
	"github.com/flowcraft/llmorch/transport"
)

// Embedder generates embedding vectors through the same transport.Client
// used for generation calls. Ollama is intentionally not a target here.
type Embedder struct {
	Provider  prompt.Provider
	Transport transport.Client
	Limiters  *LimiterRegistry
	Log       Logger
}

// NewEmbedder constructs an Embedder for provider, which must be one of
// ProviderOpenAI, ProviderGemini, or ProviderVertex.
func NewEmbedder(provider prompt.Provider, transportClient transport.Client, limiters *LimiterRegistry, log Logger) (*Embedder, error) {
	switch provider {
	case prompt.ProviderOpenAI, prompt.ProviderGemini, prompt.ProviderVertex:
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("embeddings are not supported for provider %q", provider)}
	}
	if limiters == nil {
		limiters = NewLimiterRegistry(DefaultProviderConcurrency, 0)
	}
	if log == nil {
		log = &NoopLogger{}
	}
	return &Embedder{Provider: provider, Transport: transportClient, Limiters: limiters, Log: log}, nil
}

type openAIEmbedRequest struct {
	Input any    `json:"input"`
	Model string `json:"model"`
}

type openAIEmbedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

type geminiEmbedRequest struct {
	Content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

type vertexEmbedRequest struct {
	Instances []struct {
		Content string `json:"content"`
	} `json:"instances"`
}

type vertexEmbedResponse struct {
	Predictions []struct {
		Embeddings struct {
			Values     []float64 `json:"values"`
			Statistics struct {
				TokenCount int `json:"token_count"`
			} `json:"statistics"`
		} `json:"embeddings"`
	} `json:"predictions"`
}

// Embed returns the embedding vector for input along with token usage as
// reported by the provider (Gemini reports neither prompt nor total
// tokens, so TokenUsage is left zeroed for it).
func (e *Embedder) Embed(ctx context.Context, model, input string) ([]float64, TokenUsage, error) {
	if isCancelled(ctx.Err()) {
		return nil, TokenUsage{}, Cancelled
	}

	var body []byte
	var err error
	switch e.Provider {
	case prompt.ProviderOpenAI:
		body, err = json.Marshal(openAIEmbedRequest{Input: input, Model: model})
	case prompt.ProviderGemini:
		req := geminiEmbedRequest{}
		req.Content.Parts = []struct {
			Text string `json:"text"`
		}{{Text: input}}
		body, err = json.Marshal(req)
	case prompt.ProviderVertex:
		req := vertexEmbedRequest{}
		req.Instances = []struct {
			Content string `json:"content"`
		}{{Content: input}}
		body, err = json.Marshal(req)
	}
	if err != nil {
		return nil, TokenUsage{}, fmt.Errorf("agent: marshal embed request: %w", err)
	}

	limiter := e.Limiters.For(e.Provider)
	if err := limiter.Acquire(ctx); err != nil {
		if isCancelled(err) {
			return nil, TokenUsage{}, Cancelled
		}
		return nil, TokenUsage{}, err
	}
	defer limiter.Release()

	e.Log.Debug(ctx, "agent: embedding", F("provider", string(e.Provider)), F("model", model))

	resp, err := e.Transport.Execute(ctx, transport.Request{Provider: e.Provider, Model: model, Operation: transport.OperationEmbed, Body: body})
	if err != nil {
		if isCancelled(err) {
			return nil, TokenUsage{}, Cancelled
		}
		return nil, TokenUsage{}, err
	}

	switch e.Provider {
	case prompt.ProviderOpenAI:
		var out openAIEmbedResponse
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			return nil, TokenUsage{}, &DecodeError{Provider: "openai", Err: err}
		}
		if len(out.Data) == 0 {
			return nil, TokenUsage{}, &DecodeError{Provider: "openai", Err: fmt.Errorf("no embedding data returned")}
		}
		return out.Data[0].Embedding, TokenUsage{PromptTokens: out.Usage.PromptTokens, TotalTokens: out.Usage.TotalTokens}, nil
	case prompt.ProviderGemini:
		var out geminiEmbedResponse
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			return nil, TokenUsage{}, &DecodeError{Provider: "gemini", Err: err}
		}
		return out.Embedding.Values, TokenUsage{}, nil
	case prompt.ProviderVertex:
		var out vertexEmbedResponse
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			return nil, TokenUsage{}, &DecodeError{Provider: "vertex", Err: err}
		}
		if len(out.Predictions) == 0 {
			return nil, TokenUsage{}, &DecodeError{Provider: "vertex", Err: fmt.Errorf("no predictions returned")}
		}
		p := out.Predictions[0]
		return p.Embeddings.Values, TokenUsage{TotalTokens: p.Embeddings.Statistics.TokenCount}, nil
	default:
		return nil, TokenUsage{}, &ConfigError{Reason: fmt.Sprintf("embeddings are not supported for provider %q", e.Provider)}
	}
}
