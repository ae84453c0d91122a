// Package agent wires a canonical prompt.Prompt through a transport.Client
// to a provider, decodes the provider's wire response, and optionally
// projects it into a caller-declared structured output type.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flowcraft/llmorch/prompt"
	"github.com/flowcraft/llmorch/providerschema/anthropic"
	"github.com/flowcraft/llmorch/providerschema/gemini"
	"github.com/flowcraft/llmorch/providerschema/openai"
	"github.com/flowcraft/llmorch/responseformat"
	"github.com/flowcraft/llmorch/transport"
)

// TokenUsage normalizes the three providers' usage accounting.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatResponse is the provider-agnostic projection of a generate call: the
// assistant's text, raw structured-output JSON (set whenever the text
// begins with a JSON object or array), token usage, and the finish reason as reported by the
// provider (left as a string so an unknown/new value is never dropped).
type ChatResponse struct {
	Text         string
	StructuredJSON json.RawMessage
	Usage        TokenUsage
	FinishReason string
	Raw          any // *openai.Response, *gemini.Response, or *anthropic.Response
}

// Agent binds an identity and a default system instruction set to a
// provider, and drives prompts to completion through a transport.Client.
type Agent struct {
	ID                 string
	Provider            prompt.Provider
	SystemInstructions  []string
	Transport           transport.Client
	Schemas             *responseformat.Resolver
	Limiters            *LimiterRegistry
	Log                 Logger
}

// New constructs an Agent. transportClient and schemas must not be nil;
// limiters may be nil, in which case a fresh registry with the default
// per-provider concurrency cap is created.
func New(id string, provider prompt.Provider, transportClient transport.Client, schemas *responseformat.Resolver, limiters *LimiterRegistry, log Logger) *Agent {
	if limiters == nil {
		limiters = NewLimiterRegistry(DefaultProviderConcurrency, 0)
	}
	if log == nil {
		log = &NoopLogger{}
	}
	return &Agent{ID: id, Provider: provider, Transport: transportClient, Schemas: schemas, Limiters: limiters, Log: log}
}

// ExecutePrompt sends p to its declared provider and returns the decoded
// response. modelOverride, if non-empty, replaces p.Model for this call.
// a.SystemInstructions are prepended to p.SystemInstructions. If
// outputType is non-nil, a JSON schema is resolved for it and attached to
// the outbound request as the ResponseFormat, replacing any ResponseFormat
// already set on p, and the returned StructuredJSON is unmarshaled into
// outputType (pass a pointer to receive the result); a failure there is
// returned as *ProjectionError.
func (a *Agent) ExecutePrompt(ctx context.Context, p *prompt.Prompt, outputType any, modelOverride string) (*ChatResponse, error) {
	if isCancelled(ctx.Err()) {
		return nil, Cancelled
	}
	if p.Provider != a.Provider {
		return nil, &ConfigError{Reason: fmt.Sprintf("prompt targets provider %q but agent %q is configured for %q", p.Provider, a.ID, a.Provider)}
	}

	working := p.DeepCopy()
	if modelOverride != "" {
		working.Model = modelOverride
	}
	if working.Model == "" {
		return nil, &ValidationError{Reason: "effective model must not be empty"}
	}
	if len(a.SystemInstructions) > 0 {
		prefix := make([]prompt.Message, len(a.SystemInstructions))
		for i, s := range a.SystemInstructions {
			prefix[i] = prompt.System(s)
		}
		working.SystemInstructions = append(prefix, working.SystemInstructions...)
	}

	if outputType != nil && a.Schemas != nil {
		doc, name, strict, err := a.Schemas.Resolve(ctx, outputType)
		if err != nil {
			return nil, fmt.Errorf("agent: resolve response format: %w", err)
		}
		schema, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("agent: marshal response schema: %w", err)
		}
		working.ResponseFormat = &prompt.ResponseFormat{Name: name, Schema: schema, Strict: strict, Tag: prompt.ResponseFormatJSONSchema}
	}

	limiter := a.Limiters.For(a.Provider)
	if err := limiter.Acquire(ctx); err != nil {
		if isCancelled(err) {
			return nil, Cancelled
		}
		return nil, err
	}
	defer limiter.Release()

	wireReq, err := working.AsProviderRequest()
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, fmt.Errorf("agent: marshal %s request: %w", a.Provider, err)
	}

	a.Log.Debug(ctx, "agent: executing prompt", F("agent_id", a.ID), F("provider", string(a.Provider)), F("model", working.Model))

	resp, err := a.Transport.Execute(ctx, transport.Request{Provider: a.Provider, Model: working.Model, Operation: transport.OperationGenerate, Body: body, Timeout: working.ModelSettings.CallTimeout})
	if err != nil {
		if isCancelled(err) {
			return nil, Cancelled
		}
		var provErr *transport.ProviderError
		if errors.As(err, &provErr) {
			provErr.ParsedBody = parseProviderError(a.Provider, resp.Body)
		}
		return nil, err
	}

	out, err := decodeResponse(a.Provider, resp.Body)
	if err != nil {
		a.Log.Error(ctx, "agent: decode failed", F("agent_id", a.ID), F("provider", string(a.Provider)), F("error", err.Error()))
		return nil, err
	}

	if outputType != nil && out.StructuredJSON != nil {
		if err := json.Unmarshal(out.StructuredJSON, outputType); err != nil {
			return nil, &ProjectionError{TypeName: fmt.Sprintf("%T", outputType), Raw: string(out.StructuredJSON), Err: err}
		}
	}

	return out, nil
}

// ExecuteTask is the dispatch entry point used by the workflow executor:
// identical to ExecutePrompt, naming the call site rather than its
// behavior (a task's prompt and declared output type drive the call the
// same way a directly-constructed prompt would).
func (a *Agent) ExecuteTask(ctx context.Context, taskPrompt *prompt.Prompt, outputType any, modelOverride string) (*ChatResponse, error) {
	return a.ExecutePrompt(ctx, taskPrompt, outputType, modelOverride)
}

func decodeResponse(provider prompt.Provider, body []byte) (*ChatResponse, error) {
	switch provider {
	case prompt.ProviderOpenAI:
		return decodeOpenAI(body)
	case prompt.ProviderGemini, prompt.ProviderVertex:
		return decodeGemini(body)
	case prompt.ProviderAnthropic:
		return decodeAnthropic(body)
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown provider %q", provider)}
	}
}

func decodeOpenAI(body []byte) (*ChatResponse, error) {
	var resp openai.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &DecodeError{Provider: "openai", Err: err}
	}
	out := &ChatResponse{Raw: &resp}
	out.Usage = TokenUsage{PromptTokens: resp.Usage.PromptTokens, CompletionTokens: resp.Usage.CompletionTokens, TotalTokens: resp.Usage.TotalTokens}
	if len(resp.Choices) == 0 {
		return out, nil
	}
	choice := resp.Choices[0]
	out.FinishReason = string(choice.FinishReason.Value)
	if choice.Message.Content.Plain != nil {
		out.Text = *choice.Message.Content.Plain
	} else {
		for _, part := range choice.Message.Content.Parts {
			if part.Type == "text" {
				out.Text += part.Text
			}
		}
	}
	if out.Text != "" && looksLikeJSON(out.Text) {
		out.StructuredJSON = json.RawMessage(out.Text)
	}
	return out, nil
}

func decodeGemini(body []byte) (*ChatResponse, error) {
	var resp gemini.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &DecodeError{Provider: "gemini", Err: err}
	}
	out := &ChatResponse{Raw: &resp}
	out.Usage = TokenUsage{
		PromptTokens:     resp.UsageMetadata.PromptTokenCount,
		CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
		TotalTokens:      resp.UsageMetadata.TotalTokenCount,
	}
	if len(resp.Candidates) == 0 {
		return out, nil
	}
	cand := resp.Candidates[0]
	out.FinishReason = string(cand.FinishReason.Value)
	for _, part := range cand.Content.Parts {
		if part.Kind == "text" {
			out.Text += part.Text
		}
	}
	if out.Text != "" && looksLikeJSON(out.Text) {
		out.StructuredJSON = json.RawMessage(out.Text)
	}
	return out, nil
}

func decodeAnthropic(body []byte) (*ChatResponse, error) {
	var resp anthropic.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &DecodeError{Provider: "anthropic", Err: err}
	}
	out := &ChatResponse{Raw: &resp}
	out.Usage = TokenUsage{
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
		TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}
	out.FinishReason = string(resp.StopReason.Value)
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.Text += block.Text
		}
	}
	if out.Text != "" && looksLikeJSON(out.Text) {
		out.StructuredJSON = json.RawMessage(out.Text)
	}
	return out, nil
}

// parseProviderError decodes a non-2xx response body into the provider's
// typed error envelope, for ProviderError.ParsedBody. Gemini's error body
// is a bare map since no closed Error union is modeled for it; an
// undecodable body (empty, HTML, a proxy's own error page) is reported as
// nil rather than failing the call a second time over.
func parseProviderError(provider prompt.Provider, body []byte) any {
	if len(body) == 0 {
		return nil
	}
	switch provider {
	case prompt.ProviderOpenAI:
		var e openai.Error
		if err := json.Unmarshal(body, &e); err != nil {
			return nil
		}
		return &e
	case prompt.ProviderAnthropic:
		var e anthropic.Error
		if err := json.Unmarshal(body, &e); err != nil {
			return nil
		}
		return &e
	case prompt.ProviderGemini, prompt.ProviderVertex:
		var e map[string]any
		if err := json.Unmarshal(body, &e); err != nil {
			return nil
		}
		return e
	default:
		return nil
	}
}

func looksLikeJSON(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[':
			return true
		default:
			return false
		}
	}
	return false
}
