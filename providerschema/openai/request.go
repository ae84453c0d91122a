package openai

import (
	"encoding/json"

	"github.com/flowcraft/llmorch/providerschema/jsonutil"
)

// Message is one entry of a Chat Completions "messages" array. Audio and
// Annotations are only ever populated on the response side (choices[].message);
// a request-side Message simply leaves them nil.
type Message struct {
	Role        string       `json:"role"`
	Content     Content      `json:"content"`
	Name        string       `json:"name,omitempty"`
	ToolCallID  string       `json:"tool_call_id,omitempty"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	Audio       *AudioOutput `json:"audio,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// AudioOutput is the generated audio attached to an assistant message when
// the request asked for an audio modality.
type AudioOutput struct {
	ID         string `json:"id"`
	Data       string `json:"data,omitempty"`
	ExpiresAt  int64  `json:"expires_at,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// Annotation is a grounding reference attached to assistant message content,
// currently only the url_citation variant.
type Annotation struct {
	Type        string       `json:"type"`
	URLCitation *URLCitation `json:"url_citation,omitempty"`
}

type URLCitation struct {
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
	StartIndex int    `json:"start_index,omitempty"`
	EndIndex   int    `json:"end_index,omitempty"`
}

type ToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// ResponseFormat mirrors the Chat Completions response_format field, a
// closed union over "text", "json_object" and "json_schema".
type ResponseFormat struct {
	Type       string // "text" | "json_object" | "json_schema"
	SchemaName string
	Schema     json.RawMessage
	Strict     bool
}

func TextResponseFormat() ResponseFormat { return ResponseFormat{Type: "text"} }
func JSONObjectResponseFormat() ResponseFormat { return ResponseFormat{Type: "json_object"} }
func JSONSchemaResponseFormat(name string, schema json.RawMessage, strict bool) ResponseFormat {
	return ResponseFormat{Type: "json_schema", SchemaName: name, Schema: schema, Strict: strict}
}

func (r ResponseFormat) MarshalJSON() ([]byte, error) {
	switch r.Type {
	case "", "text":
		return json.Marshal(map[string]string{"type": "text"})
	case "json_object":
		return json.Marshal(map[string]string{"type": "json_object"})
	case "json_schema":
		return json.Marshal(struct {
			Type     string `json:"type"`
			Schema   struct {
				Name   string          `json:"name"`
				Schema json.RawMessage `json:"schema"`
				Strict bool            `json:"strict"`
			} `json:"json_schema"`
		}{
			Type: "json_schema",
			Schema: struct {
				Name   string          `json:"name"`
				Schema json.RawMessage `json:"schema"`
				Strict bool            `json:"strict"`
			}{Name: r.SchemaName, Schema: r.Schema, Strict: r.Strict},
		})
	default:
		return json.Marshal(map[string]string{"type": r.Type})
	}
}

func (r *ResponseFormat) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type       string `json:"type"`
		JSONSchema struct {
			Name   string          `json:"name"`
			Schema json.RawMessage `json:"schema"`
			Strict bool            `json:"strict"`
		} `json:"json_schema"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	r.Type = probe.Type
	if probe.Type == "json_schema" {
		r.SchemaName = probe.JSONSchema.Name
		r.Schema = probe.JSONSchema.Schema
		r.Strict = probe.JSONSchema.Strict
	}
	return nil
}

// Settings carries the Chat Completions generation parameters that a
// caller may tune per request, independent of the messages/tools payload.
type Settings struct {
	Temperature       *float64
	TopP              *float64
	MaxTokens         *int
	Stop              []string
	Seed              *int64
	PresencePenalty   *float64
	FrequencyPenalty  *float64
	LogProbs          bool
	TopLogProbs       *int
	N                 *int
	ParallelToolCalls *bool
	User              string
	Extra             map[string]json.RawMessage
}

// Request is the full Chat Completions request body.
type Request struct {
	Model          string
	Messages       []Message
	Tools          []Tool
	ToolChoice     *ToolChoice
	ResponseFormat *ResponseFormat
	Stream         bool
	Settings       Settings
}

var requestKnownKeys = map[string]struct{}{
	"model": {}, "messages": {}, "tools": {}, "tool_choice": {}, "response_format": {},
	"stream": {}, "temperature": {}, "top_p": {}, "max_tokens": {}, "stop": {}, "seed": {},
	"presence_penalty": {}, "frequency_penalty": {}, "logprobs": {}, "top_logprobs": {},
	"n": {}, "parallel_tool_calls": {}, "user": {},
}

func (r Request) MarshalJSON() ([]byte, error) {
	type wire struct {
		Model             string          `json:"model"`
		Messages          []Message       `json:"messages"`
		Tools             []Tool          `json:"tools,omitempty"`
		ToolChoice        *ToolChoice     `json:"tool_choice,omitempty"`
		ResponseFormat    *ResponseFormat `json:"response_format,omitempty"`
		Stream            bool            `json:"stream,omitempty"`
		Temperature       *float64        `json:"temperature,omitempty"`
		TopP              *float64        `json:"top_p,omitempty"`
		MaxTokens         *int            `json:"max_tokens,omitempty"`
		Stop              []string        `json:"stop,omitempty"`
		Seed              *int64          `json:"seed,omitempty"`
		PresencePenalty   *float64        `json:"presence_penalty,omitempty"`
		FrequencyPenalty  *float64        `json:"frequency_penalty,omitempty"`
		LogProbs          bool            `json:"logprobs,omitempty"`
		TopLogProbs       *int            `json:"top_logprobs,omitempty"`
		N                 *int            `json:"n,omitempty"`
		ParallelToolCalls *bool           `json:"parallel_tool_calls,omitempty"`
		User              string          `json:"user,omitempty"`
	}
	w := wire{
		Model: r.Model, Messages: r.Messages, Tools: r.Tools, ToolChoice: r.ToolChoice,
		ResponseFormat: r.ResponseFormat, Stream: r.Stream,
		Temperature: r.Settings.Temperature, TopP: r.Settings.TopP, MaxTokens: r.Settings.MaxTokens,
		Stop: r.Settings.Stop, Seed: r.Settings.Seed, PresencePenalty: r.Settings.PresencePenalty,
		FrequencyPenalty: r.Settings.FrequencyPenalty, LogProbs: r.Settings.LogProbs,
		TopLogProbs: r.Settings.TopLogProbs, N: r.Settings.N,
		ParallelToolCalls: r.Settings.ParallelToolCalls, User: r.Settings.User,
	}
	return jsonutil.MergeExtra(w, r.Settings.Extra)
}

func (r *Request) UnmarshalJSON(data []byte) error {
	var w struct {
		Model             string          `json:"model"`
		Messages          []Message       `json:"messages"`
		Tools             []Tool          `json:"tools"`
		ToolChoice        *ToolChoice     `json:"tool_choice"`
		ResponseFormat    *ResponseFormat `json:"response_format"`
		Stream            bool            `json:"stream"`
		Temperature       *float64        `json:"temperature"`
		TopP              *float64        `json:"top_p"`
		MaxTokens         *int            `json:"max_tokens"`
		Stop              []string        `json:"stop"`
		Seed              *int64          `json:"seed"`
		PresencePenalty   *float64        `json:"presence_penalty"`
		FrequencyPenalty  *float64        `json:"frequency_penalty"`
		LogProbs          bool            `json:"logprobs"`
		TopLogProbs       *int            `json:"top_logprobs"`
		N                 *int            `json:"n"`
		ParallelToolCalls *bool           `json:"parallel_tool_calls"`
		User              string          `json:"user"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	extra, err := jsonutil.SplitKnown(data, requestKnownKeys)
	if err != nil {
		return err
	}
	r.Model = w.Model
	r.Messages = w.Messages
	r.Tools = w.Tools
	r.ToolChoice = w.ToolChoice
	r.ResponseFormat = w.ResponseFormat
	r.Stream = w.Stream
	r.Settings = Settings{
		Temperature: w.Temperature, TopP: w.TopP, MaxTokens: w.MaxTokens, Stop: w.Stop,
		Seed: w.Seed, PresencePenalty: w.PresencePenalty, FrequencyPenalty: w.FrequencyPenalty,
		LogProbs: w.LogProbs, TopLogProbs: w.TopLogProbs, N: w.N,
		ParallelToolCalls: w.ParallelToolCalls, User: w.User, Extra: extra,
	}
	return nil
}
