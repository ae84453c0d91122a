package anthropic

import (
	"encoding/json"

	"github.com/flowcraft/llmorch/providerschema/jsonutil"
)

// Message is one entry of the Messages API "messages" array. Role is
// "user" or "assistant"; system content lives outside this array per the
// API's top-level "system" field.
type Message struct {
	Role    string  `json:"role"`
	Content []Block `json:"content"`
}

// ToolChoice is a closed union: "auto" | "any" | "none" | a pinned tool.
type ToolChoice struct {
	Mode                   string
	Name                   string
	DisableParallelToolUse bool
}

func (t ToolChoice) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type                   string `json:"type"`
		Name                   string `json:"name,omitempty"`
		DisableParallelToolUse bool   `json:"disable_parallel_tool_use,omitempty"`
	}
	w := wire{Type: t.Mode, DisableParallelToolUse: t.DisableParallelToolUse}
	if t.Mode == "tool" {
		w.Name = t.Name
	}
	return json.Marshal(w)
}

func (t *ToolChoice) UnmarshalJSON(data []byte) error {
	var w struct {
		Type                   string `json:"type"`
		Name                   string `json:"name"`
		DisableParallelToolUse bool   `json:"disable_parallel_tool_use"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.Mode = w.Type
	t.Name = w.Name
	t.DisableParallelToolUse = w.DisableParallelToolUse
	return nil
}

type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// Settings carries generation parameters tunable independently of the
// messages/system/tools payload.
type Settings struct {
	MaxTokens     int
	Temperature   *float64
	TopP          *float64
	TopK          *int
	StopSequences []string
	ToolChoice    *ToolChoice
	Extra         map[string]json.RawMessage
}

// Request is the full Messages API request body.
type Request struct {
	Model    string
	System   string
	Messages []Message
	Tools    []Tool
	Settings Settings
}

var requestKnownKeys = map[string]struct{}{
	"model": {}, "system": {}, "messages": {}, "tools": {}, "tool_choice": {},
	"max_tokens": {}, "temperature": {}, "top_p": {}, "top_k": {}, "stop_sequences": {},
}

func (r Request) MarshalJSON() ([]byte, error) {
	type wire struct {
		Model         string      `json:"model"`
		System        string      `json:"system,omitempty"`
		Messages      []Message   `json:"messages"`
		Tools         []Tool      `json:"tools,omitempty"`
		ToolChoice    *ToolChoice `json:"tool_choice,omitempty"`
		MaxTokens     int         `json:"max_tokens"`
		Temperature   *float64    `json:"temperature,omitempty"`
		TopP          *float64    `json:"top_p,omitempty"`
		TopK          *int        `json:"top_k,omitempty"`
		StopSequences []string    `json:"stop_sequences,omitempty"`
	}
	w := wire{
		Model: r.Model, System: r.System, Messages: r.Messages, Tools: r.Tools,
		ToolChoice: r.Settings.ToolChoice, MaxTokens: r.Settings.MaxTokens,
		Temperature: r.Settings.Temperature, TopP: r.Settings.TopP, TopK: r.Settings.TopK,
		StopSequences: r.Settings.StopSequences,
	}
	return jsonutil.MergeExtra(w, r.Settings.Extra)
}

func (r *Request) UnmarshalJSON(data []byte) error {
	var w struct {
		Model         string      `json:"model"`
		System        string      `json:"system"`
		Messages      []Message   `json:"messages"`
		Tools         []Tool      `json:"tools"`
		ToolChoice    *ToolChoice `json:"tool_choice"`
		MaxTokens     int         `json:"max_tokens"`
		Temperature   *float64    `json:"temperature"`
		TopP          *float64    `json:"top_p"`
		TopK          *int        `json:"top_k"`
		StopSequences []string    `json:"stop_sequences"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	extra, err := jsonutil.SplitKnown(data, requestKnownKeys)
	if err != nil {
		return err
	}
	r.Model = w.Model
	r.System = w.System
	r.Messages = w.Messages
	r.Tools = w.Tools
	r.Settings = Settings{
		MaxTokens: w.MaxTokens, Temperature: w.Temperature, TopP: w.TopP, TopK: w.TopK,
		StopSequences: w.StopSequences, ToolChoice: w.ToolChoice, Extra: extra,
	}
	return nil
}
