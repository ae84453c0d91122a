package gemini

import (
	"encoding/json"

	"github.com/flowcraft/llmorch/providerschema/jsonutil"
)

// SafetySetting is one category/threshold safety entry; both values are
// kept as the raw wire strings, so any value decodes without failing.
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// FunctionDeclaration mirrors Gemini's tool function schema.
type FunctionDeclaration struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type Tool struct {
	FunctionDeclarations []FunctionDeclaration `json:"functionDeclarations,omitempty"`
}

// ToolConfig.Mode is a closed union: "AUTO" | "ANY" | "NONE".
type ToolConfig struct {
	Mode                 string   `json:"mode"`
	AllowedFunctionNames []string `json:"allowedFunctionNames,omitempty"`
}

func (t ToolConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		FunctionCallingConfig struct {
			Mode                 string   `json:"mode"`
			AllowedFunctionNames []string `json:"allowedFunctionNames,omitempty"`
		} `json:"functionCallingConfig"`
	}{
		FunctionCallingConfig: struct {
			Mode                 string   `json:"mode"`
			AllowedFunctionNames []string `json:"allowedFunctionNames,omitempty"`
		}{Mode: t.Mode, AllowedFunctionNames: t.AllowedFunctionNames},
	})
}

func (t *ToolConfig) UnmarshalJSON(data []byte) error {
	var w struct {
		FunctionCallingConfig struct {
			Mode                 string   `json:"mode"`
			AllowedFunctionNames []string `json:"allowedFunctionNames"`
		} `json:"functionCallingConfig"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.Mode = w.FunctionCallingConfig.Mode
	t.AllowedFunctionNames = w.FunctionCallingConfig.AllowedFunctionNames
	return nil
}

// Settings carries generationConfig fields plus safety/tool configuration
// tunable independently of the contents payload.
type Settings struct {
	Temperature      *float64
	TopP             *float64
	TopK             *float64
	MaxOutputTokens  *int
	StopSequences    []string
	CandidateCount   *int
	ResponseMIMEType string
	ResponseSchema   json.RawMessage
	SafetySettings   []SafetySetting
	ToolConfig       *ToolConfig
	Extra            map[string]json.RawMessage
}

// Request is the full GenerateContent request body.
type Request struct {
	Contents          []Content
	SystemInstruction *Content
	Tools             []Tool
	Settings          Settings
}

var requestKnownKeys = map[string]struct{}{
	"contents": {}, "systemInstruction": {}, "tools": {}, "toolConfig": {},
	"safetySettings": {}, "generationConfig": {},
}

type generationConfig struct {
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"topP,omitempty"`
	TopK             *float64        `json:"topK,omitempty"`
	MaxOutputTokens  *int            `json:"maxOutputTokens,omitempty"`
	StopSequences    []string        `json:"stopSequences,omitempty"`
	CandidateCount   *int            `json:"candidateCount,omitempty"`
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseJsonSchema,omitempty"`
}

func (r Request) MarshalJSON() ([]byte, error) {
	gc := generationConfig{
		Temperature: r.Settings.Temperature, TopP: r.Settings.TopP, TopK: r.Settings.TopK,
		MaxOutputTokens: r.Settings.MaxOutputTokens, StopSequences: r.Settings.StopSequences,
		CandidateCount: r.Settings.CandidateCount, ResponseMIMEType: r.Settings.ResponseMIMEType,
		ResponseSchema: r.Settings.ResponseSchema,
	}
	type wire struct {
		Contents          []Content        `json:"contents"`
		SystemInstruction *Content         `json:"systemInstruction,omitempty"`
		Tools             []Tool           `json:"tools,omitempty"`
		ToolConfig        *ToolConfig      `json:"toolConfig,omitempty"`
		SafetySettings    []SafetySetting  `json:"safetySettings,omitempty"`
		GenerationConfig  generationConfig `json:"generationConfig"`
	}
	w := wire{
		Contents: r.Contents, SystemInstruction: r.SystemInstruction, Tools: r.Tools,
		ToolConfig: r.Settings.ToolConfig, SafetySettings: r.Settings.SafetySettings,
		GenerationConfig: gc,
	}
	return jsonutil.MergeExtra(w, r.Settings.Extra)
}

func (r *Request) UnmarshalJSON(data []byte) error {
	var w struct {
		Contents          []Content        `json:"contents"`
		SystemInstruction *Content         `json:"systemInstruction"`
		Tools             []Tool           `json:"tools"`
		ToolConfig        *ToolConfig      `json:"toolConfig"`
		SafetySettings    []SafetySetting  `json:"safetySettings"`
		GenerationConfig  generationConfig `json:"generationConfig"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	extra, err := jsonutil.SplitKnown(data, requestKnownKeys)
	if err != nil {
		return err
	}
	r.Contents = w.Contents
	r.SystemInstruction = w.SystemInstruction
	r.Tools = w.Tools
	r.Settings = Settings{
		Temperature: w.GenerationConfig.Temperature, TopP: w.GenerationConfig.TopP,
		TopK: w.GenerationConfig.TopK, MaxOutputTokens: w.GenerationConfig.MaxOutputTokens,
		StopSequences: w.GenerationConfig.StopSequences, CandidateCount: w.GenerationConfig.CandidateCount,
		ResponseMIMEType: w.GenerationConfig.ResponseMIMEType, ResponseSchema: w.GenerationConfig.ResponseSchema,
		SafetySettings: w.SafetySettings, ToolConfig: w.ToolConfig, Extra: extra,
	}
	return nil
}
