package prompt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/flowcraft/llmorch/providerschema/anthropic"
	"github.com/flowcraft/llmorch/providerschema/gemini"
	"github.com/flowcraft/llmorch/providerschema/openai"
)


// ModelSettings is a closed sum over the three provider-specific
// generation-settings types. Exactly one of OpenAI/Gemini/Anthropic may be
// set, and it must agree with the Prompt's own Provider tag: construction
// rejects a mismatch rather than silently picking one side.
//
// CallTimeout is a local execution knob, not part of any provider's wire
// schema: it is never persisted by Save/Load and has no effect on
// AsProviderRequest. Callers (agent.Agent, the workflow executor) read it
// to bound a single provider call.
type ModelSettings struct {
	OpenAI    *openai.Settings
	Gemini    *gemini.Settings
	Anthropic *anthropic.Settings

	CallTimeout time.Duration
}

func (s ModelSettings) providerOf() (Provider, bool) {
	switch {
	case s.OpenAI != nil:
		return ProviderOpenAI, true
	case s.Gemini != nil:
		return ProviderGemini, true
	case s.Anthropic != nil:
		return ProviderAnthropic, true
	default:
		return "", false
	}
}

func (s ModelSettings) validateAgainst(p Provider) error {
	settingsProvider, has := s.providerOf()
	if !has {
		return nil
	}
	if settingsProvider == ProviderGemini && p == ProviderVertex {
		return nil
	}
	if settingsProvider != p {
		return &ConfigError{Reason: fmt.Sprintf("model_settings is tagged %q but prompt provider is %q", settingsProvider, p)}
	}
	return nil
}

// ResponseFormatTag selects how a ResponseFormat is injected into the
// outbound provider request.
type ResponseFormatTag string

const (
	ResponseFormatJSONSchema ResponseFormatTag = "json_schema"
	ResponseFormatJSONObject ResponseFormatTag = "json_object"
)

// ResponseFormat describes the structured-output contract for a Prompt,
// independent of which provider ultimately serves it.
type ResponseFormat struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema,omitempty"`
	Strict bool            `json:"strict"`
	Tag    ResponseFormatTag `json:"tag"`
}
