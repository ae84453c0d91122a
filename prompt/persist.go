package prompt

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/flowcraft/llmorch/providerschema/anthropic"
	"github.com/flowcraft/llmorch/providerschema/gemini"
	"github.com/flowcraft/llmorch/providerschema/openai"
)

type persistedMessage struct {
	Role       Role      `json:"role"`
	Parts      []Content `json:"parts"`
	ToolCallID string    `json:"tool_call_id,omitempty"`
	Name       string    `json:"name,omitempty"`
}

type persistedPrompt struct {
	SchemaVersion      int                `json:"schema_version"`
	Model              string             `json:"model"`
	Provider           Provider           `json:"provider"`
	UserMessages       []persistedMessage `json:"user_messages"`
	SystemInstructions []persistedMessage `json:"system_instructions"`
	ModelSettings      *persistedSettings `json:"model_settings,omitempty"`
	ResponseFormat     *ResponseFormat    `json:"response_format,omitempty"`
	OriginalMessages   []persistedMessage `json:"original_messages"`
}

type persistedSettings struct {
	Provider Provider        `json:"provider"`
	Settings json.RawMessage `json:"settings"`
}

func toPersistedMessage(m Message) persistedMessage {
	return persistedMessage{Role: m.Role, Parts: m.Parts, ToolCallID: m.ToolCallID, Name: m.Name}
}

func toPersistedOriginal(m Message) persistedMessage {
	return persistedMessage{Role: m.Role, Parts: m.original, ToolCallID: m.ToolCallID, Name: m.Name}
}

func fromPersistedMessage(pm persistedMessage, original []Content) Message {
	m := Message{Role: pm.Role, Parts: pm.Parts, ToolCallID: pm.ToolCallID, Name: pm.Name}
	if original != nil {
		m.original = original
	} else {
		m.original = cloneParts(pm.Parts)
	}
	return m
}

// MarshalJSON encodes p in the canonical persisted form: schema_version,
// model, provider, the live message arrays, model_settings tagged by
// provider, the response format, and a flat original_messages array (user
// messages followed by system instructions) capturing every message's
// pre-bind content.
func (p *Prompt) MarshalJSON() ([]byte, error) {
	pp := persistedPrompt{
		SchemaVersion:  schemaVersion,
		Model:          p.Model,
		Provider:       p.Provider,
		ResponseFormat: p.ResponseFormat,
	}
	for _, m := range p.UserMessages {
		pp.UserMessages = append(pp.UserMessages, toPersistedMessage(m))
		pp.OriginalMessages = append(pp.OriginalMessages, toPersistedOriginal(m))
	}
	for _, m := range p.SystemInstructions {
		pp.SystemInstructions = append(pp.SystemInstructions, toPersistedMessage(m))
		pp.OriginalMessages = append(pp.OriginalMessages, toPersistedOriginal(m))
	}
	if settingsProvider, ok := p.ModelSettings.providerOf(); ok {
		var raw json.RawMessage
		var err error
		switch settingsProvider {
		case ProviderOpenAI:
			raw, err = json.Marshal(p.ModelSettings.OpenAI)
		case ProviderGemini:
			raw, err = json.Marshal(p.ModelSettings.Gemini)
		case ProviderAnthropic:
			raw, err = json.Marshal(p.ModelSettings.Anthropic)
		}
		if err != nil {
			return nil, err
		}
		pp.ModelSettings = &persistedSettings{Provider: settingsProvider, Settings: raw}
	}
	return json.Marshal(pp)
}

// UnmarshalJSON decodes the canonical persisted form produced by
// MarshalJSON, restoring each message's pre-bind original from
// original_messages in positional order (user messages first, then system
// instructions, matching MarshalJSON's emission order).
func (p *Prompt) UnmarshalJSON(data []byte) error {
	var pp persistedPrompt
	if err := json.Unmarshal(data, &pp); err != nil {
		return err
	}
	if pp.SchemaVersion != 0 && pp.SchemaVersion != schemaVersion {
		return fmt.Errorf("prompt: unsupported schema_version %d", pp.SchemaVersion)
	}
	originals := pp.OriginalMessages
	next := func() []Content {
		if len(originals) == 0 {
			return nil
		}
		o := originals[0]
		originals = originals[1:]
		return o.Parts
	}
	p.Model = pp.Model
	p.Provider = pp.Provider
	p.ResponseFormat = pp.ResponseFormat
	for _, pm := range pp.UserMessages {
		p.UserMessages = append(p.UserMessages, fromPersistedMessage(pm, next()))
	}
	for _, pm := range pp.SystemInstructions {
		p.SystemInstructions = append(p.SystemInstructions, fromPersistedMessage(pm, next()))
	}
	if pp.ModelSettings != nil {
		if err := p.decodeModelSettings(pp.ModelSettings); err != nil {
			return err
		}
	}
	return nil
}

func (p *Prompt) decodeModelSettings(ps *persistedSettings) error {
	switch ps.Provider {
	case ProviderOpenAI:
		s := &openai.Settings{}
		if err := json.Unmarshal(ps.Settings, s); err != nil {
			return err
		}
		p.ModelSettings.OpenAI = s
	case ProviderGemini:
		s := &gemini.Settings{}
		if err := json.Unmarshal(ps.Settings, s); err != nil {
			return err
		}
		p.ModelSettings.Gemini = s
	case ProviderAnthropic:
		s := &anthropic.Settings{}
		if err := json.Unmarshal(ps.Settings, s); err != nil {
			return err
		}
		p.ModelSettings.Anthropic = s
	default:
		return fmt.Errorf("prompt: unknown model_settings provider %q", ps.Provider)
	}
	return nil
}

// Save writes p to path in the canonical persisted JSON form.
func Save(p *Prompt, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a Prompt previously written by Save.
func Load(path string) (*Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := &Prompt{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, err
	}
	return p, nil
}
