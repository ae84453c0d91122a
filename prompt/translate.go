package prompt

import (
	"encoding/base64"
	"fmt"

	"github.com/flowcraft/llmorch/providerschema/anthropic"
	"github.com/flowcraft/llmorch/providerschema/gemini"
	"github.com/flowcraft/llmorch/providerschema/openai"
)

// AsProviderRequest translates p into the wire request type for p.Provider:
// *openai.Request, *gemini.Request, or *anthropic.Request. The returned
// value is always a fresh object; mutating it never affects p.
func (p *Prompt) AsProviderRequest() (any, error) {
	switch p.Provider {
	case ProviderOpenAI:
		return p.asOpenAIRequest()
	case ProviderGemini, ProviderVertex:
		return p.asGeminiRequest()
	case ProviderAnthropic:
		return p.asAnthropicRequest()
	default:
		return nil, fmt.Errorf("prompt: unknown provider %q", p.Provider)
	}
}

func (p *Prompt) asOpenAIRequest() (*openai.Request, error) {
	req := &openai.Request{Model: p.Model}
	for _, m := range p.SystemInstructions {
		req.Messages = append(req.Messages, openai.Message{Role: "system", Content: openai.PlainContent(m.text())})
	}
	for _, m := range p.UserMessages {
		om, err := toOpenAIMessage(m)
		if err != nil {
			return nil, err
		}
		req.Messages = append(req.Messages, om)
	}
	if p.ModelSettings.OpenAI != nil {
		req.Settings = *p.ModelSettings.OpenAI
	}
	if p.ResponseFormat != nil {
		switch p.ResponseFormat.Tag {
		case ResponseFormatJSONObject:
			rf := openai.JSONObjectResponseFormat()
			req.ResponseFormat = &rf
		default:
			rf := openai.JSONSchemaResponseFormat(p.ResponseFormat.Name, p.ResponseFormat.Schema, p.ResponseFormat.Strict)
			req.ResponseFormat = &rf
		}
	}
	return req, nil
}

func toOpenAIMessage(m Message) (openai.Message, error) {
	role := string(m.Role)
	if m.Role == RoleTool {
		return openai.Message{Role: "tool", Content: openai.PlainContent(m.text()), ToolCallID: m.ToolCallID, Name: m.Name}, nil
	}
	if len(m.Parts) == 1 && m.Parts[0].Kind == ContentText {
		return openai.Message{Role: role, Content: openai.PlainContent(m.Parts[0].Text)}, nil
	}
	parts := make([]openai.ContentPart, 0, len(m.Parts))
	for _, c := range m.Parts {
		part, err := toOpenAIContentPart(c)
		if err != nil {
			return openai.Message{}, err
		}
		parts = append(parts, part)
	}
	return openai.Message{Role: role, Content: openai.PartsContent(parts...)}, nil
}

func toOpenAIContentPart(c Content) (openai.ContentPart, error) {
	switch c.Kind {
	case ContentText:
		return openai.TextPart(c.Text), nil
	case ContentImage:
		url := c.Image.URL
		if url == "" {
			url = dataURI(c.Image.MIMEType, c.Image.Base64)
		}
		return openai.ImagePart(url, c.Image.Detail), nil
	case ContentAudio:
		data := c.Audio.Base64
		if data == "" {
			return openai.ContentPart{}, fmt.Errorf("prompt: openai audio parts require base64 data")
		}
		return openai.AudioPart(data, audioFormat(c.Audio.MIMEType)), nil
	default:
		return openai.ContentPart{}, fmt.Errorf("prompt: openai does not support content kind %q", c.Kind)
	}
}

func (p *Prompt) asGeminiRequest() (*gemini.Request, error) {
	req := &gemini.Request{}
	if len(p.SystemInstructions) > 0 {
		parts := make([]gemini.Part, 0, len(p.SystemInstructions))
		for _, m := range p.SystemInstructions {
			parts = append(parts, gemini.TextPart(m.text()))
		}
		req.SystemInstruction = &gemini.Content{Parts: parts}
	}
	for _, m := range p.UserMessages {
		gc, err := toGeminiContent(m)
		if err != nil {
			return nil, err
		}
		req.Contents = append(req.Contents, gc)
	}
	if p.ModelSettings.Gemini != nil {
		req.Settings = *p.ModelSettings.Gemini
	}
	if p.ResponseFormat != nil {
		req.Settings.ResponseMIMEType = "application/json"
		req.Settings.ResponseSchema = p.ResponseFormat.Schema
	}
	return req, nil
}

func toGeminiContent(m Message) (gemini.Content, error) {
	role := "user"
	if m.Role == RoleAssistant {
		role = "model"
	}
	parts := make([]gemini.Part, 0, len(m.Parts))
	for _, c := range m.Parts {
		part, err := toGeminiPart(c)
		if err != nil {
			return gemini.Content{}, err
		}
		parts = append(parts, part)
	}
	return gemini.Content{Role: role, Parts: parts}, nil
}

func toGeminiPart(c Content) (gemini.Part, error) {
	switch c.Kind {
	case ContentText:
		return gemini.TextPart(c.Text), nil
	case ContentImage:
		return refToGeminiPart(c.Image.MIMEType, c.Image.Base64, c.Image.URL)
	case ContentAudio:
		return refToGeminiPart(c.Audio.MIMEType, c.Audio.Base64, c.Audio.URL)
	case ContentDocument:
		return refToGeminiPart(c.Document.MIMEType, c.Document.Base64, c.Document.URL)
	case ContentBinary:
		return gemini.InlineDataPart(c.Binary.MIMEType, base64.StdEncoding.EncodeToString(c.Binary.Data)), nil
	default:
		return gemini.Part{}, fmt.Errorf("prompt: unknown content kind %q", c.Kind)
	}
}

func refToGeminiPart(mime, b64, url string) (gemini.Part, error) {
	if b64 != "" {
		return gemini.InlineDataPart(mime, b64), nil
	}
	if url != "" {
		return gemini.FileDataPart(mime, url), nil
	}
	return gemini.Part{}, fmt.Errorf("prompt: gemini media part requires a URL or inline data")
}

func (p *Prompt) asAnthropicRequest() (*anthropic.Request, error) {
	req := &anthropic.Request{Model: p.Model}
	for _, m := range p.SystemInstructions {
		if req.System != "" {
			req.System += "\n\n"
		}
		req.System += m.text()
	}
	for _, m := range p.UserMessages {
		am, err := toAnthropicMessage(m)
		if err != nil {
			return nil, err
		}
		req.Messages = append(req.Messages, am)
	}
	if p.ModelSettings.Anthropic != nil {
		req.Settings = *p.ModelSettings.Anthropic
	}
	if req.Settings.MaxTokens == 0 {
		req.Settings.MaxTokens = 4096
	}
	return req, nil
}

func toAnthropicMessage(m Message) (anthropic.Message, error) {
	role := "user"
	if m.Role == RoleAssistant {
		role = "assistant"
	}
	if m.Role == RoleTool {
		return anthropic.Message{Role: "user", Content: []anthropic.Block{
			anthropic.ToolResultBlock(m.ToolCallID, []anthropic.Block{anthropic.TextBlock(m.text())}, false),
		}}, nil
	}
	blocks := make([]anthropic.Block, 0, len(m.Parts))
	for _, c := range m.Parts {
		b, err := toAnthropicBlock(c)
		if err != nil {
			return anthropic.Message{}, err
		}
		blocks = append(blocks, b)
	}
	return anthropic.Message{Role: role, Content: blocks}, nil
}

func toAnthropicBlock(c Content) (anthropic.Block, error) {
	switch c.Kind {
	case ContentText:
		return anthropic.TextBlock(c.Text), nil
	case ContentImage:
		src, err := toAnthropicSource(c.Image.MIMEType, c.Image.Base64, c.Image.URL)
		if err != nil {
			return anthropic.Block{}, err
		}
		return anthropic.ImageBlock(src), nil
	case ContentDocument:
		src, err := toAnthropicSource(c.Document.MIMEType, c.Document.Base64, c.Document.URL)
		if err != nil {
			return anthropic.Block{}, err
		}
		return anthropic.DocumentBlock(src), nil
	default:
		return anthropic.Block{}, fmt.Errorf("prompt: anthropic does not support content kind %q", c.Kind)
	}
}

func toAnthropicSource(mime, b64, url string) (anthropic.Source, error) {
	if b64 != "" {
		return anthropic.Source{Type: "base64", MediaType: mime, Data: b64}, nil
	}
	if url != "" {
		return anthropic.Source{Type: "url", URL: url}, nil
	}
	return anthropic.Source{}, fmt.Errorf("prompt: anthropic media block requires a URL or inline data")
}

func dataURI(mime, b64 string) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, b64)
}

func audioFormat(mime string) string {
	switch mime {
	case "audio/mpeg", "audio/mp3":
		return "mp3"
	case "audio/wav", "audio/x-wav":
		return "wav"
	default:
		return "wav"
	}
}
