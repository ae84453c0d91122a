package openai

import (
	"encoding/json"
	"fmt"

	"github.com/flowcraft/llmorch/providerschema/jsonutil"
)

// ContentPart is a single part of a Chat Completions message's content
// array. It is a closed union discriminated by Type; exactly one of the
// Text/ImageURL/InputAudio fields is meaningful for a given Type. Unknown
// top-level keys on the wire survive in Extra.
type ContentPart struct {
	Type       string
	Text       string
	ImageURL   *ImageURLPart
	InputAudio *InputAudioPart
	Extra      map[string]json.RawMessage
}

type ImageURLPart struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type InputAudioPart struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

func TextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

func ImagePart(url, detail string) ContentPart {
	return ContentPart{Type: "image_url", ImageURL: &ImageURLPart{URL: url, Detail: detail}}
}

func AudioPart(data, format string) ContentPart {
	return ContentPart{Type: "input_audio", InputAudio: &InputAudioPart{Data: data, Format: format}}
}

var contentPartKnownKeys = map[string]struct{}{
	"type": {}, "text": {}, "image_url": {}, "input_audio": {},
}

func (c ContentPart) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type       string          `json:"type"`
		Text       string          `json:"text,omitempty"`
		ImageURL   *ImageURLPart   `json:"image_url,omitempty"`
		InputAudio *InputAudioPart `json:"input_audio,omitempty"`
	}
	w := wire{Type: c.Type}
	switch c.Type {
	case "text":
		w.Text = c.Text
	case "image_url":
		w.ImageURL = c.ImageURL
	case "input_audio":
		w.InputAudio = c.InputAudio
	default:
		return nil, fmt.Errorf("openai: unknown content part type %q", c.Type)
	}
	return jsonutil.MergeExtra(w, c.Extra)
}

func (c *ContentPart) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type       string          `json:"type"`
		Text       string          `json:"text"`
		ImageURL   *ImageURLPart   `json:"image_url"`
		InputAudio *InputAudioPart `json:"input_audio"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	extra, err := jsonutil.SplitKnown(data, contentPartKnownKeys)
	if err != nil {
		return err
	}
	c.Type = probe.Type
	c.Text = probe.Text
	c.ImageURL = probe.ImageURL
	c.InputAudio = probe.InputAudio
	c.Extra = extra
	return nil
}

// Content is a Chat Completions message body: either a bare string or an
// ordered list of ContentPart values. Exactly one of Plain/Parts is set.
type Content struct {
	Plain    *string
	Parts    []ContentPart
	IsStruct bool
}

func PlainContent(s string) Content { return Content{Plain: &s} }
func PartsContent(parts ...ContentPart) Content { return Content{Parts: parts, IsStruct: true} }

func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsStruct || c.Plain == nil {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(*c.Plain)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Plain = &s
		c.IsStruct = false
		c.Parts = nil
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	c.Parts = parts
	c.IsStruct = true
	c.Plain = nil
	return nil
}
