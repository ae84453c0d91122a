// Package anthropic models the Anthropic Messages API wire schema as
// closed tagged unions that round-trip unknown fields through Extra.
package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/flowcraft/llmorch/providerschema/jsonutil"
)

// Block is one element of a message's content array: a closed union over
// text, image, document, tool_use and tool_result blocks.
type Block struct {
	Type       string // "text" | "image" | "document" | "tool_use" | "tool_result"
	Text       string
	Source     *Source
	ToolUseID  string
	ToolName   string
	ToolInput  json.RawMessage
	ToolResult []Block // nested content for tool_result, itself Blocks (usually text)
	IsError    bool
	Extra      map[string]json.RawMessage
}

type Source struct {
	Type      string `json:"type"` // "base64" | "url"
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"`
	URL       string `json:"url,omitempty"`
}

func TextBlock(text string) Block { return Block{Type: "text", Text: text} }
func ImageBlock(src Source) Block { return Block{Type: "image", Source: &src} }
func DocumentBlock(src Source) Block { return Block{Type: "document", Source: &src} }
func ToolUseBlock(id, name string, input json.RawMessage) Block {
	return Block{Type: "tool_use", ToolUseID: id, ToolName: name, ToolInput: input}
}
func ToolResultBlock(id string, content []Block, isError bool) Block {
	return Block{Type: "tool_result", ToolUseID: id, ToolResult: content, IsError: isError}
}

var blockKnownKeys = map[string]struct{}{
	"type": {}, "text": {}, "source": {}, "id": {}, "name": {}, "input": {},
	"tool_use_id": {}, "content": {}, "is_error": {},
}

func (b Block) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type      string          `json:"type"`
		Text      string          `json:"text,omitempty"`
		Source    *Source         `json:"source,omitempty"`
		ID        string          `json:"id,omitempty"`
		Name      string          `json:"name,omitempty"`
		Input     json.RawMessage `json:"input,omitempty"`
		ToolUseID string          `json:"tool_use_id,omitempty"`
		Content   []Block         `json:"content,omitempty"`
		IsError   bool            `json:"is_error,omitempty"`
	}
	w := wire{Type: b.Type}
	switch b.Type {
	case "text":
		w.Text = b.Text
	case "image", "document":
		w.Source = b.Source
	case "tool_use":
		w.ID = b.ToolUseID
		w.Name = b.ToolName
		w.Input = b.ToolInput
	case "tool_result":
		w.ToolUseID = b.ToolUseID
		w.Content = b.ToolResult
		w.IsError = b.IsError
	default:
		return nil, fmt.Errorf("anthropic: unknown block type %q", b.Type)
	}
	return jsonutil.MergeExtra(w, b.Extra)
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type      string          `json:"type"`
		Text      string          `json:"text"`
		Source    *Source         `json:"source"`
		ID        string          `json:"id"`
		Name      string          `json:"name"`
		Input     json.RawMessage `json:"input"`
		ToolUseID string          `json:"tool_use_id"`
		Content   []Block         `json:"content"`
		IsError   bool            `json:"is_error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	extra, err := jsonutil.SplitKnown(data, blockKnownKeys)
	if err != nil {
		return err
	}
	b.Type = probe.Type
	b.Text = probe.Text
	b.Source = probe.Source
	b.ToolUseID = firstNonEmpty(probe.ID, probe.ToolUseID)
	b.ToolName = probe.Name
	b.ToolInput = probe.Input
	b.ToolResult = probe.Content
	b.IsError = probe.IsError
	b.Extra = extra
	return nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
