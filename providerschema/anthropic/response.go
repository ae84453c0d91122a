package anthropic

import (
	"encoding/json"

	"github.com/flowcraft/llmorch/providerschema/jsonutil"
)

// StopReason is an open enum over the Messages API's stop_reason values.
type StopReason struct {
	Value   string
	Unknown bool
}

var (
	StopEndTurn      = StopReason{Value: "end_turn"}
	StopMaxTokens    = StopReason{Value: "max_tokens"}
	StopStopSequence = StopReason{Value: "stop_sequence"}
	StopToolUse      = StopReason{Value: "tool_use"}
)

var knownStopReasons = map[string]StopReason{
	"end_turn": StopEndTurn, "max_tokens": StopMaxTokens,
	"stop_sequence": StopStopSequence, "tool_use": StopToolUse,
}

func ParseStopReason(s string) StopReason {
	if sr, ok := knownStopReasons[s]; ok {
		return sr
	}
	return StopReason{Value: s, Unknown: true}
}

func (s StopReason) MarshalJSON() ([]byte, error) { return json.Marshal(s.Value) }

func (s *StopReason) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = ParseStopReason(v)
	return nil
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Response is the full Messages API response body.
type Response struct {
	ID           string     `json:"id"`
	Model        string     `json:"model"`
	Role         string     `json:"role"`
	Content      []Block    `json:"content"`
	StopReason   StopReason `json:"stop_reason"`
	StopSequence string     `json:"stop_sequence,omitempty"`
	Usage        Usage      `json:"usage"`
	Extra        map[string]json.RawMessage `json:"-"`
}

var responseKnownKeys = map[string]struct{}{
	"id": {}, "model": {}, "role": {}, "content": {}, "stop_reason": {},
	"stop_sequence": {}, "usage": {}, "type": {},
}

func (r Response) MarshalJSON() ([]byte, error) {
	type alias Response
	return jsonutil.MergeExtra(alias(r), r.Extra)
}

func (r *Response) UnmarshalJSON(data []byte) error {
	type alias Response
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	extra, err := jsonutil.SplitKnown(data, responseKnownKeys)
	if err != nil {
		return err
	}
	*r = Response(a)
	r.Extra = extra
	return nil
}
