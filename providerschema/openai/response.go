package openai

import (
	"encoding/json"

	"github.com/flowcraft/llmorch/providerschema/jsonutil"
)

// FinishReason is an open enum: recognized values decode to their named
// constant, anything else decodes to Unknown(raw) rather than failing so a
// new provider-side value never breaks decoding.
type FinishReason struct {
	Value   string
	Unknown bool
}

var (
	FinishStop          = FinishReason{Value: "stop"}
	FinishLength         = FinishReason{Value: "length"}
	FinishToolCalls      = FinishReason{Value: "tool_calls"}
	FinishContentFilter  = FinishReason{Value: "content_filter"}
	FinishFunctionCall   = FinishReason{Value: "function_call"}
)

var knownFinishReasons = map[string]FinishReason{
	"stop": FinishStop, "length": FinishLength, "tool_calls": FinishToolCalls,
	"content_filter": FinishContentFilter, "function_call": FinishFunctionCall,
}

func ParseFinishReason(s string) FinishReason {
	if fr, ok := knownFinishReasons[s]; ok {
		return fr
	}
	return FinishReason{Value: s, Unknown: true}
}

func (f FinishReason) MarshalJSON() ([]byte, error) { return json.Marshal(f.Value) }

func (f *FinishReason) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = ParseFinishReason(s)
	return nil
}

// PromptTokensDetails breaks down Usage.PromptTokens by cache and modality.
type PromptTokensDetails struct {
	CachedTokens int `json:"cached_tokens"`
	AudioTokens  int `json:"audio_tokens"`
}

// CompletionTokensDetails breaks down Usage.CompletionTokens, including
// reasoning-model token categories that don't appear in the visible output.
type CompletionTokensDetails struct {
	ReasoningTokens          int `json:"reasoning_tokens"`
	AudioTokens              int `json:"audio_tokens"`
	AcceptedPredictionTokens int `json:"accepted_prediction_tokens"`
	RejectedPredictionTokens int `json:"rejected_prediction_tokens"`
}

type Usage struct {
	PromptTokens            int                      `json:"prompt_tokens"`
	CompletionTokens        int                      `json:"completion_tokens"`
	TotalTokens             int                      `json:"total_tokens"`
	PromptTokensDetails     *PromptTokensDetails     `json:"prompt_tokens_details,omitempty"`
	CompletionTokensDetails *CompletionTokensDetails `json:"completion_tokens_details,omitempty"`
}

// TopLogProb is one alternative token considered at a given position.
type TopLogProb struct {
	Token   string  `json:"token"`
	LogProb float64 `json:"logprob"`
	Bytes   []int   `json:"bytes"`
}

// TokenLogProb is the log probability for a single emitted token.
type TokenLogProb struct {
	Token       string       `json:"token"`
	LogProb     float64      `json:"logprob"`
	Bytes       []int        `json:"bytes"`
	TopLogProbs []TopLogProb `json:"top_logprobs"`
}

// LogProbs holds per-token log probabilities for a choice, present only
// when the request set Settings.LogProbs.
type LogProbs struct {
	Content []TokenLogProb `json:"content"`
	Refusal []TokenLogProb `json:"refusal"`
}

type Choice struct {
	Index        int          `json:"index"`
	Message      Message      `json:"message"`
	FinishReason FinishReason `json:"finish_reason"`
	LogProbs     *LogProbs    `json:"logprobs,omitempty"`
}

// Response is the full Chat Completions response body.
type Response struct {
	ID      string          `json:"id"`
	Model   string          `json:"model"`
	Created int64           `json:"created"`
	Choices []Choice        `json:"choices"`
	Usage   Usage           `json:"usage"`
	Extra   map[string]json.RawMessage `json:"-"`
}

var responseKnownKeys = map[string]struct{}{
	"id": {}, "model": {}, "created": {}, "choices": {}, "usage": {}, "object": {},
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
