package gemini

import (
	"encoding/json"

	"github.com/flowcraft/llmorch/providerschema/jsonutil"
)

// FinishReason is an open enum over Gemini's candidate finishReason values.
type FinishReason struct {
	Value   string
	Unknown bool
}

var (
	FinishSTOP                 = FinishReason{Value: "STOP"}
	FinishMaxTokens            = FinishReason{Value: "MAX_TOKENS"}
	FinishSafety               = FinishReason{Value: "SAFETY"}
	FinishRecitation           = FinishReason{Value: "RECITATION"}
	FinishOther                = FinishReason{Value: "OTHER"}
)

var knownFinishReasons = map[string]FinishReason{
	"STOP": FinishSTOP, "MAX_TOKENS": FinishMaxTokens, "SAFETY": FinishSafety,
	"RECITATION": FinishRecitation, "OTHER": FinishOther,
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

type SafetyRating struct {
	Category    string `json:"category"`
	Probability string `json:"probability"`
	Blocked     bool   `json:"blocked,omitempty"`
}

// CitationSource is one attributed source backing CitationMetadata.
type CitationSource struct {
	StartIndex int    `json:"startIndex,omitempty"`
	EndIndex   int    `json:"endIndex,omitempty"`
	URI        string `json:"uri,omitempty"`
	License    string `json:"license,omitempty"`
}

// CitationMetadata lists the sources a candidate's content was attributed to.
type CitationMetadata struct {
	CitationSources []CitationSource `json:"citationSources,omitempty"`
}

// GroundingChunk is one retrieved passage backing a grounded candidate.
type GroundingChunk struct {
	Web *struct {
		URI   string `json:"uri,omitempty"`
		Title string `json:"title,omitempty"`
	} `json:"web,omitempty"`
}

// GroundingSupport ties a span of candidate content to the grounding chunks
// that justify it.
type GroundingSupport struct {
	GroundingChunkIndices []int     `json:"groundingChunkIndices,omitempty"`
	ConfidenceScores      []float64 `json:"confidenceScores,omitempty"`
}

// GroundingMetadata is present when the request enabled a grounding tool
// (e.g. Google Search retrieval) and records what backed the candidate.
type GroundingMetadata struct {
	WebSearchQueries  []string           `json:"webSearchQueries,omitempty"`
	GroundingChunks   []GroundingChunk   `json:"groundingChunks,omitempty"`
	GroundingSupports []GroundingSupport `json:"groundingSupports,omitempty"`
}

type Candidate struct {
	Content           Content            `json:"content"`
	FinishReason      FinishReason       `json:"finishReason"`
	Index             int                `json:"index"`
	SafetyRatings     []SafetyRating     `json:"safetyRatings,omitempty"`
	CitationMetadata  *CitationMetadata  `json:"citationMetadata,omitempty"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
}

type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Response is the full GenerateContent response body.
type Response struct {
	Candidates    []Candidate   `json:"candidates"`
	UsageMetadata UsageMetadata `json:"usageMetadata"`
	ModelVersion  string        `json:"modelVersion,omitempty"`
	Extra         map[string]json.RawMessage `json:"-"`
}

var responseKnownKeys = map[string]struct{}{
	"candidates": {}, "usageMetadata": {}, "modelVersion": {},
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
