package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentPart_RoundTrip(t *testing.T) {
	parts := []ContentPart{
		TextPart("hello"),
		ImagePart("https://example.com/a.png", "high"),
		AudioPart("base64data", "wav"),
	}
	for _, p := range parts {
		data, err := json.Marshal(p)
		require.NoError(t, err)
		var got ContentPart
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, p, got)
	}
}

func TestContentPart_PreservesUnknownFields(t *testing.T) {
	raw := []byte(`{"type":"text","text":"hi","cache_control":{"type":"ephemeral"}}`)
	var part ContentPart
	require.NoError(t, json.Unmarshal(raw, &part))
	require.Contains(t, part.Extra, "cache_control")

	out, err := json.Marshal(part)
	require.NoError(t, err)
	var roundTripped map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &roundTripped))
	assert.Contains(t, roundTripped, "cache_control")
}

func TestToolChoice_RoundTrip(t *testing.T) {
	choices := []ToolChoice{
		ToolChoiceNone(), ToolChoiceAuto(), ToolChoiceRequired(), ToolChoiceFunc("get_weather"),
		ToolChoiceCustom("run_script"),
		ToolChoiceAllowed("required", ToolReference{Type: "function", Function: "get_weather"}),
	}
	for _, c := range choices {
		data, err := json.Marshal(c)
		require.NoError(t, err)
		var got ToolChoice
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, c, got)
	}
}

func TestFinishReason_UnknownValueDoesNotFail(t *testing.T) {
	var fr FinishReason
	require.NoError(t, json.Unmarshal([]byte(`"some_future_reason"`), &fr))
	assert.True(t, fr.Unknown)
	assert.Equal(t, "some_future_reason", fr.Value)
}

func TestFinishReason_KnownValues(t *testing.T) {
	var fr FinishReason
	require.NoError(t, json.Unmarshal([]byte(`"tool_calls"`), &fr))
	assert.False(t, fr.Unknown)
	assert.Equal(t, FinishToolCalls, fr)
}

func TestRequest_RoundTripWithExtra(t *testing.T) {
	temp := 0.7
	req := Request{
		Model: "gpt-4o",
		Messages: []Message{
			{Role: "system", Content: PlainContent("be nice")},
			{Role: "user", Content: PartsContent(TextPart("hi"), ImagePart("https://e/a.png", "auto"))},
		},
		Settings: Settings{
			Temperature: &temp,
			Extra:       map[string]json.RawMessage{"reasoning_effort": json.RawMessage(`"high"`)},
		},
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)

	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &obj))
	assert.Contains(t, obj, "reasoning_effort")

	var got Request
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, req.Model, got.Model)
	assert.Equal(t, *req.Settings.Temperature, *got.Settings.Temperature)
	assert.Equal(t, req.Settings.Extra["reasoning_effort"], got.Settings.Extra["reasoning_effort"])
}

func TestResponse_DecodesChoicesAndUsage(t *testing.T) {
	raw := []byte(`{
		"id":"chatcmpl-1","model":"gpt-4o","created":1234,
		"choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}],
		"usage":{"prompt_tokens":5,"completion_tokens":2,"total_tokens":7},
		"system_fingerprint":"fp_abc"
	}`)
	var resp Response
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, FinishStop, resp.Choices[0].FinishReason)
	assert.Equal(t, 7, resp.Usage.TotalTokens)

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &obj))
	assert.Contains(t, obj, "system_fingerprint")
}

func TestResponse_DecodesLogProbsAndUsageDetailsAndMessageExtras(t *testing.T) {
	raw := []byte(`{
		"id":"chatcmpl-2","model":"gpt-4o-audio-preview","created":1234,
		"choices":[{
			"index":0,
			"message":{
				"role":"assistant","content":"hi",
				"audio":{"id":"audio_1","data":"base64","expires_at":999,"transcript":"hi"},
				"annotations":[{"type":"url_citation","url_citation":{"url":"https://e","title":"t"}}]
			},
			"finish_reason":"stop",
			"logprobs":{"content":[{"token":"hi","logprob":-0.1,"bytes":[104,105],"top_logprobs":[]}],"refusal":[]}
		}],
		"usage":{
			"prompt_tokens":5,"completion_tokens":2,"total_tokens":7,
			"prompt_tokens_details":{"cached_tokens":1,"audio_tokens":0},
			"completion_tokens_details":{"reasoning_tokens":3,"audio_tokens":0,"accepted_prediction_tokens":0,"rejected_prediction_tokens":0}
		}
	}`)
	var resp Response
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Len(t, resp.Choices, 1)

	choice := resp.Choices[0]
	require.NotNil(t, choice.LogProbs)
	require.Len(t, choice.LogProbs.Content, 1)
	assert.Equal(t, "hi", choice.LogProbs.Content[0].Token)

	require.NotNil(t, choice.Message.Audio)
	assert.Equal(t, "audio_1", choice.Message.Audio.ID)
	require.Len(t, choice.Message.Annotations, 1)
	require.NotNil(t, choice.Message.Annotations[0].URLCitation)
	assert.Equal(t, "https://e", choice.Message.Annotations[0].URLCitation.URL)

	require.NotNil(t, resp.Usage.PromptTokensDetails)
	assert.Equal(t, 1, resp.Usage.PromptTokensDetails.CachedTokens)
	require.NotNil(t, resp.Usage.CompletionTokensDetails)
	assert.Equal(t, 3, resp.Usage.CompletionTokensDetails.ReasoningTokens)

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &obj))
	assert.Contains(t, obj, "choices")
}

func TestError_Decodes(t *testing.T) {
	raw := []byte(`{"error":{"message":"invalid api key","type":"invalid_request_error","code":"invalid_api_key"}}`)
	var e Error
	require.NoError(t, json.Unmarshal(raw, &e))
	assert.Equal(t, "invalid api key", e.Error.Message)
	assert.Equal(t, "invalid_api_key", e.Error.Code)
}

func TestContent_PlainAndStructVariants(t *testing.T) {
	plain := PlainContent("hi")
	data, err := json.Marshal(plain)
	require.NoError(t, err)
	assert.Equal(t, `"hi"`, string(data))

	var decoded Content
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Plain)
	assert.Equal(t, "hi", *decoded.Plain)

	structured := PartsContent(TextPart("a"))
	data, err = json.Marshal(structured)
	require.NoError(t, err)
	var decodedStruct Content
	require.NoError(t, json.Unmarshal(data, &decodedStruct))
	assert.True(t, decodedStruct.IsStruct)
}
