package prompt

import (
	"testing"

	"github.com/flowcraft/llmorch/providerschema/gemini"
	"github.com/flowcraft/llmorch/providerschema/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FlexibleMessageInputs(t *testing.T) {
	p, err := New("gpt-4o", ProviderOpenAI, "hello ${name}")
	require.NoError(t, err)
	require.Len(t, p.UserMessages, 1)
	assert.Equal(t, "hello ${name}", p.UserMessages[0].text())

	p2, err := New("gpt-4o", ProviderOpenAI, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, p2.UserMessages, 2)
}

func TestNew_RejectsSettingsProviderMismatch(t *testing.T) {
	_, err := New("gpt-4o", ProviderAnthropic, "hi", WithModelSettings(ModelSettings{OpenAI: &openai.Settings{}}))
	assert.Error(t, err)
}

func TestNew_VertexAcceptsGeminiSettings(t *testing.T) {
	_, err := New("gemini-1.5-pro", ProviderVertex, "hi", WithModelSettings(ModelSettings{Gemini: &gemini.Settings{}}))
	assert.NoError(t, err)
}

func TestBind_IsImmutableAndIdempotent(t *testing.T) {
	p, err := New("gpt-4o", ProviderOpenAI, "hi ${name}, ${name}!")
	require.NoError(t, err)

	bound, err := p.Bind("name", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "hi ${name}, ${name}!", p.UserMessages[0].text(), "original prompt must be untouched")
	assert.Equal(t, "hi Ada, Ada!", bound.UserMessages[0].text())

	boundAgain, err := bound.Bind("name", "Ada")
	require.NoError(t, err)
	assert.Equal(t, bound.UserMessages[0].text(), boundAgain.UserMessages[0].text())
}

func TestBind_NonTextContentUntouched(t *testing.T) {
	img := ImageURL("https://example.com/${name}.png")
	p, err := New("gpt-4o", ProviderOpenAI, []Content{Text("hi ${name}"), img})
	require.NoError(t, err)

	bound, err := p.Bind("name", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/${name}.png", bound.UserMessages[0].Parts[1].Image.URL)
	assert.Equal(t, "hi Ada", bound.UserMessages[0].Parts[0].Text)
}

func TestReset_RestoresOriginalAfterManyBinds(t *testing.T) {
	p, err := New("gpt-4o", ProviderOpenAI, "hi ${a} ${b}")
	require.NoError(t, err)

	chained, err := p.Bind("a", "1")
	require.NoError(t, err)
	chained, err = chained.Bind("b", "2")
	require.NoError(t, err)

	reset := chained.Reset()
	assert.Equal(t, p.UserMessages[0].text(), reset.UserMessages[0].text())
}

func TestBindAll_OrderIndependent(t *testing.T) {
	p, err := New("gpt-4o", ProviderOpenAI, "${a}-${b}-${c}")
	require.NoError(t, err)

	bound, err := p.BindAll(map[string]any{"a": "1", "b": "2", "c": "3"})
	require.NoError(t, err)
	assert.Equal(t, "1-2-3", bound.UserMessages[0].text())
}

func TestBind_NonStringValueIsJSONEncoded(t *testing.T) {
	p, err := New("gpt-4o", ProviderOpenAI, "count=${n}")
	require.NoError(t, err)
	bound, err := p.Bind("n", 42)
	require.NoError(t, err)
	assert.Equal(t, "count=42", bound.UserMessages[0].text())
}

func TestModelIdentifier(t *testing.T) {
	p, err := New("gpt-4o", ProviderOpenAI, "hi")
	require.NoError(t, err)
	assert.Equal(t, "openai:gpt-4o", p.ModelIdentifier())
}

func TestSaveLoad_RoundTripsOriginalMessages(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/prompt.json"

	p, err := New("gpt-4o", ProviderOpenAI, "hi ${name}", WithSystemInstructions("be helpful to ${name}"))
	require.NoError(t, err)
	bound, err := p.Bind("name", "Ada")
	require.NoError(t, err)

	require.NoError(t, Save(bound, path))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hi Ada", loaded.UserMessages[0].text())
	assert.Equal(t, "be helpful to Ada", loaded.SystemInstructions[0].text())

	resetLoaded := loaded.Reset()
	assert.Equal(t, "hi ${name}", resetLoaded.UserMessages[0].text())
	assert.Equal(t, "be helpful to ${name}", resetLoaded.SystemInstructions[0].text())
}

func TestAsProviderRequest_OpenAI(t *testing.T) {
	p, err := New("gpt-4o", ProviderOpenAI, "hi", WithSystemInstructions("be nice"))
	require.NoError(t, err)
	req, err := p.AsProviderRequest()
	require.NoError(t, err)
	oreq, ok := req.(*openai.Request)
	require.True(t, ok)
	assert.Equal(t, "gpt-4o", oreq.Model)
	require.Len(t, oreq.Messages, 2)
	assert.Equal(t, "system", oreq.Messages[0].Role)
	assert.Equal(t, "user", oreq.Messages[1].Role)
}
