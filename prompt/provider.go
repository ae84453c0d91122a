package prompt

import "fmt"

// Provider tags which wire schema a Prompt's ModelSettings and
// AsProviderRequest translation target.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderGemini    Provider = "gemini"
	ProviderVertex    Provider = "vertex"
	ProviderAnthropic Provider = "anthropic"
)

func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderOpenAI, ProviderGemini, ProviderVertex, ProviderAnthropic:
		return Provider(s), nil
	default:
		return "", &ConfigError{Reason: fmt.Sprintf("unknown provider %q", s)}
	}
}

// usesGeminiSchema reports whether provider speaks the Gemini/Vertex
// GenerateContent wire schema, the two differing only in transport.
func (p Provider) usesGeminiSchema() bool {
	return p == ProviderGemini || p == ProviderVertex
}
