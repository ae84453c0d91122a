package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/flowcraft/llmorch/prompt"
	"github.com/flowcraft/llmorch/transport"
)

// fakeTransport is a transport.Client whose Execute behavior is driven by
// a per-model response table or a per-model error table — enough to
// exercise the executor's dependency binding, failure propagation, and
// cancellation without a real network call.
type fakeTransport struct {
	mu        sync.Mutex
	responses map[string]transport.Response
	errors    map[string]error
	calls     []transport.Request
}

func (f *fakeTransport) EndpointFor(provider prompt.Provider, model string) (string, error) {
	return "https://fake", nil
}

func (f *fakeTransport) CredentialsFor(provider prompt.Provider) (transport.Credentials, error) {
	return transport.Credentials{}, nil
}

func (f *fakeTransport) Execute(ctx context.Context, req transport.Request) (transport.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.errors != nil {
		if err, ok := f.errors[req.Model]; ok {
			return transport.Response{}, err
		}
	}
	if f.responses != nil {
		if resp, ok := f.responses[req.Model]; ok {
			return resp, nil
		}
	}
	return transport.Response{}, fmt.Errorf("fakeTransport: no canned response for model %q", req.Model)
}

func openAIReply(text string) transport.Response {
	body := fmt.Sprintf(`{
		"id":"1","model":"gpt-4o","created":1,
		"choices":[{"index":0,"message":{"role":"assistant","content":%q},"finish_reason":"stop"}],
		"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}
	}`, text)
	return transport.Response{Status: 200, Body: []byte(body)}
}
