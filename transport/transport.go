// Package transport owns the raw-bytes HTTP boundary between the agent
// core and each provider's API: endpoint/credential resolution, request
// execution, and 4xx/5xx classification. No vendor SDK is used here —
// every provider speaks to the same net/http-based Client.
package transport

import (
	"context"
	"time"

	"github.com/flowcraft/llmorch/prompt"
)

// Operation selects which endpoint suffix a Request targets.
type Operation string

const (
	OperationGenerate Operation = "generate"
	OperationEmbed    Operation = "embed"
)

// Request carries everything Execute needs to perform one call: which
// provider/model/operation it targets, the already-encoded body, and any
// extra headers beyond what the Client itself injects for auth.
type Request struct {
	Provider  prompt.Provider
	Model     string
	Operation Operation
	Body      []byte
	Headers   map[string]string
	Timeout   time.Duration
}

// Response carries the raw status and body; decoding into a provider
// schema type is the caller's job, not transport's.
type Response struct {
	Status  int
	Body    []byte
	Headers map[string]string
}

// Client resolves a provider's endpoint and credentials and executes raw
// HTTP requests against it. EnvClient is the only production
// implementation; tests substitute a fake.
type Client interface {
	EndpointFor(provider prompt.Provider, model string) (string, error)
	CredentialsFor(provider prompt.Provider) (Credentials, error)
	Execute(ctx context.Context, req Request) (Response, error)
}

// Credentials is the resolved auth material for one provider call: an
// auth header carrying a bearer token or API key (for Vertex, an OAuth2
// access token), plus any extra headers. Vertex's project/location go
// into the endpoint from EndpointFor, not into Credentials.
type Credentials struct {
	AuthHeader string // header name, e.g. "Authorization" or "x-api-key"
	AuthValue  string // e.g. "Bearer sk-..." or the raw API key
	ExtraHeaders map[string]string
}
