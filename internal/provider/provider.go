// Package provider defines the unified interface for direct-model
// deployments, where chat completions go straight to a third-party LLM API
// instead of routing through the Squad backend. Each adapter (openai.go,
// anthropic.go) converts the unified request into its vendor's format.
package provider

import "context"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of context sent to the model.
type Message struct {
	Role    Role
	Content string
}

// Request is the unified completion request.
type Request struct {
	Model       string
	System      string // inline persona instruction, may be empty
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Completion is the unified result of a single chat completion.
type Completion struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Provider is implemented by each vendor adapter. Complete performs one
// synchronous chat completion; vendor HTTP failures surface as the SDK's
// typed errors so the caller can classify by status code.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req *Request) (*Completion, error)
}
