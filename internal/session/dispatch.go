package session

import (
	"context"
	"errors"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"

	"github.com/squad-ai/squadctl/internal/api"
	"github.com/squad-ai/squadctl/internal/chat"
	"github.com/squad-ai/squadctl/internal/provider"
)

// Reply is a successful completion, normalized across backend and direct
// deployments.
type Reply struct {
	Content  string
	Metadata Metadata
}

// Metadata carries generation accounting for display and logging.
type Metadata struct {
	Tokens           int
	ProcessingTimeMs float64
	AIPersonality    string
	PromptTokens     int
	CompletionTokens int
}

// Dispatcher performs one network round trip for a built request.
// Implementations report HTTP-level failures as *api.StatusError,
// decode failures as *api.DecodeError, and everything else as a
// transport error, so the client classifies all of them the same way.
type Dispatcher interface {
	Dispatch(ctx context.Context, accessToken string, req *OutboundRequest) (*Reply, error)
}

// BackendDispatcher sends requests through the Squad backend.
type BackendDispatcher struct {
	api *api.Client
}

func NewBackendDispatcher(client *api.Client) *BackendDispatcher {
	return &BackendDispatcher{api: client}
}

func (d *BackendDispatcher) Dispatch(ctx context.Context, accessToken string, req *OutboundRequest) (*Reply, error) {
	wire := &api.ChatRequest{
		Message: req.Message,
		AIID:    req.AIID,
		SquadID: req.SquadID,
		Settings: api.RequestSettings{
			MaxTokens:   req.Settings.MaxTokens,
			Temperature: req.Settings.Temperature,
			Language:    req.Settings.Language,
		},
	}
	for _, turn := range req.History {
		wire.History = append(wire.History, api.HistoryTurn{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	resp, err := d.api.Generate(ctx, accessToken, wire)
	if err != nil {
		return nil, err
	}
	return &Reply{
		Content: resp.Content,
		Metadata: Metadata{
			Tokens:           resp.Metadata.Tokens,
			ProcessingTimeMs: resp.Metadata.ProcessingTimeMs,
			AIPersonality:    resp.Metadata.AIPersonality,
			PromptTokens:     resp.Metadata.PromptTokens,
			CompletionTokens: resp.Metadata.CompletionTokens,
		},
	}, nil
}

// DirectDispatcher sends requests straight to a model API.
type DirectDispatcher struct {
	provider provider.Provider
}

func NewDirectDispatcher(p provider.Provider) *DirectDispatcher {
	return &DirectDispatcher{provider: p}
}

func (d *DirectDispatcher) Dispatch(ctx context.Context, _ string, req *OutboundRequest) (*Reply, error) {
	preq := &provider.Request{
		System:      req.SystemPrompt,
		MaxTokens:   req.Settings.MaxTokens,
		Temperature: req.Settings.Temperature,
	}
	for _, turn := range req.History {
		role := provider.RoleUser
		if turn.Role == chat.RoleAssistant {
			role = provider.RoleAssistant
		}
		preq.Messages = append(preq.Messages, provider.Message{Role: role, Content: turn.Content})
	}
	preq.Messages = append(preq.Messages, provider.Message{Role: provider.RoleUser, Content: req.Message})

	started := time.Now()
	comp, err := d.provider.Complete(ctx, preq)
	if err != nil {
		return nil, normalizeSDKError(err)
	}
	return &Reply{
		Content: comp.Content,
		Metadata: Metadata{
			Tokens:           comp.InputTokens + comp.OutputTokens,
			ProcessingTimeMs: float64(time.Since(started).Milliseconds()),
			AIPersonality:    d.provider.Name(),
			PromptTokens:     comp.InputTokens,
			CompletionTokens: comp.OutputTokens,
		},
	}, nil
}

// normalizeSDKError maps vendor SDK errors onto *api.StatusError so the
// client's status-code classification works in both modes.
func normalizeSDKError(err error) error {
	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return &api.StatusError{Code: oaErr.StatusCode}
	}
	var anErr *anthropic.Error
	if errors.As(err, &anErr) {
		return &api.StatusError{Code: anErr.StatusCode}
	}
	return err
}
