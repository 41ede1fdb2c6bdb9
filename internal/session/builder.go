package session

import (
	"fmt"
	"strings"

	"github.com/squad-ai/squadctl/internal/chat"
	"github.com/squad-ai/squadctl/internal/personality"
)

// Mode selects where completions are served from.
type Mode string

const (
	// ModeBackend routes chat through the Squad backend, which holds the
	// model keys and resolves personalities server side.
	ModeBackend Mode = "backend"

	// ModeDirect calls a model API directly with a locally resolved
	// system prompt. No backend account is needed.
	ModeDirect Mode = "direct"
)

// Settings are the generation parameters attached to every request.
type Settings struct {
	MaxTokens   int
	Temperature float64
	Language    string // optional reply-language hint
}

// OutboundRequest is a fully validated request, ready for a Dispatcher.
// Exactly one of AIID and SquadID is set. In direct mode SystemPrompt
// carries the resolved persona instruction; in backend mode it is empty
// because the backend resolves personas itself.
type OutboundRequest struct {
	ConversationID string
	AIID           string
	SquadID        string
	SystemPrompt   string
	History        []chat.Turn
	Message        string
	Settings       Settings
}

// Builder validates raw input and assembles OutboundRequests.
type Builder struct {
	mode     Mode
	registry *personality.Registry
	settings Settings
}

func NewBuilder(mode Mode, registry *personality.Registry, settings Settings) *Builder {
	return &Builder{mode: mode, registry: registry, settings: settings}
}

// Build validates and assembles a request. It returns ErrInvalidRequest
// without side effects when the message is blank, the settings are
// unusable, or (in direct mode) the personality or squad is unknown.
func (b *Builder) Build(conversationID, aiID, squadID, message string, history []chat.Turn) (*OutboundRequest, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: empty message", ErrInvalidRequest)
	}
	if b.settings.MaxTokens <= 0 {
		return nil, fmt.Errorf("%w: max tokens must be positive", ErrInvalidRequest)
	}
	if aiID != "" && squadID != "" {
		return nil, fmt.Errorf("%w: both personality and squad set", ErrInvalidRequest)
	}
	if aiID == "" && squadID == "" {
		return nil, fmt.Errorf("%w: no personality or squad selected", ErrInvalidRequest)
	}

	req := &OutboundRequest{
		ConversationID: conversationID,
		AIID:           aiID,
		SquadID:        squadID,
		History:        history,
		Message:        message,
		Settings:       b.settings,
	}

	// Backend mode trusts the server to resolve personas; direct mode
	// must resolve them locally before anything is sent.
	if b.mode == ModeDirect {
		prompt, err := b.resolvePrompt(aiID, squadID)
		if err != nil {
			return nil, err
		}
		req.SystemPrompt = prompt
	}
	return req, nil
}

func (b *Builder) resolvePrompt(aiID, squadID string) (string, error) {
	if b.registry == nil {
		return "", fmt.Errorf("%w: no personality registry", ErrInvalidRequest)
	}
	if aiID != "" {
		p, ok := b.registry.Lookup(aiID)
		if !ok {
			return "", fmt.Errorf("%w: unknown personality %q", ErrInvalidRequest, aiID)
		}
		return p.SystemPrompt(), nil
	}
	sq, ok := b.registry.LookupSquad(squadID)
	if !ok {
		return "", fmt.Errorf("%w: unknown squad %q", ErrInvalidRequest, squadID)
	}
	return sq.SystemPrompt(), nil
}
