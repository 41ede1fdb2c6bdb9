package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/squad-ai/squadctl/internal/chat"
	"github.com/squad-ai/squadctl/internal/personality"
)

func testSettings() Settings {
	return Settings{MaxTokens: 150, Temperature: 0.7}
}

func TestBuildBackendMode(t *testing.T) {
	b := NewBuilder(ModeBackend, nil, testSettings())
	history := []chat.Turn{chat.NewTurn(chat.RoleUser, "earlier")}

	req, err := b.Build("conv-1", "friend-ai", "", "  hello  ", history)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if req.Message != "hello" {
		t.Errorf("message = %q, want trimmed %q", req.Message, "hello")
	}
	if req.AIID != "friend-ai" || req.SquadID != "" {
		t.Errorf("routing ids = %q, %q", req.AIID, req.SquadID)
	}
	if req.SystemPrompt != "" {
		t.Errorf("backend mode should not resolve a system prompt, got %q", req.SystemPrompt)
	}
	if len(req.History) != 1 {
		t.Errorf("history length = %d, want 1", len(req.History))
	}
}

func TestBuildDirectModeResolvesPrompt(t *testing.T) {
	reg := personality.NewRegistry(personality.Builtins())
	b := NewBuilder(ModeDirect, reg, testSettings())

	req, err := b.Build("conv-1", "friend-ai", "", "hello", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(req.SystemPrompt, "Friend AI") {
		t.Errorf("system prompt missing persona name: %q", req.SystemPrompt)
	}
}

func TestBuildDirectModeSquadPrompt(t *testing.T) {
	reg := personality.NewRegistry(personality.Builtins())
	if _, err := reg.AddSquad("sq-1", "Dream Team", []string{"friend-ai", "pro-assistant"}); err != nil {
		t.Fatalf("AddSquad: %v", err)
	}
	b := NewBuilder(ModeDirect, reg, testSettings())

	req, err := b.Build("conv-1", "", "sq-1", "hello", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(req.SystemPrompt, "Dream Team") {
		t.Errorf("squad prompt missing squad name: %q", req.SystemPrompt)
	}
}

func TestBuildRejectsInvalidInput(t *testing.T) {
	reg := personality.NewRegistry(personality.Builtins())

	tests := []struct {
		name     string
		builder  *Builder
		aiID     string
		squadID  string
		message  string
	}{
		{"empty message", NewBuilder(ModeBackend, nil, testSettings()), "friend-ai", "", "   "},
		{"no target", NewBuilder(ModeBackend, nil, testSettings()), "", "", "hi"},
		{"both targets", NewBuilder(ModeBackend, nil, testSettings()), "friend-ai", "sq-1", "hi"},
		{"zero max tokens", NewBuilder(ModeBackend, nil, Settings{}), "friend-ai", "", "hi"},
		{"unknown personality", NewBuilder(ModeDirect, reg, testSettings()), "nope", "", "hi"},
		{"unknown squad", NewBuilder(ModeDirect, reg, testSettings()), "", "nope", "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build("conv-1", tt.aiID, tt.squadID, tt.message, nil)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}
