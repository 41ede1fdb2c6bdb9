// Package chat defines the conversation data model shared by the local
// message store, the history truncator and the session client.
package chat

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single conversation turn. Turns are immutable once created;
// ordering within a conversation is by CreatedAt ascending.
type Turn struct {
	ID         string
	Role       Role
	Content    string
	CreatedAt  time.Time
	TokenCount int // approximate, see EstimateTokens
}

// NewTurn creates a turn with a fresh id and the current timestamp.
func NewTurn(role Role, content string) Turn {
	return Turn{
		ID:         uuid.NewString(),
		Role:       role,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
		TokenCount: EstimateTokens(content),
	}
}

// EstimateTokens returns a rough token estimate for a piece of text:
// ceil(utf8 bytes / 4). Good enough for budget accounting; the backend
// reports exact counts in response metadata.
func EstimateTokens(s string) int {
	return (len(s) + 3) / 4
}

func turnTokens(t Turn) int {
	if t.TokenCount > 0 {
		return t.TokenCount
	}
	return EstimateTokens(t.Content)
}
