// Package store persists conversation history locally. The session client
// appends optimistic user turns and confirmed assistant turns; the UI reads
// recent history for display and for prompt context.
package store

import (
	"context"

	"github.com/squad-ai/squadctl/internal/chat"
)

// MessageStore is an append-only per-conversation message cache. Turns are
// never mutated; the only deletion path is clearing a whole conversation.
type MessageStore interface {
	Append(ctx context.Context, conversationID string, turn chat.Turn) error
	// LoadRecent returns up to limit most recent turns, oldest-first.
	LoadRecent(ctx context.Context, conversationID string, limit int) ([]chat.Turn, error)
	Clear(ctx context.Context, conversationID string) error
	Close() error
}
