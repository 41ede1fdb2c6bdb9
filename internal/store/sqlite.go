package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/squad-ai/squadctl/internal/chat"
	_ "modernc.org/sqlite"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS messages (
    id              TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL,
    role            TEXT NOT NULL,
    content         TEXT NOT NULL,
    created_at      TEXT NOT NULL,
    token_count     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_messages_conversation
    ON messages(conversation_id, created_at);
`

// timeLayout is RFC 3339 with a fixed nine-digit fraction. created_at is
// ordered lexically, and a trimmed fraction would sort whole seconds
// after fractional ones within the same second ('Z' > '.').
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements MessageStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultDBPath returns the default database path
// (~/.local/share/squadctl/messages.db).
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "squadctl", "messages.db"), nil
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, conversationID string, turn chat.Turn) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, role, content, created_at, token_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		turn.ID,
		conversationID,
		string(turn.Role),
		turn.Content,
		turn.CreatedAt.UTC().Format(timeLayout),
		turn.TokenCount,
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadRecent(ctx context.Context, conversationID string, limit int) ([]chat.Turn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, content, created_at, token_count
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	var turns []chat.Turn
	for rows.Next() {
		var t chat.Turn
		var role, createdAt string
		if err := rows.Scan(&t.ID, &role, &t.Content, &createdAt, &t.TokenCount); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		t.Role = chat.Role(role)
		t.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse message timestamp: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	// Query returned newest-first; callers want chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (s *SQLiteStore) Clear(ctx context.Context, conversationID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM messages WHERE conversation_id = ?`, conversationID); err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
