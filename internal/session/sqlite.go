package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/doctalk-ai/doctalk/internal/api"
	_ "modernc.org/sqlite"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS conversations (
    local_id        TEXT PRIMARY KEY,
    conversation_id TEXT DEFAULT '',
    email           TEXT NOT NULL,
    created_at      TEXT NOT NULL,
    updated_at      TEXT NOT NULL,
    message_count   INTEGER DEFAULT 0,
    messages        TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_conversations_updated_at ON conversations(updated_at);
`

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultDBPath returns the default database path
// (~/.local/share/doctalk/conversations.db).
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "doctalk", "conversations.db"), nil
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL keeps concurrent readers cheap.
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

func (s *SQLiteStore) Save(t *Transcript) error {
	t.UpdatedAt = time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = t.UpdatedAt
	}

	msgJSON, err := json.Marshal(t.Messages)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO conversations
			(local_id, conversation_id, email, created_at, updated_at, message_count, messages)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.LocalID,
		t.ConversationID,
		t.Email,
		t.CreatedAt.Format(time.RFC3339Nano),
		t.UpdatedAt.Format(time.RFC3339Nano),
		len(t.Messages),
		string(msgJSON),
	)
	if err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(localID string) (*Transcript, error) {
	row := s.db.QueryRow(`
		SELECT local_id, conversation_id, email, created_at, updated_at, messages
		FROM conversations WHERE local_id = ? OR local_id LIKE ?`, localID, localID+"%")

	var t Transcript
	var createdAt, updatedAt, msgJSON string
	err := row.Scan(&t.LocalID, &t.ConversationID, &t.Email, &createdAt, &updatedAt, &msgJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("conversation %s not found", localID)
	}
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	t.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)

	var msgs []api.Message
	if err := json.Unmarshal([]byte(msgJSON), &msgs); err != nil {
		return nil, fmt.Errorf("unmarshal messages: %w", err)
	}
	t.Messages = msgs

	return &t, nil
}

// List returns transcripts for one account, newest first. An empty email
// lists every account on this machine.
func (s *SQLiteStore) List(email string) ([]TranscriptInfo, error) {
	rows, err := s.db.Query(`
		SELECT local_id, email, created_at, updated_at, message_count, messages
		FROM conversations WHERE ? = '' OR email = ? ORDER BY updated_at DESC`, email, email)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer rows.Close()

	var infos []TranscriptInfo
	for rows.Next() {
		var info TranscriptInfo
		var createdAt, updatedAt, msgJSON string
		if err := rows.Scan(&info.LocalID, &info.Email, &createdAt, &updatedAt, &info.Messages, &msgJSON); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		info.FirstLine = firstUserLine(msgJSON)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *SQLiteStore) Delete(localID string) error {
	result, err := s.db.Exec("DELETE FROM conversations WHERE local_id = ? OR local_id LIKE ?", localID, localID+"%")
	if err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("conversation %s not found", localID)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// firstUserLine pulls the first user message out of a stored message blob for
// listing previews.
func firstUserLine(msgJSON string) string {
	var msgs []api.Message
	if err := json.Unmarshal([]byte(msgJSON), &msgs); err != nil {
		return ""
	}
	for _, m := range msgs {
		if m.Role == api.RoleUser {
			const max = 60
			if len(m.Content) > max {
				return m.Content[:max] + "…"
			}
			return m.Content
		}
	}
	return ""
}
