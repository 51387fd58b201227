package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket/internal/llm"
	"github.com/greenbasket/greenbasket/internal/logging"
	"github.com/greenbasket/greenbasket/internal/repo"
)

// SQLiteStore is a ConversationStore backed by the platform database.
type SQLiteStore struct {
	db  *sql.DB
	log *logging.Logger
}

// NewSQLiteStore creates a conversation store over an opened database.
func NewSQLiteStore(db *repo.DB, log *logging.Logger) *SQLiteStore {
	return &SQLiteStore{db: db.SQL(), log: log.Sub("store")}
}

func (s *SQLiteStore) GetOrCreate(key string) *Conversation {
	var c Conversation
	var createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT id, key, created_at, updated_at FROM conversations WHERE key = ?`, key,
	).Scan(&c.ID, &c.Key, &createdAt, &updatedAt)
	if err == nil {
		c.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		c.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
		return &c
	}

	now := time.Now()
	c = Conversation{ID: uuid.New().String(), Key: key, CreatedAt: now, UpdatedAt: now}
	_, err = s.db.Exec(
		`INSERT INTO conversations (id, key, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Key, now.Format(time.DateTime), now.Format(time.DateTime),
	)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to create conversation")
	}
	return &c
}

func (s *SQLiteStore) Append(conversationID string, msg llm.Message) {
	var toolCalls sql.NullString
	if len(msg.ToolCalls) > 0 {
		if data, err := json.Marshal(msg.ToolCalls); err == nil {
			toolCalls = sql.NullString{String: string(data), Valid: true}
		}
	}

	_, err := s.db.Exec(
		`INSERT INTO conversation_messages (conversation_id, role, content, name, tool_call_id, tool_calls)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		conversationID, msg.Role, msg.Content, msg.Name, msg.ToolCallID, toolCalls,
	)
	if err != nil {
		s.log.Error().Err(err).Str("conversation", conversationID).Msg("failed to append message")
		return
	}

	_, _ = s.db.Exec(
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		time.Now().Format(time.DateTime), conversationID,
	)
}

func (s *SQLiteStore) History(conversationID string) []llm.Message {
	rows, err := s.db.Query(
		`SELECT role, content, name, tool_call_id, tool_calls
		 FROM conversation_messages WHERE conversation_id = ? ORDER BY id`, conversationID,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var msgs []llm.Message
	for rows.Next() {
		var m llm.Message
		var toolCalls sql.NullString
		if err := rows.Scan(&m.Role, &m.Content, &m.Name, &m.ToolCallID, &toolCalls); err != nil {
			continue
		}
		if toolCalls.Valid && toolCalls.String != "" {
			_ = json.Unmarshal([]byte(toolCalls.String), &m.ToolCalls)
		}
		msgs = append(msgs, m)
	}
	return msgs
}

func (s *SQLiteStore) List() []string {
	rows, err := s.db.Query(`SELECT id FROM conversations ORDER BY updated_at DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
