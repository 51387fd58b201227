// Package store persists conversation history per caller so the
// gateway can replay it into the engine on every turn.
package store

import (
	"time"

	"github.com/greenbasket/greenbasket/internal/llm"
)

// Conversation is one caller's running chat with the assistant.
type Conversation struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"` // caller identity, e.g. "user:u1"
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ConversationStore persists chat turns. Implementations are safe for
// concurrent use.
type ConversationStore interface {
	// GetOrCreate finds the conversation for a caller key, creating it
	// on first contact.
	GetOrCreate(key string) *Conversation

	// Append adds one message to a conversation.
	Append(conversationID string, msg llm.Message)

	// History returns a conversation's messages in append order.
	History(conversationID string) []llm.Message

	// List returns all conversation IDs, most recently active first.
	List() []string
}
