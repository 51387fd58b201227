package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket/internal/llm"
)

// MemoryStore is an in-process ConversationStore for tests and the
// demo mode. History is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	byKey    map[string]*Conversation
	byID     map[string]*Conversation
	messages map[string][]llm.Message
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byKey:    make(map[string]*Conversation),
		byID:     make(map[string]*Conversation),
		messages: make(map[string][]llm.Message),
	}
}

func (s *MemoryStore) GetOrCreate(key string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.byKey[key]; ok {
		copied := *c
		return &copied
	}

	now := time.Now()
	c := &Conversation{
		ID:        uuid.New().String(),
		Key:       key,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.byKey[key] = c
	s.byID[c.ID] = c

	copied := *c
	return &copied
}

func (s *MemoryStore) Append(conversationID string, msg llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[conversationID] = append(s.messages[conversationID], msg)
	if c, ok := s.byID[conversationID]; ok {
		c.UpdatedAt = time.Now()
	}
}

func (s *MemoryStore) History(conversationID string) []llm.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := make([]llm.Message, len(s.messages[conversationID]))
	copy(msgs, s.messages[conversationID])
	return msgs
}

func (s *MemoryStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	convs := make([]*Conversation, 0, len(s.byID))
	for _, c := range s.byID {
		convs = append(convs, c)
	}
	sort.Slice(convs, func(i, j int) bool { return convs[i].UpdatedAt.After(convs[j].UpdatedAt) })

	ids := make([]string, len(convs))
	for i, c := range convs {
		ids[i] = c.ID
	}
	return ids
}
