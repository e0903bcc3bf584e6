// Copyright (c) ConvoFlow. All rights reserved.

package assistant

import (
	"context"
	"sync"
	"time"
)

// DefaultConversationTTL is how long a conversation survives after its last
// save before a fresh one is started for the same id.
const DefaultConversationTTL = 24 * time.Hour

// ConversationStore holds the ordered message sequence for each conversation
// id. Entries expire on a sliding window from the last save.
type ConversationStore interface {
	// Get returns the stored messages for id. If the id is absent or its
	// entry has expired, a new sequence containing only a system message
	// built from systemPrompt is returned.
	Get(ctx context.Context, id, systemPrompt string) ([]Message, error)

	// Save replaces the stored sequence for id and resets its expiry.
	Save(ctx context.Context, id string, messages []Message) error
}

type conversation struct {
	messages  []Message
	expiresAt time.Time
}

// MemoryStore is an in-memory [ConversationStore] with sliding TTL expiry.
// Expired entries are evicted lazily on access; call [MemoryStore.Sweep]
// periodically if proactive cleanup matters.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*conversation
	now     func() time.Time
}

// MemoryStoreOption configures a [MemoryStore].
type MemoryStoreOption func(*MemoryStore)

// WithClock overrides the store's time source. Intended for tests.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore creates a MemoryStore with the given TTL.
// A non-positive ttl falls back to [DefaultConversationTTL].
func NewMemoryStore(ttl time.Duration, opts ...MemoryStoreOption) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultConversationTTL
	}
	s := &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]*conversation),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, id, systemPrompt string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if ok && s.now().Before(entry.expiresAt) {
		return CloneMessages(entry.messages), nil
	}
	if ok {
		delete(s.entries, id)
	}
	return []Message{NewSystemMessage(systemPrompt)}, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, messages []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = &conversation{
		messages:  CloneMessages(messages),
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// Sweep removes all expired entries and reports how many were evicted.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

// Len reports the number of live entries, counting expired ones not yet
// evicted.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
