// Package seen tracks which chats have already talked to the bot, backing the
// first_message trigger.
package seen

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Tracker atomically checks and marks a chat as seen.
type Tracker interface {
	// MarkSeen records jid and reports whether this was its first message.
	MarkSeen(ctx context.Context, jid string) (bool, error)
	Close() error
}

// MemoryTracker keeps seen chats in process memory. Entries expire after ttl;
// a zero ttl keeps them for the lifetime of the process.
type MemoryTracker struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemoryTracker creates an in-memory tracker.
func NewMemoryTracker(ttl time.Duration) *MemoryTracker {
	expiration := gocache.NoExpiration
	if ttl > 0 {
		expiration = ttl
	}

	return &MemoryTracker{
		cache: gocache.New(expiration, 10*time.Minute),
		ttl:   expiration,
	}
}

func (m *MemoryTracker) MarkSeen(_ context.Context, jid string) (bool, error) {
	// Add fails when the key is already present.
	err := m.cache.Add(jid, struct{}{}, m.ttl)

	return err == nil, nil
}

// Forget drops jid so its next message counts as a first message again.
func (m *MemoryTracker) Forget(jid string) {
	m.cache.Delete(jid)
}

func (m *MemoryTracker) Close() error {
	m.cache.Flush()

	return nil
}
