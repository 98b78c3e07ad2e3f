// pkg/memcache/send_guard.go
package memcache

import (
	"sync"
	"time"
)

// SendGuard enforces the single-in-flight-send-per-chat invariant: a chat
// session may have at most one relay exchange running at a time, which is
// what keeps the usage counters from double counting on duplicate retries.
type SendGuard interface {
	// TryAcquire claims the chat for a send. Returns false if a send is
	// already in flight and not yet expired.
	TryAcquire(chatID string, ttl time.Duration) bool

	// Release frees the chat for the next send.
	Release(chatID string)
}

type sendEntry struct {
	expiresAt time.Time
}

type sendGuard struct {
	mu   sync.Mutex
	data map[string]sendEntry
}

func NewSendGuard() SendGuard {
	return &sendGuard{
		data: make(map[string]sendEntry),
	}
}

func (g *sendGuard) TryAcquire(chatID string, ttl time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.data[chatID]; ok && time.Now().Before(e.expiresAt) {
		return false
	}
	// The ttl is a safety valve: an abandoned in-flight entry (crashed
	// caller, dropped connection) unblocks the chat on its own.
	g.data[chatID] = sendEntry{expiresAt: time.Now().Add(ttl)}
	return true
}

func (g *sendGuard) Release(chatID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.data, chatID)
}
