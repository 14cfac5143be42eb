package selection

import (
	"sync"
	"time"
)

// Key binds a pending selection to exactly one prompt message and exactly
// one user. Reactions carrying any other pair never touch the entry.
type Key struct {
	MessageID string
	UserID    string
}

// Pending is an outstanding tier prompt waiting for its reaction.
type Pending struct {
	ChannelID string
	GuildID   string
	MemberID  string
	CreatedAt time.Time
}

// Registry holds all outstanding tier prompts. It is the only shared
// mutable state between concurrently delivered events. Entries live until
// taken or the process exits; restarts abandon them.
type Registry struct {
	mu      sync.Mutex
	pending map[Key]Pending
}

// NewRegistry creates an empty pending-selection registry.
func NewRegistry() *Registry {
	return &Registry{pending: make(map[Key]Pending)}
}

// Add registers a pending selection under its prompt/user pair.
func (r *Registry) Add(k Key, p Pending) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[k] = p
}

// Take removes and returns the pending selection for the pair, if any.
// A hit removes the entry exactly once, so a prompt resolves at most once
// no matter how many reactions race for it.
func (r *Registry) Take(k Key) (Pending, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[k]
	if ok {
		delete(r.pending, k)
	}
	return p, ok
}

// Len returns the number of outstanding prompts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
