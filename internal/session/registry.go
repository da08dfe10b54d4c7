// Package session provides the per-session conversation registry and the
// lifecycle manager that expires all of a session's artifacts together.
package session

import (
	"sync"
	"time"
)

// Turn is one role-tagged entry of a session's conversation history. Turns
// are never mutated after creation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type history struct {
	turns      []Turn
	lastAccess time.Time
}

// Registry maps a session identifier to its ordered conversation history.
// Histories are created lazily on first append. Safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*history

	now func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*history),
		now:      time.Now,
	}
}

// Get returns a copy of the session's turns in order, or an empty slice if
// the session has no history.
func (r *Registry) Get(sessionID string) []Turn {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.sessions[sessionID]
	if !ok {
		return []Turn{}
	}
	h.lastAccess = r.now()
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Append adds turns to the session's history in the order given, creating the
// history on first use.
func (r *Registry) Append(sessionID string, turns ...Turn) {
	if len(turns) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.sessions[sessionID]
	if !ok {
		h = &history{}
		r.sessions[sessionID] = h
	}
	h.turns = append(h.turns, turns...)
	h.lastAccess = r.now()
}

// Clear removes the session's history, if any.
func (r *Registry) Clear(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// EvictIdle removes every history idle for longer than maxAge and returns the
// evicted session IDs.
func (r *Registry) EvictIdle(maxAge time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxAge)
	var evicted []string
	for id, h := range r.sessions {
		if h.lastAccess.Before(cutoff) {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}
