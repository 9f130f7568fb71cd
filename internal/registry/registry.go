// Package registry holds the live dialogue engines of active interview sessions.
package registry

import (
	"sync"

	"github.com/priyanshupaikra/Inter-AI/internal/adapter/llm"
)

// Registry maps session IDs to live engines and serializes work per session.
// Its contents are not persisted; a restart loses every active engine.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]llm.DialogueEngine

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		engines: make(map[string]llm.DialogueEngine),
		locks:   make(map[string]*sessionLock),
	}
}

// Put registers engine for the session, replacing any previous engine.
func (r *Registry) Put(sessionID string, engine llm.DialogueEngine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[sessionID] = engine
}

// Get returns the engine of the session. ok is false when none is registered.
func (r *Registry) Get(sessionID string) (engine llm.DialogueEngine, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	engine, ok = r.engines[sessionID]
	return engine, ok
}

// Remove evicts the engine of the session.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, sessionID)
}

// Len returns the number of live engines.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}

// Lock acquires the per-session lock and returns its release function.
// Different sessions never contend with each other.
func (r *Registry) Lock(sessionID string) (unlock func()) {
	r.locksMu.Lock()
	l, ok := r.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		r.locks[sessionID] = l
	}
	l.refs++
	r.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		r.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.locks, sessionID)
		}
		r.locksMu.Unlock()
	}
}
