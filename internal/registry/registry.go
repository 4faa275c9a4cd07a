// Package registry maps portal session cookies to their auth store
// instances. Each browser session gets exactly one store, constructed on
// first sight and evicted once idle.
package registry

import (
	"sync"
	"time"

	"github.com/srw-platform/portal/internal/authstore"
)

// StoreFactory builds the auth store for a new session ID.
type StoreFactory func(sessionID string) *authstore.Store

type entry struct {
	store    *authstore.Store
	lastSeen time.Time
}

// Registry is the process-wide session-to-store index.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	factory StoreFactory
	idleTTL time.Duration
}

// New builds a registry. Sessions untouched for idleTTL are dropped by
// Sweep.
func New(factory StoreFactory, idleTTL time.Duration) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		factory: factory,
		idleTTL: idleTTL,
	}
}

// Resolve returns the store for the session, creating it on first use, and
// marks the session as recently seen.
func (r *Registry) Resolve(sessionID string) *authstore.Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[sessionID]; ok {
		e.lastSeen = time.Now()
		return e.store
	}

	store := r.factory(sessionID)
	r.entries[sessionID] = &entry{store: store, lastSeen: time.Now()}
	return store
}

// SweepResult summarizes one sweep pass.
type SweepResult struct {
	// Expired lists sessions whose token had lapsed; their stores were
	// cleared.
	Expired []string
	// Evicted counts idle sessions dropped from the registry.
	Evicted int
}

// Sweep clears stores whose token has passively expired and evicts sessions
// idle past the TTL. The store's own expiry model stays lazy; this is
// gateway hygiene for sessions nobody is querying anymore.
func (r *Registry) Sweep(now time.Time) SweepResult {
	r.mu.Lock()

	var result SweepResult
	var lapsed []*authstore.Store
	for sid, e := range r.entries {
		if token, ok := e.store.GetToken(); ok && e.store.IsTokenExpired(token) {
			lapsed = append(lapsed, e.store)
			result.Expired = append(result.Expired, sid)
		}
		if r.idleTTL > 0 && now.Sub(e.lastSeen) > r.idleTTL {
			delete(r.entries, sid)
			result.Evicted++
		}
	}
	r.mu.Unlock()

	// Clearing notifies store listeners, which may call back into the
	// registry, so it happens outside the lock.
	for _, store := range lapsed {
		store.ClearAuthData()
	}
	return result
}

// Len reports how many sessions are currently tracked.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
