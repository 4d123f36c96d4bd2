// Package fetch tracks in-flight list fetches per operation key so a newer
// fetch supersedes an older one.
package fetch

import (
	"context"
	"sync"
)

type entry struct {
	cancel context.CancelFunc
	gen    uint64
}

// Registry holds one cancelable context per operation key. Keys are
// per-operation, not per-parameter: starting any fetch under a key cancels
// the previous fetch under that key regardless of its parameters.
type Registry struct {
	mu       sync.Mutex
	inflight map[string]*entry
	gen      uint64
}

func NewRegistry() *Registry {
	return &Registry{inflight: make(map[string]*entry)}
}

// Begin cancels any in-flight fetch under key and returns a fresh context
// derived from parent. The returned done func releases the slot; it only
// clears the slot if this fetch is still the current one.
func (r *Registry) Begin(parent context.Context, key string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	r.mu.Lock()
	if prev, ok := r.inflight[key]; ok {
		prev.cancel()
	}
	r.gen++
	gen := r.gen
	r.inflight[key] = &entry{cancel: cancel, gen: gen}
	r.mu.Unlock()

	done := func() {
		r.mu.Lock()
		if current, ok := r.inflight[key]; ok && current.gen == gen {
			delete(r.inflight, key)
		}
		r.mu.Unlock()
		cancel()
	}
	return ctx, done
}

// CancelAll aborts every tracked fetch. Called on logout.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, e := range r.inflight {
		e.cancel()
		delete(r.inflight, key)
	}
}
