package graph

import "github.com/dusk-indust/astgraph/internal/frontend"

// Registry hands out node identities and remembers which handle received
// which identity. It never owns the nodes behind the handles.
type Registry struct {
	last uint64
	ids  map[frontend.Node]uint64
}

// NewRegistry returns a registry whose first identity is start+1.
func NewRegistry(start uint64) *Registry {
	return &Registry{
		last: start,
		ids:  make(map[frontend.Node]uint64),
	}
}

// Next returns a fresh identity without binding it to a handle.
func (r *Registry) Next() uint64 {
	r.last++
	return r.last
}

// Register binds h to a fresh identity and returns it. Registering the same
// handle again rebinds it; the earlier identity is never reused.
func (r *Registry) Register(h frontend.Node) uint64 {
	id := r.Next()
	if h != nil {
		r.ids[h] = id
	}
	return id
}

// Lookup resolves a handle to its identity.
func (r *Registry) Lookup(h frontend.Node) (uint64, bool) {
	if h == nil {
		return 0, false
	}
	id, ok := r.ids[h]
	return id, ok
}

// Last returns the most recently issued identity, or the seed if none was
// issued.
func (r *Registry) Last() uint64 {
	return r.last
}

// Forget drops every handle binding while keeping the counter. Handles from
// a finished unit must not resolve in the next one because the front-end may
// recycle them.
func (r *Registry) Forget() {
	clear(r.ids)
}
