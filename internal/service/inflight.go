package service

import "sync"

// inflight rejects a mutation while the same action on the same resource is
// still outstanding.
type inflight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{keys: make(map[string]struct{})}
}

// acquire claims action on resourceID. The returned func releases it.
func (g *inflight) acquire(action, resourceID string) (func(), error) {
	key := action + ":" + resourceID

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.keys[key]; busy {
		return nil, ErrRequestInFlight
	}
	g.keys[key] = struct{}{}

	return func() {
		g.mu.Lock()
		delete(g.keys, key)
		g.mu.Unlock()
	}, nil
}
