package app

import "sync"

// Guard rejects a mutating request for an entity while another request for
// the same entity is still in flight. Requests for different entities are
// independent; no ordering is guaranteed between them.
type Guard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{active: make(map[string]struct{})}
}

// TryAcquire marks id as in flight. It returns false if id already is.
func (g *Guard) TryAcquire(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[id]; busy {
		return false
	}
	g.active[id] = struct{}{}
	return true
}

func (g *Guard) Release(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, id)
}
