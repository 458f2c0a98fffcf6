package httpx

import "sync"

// InFlight tracks form submissions that are still being processed, keyed by
// browser session and action. It only guards a single process.
type InFlight struct {
	mu     sync.Mutex
	active map[inflightKey]struct{}
}

type inflightKey struct {
	browser string
	action  string
}

// NewInFlight returns an empty guard.
func NewInFlight() *InFlight {
	return &InFlight{active: make(map[inflightKey]struct{})}
}

// Acquire claims (browser, action). It returns false when the pair is already held.
// The returned release func is idempotent.
func (g *InFlight) Acquire(browser, action string) (func(), bool) {
	key := inflightKey{browser: browser, action: action}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return nil, false
	}
	g.active[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, key)
			g.mu.Unlock()
		})
	}, true
}

// Len reports how many submissions are in flight.
func (g *InFlight) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.active)
}
