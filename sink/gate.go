package sink

import (
	"sync"
	"sync/atomic"
)

// Gate serializes the callbacks of one remote subscription and drops
// every callback that has not started once Close was called.
// Close may be called from inside a callback.
type Gate struct {
	mu     sync.Mutex
	closed atomic.Bool
}

// Deliver runs fn unless the gate is closed, and reports whether it ran.
func (g *Gate) Deliver(fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed.Load() {
		return false
	}
	fn()
	return true
}

func (g *Gate) Close() {
	g.closed.Store(true)
}

func (g *Gate) Closed() bool {
	return g.closed.Load()
}
