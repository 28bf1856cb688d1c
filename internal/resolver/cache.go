package resolver

import "sync"

// cache memoizes resolved fragments for one run, keyed by absolute path.
// Shared fragments (one env.hcl included by many leaves) resolve once and
// are read-only afterwards. Two goroutines racing on the same fragment
// may both compute it; the first stored result wins and both callers see
// the same value thereafter. Blocking the loser on the winner instead
// could deadlock on a cross-leaf include cycle, so duplicate work is the
// cheaper failure mode.
type cache struct {
	mu      sync.Mutex
	entries map[string]*resolved
}

func newCache() *cache {
	return &cache{entries: make(map[string]*resolved)}
}

func (c *cache) get(path string) (*resolved, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[path]
	return res, ok
}

// put stores res unless another goroutine already stored a result for
// path, in which case the existing result is returned.
func (c *cache) put(path string, res *resolved) *resolved {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[path]; ok {
		return existing
	}
	c.entries[path] = res
	return res
}
