package catalog

import (
	"sort"
	"sync"

	"github.com/trackforge/trackedit/pkg/core"
)

// Resolver looks up prefab descriptors by id. Unknown ids resolve to the zero
// Prefab, which marks objects carrying it as invalid.
type Resolver interface {
	Resolve(id uint32) core.Prefab
}

// Catalog is an in-memory prefab catalog safe for concurrent readers
type Catalog struct {
	mu      sync.RWMutex
	prefabs map[uint32]core.Prefab
}

// New creates a Catalog holding the given prefabs
func New(prefabs ...core.Prefab) *Catalog {
	c := &Catalog{
		prefabs: make(map[uint32]core.Prefab, len(prefabs)),
	}
	for _, p := range prefabs {
		c.Set(p)
	}
	return c
}

// Resolve returns the prefab for id, or the zero Prefab
func (c *Catalog) Resolve(id uint32) core.Prefab {
	p, _ := c.Get(id)
	return p
}

// Get retrieves a prefab by id
func (c *Catalog) Get(id uint32) (core.Prefab, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.prefabs[id]
	return p, ok
}

// Set stores a prefab. Prefabs with id 0 are ignored.
func (c *Catalog) Set(p core.Prefab) {
	if !p.Valid() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefabs[p.ID] = p
}

// Delete removes a prefab by id
func (c *Catalog) Delete(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.prefabs, id)
}

// Len returns the number of known prefabs
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.prefabs)
}

// List returns every prefab ordered by id
func (c *Catalog) List() []core.Prefab {
	c.mu.RLock()
	out := make([]core.Prefab, 0, len(c.prefabs))
	for _, p := range c.prefabs {
		out = append(out, p)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Reset clears all prefabs from the catalog
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefabs = make(map[uint32]core.Prefab)
}
