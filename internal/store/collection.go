// Package store provides the generic in-memory collection adapters backing
// the entity services. A Collection turns any keyed set of entities into a
// uniform CRUD surface; ChildCollection does the same for ordered sequences
// embedded inside a parent entity.
package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yourorg/castingdesk/internal/domain"
)

// Item constrains collection members: pointer-like entities carrying their own
// collection key. Identity comparisons use the pointer, not deep equality.
type Item[K comparable] interface {
	comparable
	EntityID() K
	SetEntityID(K)
}

// IDGenerator mints collection keys. Implementations must never repeat a key
// within a process lifetime, even after removals.
type IDGenerator[K comparable] interface {
	Next() K
	// Reseed advances the generator past every key in existing so that
	// subsequently minted keys cannot collide with replaced data.
	Reseed(existing []K)
}

// Sequence mints monotonically increasing int64 keys
type Sequence struct {
	last int64
}

// NewSequence returns a sequence starting after init
func NewSequence(init int64) *Sequence { return &Sequence{last: init} }

// Next returns the next key
func (s *Sequence) Next() int64 {
	s.last++
	return s.last
}

// Reseed advances the sequence past the largest existing key
func (s *Sequence) Reseed(existing []int64) {
	for _, id := range existing {
		if id > s.last {
			s.last = id
		}
	}
}

// UUIDGenerator mints opaque string keys for collections whose identifiers are
// externally random rather than sequential (sessions)
type UUIDGenerator struct{}

// Next returns a fresh UUID string
func (UUIDGenerator) Next() string { return uuid.NewString() }

// Reseed is a no-op; UUIDs cannot collide with replaced data
func (UUIDGenerator) Reseed([]string) {}

// Collection is a keyed collection of entities with a uniform CRUD surface.
// All operations are atomic with respect to the collection: an internal
// RWMutex serializes mutating access, and child adapters derived from a
// collection share the same lock (one exclusive lock per top-level
// collection).
type Collection[K comparable, E Item[K]] struct {
	mu      sync.RWMutex
	items   map[K]E
	order   []K // insertion order, for deterministic Filter results
	newItem func() E
	gen     IDGenerator[K]
	locked  bool
}

// NewCollection creates a production collection. Production collections are
// locked: SetData refuses to run so that a test utility accidentally wired to
// a live collection cannot silently wipe it.
func NewCollection[K comparable, E Item[K]](newItem func() E, gen IDGenerator[K]) *Collection[K, E] {
	return &Collection[K, E]{
		items:   make(map[K]E),
		newItem: newItem,
		gen:     gen,
		locked:  true,
	}
}

// NewUnlockedCollection creates a collection that accepts SetData. Only test
// fixtures may use this constructor.
func NewUnlockedCollection[K comparable, E Item[K]](newItem func() E, gen IDGenerator[K]) *Collection[K, E] {
	c := NewCollection(newItem, gen)
	c.locked = false
	return c
}

// Find returns the entity with the given id, or the zero value and false
func (c *Collection[K, E]) Find(id K) (E, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

// Filter returns entities matching the predicate in insertion order. A nil
// predicate returns all entities.
func (c *Collection[K, E]) Filter(pred func(E) bool) []E {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]E, 0, len(c.order))
	for _, id := range c.order {
		item, ok := c.items[id]
		if !ok {
			continue
		}
		if pred == nil || pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// HasID reports whether an entity with the given id exists
func (c *Collection[K, E]) HasID(id K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[id]
	return ok
}

// Has reports whether the collection holds exactly this entity (identity)
func (c *Collection[K, E]) Has(item E) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stored, ok := c.items[item.EntityID()]
	return ok && stored == item
}

// Add merges patch over a fresh default record, mints an identifier, inserts
// and returns the stored entity
func (c *Collection[K, E]) Add(patch Patch) E {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.newItem()
	applyPatch(item, patch)
	item.SetEntityID(c.gen.Next())
	c.items[item.EntityID()] = item
	c.order = append(c.order, item.EntityID())
	return item
}

// Update merges patch into the stored entity's existing fields and returns it.
// Unknown patch keys are dropped, not rejected. Returns false when id is
// absent; the collection is left untouched.
func (c *Collection[K, E]) Update(id K, patch Patch) (E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		var zero E
		return zero, false
	}
	applyPatch(item, patch)
	return item, true
}

// Remove deletes the entity by identifier and returns it. Removing an entity
// twice is not an error.
func (c *Collection[K, E]) Remove(item E) E {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := item.EntityID()
	if _, ok := c.items[id]; ok {
		delete(c.items, id)
		for i, oid := range c.order {
			if oid == id {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
	return item
}

// IsEmpty reports whether the collection holds no entities
func (c *Collection[K, E]) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items) == 0
}

// Len returns the number of stored entities
func (c *Collection[K, E]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// SetData replaces the whole collection. It fails on locked (production)
// collections and never mutates them. After an unlocked replace the identifier
// generator is reseeded past the replaced keys.
func (c *Collection[K, E]) SetData(items []E) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locked {
		return domain.NewProcessing("SetData called on a locked collection")
	}
	c.items = make(map[K]E, len(items))
	c.order = c.order[:0]
	ids := make([]K, 0, len(items))
	for _, item := range items {
		c.items[item.EntityID()] = item
		c.order = append(c.order, item.EntityID())
		ids = append(ids, item.EntityID())
	}
	c.gen.Reseed(ids)
	return nil
}

// IsLocked reports whether SetData is refused. Test harnesses assert this
// before reseeding an adapter.
func (c *Collection[K, E]) IsLocked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locked
}

// locker exposes the collection's lock to child adapters built over entities
// stored in this collection
func (c *Collection[K, E]) locker() *sync.RWMutex { return &c.mu }
