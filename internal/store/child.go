package store

import "sync"

// ChildCollection adapts an ordered sequence embedded inside a parent entity
// to the same find/filter/update surface as a top-level Collection. Mutations
// are serialized by the lock of the top-level collection owning the parent.
type ChildCollection[P any, K comparable, E Item[K]] struct {
	mu    *sync.RWMutex
	items func(P) *[]E
}

func newChildCollection[P any, K comparable, E Item[K]](mu *sync.RWMutex, items func(P) *[]E) ChildCollection[P, K, E] {
	return ChildCollection[P, K, E]{mu: mu, items: items}
}

// Filter returns the parent's children matching the predicate, in sequence
// order. A nil predicate returns all children.
func (c *ChildCollection[P, K, E]) Filter(parent P, pred func(E) bool) []E {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seq := *c.items(parent)
	out := make([]E, 0, len(seq))
	for _, item := range seq {
		if pred == nil || pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Find returns the child with the given id, or the zero value and false
func (c *ChildCollection[P, K, E]) Find(parent P, id K) (E, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.findLocked(parent, id)
}

func (c *ChildCollection[P, K, E]) findLocked(parent P, id K) (E, bool) {
	for _, item := range *c.items(parent) {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero E
	return zero, false
}

// HasID reports whether a child with the given id exists
func (c *ChildCollection[P, K, E]) HasID(parent P, id K) bool {
	_, ok := c.Find(parent, id)
	return ok
}

// Has reports whether the sequence holds exactly this child (identity)
func (c *ChildCollection[P, K, E]) Has(parent P, item E) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, stored := range *c.items(parent) {
		if stored == item {
			return true
		}
	}
	return false
}

// Update merges patch into the child's existing fields; same soft-fail and
// silent-drop rules as Collection.Update
func (c *ChildCollection[P, K, E]) Update(parent P, id K, patch Patch) (E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.findLocked(parent, id)
	if !ok {
		var zero E
		return zero, false
	}
	applyPatch(item, patch)
	return item, true
}

// ReArrange rewrites the sequence to match ids exactly: children absent from
// ids are dropped, ids not present in the sequence are skipped. This is how
// display order is user-controlled.
func (c *ChildCollection[P, K, E]) ReArrange(parent P, ids []K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	seq := c.items(parent)
	byID := make(map[K]E, len(*seq))
	for _, item := range *seq {
		byID[item.EntityID()] = item
	}
	next := make([]E, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			next = append(next, item)
		}
	}
	*seq = next
}

// IsEmpty reports whether the parent's sequence holds no children
func (c *ChildCollection[P, K, E]) IsEmpty(parent P) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(*c.items(parent)) == 0
}

// LinkableChild is a child collection whose members are owned by a different
// collection: membership is add/remove-by-reference only, so unlinking a user
// from a company never deletes the user record.
type LinkableChild[P any, K comparable, E Item[K]] struct {
	ChildCollection[P, K, E]
}

// NewLinkableChild builds a linkable child adapter sharing the owner
// collection's lock
func NewLinkableChild[P any, K comparable, E Item[K], OK comparable, OE Item[OK]](
	owner *Collection[OK, OE],
	items func(P) *[]E,
) *LinkableChild[P, K, E] {
	return &LinkableChild[P, K, E]{newChildCollection(owner.locker(), items)}
}

// Link appends an externally-owned entity to the parent's sequence
func (c *LinkableChild[P, K, E]) Link(parent P, item E) E {
	c.mu.Lock()
	defer c.mu.Unlock()
	seq := c.items(parent)
	*seq = append(*seq, item)
	return item
}

// Unlink removes the entity from the parent's sequence by identity; no-op if
// absent. The entity itself survives in its owning collection.
func (c *LinkableChild[P, K, E]) Unlink(parent P, item E) {
	c.mu.Lock()
	defer c.mu.Unlock()
	seq := c.items(parent)
	for i, stored := range *seq {
		if stored == item {
			*seq = append((*seq)[:i], (*seq)[i+1:]...)
			return
		}
	}
}

// EditableChild is a child collection whose members' lifecycle is owned by
// the parent entity: children are minted with locally scoped identifiers and
// discarded permanently on removal.
type EditableChild[P any, K comparable, E Item[K]] struct {
	ChildCollection[P, K, E]
	newItem func() E
	gen     IDGenerator[K]
}

// NewEditableChild builds an editable child adapter sharing the owner
// collection's lock
func NewEditableChild[P any, K comparable, E Item[K], OK comparable, OE Item[OK]](
	owner *Collection[OK, OE],
	items func(P) *[]E,
	newItem func() E,
	gen IDGenerator[K],
) *EditableChild[P, K, E] {
	return &EditableChild[P, K, E]{
		ChildCollection: newChildCollection(owner.locker(), items),
		newItem:         newItem,
		gen:             gen,
	}
}

// Add merges patch over a fresh default record, mints a locally-scoped
// identifier, appends and returns the stored child
func (c *EditableChild[P, K, E]) Add(parent P, patch Patch) E {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.newItem()
	applyPatch(item, patch)
	item.SetEntityID(c.gen.Next())
	seq := c.items(parent)
	*seq = append(*seq, item)
	return item
}

// Remove discards the child by identity; no-op if absent. No other owner
// exists, so the child is gone permanently.
func (c *EditableChild[P, K, E]) Remove(parent P, item E) {
	c.mu.Lock()
	defer c.mu.Unlock()
	seq := c.items(parent)
	for i, stored := range *seq {
		if stored == item {
			*seq = append((*seq)[:i], (*seq)[i+1:]...)
			return
		}
	}
}
