package store

import (
	"testing"

	"github.com/yourorg/castingdesk/internal/domain"
)

func newUserCollection(locked bool) *Collection[int64, *domain.User] {
	factory := func() *domain.User { return &domain.User{} }
	if locked {
		return NewCollection[int64, *domain.User](factory, NewSequence(0))
	}
	return NewUnlockedCollection[int64, *domain.User](factory, NewSequence(0))
}

func TestAddMintsUniqueIDs(t *testing.T) {
	c := newUserCollection(true)
	seen := map[int64]bool{}

	for i := 0; i < 10; i++ {
		u := c.Add(Patch{"Email": "u@b.com"})
		if seen[u.ID] {
			t.Fatalf("identifier %d repeated", u.ID)
		}
		seen[u.ID] = true
		// Interleave removals; freed ids must never be reused.
		if i%3 == 0 {
			c.Remove(u)
		}
	}
}

func TestFindAndFilter(t *testing.T) {
	c := newUserCollection(true)
	a := c.Add(Patch{"Email": "a@b.com"})
	b := c.Add(Patch{"Email": "b@b.com"})

	got, ok := c.Find(a.ID)
	if !ok || got != a {
		t.Fatalf("find returned %+v, %v", got, ok)
	}
	if _, ok := c.Find(999); ok {
		t.Fatalf("expected miss for unknown id")
	}

	all := c.Filter(nil)
	if len(all) != 2 || all[0] != a || all[1] != b {
		t.Fatalf("filter must return insertion order, got %+v", all)
	}

	only := c.Filter(func(u *domain.User) bool { return u.Email == "b@b.com" })
	if len(only) != 1 || only[0] != b {
		t.Fatalf("predicate filter failed: %+v", only)
	}
}

func TestHasUsesIdentity(t *testing.T) {
	c := newUserCollection(true)
	a := c.Add(Patch{"Email": "a@b.com"})

	if !c.Has(a) {
		t.Fatalf("expected stored entity to be present")
	}
	impostor := &domain.User{ID: a.ID, Email: a.Email}
	if c.Has(impostor) {
		t.Fatalf("a distinct value with the same id must not count as present")
	}
	if !c.HasID(a.ID) {
		t.Fatalf("expected id to be present")
	}
}

func TestUpdateSoftFailAndSilentDrop(t *testing.T) {
	c := newUserCollection(true)
	a := c.Add(Patch{"Email": "a@b.com"})

	if _, ok := c.Update(999, Patch{"Email": "x@b.com"}); ok {
		t.Fatalf("updating an absent id must fail softly")
	}

	updated, ok := c.Update(a.ID, Patch{
		"Email":   "new@b.com",
		"Unknown": "ignored",
		"ID":      int64(777),
	})
	if !ok {
		t.Fatalf("update failed")
	}
	if updated != a {
		t.Fatalf("update must mutate in place and return the same entity")
	}
	if a.Email != "new@b.com" {
		t.Fatalf("known key not applied: %q", a.Email)
	}
	if a.ID == 777 {
		t.Fatalf("the identifier must never be patched")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := newUserCollection(true)
	a := c.Add(Patch{"Email": "a@b.com"})

	c.Remove(a)
	c.Remove(a)
	if c.HasID(a.ID) {
		t.Fatalf("entity still present after remove")
	}
	if !c.IsEmpty() {
		t.Fatalf("collection should be empty")
	}
}

func TestSetDataLockedRefusesAndLeavesDataIntact(t *testing.T) {
	c := newUserCollection(true)
	a := c.Add(Patch{"Email": "a@b.com"})

	err := c.SetData([]*domain.User{{ID: 50, Email: "x@b.com"}})
	if !domain.IsProcessing(err) {
		t.Fatalf("expected processing error, got %v", err)
	}
	if !c.Has(a) || c.Len() != 1 {
		t.Fatalf("locked SetData must never mutate the collection")
	}
	if !c.IsLocked() {
		t.Fatalf("expected locked adapter")
	}
}

func TestSetDataUnlockedReseedsGenerator(t *testing.T) {
	c := newUserCollection(false)
	if c.IsLocked() {
		t.Fatalf("expected unlocked adapter")
	}

	err := c.SetData([]*domain.User{
		{ID: 3, Email: "a@b.com"},
		{ID: 50, Email: "b@b.com"},
	})
	if err != nil {
		t.Fatalf("unlocked SetData failed: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected full replace, have %d", c.Len())
	}

	minted := c.Add(Patch{"Email": "c@b.com"})
	if minted.ID <= 50 {
		t.Fatalf("generator must reseed past replaced ids, minted %d", minted.ID)
	}
}

func TestUUIDGeneratorCollection(t *testing.T) {
	c := NewCollection[string, *domain.Session](
		func() *domain.Session { return &domain.Session{} }, UUIDGenerator{})

	a := c.Add(Patch{"UserID": int64(1)})
	b := c.Add(Patch{"UserID": int64(2)})
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct opaque ids, got %q and %q", a.ID, b.ID)
	}
}
