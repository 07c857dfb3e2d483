package store

import (
	"testing"

	"github.com/yourorg/castingdesk/internal/domain"
)

func newChildFixture(t *testing.T) (*Store, *domain.Company, *domain.Casting) {
	t.Helper()
	st := NewTestStore()
	company := st.Companies.Add(Patch{"Title": "acme"})
	casting := st.Castings.Add(company, Patch{"Title": "summer"})
	return st, company, casting
}

func TestEditableChildAddMintsLocalIDs(t *testing.T) {
	st, company, casting := newChildFixture(t)

	r1 := st.Roles.Add(casting, Patch{"Title": "lead"})
	r2 := st.Roles.Add(casting, Patch{"Title": "extra"})
	if r1.ID == r2.ID {
		t.Fatalf("role ids must be distinct within the casting")
	}

	// Ids are scoped per adapter, not per parent entity tree.
	other := st.Castings.Add(company, Patch{"Title": "winter"})
	r3 := st.Roles.Add(other, Patch{"Title": "lead"})
	if r3.ID == r1.ID || r3.ID == r2.ID {
		t.Fatalf("role generator reused an id across parents")
	}
}

func TestChildFindUpdateSoftFail(t *testing.T) {
	st, _, casting := newChildFixture(t)
	role := st.Roles.Add(casting, Patch{"Title": "lead"})

	got, ok := st.Roles.Find(casting, role.ID)
	if !ok || got != role {
		t.Fatalf("find returned %+v, %v", got, ok)
	}
	if _, ok := st.Roles.Update(casting, 999, Patch{"Title": "x"}); ok {
		t.Fatalf("updating an absent child must fail softly")
	}

	updated, ok := st.Roles.Update(casting, role.ID, Patch{"Title": "hero", "Bogus": 1})
	if !ok || updated.Title != "hero" {
		t.Fatalf("update failed: %+v %v", updated, ok)
	}
}

func TestReArrangeFollowsSuppliedOrder(t *testing.T) {
	st, _, casting := newChildFixture(t)

	s1 := st.Slots.Add(casting, Patch{"NumberOfApplicants": 1})
	s2 := st.Slots.Add(casting, Patch{"NumberOfApplicants": 2})
	s3 := st.Slots.Add(casting, Patch{"NumberOfApplicants": 3})
	_ = s2

	// Unknown ids are skipped, ids missing from the list are dropped.
	st.Slots.ReArrange(casting, []int64{s3.ID, 999, s1.ID})

	seq := st.Slots.Filter(casting, nil)
	if len(seq) != 2 || seq[0] != s3 || seq[1] != s1 {
		t.Fatalf("unexpected sequence after rearrange: %+v", seq)
	}
}

func TestLinkUnlinkVersusEditableRemove(t *testing.T) {
	st, company, casting := newChildFixture(t)

	// Linkable: the user survives unlinking.
	user := st.Users.Add(Patch{"Email": "o@b.com"})
	st.Owners.Link(company, user)
	if !st.Owners.Has(company, user) {
		t.Fatalf("expected linked owner")
	}
	st.Owners.Unlink(company, user)
	if st.Owners.Has(company, user) {
		t.Fatalf("owner still linked")
	}
	if !st.Users.HasID(user.ID) {
		t.Fatalf("unlink must never delete the user record")
	}
	// Unlinking an absent member is a no-op.
	st.Owners.Unlink(company, user)

	// Editable: the role is gone for good.
	role := st.Roles.Add(casting, Patch{"Title": "lead"})
	st.Roles.Remove(casting, role)
	if st.Roles.HasID(casting, role.ID) {
		t.Fatalf("role survived removal")
	}
}

func TestSlotApplicantLinks(t *testing.T) {
	st, _, casting := newChildFixture(t)
	slot := st.Slots.Add(casting, Patch{"NumberOfApplicants": 3})
	applicant := st.Applicants.Add(Patch{"Data": map[string]any{"name": "Ada"}})

	st.SlotApplicants.Link(slot, applicant)
	if !st.SlotApplicants.Has(slot, applicant) {
		t.Fatalf("expected applicant linked to slot")
	}

	found, ok := st.SlotApplicants.Find(slot, applicant.ID)
	if !ok || found != applicant {
		t.Fatalf("find returned %+v, %v", found, ok)
	}

	st.SlotApplicants.Unlink(slot, applicant)
	if !st.Applicants.HasID(applicant.ID) {
		t.Fatalf("applicant record must survive slot unlink")
	}
}

func TestChildIsEmpty(t *testing.T) {
	st, _, casting := newChildFixture(t)

	if !st.Roles.IsEmpty(casting) {
		t.Fatalf("expected no roles yet")
	}
	st.Roles.Add(casting, Patch{"Title": "lead"})
	if st.Roles.IsEmpty(casting) {
		t.Fatalf("expected roles present")
	}
}
