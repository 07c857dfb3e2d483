package service

import (
	"testing"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/store"
)

type applicantFixture struct {
	svc     *ApplicantService
	st      *store.Store
	staff   *domain.User
	company *domain.Company
	slot    *domain.CastingSlot
}

func newApplicantFixture(t *testing.T) *applicantFixture {
	t.Helper()
	st := store.NewTestStore()
	f := &applicantFixture{
		svc:   NewApplicantService(st, nil),
		st:    st,
		staff: st.Users.Add(store.Patch{"Email": "staff@b.com"}),
	}
	f.company = st.Companies.Add(store.Patch{"Title": "acme"})
	st.Staff.Link(f.company, f.staff)
	casting := st.Castings.Add(f.company, store.Patch{"Title": "summer"})
	f.slot = st.Slots.Add(casting, store.Patch{"NumberOfApplicants": 3})
	return f
}

func TestApplicantSlotMembership(t *testing.T) {
	f := newApplicantFixture(t)

	applicant, err := f.svc.Create(f.staff, f.company, map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := f.svc.AddToSlot(f.staff, f.company, SlotRef[*domain.Applicant]{Slot: f.slot, Value: applicant}); err != nil {
		t.Fatalf("add to slot failed: %v", err)
	}
	has, err := f.svc.HasInSlot(f.staff, f.company, SlotRef[*domain.Applicant]{Slot: f.slot, Value: applicant})
	if err != nil || !has {
		t.Fatalf("expected membership, got %v %v", has, err)
	}

	// Linking twice must not duplicate.
	if _, err := f.svc.AddToSlot(f.staff, f.company, SlotRef[*domain.Applicant]{Slot: f.slot, Value: applicant}); err != nil {
		t.Fatalf("repeat add failed: %v", err)
	}
	list, err := f.svc.ListForSlot(f.staff, f.company, f.slot)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 linked applicant, got %d", len(list))
	}

	// Unlinking removes membership but never the record.
	if _, err := f.svc.RemoveFromSlot(f.staff, f.company, SlotRef[*domain.Applicant]{Slot: f.slot, Value: applicant}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if f.st.SlotApplicants.Has(f.slot, applicant) {
		t.Fatalf("membership survived unlink")
	}
	if !f.st.Applicants.HasID(applicant.ID) {
		t.Fatalf("unlink must not delete the applicant record")
	}
}

func TestApplicantUpdateReplacesData(t *testing.T) {
	f := newApplicantFixture(t)

	applicant, err := f.svc.Create(f.staff, f.company, map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := f.svc.Update(f.staff, f.company, ApplicantUpdate{
		Applicant: applicant,
		Data:      map[string]any{"name": "Grace", "age": 36},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Data["name"] != "Grace" || updated.Data["age"] != 36 {
		t.Fatalf("data not replaced: %+v", updated.Data)
	}
}

func TestApplicantOpsRequireStaffTier(t *testing.T) {
	f := newApplicantFixture(t)
	outsider := f.st.Users.Add(store.Patch{"Email": "out@b.com"})

	if _, err := f.svc.Create(outsider, f.company, nil); !domain.IsForbidden(err) {
		t.Fatalf("outsider must not create applicants, got %v", err)
	}
	if _, err := f.svc.ListForSlot(nil, f.company, f.slot); !domain.IsForbidden(err) {
		t.Fatalf("anonymous access must be forbidden, got %v", err)
	}
	if _, err := f.svc.ListForSlot(f.staff, nil, f.slot); !domain.IsForbidden(err) {
		t.Fatalf("nil company must be forbidden, got %v", err)
	}
}

func TestGetForSlotNotFound(t *testing.T) {
	f := newApplicantFixture(t)

	if _, err := f.svc.GetForSlot(f.staff, f.company, SlotRef[int64]{Slot: f.slot, Value: 42}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
