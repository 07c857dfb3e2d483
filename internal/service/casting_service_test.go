package service

import (
	"testing"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/store"
)

type castingFixture struct {
	svc      *CastingService
	st       *store.Store
	staff    *domain.User
	outsider *domain.User
	company  *domain.Company
	casting  *domain.Casting
}

func newCastingFixture(t *testing.T) *castingFixture {
	t.Helper()
	st := store.NewTestStore()
	f := &castingFixture{
		svc:      NewCastingService(st, nil),
		st:       st,
		staff:    st.Users.Add(store.Patch{"Email": "staff@b.com"}),
		outsider: st.Users.Add(store.Patch{"Email": "out@b.com"}),
	}
	f.company = st.Companies.Add(store.Patch{"Title": "acme"})
	st.Staff.Link(f.company, f.staff)
	f.casting = st.Castings.Add(f.company, store.Patch{"Title": "summer"})
	return f
}

func TestCastingCRUDStaffTier(t *testing.T) {
	f := newCastingFixture(t)

	if _, err := f.svc.CreateCasting(f.outsider, f.company, CastingParams{Title: "x"}); !domain.IsForbidden(err) {
		t.Fatalf("outsider must not create castings, got %v", err)
	}

	casting, err := f.svc.CreateCasting(f.staff, f.company, CastingParams{Title: "winter"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	list, err := f.svc.ListCastings(f.staff, f.company, struct{}{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 castings, got %d", len(list))
	}

	got, err := f.svc.GetCasting(f.staff, f.company, casting.ID)
	if err != nil || got != casting {
		t.Fatalf("get returned %+v, %v", got, err)
	}
	if _, err := f.svc.GetCasting(f.staff, f.company, 999); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	updated, err := f.svc.UpdateCasting(f.staff, f.company, CastingRef[CastingParams]{Casting: casting, Value: CastingParams{Title: "spring"}})
	if err != nil || updated.Title != "spring" {
		t.Fatalf("update returned %+v, %v", updated, err)
	}

	if _, err := f.svc.DeleteCasting(f.staff, f.company, casting); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if f.st.Castings.HasID(f.company, casting.ID) {
		t.Fatalf("casting still present after delete")
	}
}

func TestRoleLifecycleIsParentOwned(t *testing.T) {
	f := newCastingFixture(t)

	role, err := f.svc.CreateRole(f.staff, f.company, CastingRef[RoleParams]{Casting: f.casting, Value: RoleParams{Title: "lead"}})
	if err != nil {
		t.Fatalf("create role failed: %v", err)
	}

	if _, err := f.svc.DeleteRole(f.staff, f.company, CastingRef[*domain.CastingRole]{Casting: f.casting, Value: role}); err != nil {
		t.Fatalf("delete role failed: %v", err)
	}
	// No other owner exists, so the role is gone for good.
	if f.st.Roles.HasID(f.casting, role.ID) {
		t.Fatalf("role survived deletion")
	}
}

func TestFieldValidation(t *testing.T) {
	f := newCastingFixture(t)

	if _, err := f.svc.CreateField(f.staff, f.company, CastingRef[FieldParams]{
		Casting: f.casting,
		Value:   FieldParams{Title: "age", InputType: "bogus"},
	}); !domain.IsInvalidParams(err) {
		t.Fatalf("expected invalid input type rejection, got %v", err)
	}

	field, err := f.svc.CreateField(f.staff, f.company, CastingRef[FieldParams]{
		Casting: f.casting,
		Value:   FieldParams{Title: "age", InputType: domain.InputNumber, IsRequired: true},
	})
	if err != nil {
		t.Fatalf("create field failed: %v", err)
	}
	if !field.IsRequired || field.InputType != domain.InputNumber {
		t.Fatalf("field values not applied: %+v", field)
	}
}

func TestSlotReArrangeDropsMissingIDs(t *testing.T) {
	f := newCastingFixture(t)

	mk := func() *domain.CastingSlot {
		slot, err := f.svc.CreateSlot(f.staff, f.company, CastingRef[SlotParams]{
			Casting: f.casting,
			Value:   SlotParams{NumberOfApplicants: 5},
		})
		if err != nil {
			t.Fatalf("create slot failed: %v", err)
		}
		return slot
	}
	s1, s2, s3 := mk(), mk(), mk()
	_ = s2

	if _, err := f.svc.ReArrangeSlots(f.staff, f.company, CastingRef[[]int64]{
		Casting: f.casting,
		Value:   []int64{s3.ID, s1.ID},
	}); err != nil {
		t.Fatalf("rearrange failed: %v", err)
	}

	list, err := f.svc.ListSlots(f.staff, f.company, f.casting)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 || list[0] != s3 || list[1] != s1 {
		t.Fatalf("unexpected order after rearrange: %+v", list)
	}
}

func TestSlotCapacityValidation(t *testing.T) {
	f := newCastingFixture(t)

	if _, err := f.svc.CreateSlot(f.staff, f.company, CastingRef[SlotParams]{
		Casting: f.casting,
		Value:   SlotParams{NumberOfApplicants: -1},
	}); !domain.IsInvalidParams(err) {
		t.Fatalf("expected capacity rejection, got %v", err)
	}
}
