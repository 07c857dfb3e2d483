package service

import (
	"testing"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/store"
)

type companyFixture struct {
	svc      *CompanyService
	st       *store.Store
	admin    *domain.User
	owner    *domain.User
	staff    *domain.User
	outsider *domain.User
	company  *domain.Company
}

func newCompanyFixture(t *testing.T) *companyFixture {
	t.Helper()
	st := store.NewTestStore()
	f := &companyFixture{
		svc:      NewCompanyService(st, nil),
		st:       st,
		admin:    st.Users.Add(store.Patch{"Email": "admin@b.com", "IsAdmin": true}),
		owner:    st.Users.Add(store.Patch{"Email": "owner@b.com"}),
		staff:    st.Users.Add(store.Patch{"Email": "staff@b.com"}),
		outsider: st.Users.Add(store.Patch{"Email": "out@b.com"}),
	}
	f.company = st.Companies.Add(store.Patch{"Title": "acme"})
	st.Owners.Link(f.company, f.owner)
	st.Staff.Link(f.company, f.staff)
	return f
}

func TestCompanyListVisibility(t *testing.T) {
	f := newCompanyFixture(t)
	f.st.Companies.Add(store.Patch{"Title": "other"})

	all, err := f.svc.List(f.admin)
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin must see all companies, saw %d", len(all))
	}

	mine, err := f.svc.List(f.staff)
	if err != nil {
		t.Fatalf("staff list failed: %v", err)
	}
	if len(mine) != 1 || mine[0] != f.company {
		t.Fatalf("staff must see only their company, saw %d", len(mine))
	}

	none, err := f.svc.List(f.outsider)
	if err != nil {
		t.Fatalf("outsider list failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("outsider must see nothing, saw %d", len(none))
	}

	if _, err := f.svc.List(nil); !domain.IsForbidden(err) {
		t.Fatalf("anonymous list must be forbidden, got %v", err)
	}
}

func TestCompanyGetVisibility(t *testing.T) {
	f := newCompanyFixture(t)

	if _, err := f.svc.Get(f.staff, f.company.ID); err != nil {
		t.Fatalf("staff get failed: %v", err)
	}
	if _, err := f.svc.Get(f.outsider, f.company.ID); !domain.IsForbidden(err) {
		t.Fatalf("outsider get must be forbidden, got %v", err)
	}
	if _, err := f.svc.Get(f.admin, 999); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCompanyCreateUpdateDeleteTiers(t *testing.T) {
	f := newCompanyFixture(t)

	if _, err := f.svc.Create(f.owner, CompanyParams{Title: "x"}); !domain.IsForbidden(err) {
		t.Fatalf("owner must not create companies, got %v", err)
	}
	created, err := f.svc.Create(f.admin, CompanyParams{Title: "x"})
	if err != nil {
		t.Fatalf("admin create failed: %v", err)
	}

	if _, err := f.svc.Update(f.staff, f.company, CompanyParams{Title: "y"}); !domain.IsForbidden(err) {
		t.Fatalf("staff must not update the company, got %v", err)
	}
	updated, err := f.svc.Update(f.owner, f.company, CompanyParams{Title: "y"})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Title != "y" {
		t.Fatalf("title not updated: %q", updated.Title)
	}

	if _, err := f.svc.Delete(f.owner, created); !domain.IsForbidden(err) {
		t.Fatalf("owner must not delete companies, got %v", err)
	}
	if _, err := f.svc.Delete(f.admin, created); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if f.st.Companies.HasID(created.ID) {
		t.Fatalf("company still present after delete")
	}
}

func TestMembershipLinkUnlinkKeepsUserAlive(t *testing.T) {
	f := newCompanyFixture(t)

	if _, err := f.svc.AddStaff(f.owner, f.company, f.outsider); err != nil {
		t.Fatalf("add staff failed: %v", err)
	}
	members, err := f.svc.ListStaff(f.owner, f.company, struct{}{})
	if err != nil {
		t.Fatalf("list staff failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 staff members, got %d", len(members))
	}

	// Adding the same member twice must not duplicate the link.
	if _, err := f.svc.AddStaff(f.owner, f.company, f.outsider); err != nil {
		t.Fatalf("repeat add failed: %v", err)
	}
	members, _ = f.svc.ListStaff(f.owner, f.company, struct{}{})
	if len(members) != 2 {
		t.Fatalf("duplicate link created, have %d members", len(members))
	}

	if _, err := f.svc.RemoveStaff(f.owner, f.company, f.outsider); err != nil {
		t.Fatalf("remove staff failed: %v", err)
	}
	if !f.st.Users.HasID(f.outsider.ID) {
		t.Fatalf("unlinking must never delete the user record")
	}
}

func TestMembershipRequiresOwnerTier(t *testing.T) {
	f := newCompanyFixture(t)

	if _, err := f.svc.AddStaff(f.staff, f.company, f.outsider); !domain.IsForbidden(err) {
		t.Fatalf("staff must not manage membership, got %v", err)
	}
	if _, err := f.svc.ListOwners(f.staff, f.company, struct{}{}); !domain.IsForbidden(err) {
		t.Fatalf("staff must not list owners, got %v", err)
	}
	if _, err := f.svc.AddOwner(f.owner, f.company, f.outsider); err != nil {
		t.Fatalf("owner add owner failed: %v", err)
	}
	if _, err := f.svc.AddOwner(f.admin, f.company, f.staff); err != nil {
		t.Fatalf("admin add owner failed: %v", err)
	}
}
