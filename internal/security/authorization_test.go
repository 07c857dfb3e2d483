package security

import (
	"testing"

	"github.com/yourorg/castingdesk/internal/domain"
)

func newCompany(owners, staff []*domain.User) *domain.Company {
	return &domain.Company{ID: 1, Title: "acme", Owners: owners, Staff: staff}
}

func TestCanManageService(t *testing.T) {
	admin := &domain.User{ID: 1, IsAdmin: true}
	plain := &domain.User{ID: 2}

	if !CanManageService(admin) {
		t.Fatalf("expected admin to hold service tier")
	}
	if CanManageService(plain) {
		t.Fatalf("expected plain user to lack service tier")
	}
	if CanManageService(nil) {
		t.Fatalf("expected nil author to lack service tier")
	}
}

func TestCanManageCompanyTiers(t *testing.T) {
	admin := &domain.User{ID: 1, IsAdmin: true}
	owner := &domain.User{ID: 2}
	staff := &domain.User{ID: 3}
	outsider := &domain.User{ID: 4}
	company := newCompany([]*domain.User{owner}, []*domain.User{staff})

	if !CanManageCompany(admin, company) {
		t.Fatalf("admin should manage any company")
	}
	if !CanManageCompany(owner, company) {
		t.Fatalf("owner should manage own company")
	}
	if CanManageCompany(staff, company) {
		t.Fatalf("staff must not hold owner tier")
	}
	if CanManageCompany(outsider, company) {
		t.Fatalf("outsider must not hold owner tier")
	}
	if CanManageCompany(owner, nil) {
		t.Fatalf("nil company must fail the check")
	}
}

func TestCanManageStaffLevel(t *testing.T) {
	owner := &domain.User{ID: 2}
	staff := &domain.User{ID: 3}
	outsider := &domain.User{ID: 4}
	company := newCompany([]*domain.User{owner}, []*domain.User{staff})

	if !CanManageStaffLevel(owner, company) {
		t.Fatalf("owner should hold staff tier")
	}
	if !CanManageStaffLevel(staff, company) {
		t.Fatalf("staff member should hold staff tier")
	}
	if CanManageStaffLevel(outsider, company) {
		t.Fatalf("outsider must not hold staff tier")
	}
}

func TestMembershipComparedByID(t *testing.T) {
	// A distinct pointer carrying the same identifier still counts as a
	// member, since membership lists hold references into the user store.
	owner := &domain.User{ID: 7, Email: "a@example.com"}
	sameID := &domain.User{ID: 7, Email: "stale@example.com"}
	company := newCompany([]*domain.User{owner}, nil)

	if !CanManageCompany(sameID, company) {
		t.Fatalf("membership must compare identifiers, not pointers")
	}
}

func TestAdminGuard(t *testing.T) {
	called := false
	op := Admin(func(args int) (string, error) {
		called = true
		return "ok", nil
	}, "admins only")

	admin := &domain.User{ID: 1, IsAdmin: true}
	out, err := op(admin, 42)
	if err != nil || out != "ok" {
		t.Fatalf("admin call failed: %v %q", err, out)
	}

	called = false
	if _, err := op(&domain.User{ID: 2}, 42); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if called {
		t.Fatalf("operation must not run on a denied call")
	}
	if _, err := op(nil, 42); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden for nil author, got %v", err)
	}
}

func TestOwnerAndStaffGuards(t *testing.T) {
	owner := &domain.User{ID: 2}
	staff := &domain.User{ID: 3}
	company := newCompany([]*domain.User{owner}, []*domain.User{staff})

	ownerOp := Owner(func(args string) (string, error) { return args, nil }, "owners only")
	staffOp := Staff(func(args string) (string, error) { return args, nil }, "staff only")

	if out, err := ownerOp(owner, company, "x"); err != nil || out != "x" {
		t.Fatalf("owner call failed: %v %q", err, out)
	}
	if _, err := ownerOp(staff, company, "x"); !domain.IsForbidden(err) {
		t.Fatalf("staff must not pass owner guard, got %v", err)
	}
	if out, err := staffOp(staff, company, "x"); err != nil || out != "x" {
		t.Fatalf("staff call failed: %v %q", err, out)
	}
	if _, err := staffOp(owner, nil, "x"); !domain.IsForbidden(err) {
		t.Fatalf("nil company must fail, got %v", err)
	}
}

func TestCompanyLeadingGuardsPassCompanyThrough(t *testing.T) {
	owner := &domain.User{ID: 2}
	company := newCompany([]*domain.User{owner}, nil)

	op := OwnerWithCompany(func(c *domain.Company, args int) (int64, error) {
		return c.ID, nil
	}, "owners only")

	id, err := op(owner, company, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != company.ID {
		t.Fatalf("operation received wrong company: %d", id)
	}

	staffOp := StaffWithCompany(func(c *domain.Company, args int) (int64, error) {
		return c.ID, nil
	}, "staff only")
	if _, err := staffOp(&domain.User{ID: 9}, company, 0); !domain.IsForbidden(err) {
		t.Fatalf("outsider must fail staff guard, got %v", err)
	}
}

func TestSelfGuardHasNoAdminBypass(t *testing.T) {
	admin := &domain.User{ID: 1, IsAdmin: true}
	target := &domain.User{ID: 5}

	op := Self(func(args int) (int, error) { return args * 2, nil }, "self only")

	if out, err := op(target, target, 3); err != nil || out != 6 {
		t.Fatalf("self call failed: %v %d", err, out)
	}
	if _, err := op(admin, target, 3); !domain.IsForbidden(err) {
		t.Fatalf("admin must not bypass the self check, got %v", err)
	}
	if _, err := op(nil, target, 3); !domain.IsForbidden(err) {
		t.Fatalf("nil author must fail, got %v", err)
	}
	if _, err := op(target, nil, 3); !domain.IsForbidden(err) {
		t.Fatalf("nil target must fail, got %v", err)
	}
}
