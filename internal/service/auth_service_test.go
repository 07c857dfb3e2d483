package service

import (
	"context"
	"testing"
	"time"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/security/session"
	"github.com/yourorg/castingdesk/internal/store"
)

func newAuthFixture(t *testing.T) (*AuthService, *store.Store) {
	t.Helper()
	st := store.NewTestStore()
	sessions := session.NewManager(session.NewMemoryStore(st.Sessions), time.Minute, nil)
	return NewAuthService(st, sessions, nil), st
}

func TestSignInBootstrapsFirstAdmin(t *testing.T) {
	auth, st := newAuthFixture(t)
	ctx := context.Background()

	res, err := auth.SignIn(ctx, "a@b.com", "x")
	if err != nil {
		t.Fatalf("first sign-in failed: %v", err)
	}
	if res.Session == nil || res.Session.ID == "" {
		t.Fatalf("expected a session")
	}
	if !res.User.IsAdmin {
		t.Fatalf("bootstrap user must be a service admin")
	}
	if st.Users.Len() != 1 {
		t.Fatalf("expected exactly one user, have %d", st.Users.Len())
	}

	// Wrong password must fail now; the bootstrap is one-time only.
	if _, err := auth.SignIn(ctx, "a@b.com", "wrong"); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if st.Users.Len() != 1 {
		t.Fatalf("failed sign-in must not create users, have %d", st.Users.Len())
	}
	if st.Sessions.Len() != 1 {
		t.Fatalf("failed sign-in must not open sessions, have %d", st.Sessions.Len())
	}
}

func TestSignInUnknownEmailAfterBootstrap(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := auth.SignIn(ctx, "admin@b.com", "secret"); err != nil {
		t.Fatalf("bootstrap sign-in failed: %v", err)
	}
	if _, err := auth.SignIn(ctx, "other@b.com", "secret"); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden for unknown email, got %v", err)
	}
}

func TestSignInValidatesInput(t *testing.T) {
	auth, _ := newAuthFixture(t)

	if _, err := auth.SignIn(context.Background(), "", "x"); !domain.IsInvalidParams(err) {
		t.Fatalf("expected invalid params for empty email, got %v", err)
	}
	if _, err := auth.SignIn(context.Background(), "a@b.com", "  "); !domain.IsInvalidParams(err) {
		t.Fatalf("expected invalid params for blank password, got %v", err)
	}
}

func TestSignOutRevokesSession(t *testing.T) {
	auth, st := newAuthFixture(t)
	ctx := context.Background()

	res, err := auth.SignIn(ctx, "a@b.com", "x")
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if err := auth.SignOut(ctx, res.Session); err != nil {
		t.Fatalf("sign-out failed: %v", err)
	}
	if st.Sessions.Len() != 0 {
		t.Fatalf("expected session to be revoked")
	}

	// Signing out a nil session is the dead-token path and must not error.
	if err := auth.SignOut(ctx, nil); err != nil {
		t.Fatalf("nil sign-out failed: %v", err)
	}
}

func TestPasswordsAreStoredHashed(t *testing.T) {
	auth, st := newAuthFixture(t)

	if _, err := auth.SignIn(context.Background(), "a@b.com", "plaintext"); err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	user := findUserByEmail(st, "a@b.com")
	if user == nil {
		t.Fatalf("bootstrap user missing")
	}
	if user.Password == "plaintext" {
		t.Fatalf("password must not be stored in the clear")
	}
}
