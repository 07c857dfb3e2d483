// Package service is the orchestration layer: each service binds the store
// adapters to the authorization guards, one set of operations per entity
// kind. Guarded operations are composed once in the constructor; call sites
// go through the wrapped closures and never re-check tiers themselves.
package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/security/session"
	"github.com/yourorg/castingdesk/internal/store"
)

// AuthService handles sign-in, sign-out and the first-run admin bootstrap
type AuthService struct {
	store    *store.Store
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(st *store.Store, sessions *session.Manager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		store:    st,
		sessions: sessions,
		logger:   logger,
	}
}

// SignInResult carries the opened session and the resolved user
type SignInResult struct {
	Session *domain.Session
	User    *domain.User
}

// SignIn authenticates credentials and opens a session. The first sign-in
// against an empty user store provisions a single service admin from the
// submitted credentials; after that, sign-in never creates accounts.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, domain.NewInvalidParams("email and password are required")
	}

	if err := s.ensureInitialAdmin(email, password); err != nil {
		return nil, err
	}

	user := findUserByEmail(s.store, email)
	if user == nil {
		s.logger.Info("sign-in attempt with unknown email", slog.String("email", email))
		return nil, domain.NewForbidden("wrong login/password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Info("sign-in failed with wrong password", slog.String("email", email))
		return nil, domain.NewForbidden("wrong login/password")
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, domain.NewProcessing("no session created")
	}

	s.logger.Info("user signed in",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return &SignInResult{Session: sess, User: user}, nil
}

// SignOut revokes the session. A nil session is a no-op, matching the
// behavior of signing out an already-dead token.
func (s *AuthService) SignOut(ctx context.Context, sess *domain.Session) error {
	if sess == nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return err
	}
	s.logger.Info("user signed out", slog.Int64("user_id", sess.UserID))
	return nil
}

// ensureInitialAdmin provisions a service admin from the given credentials
// when no users exist yet
func (s *AuthService) ensureInitialAdmin(email, password string) error {
	if !s.store.Users.IsEmpty() {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash bootstrap password", slog.String("error", err.Error()))
		return domain.NewProcessing("failed to provision initial admin")
	}

	s.store.Users.Add(store.Patch{
		"Email":    email,
		"Password": string(hash),
		"IsAdmin":  true,
	})
	s.logger.Info("provisioned initial service admin", slog.String("email", email))
	return nil
}

func findUserByEmail(st *store.Store, email string) *domain.User {
	matches := st.Users.Filter(func(u *domain.User) bool { return u.Email == email })
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}
