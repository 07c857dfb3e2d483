package service

import (
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/security"
	"github.com/yourorg/castingdesk/internal/store"
)

// CreateUserParams are the inputs for creating a user account
type CreateUserParams struct {
	Email    string
	Password string
	IsAdmin  bool
}

// UpdateUserParams are the inputs for a partial user update. Empty strings
// leave the field unchanged; IsAdmin nil leaves the flag unchanged.
type UpdateUserParams struct {
	Email    string
	Password string
	IsAdmin  *bool
}

// ChangePasswordArgs names the account whose password changes and the new
// plaintext value
type ChangePasswordArgs struct {
	User     *domain.User
	Password string
}

// UserService manages the global user collection. List, Create and Delete
// are admin-tier; CreateCompanyUser lets a company owner provision accounts;
// ChangePassword is strictly self-service; Get and Update apply an
// admin-or-self rule that the generic combinators do not express, so they
// check inline.
type UserService struct {
	store  *store.Store
	logger *slog.Logger

	List              func(author *domain.User, _ struct{}) ([]*domain.User, error)
	Create            func(author *domain.User, params CreateUserParams) (*domain.User, error)
	CreateCompanyUser func(author *domain.User, company *domain.Company, params CreateUserParams) (*domain.User, error)
	Delete            func(author *domain.User, user *domain.User) (struct{}, error)
	ChangePassword    func(author, target *domain.User, args ChangePasswordArgs) (*domain.User, error)
}

// NewUserService creates a user service with its guarded operations composed
func NewUserService(st *store.Store, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &UserService{store: st, logger: logger}

	s.List = security.Admin(s.list, "only service admins may list users")
	s.Create = security.Admin(s.create, "only service admins may create users")
	s.CreateCompanyUser = security.Owner(s.create, "only company owners may create users")
	s.Delete = security.Admin(s.delete, "only service admins may delete users")
	s.ChangePassword = security.Self(s.changePassword, "may only change own password")

	return s
}

// Get returns the user by id. Admins may fetch anyone; everyone else only
// themselves. Missing ids are NotFound regardless of tier.
func (s *UserService) Get(author *domain.User, userID int64) (*domain.User, error) {
	user, ok := s.store.Users.Find(userID)
	if !ok {
		return nil, domain.NewNotFound("no such user")
	}
	if !security.CanManageService(author) && user != author {
		return nil, domain.NewForbidden("may only view own account")
	}
	return user, nil
}

// Update applies a partial update to the user. Admin-or-self; only admins
// may change the IsAdmin flag. Email changes enforce global uniqueness.
func (s *UserService) Update(author *domain.User, user *domain.User, params UpdateUserParams) (*domain.User, error) {
	if author == nil {
		return nil, domain.NewForbidden("authentication required")
	}
	if !security.CanManageService(author) && user != author {
		return nil, domain.NewForbidden("may only update own account")
	}

	patch := store.Patch{}
	if params.Email != "" {
		email := strings.ToLower(strings.TrimSpace(params.Email))
		if email != user.Email {
			if email == "" {
				return nil, domain.NewInvalidParams("wrong email")
			}
			if other := findUserByEmail(s.store, email); other != nil && other.ID != user.ID {
				return nil, domain.NewInvalidParams("email already exists")
			}
			patch["Email"] = email
		}
	}
	if params.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(params.Password)), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("failed to hash password", slog.String("error", err.Error()))
			return nil, domain.NewProcessing("failed to update password")
		}
		patch["Password"] = string(hash)
	}
	if params.IsAdmin != nil {
		// Non-admins cannot grant themselves the admin tier.
		if security.CanManageService(author) {
			patch["IsAdmin"] = *params.IsAdmin
		} else {
			patch["IsAdmin"] = false
		}
	}

	updated, ok := s.store.Users.Update(user.ID, patch)
	if !ok {
		return nil, domain.NewProcessing("user vanished during update")
	}
	return updated, nil
}

// CoreGetByID resolves a user without any tier check. For internal wiring
// (session resolution, membership lookups), never exposed as an operation.
func (s *UserService) CoreGetByID(userID int64) *domain.User {
	user, ok := s.store.Users.Find(userID)
	if !ok {
		return nil
	}
	return user
}

// CoreGetByEmail resolves a user by email without any tier check
func (s *UserService) CoreGetByEmail(email string) *domain.User {
	return findUserByEmail(s.store, strings.ToLower(strings.TrimSpace(email)))
}

func (s *UserService) list(struct{}) ([]*domain.User, error) {
	return s.store.Users.Filter(nil), nil
}

func (s *UserService) create(params CreateUserParams) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	password := strings.TrimSpace(params.Password)
	if email == "" || password == "" {
		return nil, domain.NewInvalidParams("email and password are required")
	}
	if findUserByEmail(s.store, email) != nil {
		return nil, domain.NewInvalidParams("email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, domain.NewProcessing("failed to create user")
	}

	user := s.store.Users.Add(store.Patch{
		"Email":    email,
		"Password": string(hash),
		"IsAdmin":  params.IsAdmin,
	})
	s.logger.Info("user created", slog.Int64("user_id", user.ID), slog.String("email", user.Email))
	return user, nil
}

func (s *UserService) changePassword(args ChangePasswordArgs) (*domain.User, error) {
	password := strings.TrimSpace(args.Password)
	if password == "" {
		return nil, domain.NewInvalidParams("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, domain.NewProcessing("failed to change password")
	}
	updated, ok := s.store.Users.Update(args.User.ID, store.Patch{"Password": string(hash)})
	if !ok {
		return nil, domain.NewProcessing("user vanished during update")
	}
	return updated, nil
}

func (s *UserService) delete(user *domain.User) (struct{}, error) {
	s.store.Users.Remove(user)
	s.logger.Info("user deleted", slog.Int64("user_id", user.ID))
	return struct{}{}, nil
}
