package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/security/audit"
	"github.com/yourorg/castingdesk/internal/security/middleware"
	"github.com/yourorg/castingdesk/internal/service"
)

// UserHandler serves the global user collection
type UserHandler struct {
	users    *service.UserService
	auditLog *audit.Logger
	logger   *slog.Logger
}

func NewUserHandler(users *service.UserService, auditLog *audit.Logger, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{users: users, auditLog: auditLog, logger: logger}
}

type userRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  *bool  `json:"isAdmin"`
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	users, err := h.users.List(actor, struct{}{})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskUsers(users))
}

// Get handles GET /api/users/{userId}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	user, err := h.users.Get(actor, userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskUser(user))
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	params := service.CreateUserParams{Email: req.Email, Password: req.Password}
	if req.IsAdmin != nil {
		params.IsAdmin = *req.IsAdmin
	}
	user, err := h.users.Create(actor, params)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if h.auditLog != nil {
		h.auditLog.LogAction(r.Context(), actorID(actor), "create", "user", formatID(user.ID), "success", user.Email)
	}
	writeJSON(w, http.StatusCreated, maskUser(user))
}

// Update handles PUT /api/users/{userId}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	user := h.users.CoreGetByID(userID)
	if user == nil {
		writeError(w, h.logger, domain.NewNotFound("user not found"))
		return
	}
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	updated, err := h.users.Update(actor, user, service.UpdateUserParams{
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskUser(updated))
}

type passwordRequest struct {
	Password string `json:"password"`
}

// ChangePassword handles PUT /api/users/{userId}/password. Unlike Update this
// is strictly self-service: admins cannot reset other accounts through it.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	user := h.users.CoreGetByID(userID)
	if user == nil {
		writeError(w, h.logger, domain.NewNotFound("user not found"))
		return
	}
	var req passwordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	updated, err := h.users.ChangePassword(actor, user, service.ChangePasswordArgs{
		User:     user,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if h.auditLog != nil {
		h.auditLog.LogAction(r.Context(), actorID(actor), "change_password", "user", formatID(userID), "success", "")
	}
	writeJSON(w, http.StatusOK, maskUser(updated))
}

// Delete handles DELETE /api/users/{userId}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	user := h.users.CoreGetByID(userID)
	if user == nil {
		writeError(w, h.logger, domain.NewNotFound("user not found"))
		return
	}
	if _, err := h.users.Delete(actor, user); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if h.auditLog != nil {
		h.auditLog.LogAction(r.Context(), actorID(actor), "delete", "user", formatID(userID), "success", "")
	}
	writeJSON(w, http.StatusOK, okBody)
}

func actorID(actor *domain.User) int64 {
	if actor == nil {
		return 0
	}
	return actor.ID
}
