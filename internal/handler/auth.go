package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/yourorg/castingdesk/internal/observability/metrics"
	"github.com/yourorg/castingdesk/internal/security/audit"
	"github.com/yourorg/castingdesk/internal/security/middleware"
	"github.com/yourorg/castingdesk/internal/security/ratelimit"
	"github.com/yourorg/castingdesk/internal/service"
)

// AuthHandler serves sign-in and sign-out
type AuthHandler struct {
	auth     *service.AuthService
	limiter  *ratelimit.Limiter
	auditLog *audit.Logger
	logger   *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, limiter *ratelimit.Limiter, auditLog *audit.Logger, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{auth: auth, limiter: limiter, auditLog: auditLog, logger: logger}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	SessionID string      `json:"sessionId"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      userPayload `json:"user"`
}

// SignIn handles POST /api/auth/signin. Credential attempts are rate limited
// per source address independently of the global limiter.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.AllowStrict(r.RemoteAddr, 10, time.Minute) {
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many sign-in attempts"})
		return
	}

	var req signInRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		metrics.ObserveSignIn("failure")
		if h.auditLog != nil {
			h.auditLog.LogSignIn(r.Context(), 0, "failure", req.Email)
		}
		writeError(w, h.logger, err)
		return
	}

	metrics.ObserveSignIn("success")
	if h.auditLog != nil {
		h.auditLog.LogSignIn(r.Context(), result.User.ID, "success", result.User.Email)
	}
	writeJSON(w, http.StatusOK, signInResponse{
		SessionID: result.Session.ID,
		ExpiresAt: result.Session.ExpiresAt,
		User:      maskUser(result.User),
	})
}

// SignOut handles POST /api/auth/signout. Revoking an absent session still
// succeeds so stale clients can always clear their state.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if err := h.auth.SignOut(r.Context(), sess); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if h.auditLog != nil && sess != nil {
		h.auditLog.LogAction(r.Context(), sess.UserID, "signout", "session", sess.ID, "success", "")
	}
	writeJSON(w, http.StatusOK, okBody)
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
