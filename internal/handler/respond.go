// Package handler exposes the entity services over HTTP. Handlers resolve
// path identifiers to live entities, call the guarded service operations and
// translate domain errors to status codes; they hold no authorization logic
// of their own.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/observability/metrics"
)

type statusBody struct {
	Status string `json:"status"`
}

var okBody = statusBody{Status: "ok"}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain error kinds to status codes: NotFound 404,
// Forbidden 403, InvalidParams 400, everything else 500
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsNotFound(err):
		status = http.StatusNotFound
	case domain.IsForbidden(err):
		status = http.StatusForbidden
		metrics.ObserveAuthzDenial("http")
	case domain.IsInvalidParams(err):
		status = http.StatusBadRequest
	case domain.IsProcessing(err):
		status = http.StatusInternalServerError
	default:
		log.Error("unclassified error", slog.String("error", err.Error()))
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// pathID parses a positive integer path value. Anything else resolves to
// NotFound, keeping malformed identifiers indistinguishable from absent
// entities.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewNotFound("no valid " + name + " provided")
	}
	return id, nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewInvalidParams("invalid request body")
	}
	return nil
}

// userPayload is the wire shape of a user; the credential is always masked
type userPayload struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

func maskUser(u *domain.User) userPayload {
	return userPayload{ID: u.ID, Email: u.Email, Password: "*", IsAdmin: u.IsAdmin}
}

func maskUsers(users []*domain.User) []userPayload {
	out := make([]userPayload, 0, len(users))
	for _, u := range users {
		out = append(out, maskUser(u))
	}
	return out
}

// companyPayload is the wire shape of a company without its entity tree
type companyPayload struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func maskCompany(c *domain.Company) companyPayload {
	return companyPayload{ID: c.ID, Title: c.Title}
}
