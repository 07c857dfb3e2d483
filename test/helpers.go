package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourorg/castingdesk/internal/handler"
	"github.com/yourorg/castingdesk/internal/infrastructure/logger"
	"github.com/yourorg/castingdesk/internal/security/audit"
	"github.com/yourorg/castingdesk/internal/security/middleware"
	"github.com/yourorg/castingdesk/internal/security/ratelimit"
	"github.com/yourorg/castingdesk/internal/security/session"
	"github.com/yourorg/castingdesk/internal/service"
	"github.com/yourorg/castingdesk/internal/store"
)

// TestServerHelper runs the full HTTP stack against the in-memory store
type TestServerHelper struct {
	Server   *httptest.Server
	Store    *store.Store
	Sessions *session.Manager
	limiter  *ratelimit.Limiter
}

func NewTestServer(t *testing.T) *TestServerHelper {
	t.Helper()

	log := logger.NewLogger("error")
	st := store.New()
	sessions := session.NewManager(session.NewMemoryStore(st.Sessions), time.Minute, log)
	auditLogger := audit.NewLogger(log, nil)

	authService := service.NewAuthService(st, sessions, log)
	userService := service.NewUserService(st, log)
	companyService := service.NewCompanyService(st, log)
	castingService := service.NewCastingService(st, log)
	applicantService := service.NewApplicantService(st, log)

	limiter := ratelimit.NewLimiter(10000, time.Minute)
	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authService, limiter, auditLogger, log),
		Users:      handler.NewUserHandler(userService, auditLogger, log),
		Companies:  handler.NewCompanyHandler(companyService, userService, auditLogger, log),
		Castings:   handler.NewCastingHandler(companyService, castingService, log),
		Applicants: handler.NewApplicantHandler(companyService, castingService, applicantService, log),
		Health:     handler.NewHealthHandler(sessions, nil, nil, log),
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handlers)

	root := middleware.RequestID()(
		middleware.SessionAuth(sessions, st.Users, log)(
			middleware.RateLimitMiddleware(limiter, log)(mux),
		),
	)

	server := httptest.NewServer(root)
	t.Cleanup(func() {
		server.Close()
		limiter.Stop()
	})

	return &TestServerHelper{Server: server, Store: st, Sessions: sessions, limiter: limiter}
}

func (h *TestServerHelper) URL() string {
	return h.Server.URL
}

// Do sends a JSON request with an optional bearer token and decodes the JSON
// response into out (when out is non-nil).
func (h *TestServerHelper) Do(t *testing.T, method, path, token string, body any, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, h.Server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp
}

// SignIn performs the sign-in call and returns the bearer token
func (h *TestServerHelper) SignIn(t *testing.T, email, password string) string {
	t.Helper()

	var result struct {
		SessionID string `json:"sessionId"`
	}
	resp := h.Do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sign-in as %s: status %d", email, resp.StatusCode)
	}
	if result.SessionID == "" {
		t.Fatalf("sign-in as %s returned no session id", email)
	}
	return result.SessionID
}

func AssertStatusCode(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d", resp.StatusCode, want)
	}
}
