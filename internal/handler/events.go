package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yourorg/castingdesk/internal/security"
	"github.com/yourorg/castingdesk/internal/security/audit"
	"github.com/yourorg/castingdesk/internal/security/middleware"
)

// EventsHandler streams the audit event feed over WebSocket at /ws/events.
// Only service admins may subscribe; the feed is best effort and a slow
// consumer drops events rather than stalling the publishers.
type EventsHandler struct {
	auditLog       *audit.Logger
	logger         *slog.Logger
	allowedOrigins []string
}

func NewEventsHandler(auditLog *audit.Logger, allowedOrigins []string, logger *slog.Logger) *EventsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventsHandler{auditLog: auditLog, logger: logger, allowedOrigins: allowedOrigins}
}

// upgrader is initialized per-request to use the instance's allowed origins
func (h *EventsHandler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Non-browser clients send no origin
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP handles WebSocket subscriptions to the audit feed
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	if !security.CanManageService(actor) {
		writeJSON(w, http.StatusForbidden, errorBody{Error: "service admin tier required"})
		return
	}

	upgrader := h.getUpgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	events, cancel := h.auditLog.Subscribe(64)
	defer cancel()

	// Reader goroutine drains control frames and signals peer close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	h.logger.Info("audit feed subscriber connected", slog.Int64("actor_id", actor.ID))
	for {
		select {
		case ev := <-events:
			if err := ws.WriteJSON(ev); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.Debug("websocket closed", slog.Int64("actor_id", actor.ID))
				}
				return
			}
		case <-ticker.C:
			_ = ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
