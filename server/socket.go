package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/hupe1980/researchmesh/core"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The service is same-origin behind the static file server; cross-origin
	// deployments should front this with their own origin policy.
	CheckOrigin: func(*http.Request) bool { return true },
}

// agentRequest is the first (and only) client message on the agent socket.
type agentRequest struct {
	Query string `json:"query"`
	Token string `json:"token"`
}

// handleAgentSocket runs one research session over a websocket, forwarding
// each progress event as JSON in arrival order. The terminal completion
// event carries the report and, when persisted, the session id.
func (s *Server) handleAgentSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	var req agentRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(core.NewErrorEvent("invalid request payload"))
		return
	}
	if req.Query == "" {
		_ = conn.WriteJSON(core.NewErrorEvent("No query provided"))
		return
	}

	identity, err := s.verifier.Verify(r.Context(), req.Token)
	if err != nil {
		s.logger.Error("Token verification failed", "error", err)
		_ = conn.WriteJSON(core.NewErrorEvent("token verification failed"))
		return
	}
	if identity == nil {
		_ = conn.WriteJSON(core.NewErrorEvent("invalid token"))
		return
	}

	s.logger.Info("Starting research run", "owner_id", identity.ID)

	// The run is decoupled from the request context: it proceeds to its
	// terminal event (and persists the report) even if the client goes away
	// mid-stream.
	events := s.runner.Run(context.Background(), req.Query, identity.ID)
	for ev := range events {
		if err := conn.WriteJSON(ev); err != nil {
			s.logger.Warn("Client disconnected mid-stream", "error", err)
			// Keep draining so the run completes and persists.
			for range events {
			}
			return
		}
	}
}
