// Package server exposes the research service over HTTP: a websocket
// endpoint streaming live progress for a run, REST endpoints for stored
// session records, optional signup/signin passthrough to the auth service,
// and static file serving for the bundled frontend.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/hupe1980/researchmesh/auth"
	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/logging"
	"github.com/hupe1980/researchmesh/runner"
)

// Options configure the HTTP server.
type Options struct {
	// AuthClient enables the /api/auth endpoints when set.
	AuthClient *auth.Client
	// StaticDir serves a frontend at / when non-empty.
	StaticDir string
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Server wires the session runner, persistence store and identity verifier
// into an http.Handler.
type Server struct {
	runner     *runner.Runner
	store      core.SessionStore
	verifier   core.Verifier
	authClient *auth.Client
	staticDir  string
	logger     logging.Logger
}

// New constructs a Server.
func New(r *runner.Runner, store core.SessionStore, verifier core.Verifier, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{
		runner:     r,
		store:      store,
		verifier:   verifier,
		authClient: opts.AuthClient,
		staticDir:  opts.StaticDir,
		logger:     opts.Logger,
	}
}

// Handler returns the routed http.Handler for the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ws/agent", s.handleAgentSocket)

	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)

	if s.authClient != nil {
		mux.HandleFunc("POST /api/auth/signup", s.handleSignUp)
		mux.HandleFunc("POST /api/auth/signin", s.handleSignIn)
	}

	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}

	return mux
}

// identity resolves the bearer token of a request, writing the appropriate
// error response and returning nil when the caller is not authenticated.
func (s *Server) identity(w http.ResponseWriter, r *http.Request) *core.Identity {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return nil
	}
	identity, err := s.verifier.Verify(r.Context(), token)
	if err != nil {
		s.logger.Error("Token verification failed", "error", err)
		writeError(w, http.StatusBadGateway, "token verification failed")
		return nil
	}
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return nil
	}
	return identity
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
