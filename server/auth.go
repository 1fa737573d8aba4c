package server

import (
	"encoding/json"
	"net/http"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	session, err := s.authClient.SignUp(r.Context(), creds.Email, creds.Password)
	if err != nil {
		s.logger.Warn("Signup failed", "error", err)
		writeError(w, http.StatusBadRequest, "signup failed")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	session, err := s.authClient.SignIn(r.Context(), creds.Email, creds.Password)
	if err != nil {
		s.logger.Warn("Signin failed", "error", err)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return credentials{}, false
	}
	return creds, true
}
