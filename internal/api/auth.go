package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin checks the static admin credentials and issues a session
// cookie.
// POST /api/admin/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.Admin.Username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.cfg.Admin.PasswordBcrypt), []byte(req.Password))
	if !usernameOK || passwordErr != nil {
		s.logger.Warn().Str("username", req.Username).Str("remote", clientIP(r)).Msg("login rejected")
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	ttl := s.cfg.SessionTTL()
	token, err := s.sessions.Create(r.Context(), req.Username, ttl)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.logger.Info().Str("username", req.Username).Msg("admin login")
	respondJSON(w, http.StatusOK, map[string]string{"username": req.Username})
}

// handleLogout revokes the current session and clears the cookie.
// POST /api/admin/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := s.sessions.Delete(r.Context(), cookie.Value); err != nil {
			s.logger.Error().Err(err).Msg("session delete failed")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
