package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"flightlog/internal/apperr"
	"flightlog/internal/auth"
	"flightlog/internal/model"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin checks a credential pair against the users table and records
// the login time. Plaintext never touches the database; only the stored
// bcrypt hash is compared.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperr.New(http.StatusBadRequest, "invalid request body: "+err.Error()))
		return
	}
	if req.Username == "" || req.Password == "" {
		s.writeError(w, apperr.New(http.StatusBadRequest, "username and password are required"))
		return
	}

	cols := strings.Join(model.UserAttributes(), ", ")
	rows, err := s.db.ExecuteRead(r.Context(),
		"SELECT "+cols+" FROM users WHERE username = ?;", req.Username)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(rows) == 0 {
		s.writeError(w, apperr.New(http.StatusUnauthorized, "invalid credentials"))
		return
	}

	user, err := model.UserFromRow(rows[0])
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.writeError(w, apperr.New(http.StatusUnauthorized, "invalid credentials"))
		return
	}

	if _, err := s.db.ExecuteWrite(r.Context(),
		"UPDATE users SET last_login = current_timestamp WHERE id = ?;", user.ID); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
