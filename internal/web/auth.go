package web

import (
	"net/http"

	"go.uber.org/zap"

	"smartcopro-dashboard/internal/gate"
	"smartcopro-dashboard/internal/session"
	"smartcopro-dashboard/internal/upstream"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User     session.User `json:"user"`
	Role     session.Role `json:"role"`
	HomePath string       `json:"home_path"`
}

// roleHome is where a fresh login (or a role-mismatched request) lands.
func roleHome(role session.Role) string {
	switch role {
	case session.RoleResident:
		return "/resident/claims"
	case session.RoleTechnician:
		return "/technicien/planning"
	default:
		return gate.DashboardPath
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Username and password are required"})
		return
	}

	sess, err := s.sessions.Login(r.Context(), upstream.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		s.record(r.Context(), r, "login", "session", "", err)
		writeJSON(w, http.StatusUnauthorized, nil, &Toast{Level: ToastError, Message: "Invalid credentials"})
		return
	}

	if err := s.cookies.Issue(w, sess.ID, sess.ExpiresAt); err != nil {
		s.logger.Error("cookie issue failed", zap.Error(err))
		_ = s.sessions.Logout(r.Context(), sess.ID)
		writeJSON(w, http.StatusInternalServerError, nil, &Toast{Level: ToastError, Message: "Login failed"})
		return
	}

	s.record(gate.WithSession(r.Context(), sess), r, "login", "session", sess.ID, nil)
	writeSuccess(w, http.StatusOK, loginResponse{
		User:     sess.User,
		Role:     sess.Role,
		HomePath: roleHome(sess.Role),
	}, "Connection successful")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if sess, ok := gate.SessionFrom(r.Context()); ok {
		_ = s.sessions.Logout(r.Context(), sess.ID)
		s.record(r.Context(), r, "logout", "session", sess.ID, nil)
	}
	s.cookies.Clear(w)
	http.Redirect(w, r, gate.LoginPath, http.StatusSeeOther)
}
