package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"smartcopro-dashboard/internal/audit"
	"smartcopro-dashboard/internal/gate"
	"smartcopro-dashboard/internal/screens"
	"smartcopro-dashboard/internal/upstream"
)

// Toast is the notification attached to screen responses.
type Toast struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Toast levels.
const (
	ToastSuccess = "success"
	ToastWarning = "warning"
	ToastError   = "error"
)

type envelope struct {
	Data  any    `json:"data,omitempty"`
	Toast *Toast `json:"toast,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any, toast *Toast) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Data: data, Toast: toast})
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data, nil)
}

func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, data, &Toast{Level: ToastSuccess, Message: message})
}

func writeWarning(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, data, &Toast{Level: ToastWarning, Message: message})
}

// failure maps an error onto the uniform taxonomy: precondition failures
// and upstream validation errors become error toasts; an upstream 401
// clears the session and redirects to login no matter which screen
// triggered it.
func (s *Server) failure(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if errors.Is(err, upstream.ErrUnauthorized) {
		s.expireSession(w, r)
		return
	}
	if errors.Is(err, screens.ErrMissingFields) {
		writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Required fields are missing"})
		return
	}

	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, toastStatus(apiErr.Status), nil, &Toast{Level: ToastError, Message: toastMessage(apiErr, fallback)})
		return
	}

	s.logger.Warn("upstream call failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusBadGateway, nil, &Toast{Level: ToastError, Message: fallback})
}

// expireSession applies the global authorization-failure policy: clear the
// stored session, drop the cookie, send the caller to the login screen.
func (s *Server) expireSession(w http.ResponseWriter, r *http.Request) {
	if sess, ok := gate.SessionFrom(r.Context()); ok {
		_ = s.sessions.Logout(r.Context(), sess.ID)
	}
	s.cookies.Clear(w)
	http.Redirect(w, r, gate.LoginPath, http.StatusSeeOther)
}

func toastStatus(upstreamStatus int) int {
	switch upstreamStatus {
	case http.StatusBadRequest, http.StatusConflict, http.StatusNotFound, http.StatusForbidden:
		return upstreamStatus
	}
	return http.StatusBadGateway
}

// toastMessage extracts the most specific message the error payload
// offers, falling back to the generic one.
func toastMessage(apiErr *upstream.APIError, fallback string) string {
	if msg, ok := apiErr.Field("old_password"); ok && msg != "" {
		return "Old password incorrect"
	}
	if msg, ok := apiErr.Field("compteur_reference"); ok && msg != "" {
		return msg
	}
	if apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

// pathID parses the numeric id segment after a collection prefix.
func pathID(r *http.Request, prefix string) (int, bool) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	rest = strings.TrimSuffix(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// confirmed reports whether a delete carries the caller's explicit
// confirmation.
func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}

func requireConfirmation(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Deletion requires confirmation"})
}

// record writes an audit entry for a mutation, best effort.
func (s *Server) record(ctx context.Context, r *http.Request, action, resource, resourceID string, err error) {
	outcome := audit.OutcomeOK
	if err != nil {
		outcome = audit.OutcomeError
	}
	entry := audit.Entry{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Outcome:    outcome,
		IP:         r.RemoteAddr,
		UserAgent:  r.UserAgent(),
	}
	if sess, ok := gate.SessionFrom(ctx); ok {
		entry.Actor = sess.User.Username
		entry.Role = string(sess.Role)
	}
	if logErr := s.audit.Log(ctx, entry); logErr != nil {
		s.logger.Warn("audit write failed", zap.Error(logErr))
	}
}
