package web

import (
	"net/http"
	"strconv"

	"smartcopro-dashboard/internal/upstream"
)

// handleClaims serves the manager claims board.
func (s *Server) handleClaims(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := s.claims.Load(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.failure(w, r, err, "Error loading claims")
		return
	}
	writeData(w, data)
}

// handleClaimItem updates one claim's status.
func (s *Server) handleClaimItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/syndic/claims/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPatch {
		w.Header().Set("Allow", http.MethodPatch)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Status string `json:"statut"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
		return
	}

	claim, err := s.claims.UpdateStatus(r.Context(), id, body.Status)
	s.record(r.Context(), r, "update-status", "claim", strconv.Itoa(id), err)
	if err != nil {
		s.failure(w, r, err, "Error updating status")
		return
	}
	writeSuccess(w, http.StatusOK, claim, "Status updated successfully")
}

// handleResidentClaims serves the resident home: their own claims plus
// submission of new ones.
func (s *Server) handleResidentClaims(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		claims, err := s.residentHome.Load(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			s.failure(w, r, err, "Error loading claims")
			return
		}
		writeData(w, claims)
	case http.MethodPost:
		var draft upstream.ClaimDraft
		if err := decodeBody(r, &draft); err != nil {
			writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
			return
		}
		claim, err := s.residentHome.Submit(r.Context(), draft)
		s.record(r.Context(), r, "create", "claim", "", err)
		if err != nil {
			s.failure(w, r, err, "Error submitting claim")
			return
		}
		writeSuccess(w, http.StatusCreated, claim, "Claim submitted successfully")
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
