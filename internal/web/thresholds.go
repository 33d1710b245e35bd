package web

import (
	"net/http"
	"strconv"

	"smartcopro-dashboard/internal/upstream"
)

// handleThresholds serves the alert-threshold screen: rules on top, the
// detected alerts underneath.
func (s *Server) handleThresholds(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		data, err := s.thresholds.Load(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			s.failure(w, r, err, "Error loading thresholds")
			return
		}
		writeData(w, data)
	case http.MethodPost:
		var rule upstream.ThresholdRule
		if err := decodeBody(r, &rule); err != nil {
			writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
			return
		}
		created, err := s.thresholds.CreateRule(r.Context(), rule)
		s.record(r.Context(), r, "create", "threshold", "", err)
		if err != nil {
			s.failure(w, r, err, "Error creating threshold")
			return
		}
		writeSuccess(w, http.StatusCreated, created, "Threshold created successfully")
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleThresholdItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/syndic/thresholds/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var rule upstream.ThresholdRule
		if err := decodeBody(r, &rule); err != nil {
			writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
			return
		}
		updated, err := s.thresholds.UpdateRule(r.Context(), id, rule)
		s.record(r.Context(), r, "update", "threshold", strconv.Itoa(id), err)
		if err != nil {
			s.failure(w, r, err, "Error updating threshold")
			return
		}
		writeSuccess(w, http.StatusOK, updated, "Threshold updated successfully")
	case http.MethodDelete:
		if !confirmed(r) {
			requireConfirmation(w)
			return
		}
		err := s.thresholds.DeleteRule(r.Context(), id)
		s.record(r.Context(), r, "delete", "threshold", strconv.Itoa(id), err)
		if err != nil {
			s.failure(w, r, err, "Error deleting threshold")
			return
		}
		writeSuccess(w, http.StatusOK, nil, "Threshold deleted successfully")
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
