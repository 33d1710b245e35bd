package web

import (
	"net/http"
	"strconv"

	"smartcopro-dashboard/internal/upstream"
)

// handleInterventions serves the manager assignment screen: open
// interventions alongside the technicians and claims needed for the
// assignment form.
func (s *Server) handleInterventions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		data, err := s.interventions.Load(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			s.failure(w, r, err, "Error loading interventions")
			return
		}
		writeData(w, data)
	case http.MethodPost:
		var draft upstream.InterventionDraft
		if err := decodeBody(r, &draft); err != nil {
			writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
			return
		}
		created, err := s.interventions.Assign(r.Context(), draft)
		s.record(r.Context(), r, "create", "intervention", "", err)
		if err != nil {
			s.failure(w, r, err, "Error assigning intervention")
			return
		}
		writeSuccess(w, http.StatusCreated, created, "Intervention assigned successfully")
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleInterventionItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/syndic/interventions/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", http.MethodDelete)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !confirmed(r) {
		requireConfirmation(w)
		return
	}

	err := s.interventions.Remove(r.Context(), id)
	s.record(r.Context(), r, "delete", "intervention", strconv.Itoa(id), err)
	if err != nil {
		s.failure(w, r, err, "Error deleting intervention")
		return
	}
	writeSuccess(w, http.StatusOK, nil, "Intervention deleted successfully")
}

// handlePlanning serves the technician's own schedule.
func (s *Server) handlePlanning(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := s.planning.Load(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.failure(w, r, err, "Error loading planning")
		return
	}
	writeData(w, items)
}

// handlePlanningItem files the technician's report on one intervention.
func (s *Server) handlePlanningItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/technicien/planning/")
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
		Report      string `json:"rapport"`
		ScheduledAt string `json:"date_intervention"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
		return
	}

	item, err := s.planning.SubmitReport(r.Context(), id, body.ScheduledAt, body.Report)
	s.record(r.Context(), r, "submit-report", "intervention", strconv.Itoa(id), err)
	if err != nil {
		s.failure(w, r, err, "Error submitting report")
		return
	}
	writeSuccess(w, http.StatusOK, item, "Report submitted successfully")
}
