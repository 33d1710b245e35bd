package web

import (
	"net/http"
	"strconv"

	"smartcopro-dashboard/internal/upstream"
)

// handleReadings lists readings (optionally narrowed by meter or zone) and
// records a new entry. A new entry that trips a consumption threshold comes
// back flagged; the toast level follows the flag.
func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listQuery := upstream.ReadingQuery{
			MeterReference: r.URL.Query().Get("compteur"),
		}
		if raw := r.URL.Query().Get("zone_id"); raw != "" {
			zoneID, err := strconv.Atoi(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid zone id"})
				return
			}
			listQuery.ZoneID = zoneID
		}
		readings, err := s.readings.Load(r.Context(), listQuery, r.URL.Query().Get("q"))
		if err != nil {
			s.failure(w, r, err, "Error loading readings")
			return
		}
		writeData(w, readings)
	case http.MethodPost:
		var entry upstream.ReadingEntry
		if err := decodeBody(r, &entry); err != nil {
			writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
			return
		}
		receipt, err := s.readings.Enter(r.Context(), entry)
		s.record(r.Context(), r, "create", "reading", "", err)
		if err != nil {
			s.failure(w, r, err, "Error recording reading")
			return
		}
		if receipt.AlertGenerated {
			writeWarning(w, http.StatusCreated, receipt, "Reading recorded, consumption alert raised")
			return
		}
		writeSuccess(w, http.StatusCreated, receipt, "Reading recorded successfully")
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleReadingItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/syndic/readings/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var body struct {
			Value   float64 `json:"valeur"`
			Comment string  `json:"commentaire"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
			return
		}
		reading, err := s.readings.Edit(r.Context(), id, body.Value, body.Comment)
		s.record(r.Context(), r, "update", "reading", strconv.Itoa(id), err)
		if err != nil {
			s.failure(w, r, err, "Error updating reading")
			return
		}
		writeSuccess(w, http.StatusOK, reading, "Reading updated successfully")
	case http.MethodDelete:
		if !confirmed(r) {
			requireConfirmation(w)
			return
		}
		err := s.readings.Delete(r.Context(), id)
		s.record(r.Context(), r, "delete", "reading", strconv.Itoa(id), err)
		if err != nil {
			s.failure(w, r, err, "Error deleting reading")
			return
		}
		writeSuccess(w, http.StatusOK, nil, "Reading deleted successfully")
	default:
		w.Header().Set("Allow", "PATCH, DELETE")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
