package web

import (
	"net/http"
	"strconv"

	"smartcopro-dashboard/internal/upstream"
)

// handleZones lists zones (with meter counts) and creates new ones.
func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		data, err := s.infra.Load(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			s.failure(w, r, err, "Error loading zones")
			return
		}
		writeData(w, data)
	case http.MethodPost:
		var zone upstream.Zone
		if err := decodeBody(r, &zone); err != nil {
			writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
			return
		}
		created, err := s.infra.CreateZone(r.Context(), zone)
		s.record(r.Context(), r, "create", "zone", "", err)
		if err != nil {
			s.failure(w, r, err, "Error creating zone")
			return
		}
		writeSuccess(w, http.StatusCreated, created, "Zone created successfully")
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleZoneItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/syndic/zones/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var zone upstream.Zone
		if err := decodeBody(r, &zone); err != nil {
			writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
			return
		}
		updated, err := s.infra.UpdateZone(r.Context(), id, zone)
		s.record(r.Context(), r, "update", "zone", strconv.Itoa(id), err)
		if err != nil {
			s.failure(w, r, err, "Error updating zone")
			return
		}
		writeSuccess(w, http.StatusOK, updated, "Zone updated successfully")
	case http.MethodDelete:
		if !confirmed(r) {
			requireConfirmation(w)
			return
		}
		err := s.infra.DeleteZone(r.Context(), id)
		s.record(r.Context(), r, "delete", "zone", strconv.Itoa(id), err)
		if err != nil {
			s.failure(w, r, err, "Error deleting zone")
			return
		}
		writeSuccess(w, http.StatusOK, nil, "Zone deleted successfully")
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleMeters lists and creates meters.
func (s *Server) handleMeters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		meters, err := s.infra.Meters(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			s.failure(w, r, err, "Error loading meters")
			return
		}
		writeData(w, meters)
	case http.MethodPost:
		var meter upstream.Meter
		if err := decodeBody(r, &meter); err != nil {
			writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
			return
		}
		created, err := s.infra.CreateMeter(r.Context(), meter)
		s.record(r.Context(), r, "create", "meter", "", err)
		if err != nil {
			s.failure(w, r, err, "Error creating meter")
			return
		}
		writeSuccess(w, http.StatusCreated, created, "Meter created successfully")
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleMeterItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/syndic/meters/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var meter upstream.Meter
		if err := decodeBody(r, &meter); err != nil {
			writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
			return
		}
		updated, err := s.infra.UpdateMeter(r.Context(), id, meter)
		s.record(r.Context(), r, "update", "meter", strconv.Itoa(id), err)
		if err != nil {
			s.failure(w, r, err, "Error updating meter")
			return
		}
		writeSuccess(w, http.StatusOK, updated, "Meter updated successfully")
	case http.MethodDelete:
		if !confirmed(r) {
			requireConfirmation(w)
			return
		}
		err := s.infra.DeleteMeter(r.Context(), id)
		s.record(r.Context(), r, "delete", "meter", strconv.Itoa(id), err)
		if err != nil {
			s.failure(w, r, err, "Error deleting meter")
			return
		}
		writeSuccess(w, http.StatusOK, nil, "Meter deleted successfully")
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
