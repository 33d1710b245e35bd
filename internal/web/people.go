package web

import (
	"net/http"
	"strconv"

	"smartcopro-dashboard/internal/screens"
	"smartcopro-dashboard/internal/upstream"
)

func (s *Server) handleResidents(w http.ResponseWriter, r *http.Request) {
	s.handlePeople(w, r, s.residents, "resident")
}

func (s *Server) handleTechnicians(w http.ResponseWriter, r *http.Request) {
	s.handlePeople(w, r, s.technicians, "technician")
}

func (s *Server) handleResidentItem(w http.ResponseWriter, r *http.Request) {
	s.handlePersonItem(w, r, s.residents, "/syndic/residents/", "resident")
}

func (s *Server) handleTechnicianItem(w http.ResponseWriter, r *http.Request) {
	s.handlePersonItem(w, r, s.technicians, "/syndic/technicians/", "technician")
}

// handlePeople lists and creates accounts; residents and technicians share
// the shape and differ only in the upstream collection.
func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request, people *screens.People, resource string) {
	switch r.Method {
	case http.MethodGet:
		list, err := people.Load(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			s.failure(w, r, err, "Error loading accounts")
			return
		}
		writeData(w, list)
	case http.MethodPost:
		var person upstream.Person
		if err := decodeBody(r, &person); err != nil {
			writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
			return
		}
		created, err := people.Create(r.Context(), person)
		s.record(r.Context(), r, "create", resource, "", err)
		if err != nil {
			s.failure(w, r, err, "Error creating account")
			return
		}
		writeSuccess(w, http.StatusCreated, created, "Account created successfully")
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePersonItem(w http.ResponseWriter, r *http.Request, people *screens.People, prefix, resource string) {
	id, ok := pathID(r, prefix)
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var person upstream.Person
		if err := decodeBody(r, &person); err != nil {
			writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
			return
		}
		updated, err := people.Update(r.Context(), id, person)
		s.record(r.Context(), r, "update", resource, strconv.Itoa(id), err)
		if err != nil {
			s.failure(w, r, err, "Error updating account")
			return
		}
		writeSuccess(w, http.StatusOK, updated, "Account updated successfully")
	case http.MethodDelete:
		if !confirmed(r) {
			requireConfirmation(w)
			return
		}
		err := people.Delete(r.Context(), id)
		s.record(r.Context(), r, "delete", resource, strconv.Itoa(id), err)
		if err != nil {
			s.failure(w, r, err, "Error deleting account")
			return
		}
		writeSuccess(w, http.StatusOK, nil, "Account deleted successfully")
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
