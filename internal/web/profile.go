package web

import (
	"net/http"

	"smartcopro-dashboard/internal/upstream"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		profile, err := s.profile.Load(r.Context())
		if err != nil {
			s.failure(w, r, err, "Error loading profile")
			return
		}
		writeData(w, profile)
	case http.MethodPut:
		var update upstream.ProfileUpdate
		if err := decodeBody(r, &update); err != nil {
			writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
			return
		}
		profile, err := s.profile.Update(r.Context(), update)
		s.record(r.Context(), r, "update", "profile", "", err)
		if err != nil {
			s.failure(w, r, err, "Error updating profile")
			return
		}
		writeSuccess(w, http.StatusOK, profile, "Profile updated successfully")
	default:
		w.Header().Set("Allow", "GET, PUT")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
