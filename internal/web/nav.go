package web

import (
	"net/http"

	"smartcopro-dashboard/internal/gate"
	"smartcopro-dashboard/internal/session"
)

// NavLink is one sidebar entry, already filtered for the caller's role.
type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var navByRole = map[session.Role][]NavLink{
	session.RoleManager: {
		{Label: "Dashboard", Path: "/dashboard"},
		{Label: "Claims", Path: "/syndic/claims"},
		{Label: "Zones", Path: "/syndic/zones"},
		{Label: "Meters", Path: "/syndic/meters"},
		{Label: "Readings", Path: "/syndic/readings"},
		{Label: "Alert thresholds", Path: "/syndic/thresholds"},
		{Label: "Interventions", Path: "/syndic/interventions"},
		{Label: "Residents", Path: "/syndic/residents"},
		{Label: "Technicians", Path: "/syndic/technicians"},
		{Label: "Reports", Path: "/syndic/reports"},
		{Label: "My profile", Path: "/profile"},
	},
	session.RoleCouncil: {
		{Label: "Dashboard", Path: "/dashboard"},
		{Label: "My profile", Path: "/profile"},
	},
	session.RoleResident: {
		{Label: "My claims", Path: "/resident/claims"},
		{Label: "My profile", Path: "/profile"},
	},
	session.RoleTechnician: {
		{Label: "My planning", Path: "/technicien/planning"},
		{Label: "My profile", Path: "/profile"},
	},
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, ok := gate.SessionFrom(r.Context())
	if !ok {
		http.Redirect(w, r, gate.LoginPath, http.StatusSeeOther)
		return
	}

	writeData(w, map[string]any{
		"user":  sess.User,
		"role":  sess.Role,
		"links": navByRole[sess.Role],
	})
}

// handleDashboard serves the manager/council statistics overview.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, ok := gate.SessionFrom(r.Context())
	if !ok {
		http.Redirect(w, r, gate.LoginPath, http.StatusSeeOther)
		return
	}
	if sess.Role != session.RoleManager && sess.Role != session.RoleCouncil {
		http.Redirect(w, r, roleHome(sess.Role), http.StatusSeeOther)
		return
	}

	stats, err := s.client.FetchDashboardStats(r.Context())
	if err != nil {
		s.failure(w, r, err, "Error loading statistics")
		return
	}
	writeData(w, stats)
}
