package web

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"smartcopro-dashboard/internal/audit"
	"smartcopro-dashboard/internal/gate"
	"smartcopro-dashboard/internal/screens"
	"smartcopro-dashboard/internal/session"
	"smartcopro-dashboard/internal/upstream"
)

// Server holds the gateway's HTTP handlers. Routes live behind the gate
// middleware; role checks happen there, handlers only read the session from
// the request context.
type Server struct {
	client   *upstream.Client
	sessions *session.Manager
	cookies  *gate.CookieCodec
	audit    audit.Logger
	logger   *zap.Logger

	claims        *screens.ClaimsBoard
	residentHome  *screens.ResidentHome
	infra         *screens.Infrastructure
	readings      *screens.Readings
	thresholds    *screens.Thresholds
	interventions *screens.Interventions
	planning      *screens.Planning
	residents     *screens.People
	technicians   *screens.People
	reports       *screens.Reports
	profile       *screens.ProfileScreen
}

// NewServer wires the screen services over a shared upstream client.
func NewServer(client *upstream.Client, sessions *session.Manager, cookies *gate.CookieCodec, auditLog audit.Logger, logger *zap.Logger) (*Server, error) {
	if client == nil {
		return nil, errors.New("web: nil upstream client")
	}
	if sessions == nil {
		return nil, errors.New("web: nil session manager")
	}
	if cookies == nil {
		return nil, errors.New("web: nil cookie codec")
	}
	if auditLog == nil {
		auditLog = audit.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		client:   client,
		sessions: sessions,
		cookies:  cookies,
		audit:    auditLog,
		logger:   logger,
	}

	var err error
	if s.claims, err = screens.NewClaimsBoard(client); err != nil {
		return nil, err
	}
	if s.residentHome, err = screens.NewResidentHome(client); err != nil {
		return nil, err
	}
	if s.infra, err = screens.NewInfrastructure(client); err != nil {
		return nil, err
	}
	if s.readings, err = screens.NewReadings(client); err != nil {
		return nil, err
	}
	if s.thresholds, err = screens.NewThresholds(client); err != nil {
		return nil, err
	}
	if s.interventions, err = screens.NewInterventions(client); err != nil {
		return nil, err
	}
	if s.planning, err = screens.NewPlanning(client); err != nil {
		return nil, err
	}
	if s.residents, err = screens.NewPeople(client, screens.KindResidents); err != nil {
		return nil, err
	}
	if s.technicians, err = screens.NewPeople(client, screens.KindTechnicians); err != nil {
		return nil, err
	}
	if s.reports, err = screens.NewReports(client); err != nil {
		return nil, err
	}
	if s.profile, err = screens.NewProfileScreen(client); err != nil {
		return nil, err
	}
	return s, nil
}

// Register attaches every route to the mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/nav", s.handleNav)
	mux.HandleFunc("/profile", s.handleProfile)

	mux.HandleFunc("/syndic/claims", s.handleClaims)
	mux.HandleFunc("/syndic/claims/", s.handleClaimItem)
	mux.HandleFunc("/syndic/zones", s.handleZones)
	mux.HandleFunc("/syndic/zones/", s.handleZoneItem)
	mux.HandleFunc("/syndic/meters", s.handleMeters)
	mux.HandleFunc("/syndic/meters/", s.handleMeterItem)
	mux.HandleFunc("/syndic/readings", s.handleReadings)
	mux.HandleFunc("/syndic/readings/", s.handleReadingItem)
	mux.HandleFunc("/syndic/thresholds", s.handleThresholds)
	mux.HandleFunc("/syndic/thresholds/", s.handleThresholdItem)
	mux.HandleFunc("/syndic/interventions", s.handleInterventions)
	mux.HandleFunc("/syndic/interventions/", s.handleInterventionItem)
	mux.HandleFunc("/syndic/residents", s.handleResidents)
	mux.HandleFunc("/syndic/residents/", s.handleResidentItem)
	mux.HandleFunc("/syndic/technicians", s.handleTechnicians)
	mux.HandleFunc("/syndic/technicians/", s.handleTechnicianItem)
	mux.HandleFunc("/syndic/reports", s.handleReports)
	mux.HandleFunc("/syndic/reports/", s.handleReportItem)
	mux.HandleFunc("/syndic/exports/readings.xlsx", s.handleExportReadings)
	mux.HandleFunc("/syndic/exports/alerts.pdf", s.handleExportAlerts)

	mux.HandleFunc("/resident/claims", s.handleResidentClaims)

	mux.HandleFunc("/technicien/planning", s.handlePlanning)
	mux.HandleFunc("/technicien/planning/", s.handlePlanningItem)
}
