package upstream

import (
	"context"
	"errors"
	"net/http"
)

const (
	pathDashboard      = "/api/reports/dashboard/"
	pathReportGenerate = "/api/reports/rapports/generer/"
	pathReportDownload = "/api/reports/rapports/telecharger/"
)

// DashboardStats is the KPI aggregate behind the manager landing screen.
type DashboardStats struct {
	Infrastructure struct {
		Zones  int `json:"parties_communes"`
		Meters int `json:"total_compteurs"`
	} `json:"infrastructure"`
	Community struct {
		Residents      int `json:"habitants"`
		TechnicalStaff int `json:"staff_technique"`
	} `json:"communaute"`
	Maintenance struct {
		OpenAlerts           int     `json:"alertes_ouvertes"`
		OngoingInterventions int     `json:"interventions_en_cours"`
		ResolutionRate       float64 `json:"taux_resolution"`
	} `json:"maintenance"`
}

// FetchDashboardStats fetches the KPI aggregate.
func (c *Client) FetchDashboardStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, pathDashboard, nil, &stats); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

// ReportConfig drives server-side report generation. Period and ZoneID are
// mandatory before a generate call is attempted.
type ReportConfig struct {
	Kind   string `json:"type_rapport"`
	Period string `json:"periode"`
	Format string `json:"format_export"`
	ZoneID int    `json:"partie_commune_id"`
}

// ReportHandle is the generate response: an opaque id for the later
// download call plus preview statistics.
type ReportHandle struct {
	Status       string             `json:"status"`
	ID           int                `json:"rapport_id"`
	PreviewStats map[string]float64 `json:"preview_stats"`
}

// GenerateReport asks the backend to compute and persist a report file.
func (c *Client) GenerateReport(ctx context.Context, cfg ReportConfig) (ReportHandle, error) {
	if cfg.Period == "" {
		return ReportHandle{}, errors.New("upstream: report period required")
	}
	if cfg.ZoneID <= 0 {
		return ReportHandle{}, errors.New("upstream: report zone required")
	}
	var handle ReportHandle
	if err := c.doJSON(ctx, http.MethodPost, pathReportGenerate, cfg, &handle); err != nil {
		return ReportHandle{}, err
	}
	return handle, nil
}

// DownloadReport streams the generated file. Returns payload and content
// type.
func (c *Client) DownloadReport(ctx context.Context, id int) ([]byte, string, error) {
	if id <= 0 {
		return nil, "", errors.New("upstream: report id required")
	}
	return c.doBinary(ctx, detailPath(pathReportDownload, id))
}
