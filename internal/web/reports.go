package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"smartcopro-dashboard/internal/export"
	"smartcopro-dashboard/internal/upstream"
)

// handleReports serves the report screen data and launches generation.
// Generation is a two-step flow: the POST returns a handle with preview
// statistics, the download endpoint streams the finished file.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		data, err := s.reports.Load(r.Context())
		if err != nil {
			s.failure(w, r, err, "Error loading report data")
			return
		}
		writeData(w, data)
	case http.MethodPost:
		var cfg upstream.ReportConfig
		if err := decodeBody(r, &cfg); err != nil {
			writeJSON(w, http.StatusBadRequest, nil, &Toast{Level: ToastError, Message: "Invalid request body"})
			return
		}
		handle, err := s.reports.Generate(r.Context(), cfg)
		s.record(r.Context(), r, "generate", "report", "", err)
		if err != nil {
			s.failure(w, r, err, "Error generating report")
			return
		}
		writeSuccess(w, http.StatusAccepted, handle, "Report generated successfully")
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleReportItem streams a generated report: GET /syndic/reports/{id}/download.
func (s *Server) handleReportItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/syndic/reports/")
	idPart, action, found := strings.Cut(strings.TrimSuffix(rest, "/"), "/")
	if !found || action != "download" {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.Atoi(idPart)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, contentType, err := s.reports.Download(r.Context(), id)
	s.record(r.Context(), r, "download", "report", idPart, err)
	if err != nil {
		s.failure(w, r, err, "Error downloading report")
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename(id, contentType)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func reportFilename(id int, contentType string) string {
	ext := "pdf"
	if strings.Contains(contentType, "spreadsheet") || strings.Contains(contentType, "excel") {
		ext = "xlsx"
	}
	return fmt.Sprintf("rapport-%d.%s", id, ext)
}

// handleExportReadings builds a spreadsheet of the current readings on the
// gateway itself, without a report round trip upstream.
func (s *Server) handleExportReadings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	listQuery := upstream.ReadingQuery{MeterReference: r.URL.Query().Get("compteur")}
	readings, err := s.client.ListReadings(r.Context(), listQuery)
	if err != nil {
		s.failure(w, r, err, "Error exporting readings")
		return
	}
	body, err := export.BuildReadingsXLSX(readings)
	if err != nil {
		s.failure(w, r, err, "Error exporting readings")
		return
	}
	s.record(r.Context(), r, "export", "readings", "", nil)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="releves.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// handleExportAlerts builds a PDF summary of detected alerts.
func (s *Server) handleExportAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	alerts, err := s.client.ListAlerts(r.Context())
	if err != nil {
		s.failure(w, r, err, "Error exporting alerts")
		return
	}
	body, err := export.BuildAlertsPDF(alerts)
	if err != nil {
		s.failure(w, r, err, "Error exporting alerts")
		return
	}
	s.record(r.Context(), r, "export", "alerts", "", nil)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="alertes.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
