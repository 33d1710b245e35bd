package screens

import (
	"context"
	"errors"

	"smartcopro-dashboard/internal/upstream"
)

// Reports is the manager's report screen: KPI cards, the two-step
// generate/download flow, and the zone list feeding the config form.
type Reports struct {
	client *upstream.Client
}

// NewReports constructs the screen service.
func NewReports(client *upstream.Client) (*Reports, error) {
	if client == nil {
		return nil, errors.New("screens: nil upstream client")
	}
	return &Reports{client: client}, nil
}

// ReportsData is the screen payload.
type ReportsData struct {
	Stats upstream.DashboardStats `json:"stats"`
	Zones []upstream.Zone         `json:"zones"`
}

// Load fetches KPI cards and the zone choices in parallel.
func (r *Reports) Load(ctx context.Context) (ReportsData, error) {
	var data ReportsData
	err := loadAll(ctx,
		func(ctx context.Context) error {
			stats, err := r.client.FetchDashboardStats(ctx)
			if err != nil {
				return err
			}
			data.Stats = stats
			return nil
		},
		func(ctx context.Context) error {
			zones, err := r.client.ListZones(ctx)
			if err != nil {
				return err
			}
			data.Zones = zones
			return nil
		},
	)
	if err != nil {
		return ReportsData{}, err
	}
	return data, nil
}

// Generate validates the config client-side — a non-empty period and a
// selected zone are required before the call is attempted — then asks the
// backend to compute the report.
func (r *Reports) Generate(ctx context.Context, cfg upstream.ReportConfig) (upstream.ReportHandle, error) {
	if cfg.Period == "" || cfg.ZoneID <= 0 {
		return upstream.ReportHandle{}, ErrMissingFields
	}
	if cfg.Kind == "" {
		cfg.Kind = "global"
	}
	if cfg.Format == "" {
		cfg.Format = "PDF"
	}
	return r.client.GenerateReport(ctx, cfg)
}

// Download streams the generated file for the handle obtained from
// Generate.
func (r *Reports) Download(ctx context.Context, id int) ([]byte, string, error) {
	return r.client.DownloadReport(ctx, id)
}
