package screens

import (
	"context"
	"errors"

	"smartcopro-dashboard/internal/filter"
	"smartcopro-dashboard/internal/upstream"
)

// Infrastructure is the manager's zones-and-meters screen.
type Infrastructure struct {
	client *upstream.Client
}

// NewInfrastructure constructs the screen service.
func NewInfrastructure(client *upstream.Client) (*Infrastructure, error) {
	if client == nil {
		return nil, errors.New("screens: nil upstream client")
	}
	return &Infrastructure{client: client}, nil
}

// ZoneRow is a zone with its meter count, the way the screen displays it.
type ZoneRow struct {
	upstream.Zone
	MeterCount int `json:"meter_count"`
}

// InfrastructureData is the screen payload.
type InfrastructureData struct {
	Zones  []ZoneRow        `json:"zones"`
	Meters []upstream.Meter `json:"meters"`
}

// Load fetches zones and meters in parallel and derives per-zone meter
// counts. The query narrows meters by reference or location.
func (i *Infrastructure) Load(ctx context.Context, query string) (InfrastructureData, error) {
	var (
		zones  []upstream.Zone
		meters []upstream.Meter
	)
	err := loadAll(ctx,
		func(ctx context.Context) error {
			fetched, err := i.client.ListZones(ctx)
			if err != nil {
				return err
			}
			zones = fetched
			return nil
		},
		func(ctx context.Context) error {
			fetched, err := i.client.ListMeters(ctx)
			if err != nil {
				return err
			}
			meters = fetched
			return nil
		},
	)
	if err != nil {
		return InfrastructureData{}, err
	}

	counts := make(map[int]int, len(zones))
	for _, meter := range meters {
		counts[meter.ZoneID]++
	}
	rows := make([]ZoneRow, 0, len(zones))
	for _, zone := range zones {
		rows = append(rows, ZoneRow{Zone: zone, MeterCount: counts[zone.ID]})
	}

	return InfrastructureData{
		Zones: rows,
		Meters: filter.Narrow(meters, query, func(meter upstream.Meter) []string {
			return []string{meter.Reference, meter.Location}
		}),
	}, nil
}

// Meters fetches the meter list alone, narrowed by reference or location.
// Used by the meters screen, which has no need for the zone join.
func (i *Infrastructure) Meters(ctx context.Context, query string) ([]upstream.Meter, error) {
	meters, err := i.client.ListMeters(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Narrow(meters, query, func(meter upstream.Meter) []string {
		return []string{meter.Reference, meter.Location}
	}), nil
}

// CreateZone registers a common area.
func (i *Infrastructure) CreateZone(ctx context.Context, zone upstream.Zone) (upstream.Zone, error) {
	if zone.Name == "" {
		return upstream.Zone{}, ErrMissingFields
	}
	return i.client.CreateZone(ctx, zone)
}

// UpdateZone replaces a common area.
func (i *Infrastructure) UpdateZone(ctx context.Context, id int, zone upstream.Zone) (upstream.Zone, error) {
	if zone.Name == "" {
		return upstream.Zone{}, ErrMissingFields
	}
	return i.client.UpdateZone(ctx, id, zone)
}

// DeleteZone removes a common area.
func (i *Infrastructure) DeleteZone(ctx context.Context, id int) error {
	return i.client.DeleteZone(ctx, id)
}

// CreateMeter installs a meter.
func (i *Infrastructure) CreateMeter(ctx context.Context, meter upstream.Meter) (upstream.Meter, error) {
	if meter.Reference == "" || meter.ZoneID <= 0 {
		return upstream.Meter{}, ErrMissingFields
	}
	return i.client.CreateMeter(ctx, meter)
}

// UpdateMeter replaces a meter record.
func (i *Infrastructure) UpdateMeter(ctx context.Context, id int, meter upstream.Meter) (upstream.Meter, error) {
	if meter.Reference == "" {
		return upstream.Meter{}, ErrMissingFields
	}
	return i.client.UpdateMeter(ctx, id, meter)
}

// DeleteMeter removes a meter.
func (i *Infrastructure) DeleteMeter(ctx context.Context, id int) error {
	return i.client.DeleteMeter(ctx, id)
}
