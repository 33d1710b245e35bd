package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
)

const (
	pathZones        = "/api/consumption/parties-communes/"
	pathMeters       = "/api/consumption/compteurs/"
	pathReadings     = "/api/consumption/releves/"
	pathReadingEntry = "/api/consumption/releves/saisie/"
)

// Meter energy types as the backend spells them.
const (
	EnergyWater       = "EAU"
	EnergyElectricity = "ELECTRICITE"
)

// Zone is a common area of the building.
type Zone struct {
	ID          int     `json:"id,omitempty"`
	Name        string  `json:"nom"`
	SurfaceArea float64 `json:"surface"`
}

// ListZones fetches all common areas.
func (c *Client) ListZones(ctx context.Context) ([]Zone, error) {
	var zones []Zone
	if err := c.doJSON(ctx, http.MethodGet, pathZones, nil, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// CreateZone registers a common area.
func (c *Client) CreateZone(ctx context.Context, zone Zone) (Zone, error) {
	if zone.Name == "" {
		return Zone{}, errors.New("upstream: zone name required")
	}
	var created Zone
	if err := c.doJSON(ctx, http.MethodPost, pathZones, zone, &created); err != nil {
		return Zone{}, err
	}
	return created, nil
}

// UpdateZone replaces a common area.
func (c *Client) UpdateZone(ctx context.Context, id int, zone Zone) (Zone, error) {
	if id <= 0 {
		return Zone{}, errors.New("upstream: zone id required")
	}
	var updated Zone
	if err := c.doJSON(ctx, http.MethodPut, detailPath(pathZones, id), zone, &updated); err != nil {
		return Zone{}, err
	}
	return updated, nil
}

// DeleteZone removes a common area and, upstream, its meters.
func (c *Client) DeleteZone(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, detailPath(pathZones, id), nil, nil)
}

// Meter is an installed water or electricity meter. Reference is unique
// across the building. InstallDate is a plain date string.
type Meter struct {
	ID             int     `json:"id,omitempty"`
	Reference      string  `json:"reference"`
	ZoneID         int     `json:"partie_commune"`
	Location       string  `json:"localisation"`
	InstallDate    string  `json:"date_installation"`
	EnergyType     string  `json:"type_compteur"`
	State          string  `json:"etat_compteur"`
	AlertThreshold float64 `json:"seuil_alerte"`
	ZoneName       string  `json:"nom_zone,omitempty"`
}

// ListMeters fetches all meters.
func (c *Client) ListMeters(ctx context.Context) ([]Meter, error) {
	var meters []Meter
	if err := c.doJSON(ctx, http.MethodGet, pathMeters, nil, &meters); err != nil {
		return nil, err
	}
	return meters, nil
}

// CreateMeter installs a meter in a zone.
func (c *Client) CreateMeter(ctx context.Context, meter Meter) (Meter, error) {
	if meter.Reference == "" {
		return Meter{}, errors.New("upstream: meter reference required")
	}
	if meter.ZoneID <= 0 {
		return Meter{}, errors.New("upstream: meter zone required")
	}
	var created Meter
	if err := c.doJSON(ctx, http.MethodPost, pathMeters, meter, &created); err != nil {
		return Meter{}, err
	}
	return created, nil
}

// UpdateMeter replaces a meter record.
func (c *Client) UpdateMeter(ctx context.Context, id int, meter Meter) (Meter, error) {
	if id <= 0 {
		return Meter{}, errors.New("upstream: meter id required")
	}
	var updated Meter
	if err := c.doJSON(ctx, http.MethodPut, detailPath(pathMeters, id), meter, &updated); err != nil {
		return Meter{}, err
	}
	return updated, nil
}

// DeleteMeter removes a meter.
func (c *Client) DeleteMeter(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, detailPath(pathMeters, id), nil, nil)
}

// Reading is one logged meter value.
type Reading struct {
	ID             int     `json:"id"`
	MeterReference string  `json:"compteur_reference,omitempty"`
	Value          float64 `json:"valeur"`
	Timestamp      string  `json:"date_releve"`
	Comment        string  `json:"commentaire,omitempty"`
}

// ReadingEntry is the manual entry payload.
type ReadingEntry struct {
	MeterReference string  `json:"compteur_reference"`
	Value          float64 `json:"valeur"`
	Timestamp      string  `json:"date_releve"`
	Comment        string  `json:"commentaire,omitempty"`
}

// ReadingReceipt is what the entry endpoint returns. AlertGenerated is true
// when the submitted value crossed the meter's overconsumption threshold
// and the backend raised an alert as a side effect.
type ReadingReceipt struct {
	Message        string `json:"message"`
	ID             int    `json:"id"`
	AlertGenerated bool   `json:"alerte_generee"`
}

// ReadingQuery narrows the readings list server-side.
type ReadingQuery struct {
	MeterReference string
	ZoneID         int
}

// EnterReading records a manual reading. An unknown meter reference
// surfaces as an *APIError with the "compteur_reference" field.
func (c *Client) EnterReading(ctx context.Context, entry ReadingEntry) (ReadingReceipt, error) {
	if entry.MeterReference == "" {
		return ReadingReceipt{}, errors.New("upstream: meter reference required")
	}
	if entry.Timestamp == "" {
		return ReadingReceipt{}, errors.New("upstream: reading timestamp required")
	}
	var receipt ReadingReceipt
	if err := c.doJSON(ctx, http.MethodPost, pathReadingEntry, entry, &receipt); err != nil {
		return ReadingReceipt{}, err
	}
	return receipt, nil
}

// ListReadings fetches the readings log, optionally narrowed by meter
// reference or zone.
func (c *Client) ListReadings(ctx context.Context, query ReadingQuery) ([]Reading, error) {
	path := pathReadings
	params := url.Values{}
	if query.MeterReference != "" {
		params.Set("compteur", query.MeterReference)
	}
	if query.ZoneID > 0 {
		params.Set("zone_id", strconv.Itoa(query.ZoneID))
	}
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var readings []Reading
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &readings); err != nil {
		return nil, err
	}
	return readings, nil
}

// UpdateReading patches a logged reading and returns the stored record.
func (c *Client) UpdateReading(ctx context.Context, id int, value float64, comment string) (Reading, error) {
	if id <= 0 {
		return Reading{}, errors.New("upstream: reading id required")
	}
	body := map[string]any{"valeur": value, "commentaire": comment}
	var updated Reading
	if err := c.doJSON(ctx, http.MethodPatch, detailPath(pathReadings, id), body, &updated); err != nil {
		return Reading{}, err
	}
	return updated, nil
}

// DeleteReading removes a logged reading.
func (c *Client) DeleteReading(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, detailPath(pathReadings, id), nil, nil)
}
