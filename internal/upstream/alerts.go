package upstream

import (
	"context"
	"errors"
	"net/http"
)

const (
	pathThresholds = "/api/alerts/seuils/"
	pathAlerts     = "/api/alerts/liste/"
)

// Threshold alert types.
const (
	AlertOverconsumption = "SURCONS"
	AlertReadingAnomaly  = "ANOMALIE_RELEVE"
)

// ThresholdRule is a per-meter, per-type limit the backend evaluates on
// every new reading. The backend enforces one rule per (meter, type);
// violations come back as a generic 400.
type ThresholdRule struct {
	ID             int     `json:"id,omitempty"`
	AlertType      string  `json:"type_alerte"`
	ThresholdValue float64 `json:"valeur_seuil"`
	MeterReference string  `json:"compteur_reference"`
}

// ListThresholdRules fetches all configured rules.
func (c *Client) ListThresholdRules(ctx context.Context) ([]ThresholdRule, error) {
	var rules []ThresholdRule
	if err := c.doJSON(ctx, http.MethodGet, pathThresholds, nil, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// CreateThresholdRule configures a limit for a meter.
func (c *Client) CreateThresholdRule(ctx context.Context, rule ThresholdRule) (ThresholdRule, error) {
	if rule.MeterReference == "" {
		return ThresholdRule{}, errors.New("upstream: rule meter reference required")
	}
	switch rule.AlertType {
	case AlertOverconsumption, AlertReadingAnomaly:
	default:
		return ThresholdRule{}, errors.New("upstream: unknown alert type " + rule.AlertType)
	}
	var created ThresholdRule
	if err := c.doJSON(ctx, http.MethodPost, pathThresholds, rule, &created); err != nil {
		return ThresholdRule{}, err
	}
	return created, nil
}

// UpdateThresholdRule replaces a rule.
func (c *Client) UpdateThresholdRule(ctx context.Context, id int, rule ThresholdRule) (ThresholdRule, error) {
	if id <= 0 {
		return ThresholdRule{}, errors.New("upstream: rule id required")
	}
	var updated ThresholdRule
	if err := c.doJSON(ctx, http.MethodPut, detailPath(pathThresholds, id), rule, &updated); err != nil {
		return ThresholdRule{}, err
	}
	return updated, nil
}

// DeleteThresholdRule removes a rule.
func (c *Client) DeleteThresholdRule(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, detailPath(pathThresholds, id), nil, nil)
}

// Alert is a backend-detected threshold violation. Read-only here.
type Alert struct {
	ID             int    `json:"id"`
	MeterReference string `json:"compteur_reference"`
	ThresholdType  string `json:"type_seuil"`
	Description    string `json:"description"`
	DetectionDate  string `json:"date_detection"`
	Handled        bool   `json:"est_traitee"`
}

// ListAlerts fetches detected alerts.
func (c *Client) ListAlerts(ctx context.Context) ([]Alert, error) {
	var alerts []Alert
	if err := c.doJSON(ctx, http.MethodGet, pathAlerts, nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}
