package screens

import (
	"context"
	"errors"

	"smartcopro-dashboard/internal/filter"
	"smartcopro-dashboard/internal/upstream"
)

// Thresholds is the manager's alerting screen: the configured rules next
// to the meters they can apply to. The backend enforces one rule per
// (meter, type); a duplicate surfaces as a conflict message, not silently.
type Thresholds struct {
	client *upstream.Client
}

// NewThresholds constructs the screen service.
func NewThresholds(client *upstream.Client) (*Thresholds, error) {
	if client == nil {
		return nil, errors.New("screens: nil upstream client")
	}
	return &Thresholds{client: client}, nil
}

// ThresholdsData is the screen payload.
type ThresholdsData struct {
	Rules  []upstream.ThresholdRule `json:"rules"`
	Meters []upstream.Meter         `json:"meters"`
}

// Load fetches rules and meters in parallel. The query narrows rules by
// meter reference.
func (t *Thresholds) Load(ctx context.Context, query string) (ThresholdsData, error) {
	var data ThresholdsData
	err := loadAll(ctx,
		func(ctx context.Context) error {
			rules, err := t.client.ListThresholdRules(ctx)
			if err != nil {
				return err
			}
			data.Rules = rules
			return nil
		},
		func(ctx context.Context) error {
			meters, err := t.client.ListMeters(ctx)
			if err != nil {
				return err
			}
			data.Meters = meters
			return nil
		},
	)
	if err != nil {
		return ThresholdsData{}, err
	}
	data.Rules = filter.Narrow(data.Rules, query, func(rule upstream.ThresholdRule) []string {
		return []string{rule.MeterReference, rule.AlertType}
	})
	return data, nil
}

// CreateRule configures a limit; meter reference and type are required
// before any request goes out.
func (t *Thresholds) CreateRule(ctx context.Context, rule upstream.ThresholdRule) (upstream.ThresholdRule, error) {
	if rule.MeterReference == "" || rule.AlertType == "" {
		return upstream.ThresholdRule{}, ErrMissingFields
	}
	return t.client.CreateThresholdRule(ctx, rule)
}

// UpdateRule replaces a rule.
func (t *Thresholds) UpdateRule(ctx context.Context, id int, rule upstream.ThresholdRule) (upstream.ThresholdRule, error) {
	if rule.MeterReference == "" {
		return upstream.ThresholdRule{}, ErrMissingFields
	}
	return t.client.UpdateThresholdRule(ctx, id, rule)
}

// DeleteRule removes a rule.
func (t *Thresholds) DeleteRule(ctx context.Context, id int) error {
	return t.client.DeleteThresholdRule(ctx, id)
}
