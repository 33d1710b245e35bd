package screens

import (
	"context"
	"errors"

	"smartcopro-dashboard/internal/filter"
	"smartcopro-dashboard/internal/upstream"
)

// ClaimsBoard is the manager's claim-processing screen: the full claim
// list alongside the detected alerts feed.
type ClaimsBoard struct {
	client *upstream.Client
}

// NewClaimsBoard constructs the screen service.
func NewClaimsBoard(client *upstream.Client) (*ClaimsBoard, error) {
	if client == nil {
		return nil, errors.New("screens: nil upstream client")
	}
	return &ClaimsBoard{client: client}, nil
}

// ClaimsBoardData is the screen payload.
type ClaimsBoardData struct {
	Claims []upstream.Claim `json:"claims"`
	Alerts []upstream.Alert `json:"alerts"`
}

// Load fetches claims and alerts in parallel.
func (b *ClaimsBoard) Load(ctx context.Context, query string) (ClaimsBoardData, error) {
	var data ClaimsBoardData
	err := loadAll(ctx,
		func(ctx context.Context) error {
			claims, err := b.client.AllClaims(ctx)
			if err != nil {
				return err
			}
			data.Claims = claims
			return nil
		},
		func(ctx context.Context) error {
			alerts, err := b.client.ListAlerts(ctx)
			if err != nil {
				return err
			}
			data.Alerts = alerts
			return nil
		},
	)
	if err != nil {
		return ClaimsBoardData{}, err
	}
	data.Claims = filter.Narrow(data.Claims, query, func(claim upstream.Claim) []string {
		return []string{claim.Description, claim.Category}
	})
	return data, nil
}

// UpdateStatus moves a claim through its workflow.
func (b *ClaimsBoard) UpdateStatus(ctx context.Context, id int, status string) (upstream.Claim, error) {
	return b.client.UpdateClaimStatus(ctx, id, status)
}

// ResidentHome is the resident's screen: their own claims plus the claim
// submission form.
type ResidentHome struct {
	client *upstream.Client
}

// NewResidentHome constructs the screen service.
func NewResidentHome(client *upstream.Client) (*ResidentHome, error) {
	if client == nil {
		return nil, errors.New("screens: nil upstream client")
	}
	return &ResidentHome{client: client}, nil
}

// Load fetches the resident's claims, narrowed by the text query.
func (h *ResidentHome) Load(ctx context.Context, query string) ([]upstream.Claim, error) {
	claims, err := h.client.MyClaims(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Narrow(claims, query, func(claim upstream.Claim) []string {
		return []string{claim.Description, claim.Status}
	}), nil
}

// Submit files a new claim. Description and priority are required before
// any request goes out.
func (h *ResidentHome) Submit(ctx context.Context, draft upstream.ClaimDraft) (upstream.Claim, error) {
	if draft.Description == "" {
		return upstream.Claim{}, ErrMissingFields
	}
	if draft.Priority == "" {
		draft.Priority = upstream.PriorityMedium
	}
	return h.client.SubmitClaim(ctx, draft)
}

// ErrMissingFields reports a client-side precondition failure: required
// form fields are empty, so no request is attempted.
var ErrMissingFields = errors.New("screens: required fields missing")
