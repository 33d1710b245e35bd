package upstream

import (
	"context"
	"errors"
	"net/http"
)

const (
	pathMyClaims      = "/api/claims/reclamations/"
	pathClaims        = "/api/claims/traitement/reclamations/"
	pathInterventions = "/api/claims/interventions/"
	pathMyPlanning    = "/api/claims/mon-planning/"
)

// Claim statuses as the backend spells them.
const (
	ClaimOpen       = "OUVERTE"
	ClaimInProgress = "EN_COURS"
	ClaimResolved   = "RESOLUE"
	ClaimRejected   = "REJETEE"
)

// Claim priorities.
const (
	PriorityLow      = "BASSE"
	PriorityMedium   = "MOYENNE"
	PriorityHigh     = "HAUTE"
	PriorityCritical = "CRITIQUE"
)

// Claim is a resident-submitted maintenance claim. Datetime fields are
// opaque display values; the gateway never computes on them.
type Claim struct {
	ID                int    `json:"id"`
	Description       string `json:"description"`
	Category          string `json:"type_reclamation"`
	Priority          string `json:"niveau_priorite"`
	Status            string `json:"statut"`
	SubmittedAt       string `json:"date_soumission"`
	ResidentLastName  string `json:"resident_nom,omitempty"`
	ResidentFirstName string `json:"resident_prenom,omitempty"`
}

// ClaimDraft is the resident submission payload. Status is always OUVERTE
// server-side; an unknown meter reference surfaces as an *APIError with the
// "compteur_reference" field.
type ClaimDraft struct {
	Description    string `json:"description"`
	Category       string `json:"type_reclamation"`
	Priority       string `json:"niveau_priorite"`
	MeterReference string `json:"compteur_reference,omitempty"`
}

// MyClaims lists the authenticated resident's own claims.
func (c *Client) MyClaims(ctx context.Context) ([]Claim, error) {
	var claims []Claim
	if err := c.doJSON(ctx, http.MethodGet, pathMyClaims, nil, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// SubmitClaim creates a claim on behalf of the authenticated resident.
func (c *Client) SubmitClaim(ctx context.Context, draft ClaimDraft) (Claim, error) {
	if draft.Description == "" {
		return Claim{}, errors.New("upstream: claim description required")
	}
	var created Claim
	if err := c.doJSON(ctx, http.MethodPost, pathMyClaims, draft, &created); err != nil {
		return Claim{}, err
	}
	return created, nil
}

// AllClaims lists every claim for manager processing.
func (c *Client) AllClaims(ctx context.Context) ([]Claim, error) {
	var claims []Claim
	if err := c.doJSON(ctx, http.MethodGet, pathClaims, nil, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// UpdateClaimStatus moves a claim through its workflow. Only the status is
// writable on the processing endpoint.
func (c *Client) UpdateClaimStatus(ctx context.Context, id int, status string) (Claim, error) {
	if id <= 0 {
		return Claim{}, errors.New("upstream: claim id required")
	}
	switch status {
	case ClaimOpen, ClaimInProgress, ClaimResolved, ClaimRejected:
	default:
		return Claim{}, errors.New("upstream: unknown claim status " + status)
	}
	body := map[string]string{"statut": status}
	var updated Claim
	if err := c.doJSON(ctx, http.MethodPatch, detailPath(pathClaims, id), body, &updated); err != nil {
		return Claim{}, err
	}
	return updated, nil
}

// Intervention is a technician assignment on a claim. A non-empty report
// is the completion signal.
type Intervention struct {
	ID                  int    `json:"id"`
	ClaimID             int    `json:"reclamation"`
	TechnicianID        int    `json:"technicien"`
	ScheduledAt         string `json:"date_intervention"`
	Report              string `json:"rapport,omitempty"`
	TechnicianLastName  string `json:"technicien_nom,omitempty"`
	TechnicianFirstName string `json:"technicien_prenom,omitempty"`
}

// InterventionDraft is the manager assignment payload. Creating one moves
// the claim to EN_COURS server-side.
type InterventionDraft struct {
	ClaimID      int    `json:"reclamation"`
	TechnicianID int    `json:"technicien"`
	ScheduledAt  string `json:"date_intervention"`
}

// ListInterventions lists all interventions for the manager view.
func (c *Client) ListInterventions(ctx context.Context) ([]Intervention, error) {
	var interventions []Intervention
	if err := c.doJSON(ctx, http.MethodGet, pathInterventions, nil, &interventions); err != nil {
		return nil, err
	}
	return interventions, nil
}

// CreateIntervention assigns a technician to a claim.
func (c *Client) CreateIntervention(ctx context.Context, draft InterventionDraft) (Intervention, error) {
	if draft.ClaimID <= 0 || draft.TechnicianID <= 0 {
		return Intervention{}, errors.New("upstream: claim and technician required")
	}
	if draft.ScheduledAt == "" {
		return Intervention{}, errors.New("upstream: intervention date required")
	}
	var created Intervention
	if err := c.doJSON(ctx, http.MethodPost, pathInterventions, draft, &created); err != nil {
		return Intervention{}, err
	}
	return created, nil
}

// DeleteIntervention removes an assignment.
func (c *Client) DeleteIntervention(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, detailPath(pathInterventions, id), nil, nil)
}

// PlanningItem is one entry of the technician's personal schedule, enriched
// with read-only claim context.
type PlanningItem struct {
	ID                 int    `json:"id"`
	ScheduledAt        string `json:"date_intervention"`
	Report             string `json:"rapport,omitempty"`
	ProblemDescription string `json:"probleme_description,omitempty"`
	Priority           string `json:"priorite,omitempty"`
	ClaimID            int    `json:"reclamation"`
}

// MyPlanning lists the authenticated technician's own interventions.
func (c *Client) MyPlanning(ctx context.Context) ([]PlanningItem, error) {
	var items []PlanningItem
	if err := c.doJSON(ctx, http.MethodGet, pathMyPlanning, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SubmitInterventionReport attaches the technician's report. The backend
// resolves the linked claim once the report is substantial.
func (c *Client) SubmitInterventionReport(ctx context.Context, id int, scheduledAt, report string) (PlanningItem, error) {
	if id <= 0 {
		return PlanningItem{}, errors.New("upstream: intervention id required")
	}
	if report == "" {
		return PlanningItem{}, errors.New("upstream: empty report")
	}
	body := map[string]string{"rapport": report}
	if scheduledAt != "" {
		body["date_intervention"] = scheduledAt
	}
	var updated PlanningItem
	if err := c.doJSON(ctx, http.MethodPatch, detailPath(pathMyPlanning, id), body, &updated); err != nil {
		return PlanningItem{}, err
	}
	return updated, nil
}
