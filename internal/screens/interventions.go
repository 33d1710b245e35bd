package screens

import (
	"context"
	"errors"
	"strings"

	"smartcopro-dashboard/internal/filter"
	"smartcopro-dashboard/internal/upstream"
)

// Interventions is the manager's assignment screen: the intervention list
// joined with the technician roster and the open claims to assign.
type Interventions struct {
	client *upstream.Client
}

// NewInterventions constructs the screen service.
func NewInterventions(client *upstream.Client) (*Interventions, error) {
	if client == nil {
		return nil, errors.New("screens: nil upstream client")
	}
	return &Interventions{client: client}, nil
}

// InterventionsData is the screen payload.
type InterventionsData struct {
	Interventions []upstream.Intervention `json:"interventions"`
	Technicians   []upstream.Person       `json:"technicians"`
	Claims        []upstream.Claim        `json:"claims"`
}

// Load fetches the three collections in parallel. The query narrows
// interventions by technician full name.
func (i *Interventions) Load(ctx context.Context, query string) (InterventionsData, error) {
	var data InterventionsData
	err := loadAll(ctx,
		func(ctx context.Context) error {
			interventions, err := i.client.ListInterventions(ctx)
			if err != nil {
				return err
			}
			data.Interventions = interventions
			return nil
		},
		func(ctx context.Context) error {
			technicians, err := i.client.ListTechnicians(ctx)
			if err != nil {
				return err
			}
			data.Technicians = technicians
			return nil
		},
		func(ctx context.Context) error {
			claims, err := i.client.AllClaims(ctx)
			if err != nil {
				return err
			}
			data.Claims = claims
			return nil
		},
	)
	if err != nil {
		return InterventionsData{}, err
	}
	data.Interventions = filter.Narrow(data.Interventions, query, func(item upstream.Intervention) []string {
		return []string{strings.TrimSpace(item.TechnicianLastName + " " + item.TechnicianFirstName)}
	})
	return data, nil
}

// Assign creates an intervention; claim, technician and date are required
// before any request goes out.
func (i *Interventions) Assign(ctx context.Context, draft upstream.InterventionDraft) (upstream.Intervention, error) {
	if draft.ClaimID <= 0 || draft.TechnicianID <= 0 || draft.ScheduledAt == "" {
		return upstream.Intervention{}, ErrMissingFields
	}
	return i.client.CreateIntervention(ctx, draft)
}

// Remove deletes an assignment.
func (i *Interventions) Remove(ctx context.Context, id int) error {
	return i.client.DeleteIntervention(ctx, id)
}

// Planning is the technician's personal schedule screen.
type Planning struct {
	client *upstream.Client
}

// NewPlanning constructs the screen service.
func NewPlanning(client *upstream.Client) (*Planning, error) {
	if client == nil {
		return nil, errors.New("screens: nil upstream client")
	}
	return &Planning{client: client}, nil
}

// Load fetches the technician's own interventions. The query narrows by
// problem description.
func (p *Planning) Load(ctx context.Context, query string) ([]upstream.PlanningItem, error) {
	items, err := p.client.MyPlanning(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Narrow(items, query, func(item upstream.PlanningItem) []string {
		return []string{item.ProblemDescription, item.Priority}
	}), nil
}

// SubmitReport attaches the completion report; its presence is the sole
// "done" signal for an intervention.
func (p *Planning) SubmitReport(ctx context.Context, id int, scheduledAt, report string) (upstream.PlanningItem, error) {
	if report == "" {
		return upstream.PlanningItem{}, ErrMissingFields
	}
	return p.client.SubmitInterventionReport(ctx, id, scheduledAt, report)
}
