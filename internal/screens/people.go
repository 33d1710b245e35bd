package screens

import (
	"context"
	"errors"

	"smartcopro-dashboard/internal/filter"
	"smartcopro-dashboard/internal/upstream"
)

// PeopleKind selects which roster a People screen manages.
type PeopleKind string

const (
	KindResidents   PeopleKind = "residents"
	KindTechnicians PeopleKind = "technicians"
)

// People is the manager's account-management screen, one instance per
// roster. Password semantics follow the upstream contract: required on
// create, omitted on update to leave it unchanged.
type People struct {
	client *upstream.Client
	kind   PeopleKind
}

// NewPeople constructs the screen service for one roster.
func NewPeople(client *upstream.Client, kind PeopleKind) (*People, error) {
	if client == nil {
		return nil, errors.New("screens: nil upstream client")
	}
	switch kind {
	case KindResidents, KindTechnicians:
	default:
		return nil, errors.New("screens: unknown people kind " + string(kind))
	}
	return &People{client: client, kind: kind}, nil
}

// Load fetches the roster, narrowed by name or email.
func (p *People) Load(ctx context.Context, query string) ([]upstream.Person, error) {
	var (
		people []upstream.Person
		err    error
	)
	if p.kind == KindResidents {
		people, err = p.client.ListResidents(ctx)
	} else {
		people, err = p.client.ListTechnicians(ctx)
	}
	if err != nil {
		return nil, err
	}
	return filter.Narrow(people, query, func(person upstream.Person) []string {
		return []string{person.LastName, person.FirstName, person.Email}
	}), nil
}

// Create registers an account; email and password are required before any
// request goes out.
func (p *People) Create(ctx context.Context, person upstream.Person) (upstream.Person, error) {
	if person.Email == "" || person.Password == "" {
		return upstream.Person{}, ErrMissingFields
	}
	if p.kind == KindResidents {
		return p.client.CreateResident(ctx, person)
	}
	return p.client.CreateTechnician(ctx, person)
}

// Update replaces an account. An empty password means "keep the stored
// one" and is stripped from the payload.
func (p *People) Update(ctx context.Context, id int, person upstream.Person) (upstream.Person, error) {
	if person.Email == "" {
		return upstream.Person{}, ErrMissingFields
	}
	if p.kind == KindResidents {
		return p.client.UpdateResident(ctx, id, person)
	}
	return p.client.UpdateTechnician(ctx, id, person)
}

// Delete removes an account.
func (p *People) Delete(ctx context.Context, id int) error {
	if p.kind == KindResidents {
		return p.client.DeleteResident(ctx, id)
	}
	return p.client.DeleteTechnician(ctx, id)
}
