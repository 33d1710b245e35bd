package upstream

import (
	"context"
	"errors"
	"net/http"
)

const (
	pathResidents   = "/api/users/gestion-residents/"
	pathTechnicians = "/api/users/gestion-techniciens/"
)

// Person is a managed resident or technician account. Password is
// write-only: it never appears in list responses, and an update that omits
// it leaves the stored password unchanged.
type Person struct {
	ID        int    `json:"id,omitempty"`
	Email     string `json:"email"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	Phone     string `json:"telephone,omitempty"`
	Password  string `json:"password,omitempty"`
}

// ListResidents fetches all resident accounts.
func (c *Client) ListResidents(ctx context.Context) ([]Person, error) {
	return c.listPeople(ctx, pathResidents)
}

// CreateResident registers a resident account. Password is required.
func (c *Client) CreateResident(ctx context.Context, person Person) (Person, error) {
	return c.createPerson(ctx, pathResidents, person)
}

// UpdateResident replaces a resident account.
func (c *Client) UpdateResident(ctx context.Context, id int, person Person) (Person, error) {
	return c.updatePerson(ctx, pathResidents, id, person)
}

// DeleteResident removes a resident account.
func (c *Client) DeleteResident(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, detailPath(pathResidents, id), nil, nil)
}

// ListTechnicians fetches all technician accounts.
func (c *Client) ListTechnicians(ctx context.Context) ([]Person, error) {
	return c.listPeople(ctx, pathTechnicians)
}

// CreateTechnician registers a technician account. Password is required.
func (c *Client) CreateTechnician(ctx context.Context, person Person) (Person, error) {
	return c.createPerson(ctx, pathTechnicians, person)
}

// UpdateTechnician replaces a technician account.
func (c *Client) UpdateTechnician(ctx context.Context, id int, person Person) (Person, error) {
	return c.updatePerson(ctx, pathTechnicians, id, person)
}

// DeleteTechnician removes a technician account.
func (c *Client) DeleteTechnician(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, detailPath(pathTechnicians, id), nil, nil)
}

func (c *Client) listPeople(ctx context.Context, collection string) ([]Person, error) {
	var people []Person
	if err := c.doJSON(ctx, http.MethodGet, collection, nil, &people); err != nil {
		return nil, err
	}
	return people, nil
}

func (c *Client) createPerson(ctx context.Context, collection string, person Person) (Person, error) {
	if person.Email == "" {
		return Person{}, errors.New("upstream: person email required")
	}
	if person.Password == "" {
		return Person{}, errors.New("upstream: person password required on create")
	}
	var created Person
	if err := c.doJSON(ctx, http.MethodPost, collection, person, &created); err != nil {
		return Person{}, err
	}
	return created, nil
}

func (c *Client) updatePerson(ctx context.Context, collection string, id int, person Person) (Person, error) {
	if id <= 0 {
		return Person{}, errors.New("upstream: person id required")
	}
	var updated Person
	if err := c.doJSON(ctx, http.MethodPut, detailPath(collection, id), person, &updated); err != nil {
		return Person{}, err
	}
	return updated, nil
}
