package screens

import (
	"context"
	"errors"

	"smartcopro-dashboard/internal/upstream"
)

// ProfileScreen is the shared self-profile screen, including the password
// change flow with its old-password check.
type ProfileScreen struct {
	client *upstream.Client
}

// NewProfileScreen constructs the screen service.
func NewProfileScreen(client *upstream.Client) (*ProfileScreen, error) {
	if client == nil {
		return nil, errors.New("screens: nil upstream client")
	}
	return &ProfileScreen{client: client}, nil
}

// Load fetches the authenticated user's profile.
func (p *ProfileScreen) Load(ctx context.Context) (upstream.Profile, error) {
	return p.client.MyProfile(ctx)
}

// Update patches the profile. A password change needs both old and new
// values; a wrong old password comes back as an *APIError with the
// "old_password" field, which the web layer turns into the specific toast.
func (p *ProfileScreen) Update(ctx context.Context, update upstream.ProfileUpdate) (upstream.Profile, error) {
	if (update.OldPassword == "") != (update.NewPassword == "") {
		return upstream.Profile{}, ErrMissingFields
	}
	return p.client.UpdateMyProfile(ctx, update)
}
