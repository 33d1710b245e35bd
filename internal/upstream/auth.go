package upstream

import (
	"context"
	"errors"
	"net/http"
)

const (
	pathObtainToken = "/api/users/auth/token/"
	pathProfileMe   = "/api/users/profile/me/"
)

// Credentials are the login form values.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ObtainToken exchanges credentials for a DRF token. The endpoint returns
// no role; role derivation happens in the session package.
func (c *Client) ObtainToken(ctx context.Context, creds Credentials) (string, error) {
	if creds.Username == "" || creds.Password == "" {
		return "", errors.New("upstream: username and password required")
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, pathObtainToken, creds, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("upstream: token endpoint returned no token")
	}
	return resp.Token, nil
}

// Profile is the self-profile record.
type Profile struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	Phone     string `json:"telephone"`
}

// ProfileUpdate carries editable profile fields. Password change requires
// both old and new values; omitting them leaves the password untouched.
type ProfileUpdate struct {
	Email       string `json:"email,omitempty"`
	LastName    string `json:"nom,omitempty"`
	FirstName   string `json:"prenom,omitempty"`
	Phone       string `json:"telephone,omitempty"`
	OldPassword string `json:"old_password,omitempty"`
	NewPassword string `json:"new_password,omitempty"`
}

// MyProfile fetches the authenticated user's profile.
func (c *Client) MyProfile(ctx context.Context) (Profile, error) {
	var profile Profile
	if err := c.doJSON(ctx, http.MethodGet, pathProfileMe, nil, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// UpdateMyProfile patches the authenticated user's profile. A wrong old
// password surfaces as an *APIError carrying the "old_password" field.
func (c *Client) UpdateMyProfile(ctx context.Context, update ProfileUpdate) (Profile, error) {
	if (update.OldPassword == "") != (update.NewPassword == "") {
		return Profile{}, errors.New("upstream: password change needs both old and new values")
	}
	var profile Profile
	if err := c.doJSON(ctx, http.MethodPatch, pathProfileMe, update, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}
