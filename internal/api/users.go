package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/internal/normalize"
	"github.com/wodsocial/wodsocial-go/internal/validator"
)

// Me fetches the logged-in user's raw payload. Raw on purpose: callers
// cache it verbatim under auth_me and normalize on read, so a later
// normalizer fix applies to already-cached data.
func (c *Client) Me(ctx context.Context) (map[string]any, error) {
	return c.getMap(ctx, "/usuarios/me")
}

// UpdateProfile saves profile edits and returns the server's normalized
// view of the profile.
func (c *Client) UpdateProfile(ctx context.Context, edit domain.ProfileEdit) (domain.Profile, error) {
	if err := validator.ValidateStruct(edit); err != nil {
		return domain.Profile{}, err
	}

	payload, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/usuarios/actualizar-perfil",
		body:   edit,
		authed: true,
	})
	if err != nil {
		return domain.Profile{}, err
	}
	return normalize.Profile(unwrapObject(payload), c.media), nil
}

// Followers lists the profiles following a user.
func (c *Client) Followers(ctx context.Context, profileID int64) ([]domain.Profile, error) {
	return c.profileList(ctx, fmt.Sprintf("/usuarios/%d/seguidores", profileID))
}

// Following lists the profiles a user follows.
func (c *Client) Following(ctx context.Context, profileID int64) ([]domain.Profile, error) {
	return c.profileList(ctx, fmt.Sprintf("/usuarios/%d/seguidos", profileID))
}

func (c *Client) profileList(ctx context.Context, path string) ([]domain.Profile, error) {
	payload, err := c.do(ctx, request{method: http.MethodGet, path: path, authed: true})
	if err != nil {
		return nil, err
	}

	items := unwrapList(payload)
	profiles := make([]domain.Profile, 0, len(items))
	for _, it := range items {
		raw, _ := it.(map[string]any)
		profiles = append(profiles, normalize.Profile(raw, c.media))
	}
	return profiles, nil
}

// Localities fetches the locality catalog.
func (c *Client) Localities(ctx context.Context) ([]domain.Locality, error) {
	payload, err := c.do(ctx, request{method: http.MethodGet, path: "/localidades", authed: true})
	if err != nil {
		return nil, err
	}

	items := unwrapList(payload)
	localities := make([]domain.Locality, 0, len(items))
	for _, it := range items {
		raw, _ := it.(map[string]any)
		localities = append(localities, normalize.Locality(raw))
	}
	return localities, nil
}
