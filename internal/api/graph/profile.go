package graph

import (
	"context"
	"errors"
	"net/http"

	"github.com/julis-sh/mitgliederinfo/internal/api/rest"
	"github.com/julis-sh/mitgliederinfo/internal/model"
)

// FetchProfile returns the token owner's profile. Failures yield an empty
// profile.
func (c *Client) FetchProfile(ctx context.Context, token string) model.Profile {
	var p model.Profile
	if err := c.get(ctx, token, rest.Request{Method: http.MethodGet, Path: "me"}, &p); err != nil {
		c.logger.Warn("Graph client: failed to fetch profile", "error", err.Error())
		return model.Profile{}
	}
	return p
}

// FetchProfilePhoto returns the token owner's photo bytes, or nil when
// there is none or it cannot be fetched.
func (c *Client) FetchProfilePhoto(ctx context.Context, token string) []byte {
	var photo []byte
	err := c.get(ctx, token, rest.Request{Method: http.MethodGet, Path: "me/photo/$value", Accept: "image/*"}, &photo)
	if err != nil {
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
			c.logger.Warn("Graph client: failed to fetch profile photo", "error", err.Error())
		}
		return nil
	}
	if len(photo) == 0 {
		return nil
	}
	return photo
}
