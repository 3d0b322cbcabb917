package api

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wodsocial/wodsocial-go/internal/cache"
	"github.com/wodsocial/wodsocial-go/internal/domain"
)

// Token reads the stored bearer token and rejects it client-side when it
// is a JWT whose expiry has passed. Failing fast here saves a doomed
// round trip and gives the caller a precise error instead of a generic
// 401.
func (c *Client) Token(ctx context.Context) (string, error) {
	token, err := c.store.Get(ctx, cache.KeyAuthToken)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return "", domain.ErrNoToken
		}
		return "", err
	}
	if token == "" {
		return "", domain.ErrNoToken
	}

	if expired(token) {
		return "", domain.ErrExpiredToken
	}
	return token, nil
}

// expired inspects a JWT's exp claim without verifying the signature.
// Verification is the server's job; the client only wants to know if
// the session is already dead. Opaque tokens pass through untouched.
func expired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// SetToken stores a bearer token after login.
func (c *Client) SetToken(ctx context.Context, token string) error {
	return c.store.Set(ctx, cache.KeyAuthToken, token)
}

// ClearToken drops the stored session.
func (c *Client) ClearToken(ctx context.Context) error {
	return c.store.Remove(ctx, cache.KeyAuthToken)
}
