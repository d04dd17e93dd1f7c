// Package authapi talks to the hosted auth provider's REST endpoint to
// resolve "who is calling" from an access token. Absence of a login is a
// normal state for the shared forecourt device, so callers treat any
// resolution failure as anonymous rather than fatal.
package authapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Thyago-vibe/posto-mobile/internal/config"
	"github.com/Thyago-vibe/posto-mobile/internal/service/closing"
)

// Client is a resty-backed implementation of the identity provider.
type Client struct {
	httpClient *resty.Client
}

// NewClient builds an auth API client from the configured base URL and
// project API key. Returns nil when no auth endpoint is configured, which
// callers must treat as "always anonymous".
func NewClient(cfg config.AuthConfig) *Client {
	if cfg.BaseURL == "" {
		return nil
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("apikey", cfg.APIKey).
		SetTimeout(10 * time.Second)

	return &Client{httpClient: restyClient}
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type apiError struct {
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

// ResolveIdentity verifies the access token against the auth API and
// returns the login identity behind it.
func (c *Client) ResolveIdentity(ctx context.Context, accessToken string) (*closing.Identity, error) {
	result := new(userResponse)
	authErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+accessToken).
		SetResult(result).
		SetError(authErr).
		Get("/auth/v1/user")
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if resp.IsError() {
		msg := authErr.Message
		if msg == "" {
			msg = authErr.Msg
		}
		if msg == "" {
			msg = resp.Status()
		}
		return nil, fmt.Errorf("resolve identity: %s", msg)
	}
	if result.ID == "" {
		return nil, fmt.Errorf("resolve identity: empty user in response")
	}

	return &closing.Identity{UserID: result.ID, Email: result.Email}, nil
}
