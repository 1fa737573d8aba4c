package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hupe1980/researchmesh/core"
)

// Client talks to a GoTrue-style authentication service (as exposed by
// Supabase and compatible providers). It implements core.Verifier and adds
// email/password signup and signin.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// ClientOptions configure the auth client.
type ClientOptions struct {
	// HTTPClient overrides the default client (10s timeout).
	HTTPClient *http.Client
}

// NewClient constructs an auth client for the service at baseURL.
func NewClient(baseURL, apiKey string, optFns ...func(o *ClientOptions)) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Verify implements core.Verifier by asking the auth service to resolve a
// bearer token. An unauthorized token yields (nil, nil); transport or server
// failures yield an error.
func (c *Client) Verify(ctx context.Context, token string) (*core.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var user userResponse
		if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
			return nil, fmt.Errorf("auth decode failed: %w", err)
		}
		if user.ID == "" {
			return nil, nil
		}
		return &core.Identity{ID: user.ID, Email: user.Email}, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, nil
	default:
		return nil, fmt.Errorf("auth http %d", resp.StatusCode)
	}
}

// Session is the token pair returned by signup and signin.
type Session struct {
	User         core.Identity `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token,omitempty"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

// SignUp registers a new user with email and password. Providers with email
// confirmation disabled return a usable session immediately; otherwise the
// caller retries with SignIn after confirmation.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return c.tokenCall(ctx, "/auth/v1/signup", email, password)
}

// SignIn authenticates an existing user with email and password.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.tokenCall(ctx, "/auth/v1/token?grant_type=password", email, password)
}

func (c *Client) tokenCall(ctx context.Context, path, email, password string) (*Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth http %d", resp.StatusCode)
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("auth decode failed: %w", err)
	}
	if payload.User.ID == "" {
		return nil, errors.New("auth: response contains no user")
	}

	return &Session{
		User:         core.Identity{ID: payload.User.ID, Email: payload.User.Email},
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
	}, nil
}
