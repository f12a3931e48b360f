// Package authclient is the session-guard side of the API: it persists the
// issued token behind an injectable store, attaches it to outgoing
// requests, drops it the moment the server rejects it, and gates
// navigation between protected and anonymous routes.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mkravets/agency_crm/pkg/tokens"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrSessionExpired     = errors.New("invalid or expired session")
	ErrForbidden          = errors.New("permission denied")
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
}

func NewClient(baseURL string, store TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Do sends the request with the stored token as a bearer credential unless
// the caller already set an Authorization header; explicit tokens always
// win over the ambient stored one. A 401 response clears the store before
// the response is returned.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") == "" {
		if tok := c.store.Get(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.store.Clear()
	}
	return resp, nil
}

// Login exchanges credentials for a token and persists it. The failure is
// deliberately generic; the server does not distinguish causes either.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return fmt.Errorf("marshal login: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed with status: %d", resp.StatusCode)
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if result.AccessToken == "" {
		return fmt.Errorf("login response missing token")
	}

	c.store.Set(result.AccessToken, time.Now().Add(tokens.SessionTTL))
	return nil
}

type Identity struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Profile resolves the stored session into the current identity.
func (c *Client) Profile(ctx context.Context) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrSessionExpired
	case http.StatusForbidden:
		return nil, ErrForbidden
	default:
		return nil, fmt.Errorf("profile failed with status: %d", resp.StatusCode)
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &identity, nil
}

// Logout clears the stored token no matter what the server says; a failed
// call still ends the local session. Idempotent.
func (c *Client) Logout(ctx context.Context) error {
	defer c.store.Clear()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	resp.Body.Close()
	return nil
}

// HasSession reports token presence only; validity is the server's call.
func (c *Client) HasSession() bool {
	return c.store.Get() != ""
}
