package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/xcel/profile/internal/profileview"
)

const DefaultBaseURL = "https://xcel-back.onrender.com"

var _ profileview.Client = (*Client)(nil)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	// Message is the server's envelope message, when it sent one.
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.Code)
}

// Client talks to the profile API. Requests carry no timeout of their own;
// callers bound them through the context.
type Client struct {
	base string
	http *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func New(base string, opts ...Option) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.base }

// GetProfile fetches the profile the token belongs to. An empty body is
// reported as profileview.ErrProfileNotFound.
func (c *Client) GetProfile(ctx context.Context, token string) (profileview.Profile, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/profile", token, nil)
	if err != nil {
		return profileview.Profile{}, err
	}
	if isEmpty(body) {
		return profileview.Profile{}, profileview.ErrProfileNotFound
	}

	var p profileview.Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return profileview.Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	return p, nil
}

// UpdateProfile replaces the profile and returns what the server stored.
func (c *Client) UpdateProfile(ctx context.Context, token string, p profileview.Profile) (profileview.Profile, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return profileview.Profile{}, fmt.Errorf("failed to encode profile: %w", err)
	}

	body, err := c.do(ctx, http.MethodPut, "/api/profile", token, payload)
	if err != nil {
		return profileview.Profile{}, err
	}

	var out profileview.Profile
	if isEmpty(body) {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return profileview.Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	return out, nil
}

// Logout posts to the logout endpoint without credentials.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/logout", "", nil)
	return err
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}

	body, err := c.do(ctx, http.MethodPost, "/api/login", "", payload)
	if err != nil {
		return "", err
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return resp.Token, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode}
		var env struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &env) == nil {
			se.Message = env.Message
		}
		return nil, se
	}
	return data, nil
}

func isEmpty(body []byte) bool {
	b := bytes.TrimSpace(body)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}
