// Package api is the HTTP client for the Squad backend: authentication,
// token refresh, chat generation and the personality/squad registry.
//
// Transport failures are returned as wrapped errors from the underlying
// Doer; every received response is either decoded (2xx) or turned into a
// *StatusError, so callers can classify purely with errors.As.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiVersion = "v1"

// Endpoint paths, relative to the base URL.
const (
	loginPath         = "/api/" + apiVersion + "/auth/login"
	registerPath      = "/api/" + apiVersion + "/auth/register"
	refreshTokenPath  = "/api/" + apiVersion + "/auth/refresh-token"
	generatePath      = "/api/" + apiVersion + "/ai/generate"
	personalitiesPath = "/api/" + apiVersion + "/ai/personalities"
	squadsPath        = "/api/" + apiVersion + "/squads"
)

// DefaultTimeout bounds every request; a hung backend surfaces as a
// transport failure rather than a stuck caller.
const DefaultTimeout = 30 * time.Second

// Doer abstracts the HTTP transport so tests can substitute a stub.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to one Squad backend deployment.
type Client struct {
	baseURL string
	http    Doer
}

// New creates a client with its own http.Client and the given timeout
// (DefaultTimeout if zero).
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// NewWithDoer creates a client on a caller-provided transport.
func NewWithDoer(baseURL string, d Doer) *Client {
	return &Client{baseURL: baseURL, http: d}
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, loginPath, "", LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, registerPath, "", RegisterRequest{Email: email, Password: password, Name: name}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh mints a new access token from a refresh token. No bearer header:
// the refresh token itself is the credential.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenInfo, error) {
	var out TokenInfo
	err := c.do(ctx, http.MethodPost, refreshTokenPath, "", RefreshRequest{RefreshToken: refreshToken}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ── AI ───────────────────────────────────────────────────────────────────────

func (c *Client) Generate(ctx context.Context, token string, req *ChatRequest) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.do(ctx, http.MethodPost, generatePath, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Personalities(ctx context.Context, token string) ([]AIPersonality, error) {
	var out []AIPersonality
	if err := c.do(ctx, http.MethodGet, personalitiesPath, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Squads ───────────────────────────────────────────────────────────────────

func (c *Client) Squads(ctx context.Context, token string) ([]SquadInfo, error) {
	var out []SquadInfo
	if err := c.do(ctx, http.MethodGet, squadsPath, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSquad(ctx context.Context, token string, req *CreateSquadRequest) (*SquadInfo, error) {
	var out SquadInfo
	if err := c.do(ctx, http.MethodPost, squadsPath, token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Request plumbing ─────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("squad api: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("squad api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("squad api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("squad api: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: parseErrorBody(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// parseErrorBody best-effort parses {error, message}. A nil return means the
// body was not a recognizable error payload; the status code still rules.
func parseErrorBody(data []byte) *ErrorResponse {
	var body ErrorResponse
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" && body.Message == "" {
		return nil
	}
	return &body
}
