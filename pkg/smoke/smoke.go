// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package smoke exercises an authentication backend end to end: a health
// check, account creation and a password login per test user.
package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultBaseURL is the local development backend
	DefaultBaseURL = "http://127.0.0.1:54321"
	// DefaultTimeout applies to every request
	DefaultTimeout = 10 * time.Second

	maxBodyInError = 200
)

var (
	ErrUnhealthy        = errors.Base("backend unhealthy")
	ErrUnexpectedStatus = errors.Base("unexpected status")
)

// 👤 User is one test account
type User struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data,omitempty"`
}

// DefaultUsers covers one account per role
var DefaultUsers = []User{
	{Email: "admin@cifpcarlos3.es", Password: "password123", Data: map[string]string{"name": "Administrador", "role": "admin"}},
	{Email: "maria.garcia@cifpcarlos3.es", Password: "password123", Data: map[string]string{"name": "María García", "role": "tutor"}},
	{Email: "carlos.lopez@alumno.cifpcarlos3.es", Password: "password123", Data: map[string]string{"name": "Carlos López", "role": "student"}},
}

// 🔑 Session is the token exchange response
type Session struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// 🌐 Client talks to the auth and REST endpoints of one backend
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout on a copy of the HTTP client, so
// a client shared through WithHTTPClient is left as is
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// 🏭 NewClient creates a client for baseURL authenticated with apiKey
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// 🩺 Health checks the REST root
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return errors.Errorf("building request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	if _, err := c.do(req, http.StatusOK); err != nil {
		return errors.Errorf("%w: %s", ErrUnhealthy, err.Error())
	}
	return nil
}

// 📝 SignUp creates the account
func (c *Client) SignUp(ctx context.Context, u User) error {
	req, err := c.jsonRequest(ctx, "/auth/v1/signup", u)
	if err != nil {
		return err
	}
	if _, err := c.do(req, http.StatusOK, http.StatusCreated); err != nil {
		return errors.Errorf("signing up %s: %w", u.Email, err)
	}
	return nil
}

// 🔐 SignIn exchanges credentials for a session
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	req, err := c.jsonRequest(ctx, "/auth/v1/token?grant_type=password", User{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	body, err := c.do(req, http.StatusOK)
	if err != nil {
		return nil, errors.Errorf("signing in %s: %w", email, err)
	}

	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, errors.Errorf("decoding session for %s: %w", email, err)
	}
	if s.AccessToken == "" {
		return nil, errors.Errorf("signing in %s: response has no access_token", email)
	}
	return &s, nil
}

func (c *Client) jsonRequest(ctx context.Context, path string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Errorf("encoding payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Errorf("building request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, ok ...int) ([]byte, error) {
	logger := zerolog.Ctx(req.Context())
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Errorf("reading response: %w", err)
	}
	logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("smoke request")

	for _, code := range ok {
		if resp.StatusCode == code {
			return body, nil
		}
	}
	return nil, errors.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, truncate(string(body), maxBodyInError))
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
