package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	jwtscreen "github.com/jwtscreen/go-jwt-screen"
)

// Client talks to a live mischief issuer: it opens attack sessions over
// the admin API and fetches tokens from the token endpoint.
type Client struct {
	cfg           Config
	tokenEndpoint string
	httpClient    *http.Client
	logger        jwtscreen.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client used for every request.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets an optional structured logger.
func WithLogger(logger jwtscreen.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient validates the config and builds a Client. The token endpoint
// defaults to {issuer}/token until Discover is called.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:           cfg,
		tokenEndpoint: strings.TrimSuffix(cfg.IssuerURL, "/") + "/token",
		logger:        jwtscreen.NoopLogger{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return c, nil
}

// Discover replaces the default token endpoint with the one advertised in
// the issuer's discovery document.
func (c *Client) Discover(ctx context.Context) error {
	endpoints, err := FetchWellKnownEndpoints(ctx, c.httpClient, c.cfg.IssuerURL)
	if err != nil {
		return err
	}
	if endpoints.TokenEndpoint == "" {
		return fmt.Errorf("discovery document has no token_endpoint")
	}

	c.logger.Debug("discovered token endpoint", "endpoint", endpoints.TokenEndpoint)
	c.tokenEndpoint = endpoints.TokenEndpoint
	return nil
}

type sessionRequest struct {
	Name     string   `json:"name"`
	Mode     string   `json:"mode"`
	Mischief []string `json:"mischief"`
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
}

// CreateSession opens a mischief session configured with the given attack
// list and returns its id.
func (c *Client) CreateSession(ctx context.Context, name string, mischief []string) (string, error) {
	body, err := json.Marshal(sessionRequest{Name: name, Mode: "explicit", Mischief: mischief})
	if err != nil {
		return "", fmt.Errorf("could not encode session request: %w", err)
	}

	endpoint := strings.TrimSuffix(c.cfg.IssuerURL, "/") + "/admin/sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("session request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("session request failed with status %d", res.StatusCode)
	}

	var session sessionResponse
	if err := json.NewDecoder(res.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("could not decode session response: %w", err)
	}
	if session.SessionID == "" {
		return "", fmt.Errorf("session response has no session id")
	}

	c.logger.Debug("created mischief session", "name", name, "session", session.SessionID)
	return session.SessionID, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token requests an access token via the client_credentials grant. An
// empty sessionID requests a well-behaved token; otherwise the session
// header routes the request to the named mischief session.
func (c *Client) Token(ctx context.Context, sessionID string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("could not build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	if sessionID != "" {
		req.Header.Set(c.cfg.SessionHeader, sessionID)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("token request failed with status %d: %s", res.StatusCode, body)
	}

	var token tokenResponse
	if err := json.NewDecoder(res.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("could not decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token response has no access token")
	}

	return token.AccessToken, nil
}
