package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
)

// WellKnownEndpoints holds the OIDC discovery fields the probe cares
// about.
type WellKnownEndpoints struct {
	Issuer        string `json:"issuer"`
	TokenEndpoint string `json:"token_endpoint"`
	JWKSURI       string `json:"jwks_uri"`
}

// FetchWellKnownEndpoints fetches .well-known/openid-configuration from
// the issuer.
func FetchWellKnownEndpoints(ctx context.Context, httpClient *http.Client, issuerURL string) (*WellKnownEndpoints, error) {
	parsed, err := url.Parse(issuerURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse issuer url: %w", err)
	}
	parsed.Path = path.Join(parsed.Path, ".well-known/openid-configuration")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not build discovery request: %w", err)
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not get well known endpoints from %s: %w", parsed, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery request failed with status %d", res.StatusCode)
	}

	var endpoints WellKnownEndpoints
	if err := json.NewDecoder(res.Body).Decode(&endpoints); err != nil {
		return nil, fmt.Errorf("could not decode discovery document: %w", err)
	}

	return &endpoints, nil
}
