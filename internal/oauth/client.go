package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dropDatabas3/holamaria/internal/metrics"
)

// DefaultTimeout bounds every outbound provider call. A slow provider
// fails the one callback that hit it, never unrelated requests.
const DefaultTimeout = 8 * time.Second

const maxProviderBody = 1 << 20 // 1MB

// Client performs the provider-facing half of the social login flow:
// the code-for-token exchange and the profile fetch. One instance
// serves all providers; per-provider request shapes come from the
// registry, not from code.
type Client struct {
	Registry *Registry
	HTTP     *http.Client
}

// NewClient returns a Client with a bounded-timeout http.Client.
func NewClient(reg *Registry) *Client {
	return &Client{
		Registry: reg,
		HTTP:     &http.Client{Timeout: DefaultTimeout},
	}
}

// Exchange trades an authorization code for an access token.
// The form body always carries grant_type, client_id, client_secret,
// redirect_uri and code; state is added when the provider requires it,
// and a Host header when the provider config names one.
func (c *Client) Exchange(ctx context.Context, providerID, code, state string) (string, error) {
	cfg, err := c.Registry.Get(providerID)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", cfg.GrantType)
	form.Set("client_id", cfg.ClientID)
	form.Set("client_secret", cfg.ClientSecret)
	form.Set("redirect_uri", cfg.RedirectURI)
	form.Set("code", code)
	if cfg.RequiresState {
		form.Set("state", state)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &ExchangeError{Provider: providerID, Cause: err}
	}
	req.Header.Set("Content-Type", cfg.ContentType)
	if cfg.TokenHost != "" {
		req.Host = cfg.TokenHost
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	metrics.ObserveProviderRequest(providerID, "token", time.Since(start))
	if err != nil {
		return "", &ExchangeError{Provider: providerID, Cause: err, Transport: true}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderBody))
	if err != nil {
		return "", &ExchangeError{Provider: providerID, Cause: err, Transport: true}
	}
	if resp.StatusCode/100 != 2 {
		return "", &ExchangeError{Provider: providerID, Cause: fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, truncate(body))}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", &ExchangeError{Provider: providerID, Cause: fmt.Errorf("non-JSON token response: %w", err)}
	}
	// A 2xx without access_token is still a malformed provider
	// response, never a silent empty token.
	if payload.AccessToken == "" {
		return "", &ExchangeError{Provider: providerID, Cause: fmt.Errorf("token response missing access_token")}
	}
	return payload.AccessToken, nil
}

// FetchProfile retrieves the raw, provider-shaped profile payload
// using the bearer token. The body is returned untouched; shaping is
// the normalizer's job.
func (c *Client) FetchProfile(ctx context.Context, providerID, accessToken string) (map[string]any, error) {
	cfg, err := c.Registry.Get(providerID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.ProfileEndpoint, nil)
	if err != nil {
		return nil, &ProfileError{Provider: providerID, Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	metrics.ObserveProviderRequest(providerID, "profile", time.Since(start))
	if err != nil {
		return nil, &ProfileError{Provider: providerID, Cause: err, Transport: true}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderBody))
	if err != nil {
		return nil, &ProfileError{Provider: providerID, Cause: err, Transport: true}
	}
	if resp.StatusCode/100 != 2 {
		return nil, &ProfileError{Provider: providerID, Cause: fmt.Errorf("profile endpoint returned %d: %s", resp.StatusCode, truncate(body))}
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ProfileError{Provider: providerID, Cause: fmt.Errorf("non-JSON profile response: %w", err)}
	}
	return raw, nil
}

func truncate(b []byte) string {
	const n = 200
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
