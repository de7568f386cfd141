package oauth

import (
	"net/url"
	"strings"
)

// RedirectBuilder constructs the provider-specific authorize URL.
// Pure URL construction; the only side effect is minting a fresh state
// token for providers that require one.
type RedirectBuilder struct {
	Registry *Registry
	States   *StateSigner
}

// Build returns the authorize URL for the given provider.
// Base shape: {authorize_endpoint}?client_id=..&redirect_uri=..&response_type=code
// plus &scope=.. and &state=.. according to the provider config.
func (b *RedirectBuilder) Build(providerID string) (string, error) {
	cfg, err := b.Registry.Get(providerID)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("client_id", cfg.ClientID)
	q.Set("redirect_uri", cfg.RedirectURI)
	q.Set("response_type", "code")
	if cfg.Scope != "" {
		q.Set("scope", cfg.Scope)
	}
	if cfg.RequiresState {
		state, err := b.States.Sign(cfg.ID, cfg.ClientID)
		if err != nil {
			return "", err
		}
		q.Set("state", state)
	}

	sep := "?"
	if strings.Contains(cfg.AuthorizeEndpoint, "?") {
		sep = "&"
	}
	return cfg.AuthorizeEndpoint + sep + q.Encode(), nil
}
