// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

// OAuthClientConfig is the client registration request handed to the
// identity provider over the OAuth relation.
type OAuthClientConfig struct {
	RedirectURI string
	Scope       string
	GrantTypes  []string
}

// OAuthClientConfigFor returns the client registration derived from the
// external hostname, or nil when no hostname is configured and no client
// should be registered.
func OAuthClientConfigFor(cfg Config) *OAuthClientConfig {
	if cfg.ExternalHostname == "" {
		return nil
	}
	return &OAuthClientConfig{
		RedirectURI: redirectURI(cfg.ExternalHostname),
		Scope:       "openid profile email",
		GrantTypes:  []string{"authorization_code"},
	}
}
