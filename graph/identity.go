package graph

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultAuthorityHost = "https://login.microsoftonline.com"
	DefaultBaseURL       = "https://graph.microsoft.com/v1.0"

	graphDefaultScope = "https://graph.microsoft.com/.default"
)

// Credential describes an app registration that authenticates with a client
// secret.
type Credential struct {
	TenantID      string
	ClientID      string
	ClientSecret  string
	AuthorityHost string // Defaults to DefaultAuthorityHost.
}

// TokenConfig returns the client credentials exchange for the tenant.
func (c Credential) TokenConfig() (*clientcredentials.Config, error) {
	if c.TenantID == "" || c.ClientID == "" || c.ClientSecret == "" {
		return nil, errors.New("tenant ID, client ID and client secret are required")
	}

	host := strings.TrimRight(c.AuthorityHost, "/")
	if host == "" {
		host = DefaultAuthorityHost
	}

	return &clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     host + "/" + url.PathEscape(c.TenantID) + "/oauth2/v2.0/token",
		Scopes:       []string{graphDefaultScope},
	}, nil
}

// HTTPClient returns an HTTP client that attaches and refreshes bearer tokens
// for the credential. ctx governs token requests, not API calls.
func (c Credential) HTTPClient(ctx context.Context) (*http.Client, error) {
	cfg, err := c.TokenConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Client(ctx), nil
}
