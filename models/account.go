package models

import "time"

// AllowedAccount is a mailbox the gateway may act on behalf of, together with
// the receiver patterns it may send to.
type AllowedAccount struct {
	Email            string   `json:"email" mapstructure:"email"`
	DisplayName      string   `json:"displayName" mapstructure:"displayName"`
	AllowedReceivers []string `json:"allowedReceivers" mapstructure:"allowedReceivers"`

	// Older configuration files spell the receivers key "AllowedRecivers".
	LegacyAllowedReceivers []string `json:"-" mapstructure:"allowedRecivers"`
}

// Receivers returns the configured receiver patterns, falling back to the
// legacy key when the current one is unset.
func (a AllowedAccount) Receivers() []string {
	if len(a.AllowedReceivers) > 0 {
		return a.AllowedReceivers
	}
	return a.LegacyAllowedReceivers
}

// AzureADConfig holds the identity exchange parameters and the allow-list.
type AzureADConfig struct {
	TenantID        string           `mapstructure:"tenantId"`
	ClientID        string           `mapstructure:"clientId"`
	ClientSecret    string           `mapstructure:"clientSecret"`
	RedirectURI     string           `mapstructure:"redirectUri"` // Informational; unused by the client credentials flow.
	AuthorityHost   string           `mapstructure:"authorityHost"`
	GraphBaseURL    string           `mapstructure:"graphBaseUrl"`
	AllowedAccounts []AllowedAccount `mapstructure:"allowedAccounts"`
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	APIKey         string        `mapstructure:"apiKey"`
	APIKeyHeader   string        `mapstructure:"apiKeyHeader"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
	LogLevel       string        `mapstructure:"logLevel"`
}

// AppConfig is the top-level configuration read once at startup.
type AppConfig struct {
	AzureAD AzureADConfig `mapstructure:"azureAD"`
	Server  ServerConfig  `mapstructure:"server"`
}
