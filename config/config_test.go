package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

const fullJSON = `{
  "AzureAD": {
    "TenantId": "tenant-1",
    "ClientId": "client-1",
    "ClientSecret": "from-file",
    "RedirectUri": "https://localhost/signin-oidc",
    "AllowedAccounts": [
      {
        "Email": "alice@corp.com",
        "DisplayName": "Alice",
        "AllowedReceivers": ["*@corp.com", "bob@partner.com"]
      },
      {
        "Email": "ops@corp.com",
        "AllowedRecivers": ["*@ops.corp.com"]
      }
    ]
  },
  "Server": {
    "ApiKey": "file-key",
    "RequestTimeout": "30s"
  }
}`

// clearEnv isolates a test from variables the host may define.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GRAPHLINK_AZUREAD_TENANTID",
		"GRAPHLINK_AZUREAD_CLIENTID",
		"GRAPHLINK_AZUREAD_CLIENTSECRET",
		"GRAPHLINK_AZUREAD_AUTHORITYHOST",
		"GRAPHLINK_AZUREAD_GRAPHBASEURL",
		"GRAPHLINK_SERVER_PORT",
		"GRAPHLINK_SERVER_APIKEY",
		"GRAPHLINK_SERVER_APIKEYHEADER",
		"GRAPHLINK_SERVER_REQUESTTIMEOUT",
		"GRAPHLINK_SERVER_LOGLEVEL",
		"PORT",
		"LOG_LEVEL",
		PathEnv,
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "appsettings.json", fullJSON)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ad := cfg.AzureAD
	if ad.TenantID != "tenant-1" || ad.ClientID != "client-1" || ad.ClientSecret != "from-file" {
		t.Errorf("AzureAD = %+v", ad)
	}
	if ad.AuthorityHost != "https://login.microsoftonline.com" {
		t.Errorf("AuthorityHost = %q", ad.AuthorityHost)
	}
	if ad.GraphBaseURL != "https://graph.microsoft.com/v1.0" {
		t.Errorf("GraphBaseURL = %q", ad.GraphBaseURL)
	}
	if len(ad.AllowedAccounts) != 2 {
		t.Fatalf("AllowedAccounts = %+v", ad.AllowedAccounts)
	}
	alice := ad.AllowedAccounts[0]
	if alice.Email != "alice@corp.com" || alice.DisplayName != "Alice" {
		t.Errorf("first account = %+v", alice)
	}
	if want := []string{"*@corp.com", "bob@partner.com"}; !reflect.DeepEqual(alice.Receivers(), want) {
		t.Errorf("first account receivers = %v, want %v", alice.Receivers(), want)
	}
	if want := []string{"*@ops.corp.com"}; !reflect.DeepEqual(ad.AllowedAccounts[1].Receivers(), want) {
		t.Errorf("legacy receivers = %v, want %v", ad.AllowedAccounts[1].Receivers(), want)
	}

	srv := cfg.Server
	if srv.Port != "8080" || srv.APIKey != "file-key" || srv.APIKeyHeader != "X-API-KEY" {
		t.Errorf("Server = %+v", srv)
	}
	if srv.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %s", srv.RequestTimeout)
	}
	if srv.LogLevel != "info" {
		t.Errorf("LogLevel = %q", srv.LogLevel)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRAPHLINK_AZUREAD_CLIENTSECRET", "from-env")
	t.Setenv("GRAPHLINK_SERVER_APIKEY", "env-key")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	path := writeConfig(t, "appsettings.json", fullJSON)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AzureAD.ClientSecret != "from-env" {
		t.Errorf("ClientSecret = %q", cfg.AzureAD.ClientSecret)
	}
	if cfg.Server.APIKey != "env-key" {
		t.Errorf("APIKey = %q", cfg.Server.APIKey)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.Server.LogLevel)
	}
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "appsettings.yaml", `
azureAD:
  tenantId: t
  clientId: c
  clientSecret: s
  allowedAccounts:
    - email: alice@corp.com
      allowedReceivers: ["*@corp.com"]
server:
  apiKey: k
  port: "7000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "7000" || len(cfg.AzureAD.AllowedAccounts) != 1 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing azure section",
			content: `{"Server": {"ApiKey": "k"}}`,
			wantErr: ErrMissingSection.Error(),
		},
		{
			name:    "missing secret and api key",
			content: `{"AzureAD": {"TenantId": "t", "ClientId": "c"}}`,
			wantErr: "missing required settings: AzureAD.ClientSecret, Server.ApiKey",
		},
		{
			name:    "bad log level",
			content: `{"AzureAD": {"TenantId": "t", "ClientId": "c", "ClientSecret": "s"}, "Server": {"ApiKey": "k", "LogLevel": "chatty"}}`,
			wantErr: `invalid log level "chatty"`,
		},
		{
			name:    "malformed json",
			content: `{"AzureAD": `,
			wantErr: "reading config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeConfig(t, "appsettings.json", tt.content)

			cfg, err := Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
			if cfg != nil {
				t.Fatal("expected nil config on error")
			}
		})
	}
}

func TestLoadMissingFileUsesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRAPHLINK_AZUREAD_TENANTID", "t")
	t.Setenv("GRAPHLINK_AZUREAD_CLIENTID", "c")
	t.Setenv("GRAPHLINK_AZUREAD_CLIENTSECRET", "s")
	t.Setenv("GRAPHLINK_SERVER_APIKEY", "k")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AzureAD.TenantID != "t" || len(cfg.AzureAD.AllowedAccounts) != 0 {
		t.Errorf("AzureAD = %+v", cfg.AzureAD)
	}
}

func TestPath(t *testing.T) {
	t.Setenv(PathEnv, "")
	if got := Path(); got != DefaultPath {
		t.Errorf("Path() = %q", got)
	}
	t.Setenv(PathEnv, "/etc/graphlink/appsettings.yaml")
	if got := Path(); got != "/etc/graphlink/appsettings.yaml" {
		t.Errorf("Path() = %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}
