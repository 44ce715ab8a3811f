// Package config loads the gateway settings from appsettings.json (or YAML)
// with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Linux-Alex/GraphLink/graph"
	"github.com/Linux-Alex/GraphLink/models"
	"github.com/Linux-Alex/GraphLink/webutil"
)

const (
	DefaultPath = "appsettings.json"
	PathEnv     = "GRAPHLINK_CONFIG"
	envPrefix   = "GRAPHLINK"

	defaultPort           = "8080"
	defaultRequestTimeout = 60 * time.Second
	defaultLogLevel       = "info"
)

// ErrMissingSection is returned when the AzureAD section is absent.
var ErrMissingSection = errors.New("AzureAD configuration section is missing")

// Path returns the config file to read: GRAPHLINK_CONFIG when set,
// otherwise appsettings.json in the working directory.
func Path() string {
	if p := strings.TrimSpace(os.Getenv(PathEnv)); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the configuration at path. A .env file in the working directory
// is loaded into the environment first. A missing config file is tolerated
// so that everything but the account list can come from the environment.
func Load(path string) (*models.AppConfig, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("azuread.authorityhost", graph.DefaultAuthorityHost)
	v.SetDefault("azuread.graphbaseurl", graph.DefaultBaseURL)
	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.apikeyheader", webutil.HeaderAPIKey)
	v.SetDefault("server.requesttimeout", defaultRequestTimeout)
	v.SetDefault("server.loglevel", defaultLogLevel)

	// Keys absent from the file are only picked up from the environment
	// when bound explicitly.
	bindings := map[string][]string{
		"azuread.tenantid":      {"GRAPHLINK_AZUREAD_TENANTID"},
		"azuread.clientid":      {"GRAPHLINK_AZUREAD_CLIENTID"},
		"azuread.clientsecret":  {"GRAPHLINK_AZUREAD_CLIENTSECRET"},
		"azuread.authorityhost": {"GRAPHLINK_AZUREAD_AUTHORITYHOST"},
		"azuread.graphbaseurl":  {"GRAPHLINK_AZUREAD_GRAPHBASEURL"},
		"server.port":           {"GRAPHLINK_SERVER_PORT", "PORT"},
		"server.apikey":         {"GRAPHLINK_SERVER_APIKEY"},
		"server.loglevel":       {"GRAPHLINK_SERVER_LOGLEVEL", "LOG_LEVEL"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		slog.Warn("Config file not found, using environment only", "path", path)
	}

	cfg := &models.AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func validate(cfg *models.AppConfig) error {
	ad := &cfg.AzureAD
	if ad.TenantID == "" && ad.ClientID == "" && ad.ClientSecret == "" && len(ad.AllowedAccounts) == 0 {
		return ErrMissingSection
	}

	var missing []string
	if ad.TenantID == "" {
		missing = append(missing, "AzureAD.TenantId")
	}
	if ad.ClientID == "" {
		missing = append(missing, "AzureAD.ClientId")
	}
	if ad.ClientSecret == "" {
		missing = append(missing, "AzureAD.ClientSecret")
	}
	if cfg.Server.APIKey == "" {
		missing = append(missing, "Server.ApiKey")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	if cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("Server.RequestTimeout must be positive, got %s", cfg.Server.RequestTimeout)
	}
	if _, err := ParseLogLevel(cfg.Server.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps a level name such as "debug" or "WARN" to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
