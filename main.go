package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Linux-Alex/GraphLink/allowlist"
	"github.com/Linux-Alex/GraphLink/api"
	"github.com/Linux-Alex/GraphLink/config"
	"github.com/Linux-Alex/GraphLink/graph"
	"github.com/Linux-Alex/GraphLink/mailgateway"
	"github.com/Linux-Alex/GraphLink/models"
	rh "github.com/Linux-Alex/GraphLink/route-handlers"
)

const (
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func main() {
	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	setupLogging(cfg.Server)

	store, err := allowlist.NewStore(cfg.AzureAD.AllowedAccounts)
	if err != nil {
		slog.Error("Invalid allowed accounts", "path", cfgPath, "error", err)
		os.Exit(1)
	}

	cred := graph.Credential{
		TenantID:      cfg.AzureAD.TenantID,
		ClientID:      cfg.AzureAD.ClientID,
		ClientSecret:  cfg.AzureAD.ClientSecret,
		AuthorityHost: cfg.AzureAD.AuthorityHost,
	}
	httpClient, err := cred.HTTPClient(context.Background())
	if err != nil {
		slog.Error("Graph credential setup failed", "error", err)
		os.Exit(1)
	}
	graphClient := graph.NewClient(httpClient, cfg.AzureAD.GraphBaseURL)

	gateway := mailgateway.NewGateway(store, graphClient, graphClient)
	emailHandler := rh.NewEmailHandler(gateway)

	router := api.SetupRoutes(emailHandler, api.Options{
		APIKey:         cfg.Server.APIKey,
		APIKeyHeader:   cfg.Server.APIKeyHeader,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	slog.Info("Gateway configured",
		"accounts", len(store.Accounts()),
		"graph_base_url", cfg.AzureAD.GraphBaseURL,
		"api_key_header", cfg.Server.APIKeyHeader,
	)

	startServer(cfg.Server.Port, router)
}

func setupLogging(srv models.ServerConfig) {
	level, err := config.ParseLogLevel(srv.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func startServer(port string, router http.Handler) {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	<-shutdownSignal // Block until signal received
	slog.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}

	slog.Info("Server gracefully stopped")
}
