package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cwautomate-mcp-server/internal/application"
	"cwautomate-mcp-server/internal/domain"
	"cwautomate-mcp-server/internal/infrastructure"
	"cwautomate-mcp-server/internal/logging"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to configuration file (defaults to stdio with built-in settings)")
	envPath := flag.String("env", "", "Path to a dotenv file with CW_AUTOMATE_* credentials")
	flag.Parse()

	config, err := loadConfig(*configPath, *envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Config{
		Level:       config.Logging.Level,
		Development: config.Logging.Development,
		InitialFields: logging.Fields{
			"service": application.ServerName,
			"version": application.ServerVersion,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := domain.LoadEnvFile(config.EnvFile); err != nil {
		logger.Warn("could not load env file", logging.Fields{"path": config.EnvFile, "error": err.Error()})
	}

	if missing := domain.MissingCredentialKeys(os.Getenv); len(missing) > 0 {
		// Startup continues; tool calls report a configuration error until these are set.
		logger.Warn("Automate credentials are not configured", logging.Fields{"missing": missing})
	}

	router := buildRouter(config, logger)

	transport, err := newTransport(config, logger)
	if err != nil {
		logger.Error("failed to create transport", err)
		os.Exit(1)
	}

	server := application.NewServer(transport, router, config, logger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := server.Start(ctx); err != nil {
		logger.Error("server failed to start", err)
		os.Exit(1)
	}

	select {
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", logging.Fields{"signal": sig.String()})
	case <-server.Done():
		logger.Info("input closed, shutting down")
	}
	cancel()

	if err := server.Close(); err != nil {
		logger.Error("error during server shutdown", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}

// loadConfig reads the YAML file when one is given, otherwise returns the defaults.
// A non-empty envPath replaces the env_file setting.
func loadConfig(configPath, envPath string) (*domain.Config, error) {
	config := domain.DefaultConfig()
	if configPath != "" {
		loaded, err := domain.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if envPath != "" {
		config.EnvFile = envPath
	}

	return config, nil
}

// buildRouter wires the client cache, the domain registry and the optional navigator.
func buildRouter(config *domain.Config, logger *logging.Logger) *application.RequestRouter {
	timeout := config.Automate.Timeout()
	factory := func(creds domain.Credentials) (domain.AutomateClient, error) {
		return infrastructure.NewAutomateClient(creds, timeout, logger)
	}

	clients := application.NewClientCache(domain.GetCredentials, factory, logger)
	mapper := domain.NewResponseMapper()
	registry := application.NewDomainRegistry(clients, mapper, logger)

	var navigator *application.Navigator
	if config.Server.Navigation {
		navigator = application.NewNavigator(registry, mapper)
	}

	return application.NewRequestRouter(registry, clients, navigator, logger)
}

// newTransport creates the transport selected by the configuration.
func newTransport(config *domain.Config, logger *logging.Logger) (domain.Transport, error) {
	switch config.Transport.Type {
	case "stdio":
		return domain.NewStdioTransport(logger), nil
	case "http":
		return domain.NewHTTPTransport(config.Transport.HTTP.Host, config.Transport.HTTP.Port, logger), nil
	default:
		return nil, fmt.Errorf("invalid transport type: %s", config.Transport.Type)
	}
}
