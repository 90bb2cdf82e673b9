package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/webstarter/internal/application"
	"github.com/eugenenazirov/webstarter/internal/config"
	"github.com/eugenenazirov/webstarter/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("webstarter", "Minimal production-shaped web service")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	environment := kingpinApp.Flag("env", "Deployment environment name (for example development or production)").String()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := buildOverrides(*configFile, *port, *environment)

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	switch {
	case cfg.FileError != nil:
		logger.Warn("config file not read, continuing with defaults", zap.Error(cfg.FileError))
	case cfg.FileUsed == "":
		logger.Warn("no config file found, continuing with defaults")
	default:
		logger.Info("configuration loaded", zap.String("file", cfg.FileUsed))
	}

	app := application.New(cfg, logger)

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.Server.ShutdownGracePeriod, logger)
}

func buildOverrides(configFile, port, environment string) *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile: configFile,
	}

	if port != "" {
		overrides.Port = &port
	}

	if environment != "" {
		overrides.Environment = &environment
	}

	return overrides
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
