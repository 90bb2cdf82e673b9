package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/webstarter/internal/logging"
	"github.com/eugenenazirov/webstarter/internal/watcher"
)

// defaultConfigFile is picked up from the working directory when present.
const defaultConfigFile = "devwatch.yaml"

func main() {
	kingpinApp := kingpin.New("devwatch", "Development auto-restart daemon - reruns a command when source files change")
	configFile := kingpinApp.Flag("config", "Path to devwatch YAML configuration file").String()
	command := kingpinApp.Flag("command", "Command to run and restart").String()
	roots := kingpinApp.Flag("root", "Directory tree to watch (repeatable)").Strings()
	debounce := kingpinApp.Flag("debounce", "Quiet period before restarting").Duration()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	cfg, err := watcher.LoadConfig(resolveConfigPath(*configFile))
	if err != nil {
		panic(fmt.Sprintf("failed to load watcher configuration: %v", err))
	}

	if *command != "" {
		cfg.Command = *command
	}
	if len(*roots) > 0 {
		cfg.Roots = *roots
	}
	if *debounce > 0 {
		cfg.Debounce = *debounce
	}

	// A watched rebuild loop is a development tool, so the verbose profile
	// is the right one unconditionally.
	logger, err := logging.New("development")
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	w, err := watcher.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize watcher", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("watching for changes",
		zap.Strings("roots", cfg.Roots),
		zap.String("command", cfg.Command),
		zap.Duration("debounce", cfg.Debounce),
	)

	if err := w.Run(ctx); err != nil {
		logger.Fatal("watcher failed", zap.Error(err))
	}
	logger.Info("devwatch stopped")
}

// resolveConfigPath returns the explicit path when given, otherwise
// devwatch.yaml from the working directory when it exists.
func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}
