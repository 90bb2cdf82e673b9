package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// envPrefix is prepended to every environment override, so the key
	// "server.port" resolves from WEBSTARTER_SERVER_PORT.
	envPrefix = "WEBSTARTER"

	configName = "config"
	configType = "yaml"

	defaultEnvironment = "development"
	defaultPort        = "8080"
)

// configPaths lists the directories searched for the config file when no
// explicit path is given, in order.
var configPaths = []string{".", "./config", "/etc/webstarter"}

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > Environment variables > YAML config > Defaults
type Config struct {
	Environment string
	Server      ServerConfig
	RateLimit   RateLimitConfig

	EnableRequestLogging bool

	// FileUsed is the config file that was read, empty when the service
	// runs on defaults and environment variables alone.
	FileUsed string

	// FileError is the non-fatal error hit while searching for a config
	// file, kept so the caller can log a warning once a logger exists.
	FileError error
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port                string
	ReadHeaderTimeout   time.Duration
	WriteTimeout        time.Duration
	IdleTimeout         time.Duration
	ShutdownGracePeriod time.Duration
}

// RateLimitConfig holds the request rate limiter settings. Zero values
// disable the limiter.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile  string
	Port        *string
	Environment *string
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > Environment variables > YAML config > Defaults
//
// A config file named explicitly via overrides must be readable. A file
// that is merely absent from the search paths is not an error: the
// defaults carry the service, FileUsed stays empty, and FileError records
// only read failures of a file that was actually found.
func Load(overrides *CLIOverrides) (Config, error) {
	// .env values become plain environment variables before viper binds
	// them. The file is usually absent outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var fileErr error
	if overrides != nil && overrides.ConfigFile != "" {
		v.SetConfigFile(overrides.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", overrides.ConfigFile, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		for _, path := range configPaths {
			v.AddConfigPath(path)
		}
		fileErr = v.ReadInConfig()

		// Absence from the search paths is the normal case; only a file
		// that exists but cannot be read is worth a warning.
		var notFound viper.ConfigFileNotFoundError
		if errors.As(fileErr, &notFound) {
			fileErr = nil
		}
	}

	cfg := Config{
		Environment: v.GetString("environment"),
		Server: ServerConfig{
			Port:                v.GetString("server.port"),
			ReadHeaderTimeout:   v.GetDuration("server.read_header_timeout"),
			WriteTimeout:        v.GetDuration("server.write_timeout"),
			IdleTimeout:         v.GetDuration("server.idle_timeout"),
			ShutdownGracePeriod: v.GetDuration("server.shutdown_grace_period"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("rate_limit.rps"),
			Burst: v.GetInt("rate_limit.burst"),
		},
		EnableRequestLogging: v.GetBool("server.enable_request_logging"),
	}

	if fileErr == nil {
		cfg.FileUsed = v.ConfigFileUsed()
	} else {
		cfg.FileError = fileErr
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// setDefaults registers the default for every known key, which also lets
// AutomaticEnv resolve the matching environment variables.
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", defaultEnvironment)
	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_grace_period", 10*time.Second)
	v.SetDefault("server.enable_request_logging", true)
	v.SetDefault("rate_limit.rps", 25.0)
	v.SetDefault("rate_limit.burst", 50)
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Server.Port = *overrides.Port
	}

	if overrides.Environment != nil && *overrides.Environment != "" {
		cfg.Environment = *overrides.Environment
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Environment) == "" {
		return fmt.Errorf("environment cannot be empty")
	}
	if strings.TrimSpace(cfg.Server.Port) == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if cfg.RateLimit.RPS < 0 {
		return fmt.Errorf("rate_limit.rps must be >= 0")
	}
	if cfg.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit.burst must be >= 0")
	}
	if cfg.Server.ReadHeaderTimeout <= 0 ||
		cfg.Server.WriteTimeout <= 0 ||
		cfg.Server.IdleTimeout <= 0 ||
		cfg.Server.ShutdownGracePeriod <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	return nil
}
