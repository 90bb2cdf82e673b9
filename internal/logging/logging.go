// Package logging builds the process-wide zap logger. The encoding and
// verbosity follow the deployment environment: production gets JSON at
// Info, everything else gets a console encoder at Debug.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// productionEnvironment is the environment name that selects the
// production logging profile.
const productionEnvironment = "production"

// New creates a structured logger for the given deployment environment.
func New(environment string) (*zap.Logger, error) {
	var cfg zap.Config
	if environment == productionEnvironment {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.DisableStacktrace = false

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
