// Package logging builds the zap logger used by the CLI.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment selects the baseline logger profile.
type Environment string

const (
	EnvironmentProduction  Environment = "production"
	EnvironmentStaging     Environment = "staging"
	EnvironmentDevelopment Environment = "development"
	EnvironmentLocal       Environment = "local"
)

// Config controls logger construction. An empty Environment means production.
type Config struct {
	Environment Environment
	Level       string
}

func (c Config) environment() (Environment, error) {
	switch c.Environment {
	case "":
		return EnvironmentProduction, nil
	case EnvironmentProduction, EnvironmentStaging, EnvironmentDevelopment, EnvironmentLocal:
		return c.Environment, nil
	default:
		return "", fmt.Errorf("invalid environment %q", c.Environment)
	}
}

// New creates a JSON logger writing to w.
func New(cfg Config, w io.Writer) (*zap.Logger, error) {
	env, err := cfg.environment()
	if err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}

	level, err := resolveLevel(cfg.Level, env)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig(env)),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)

	var opts []zap.Option
	if isDevelopment(env) {
		opts = append(opts, zap.Development(), zap.AddCaller())
	}
	return zap.New(core, opts...), nil
}

func isDevelopment(env Environment) bool {
	return env == EnvironmentDevelopment || env == EnvironmentLocal
}

func resolveLevel(level string, env Environment) (zap.AtomicLevel, error) {
	if strings.TrimSpace(level) != "" {
		var parsed zapcore.Level
		if err := parsed.Set(level); err != nil {
			return zap.AtomicLevel{}, fmt.Errorf("invalid level %q: %w", level, err)
		}
		return zap.NewAtomicLevelAt(parsed), nil
	}

	if isDevelopment(env) {
		return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
	}
	return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
}

func encoderConfig(env Environment) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	if isDevelopment(env) {
		cfg = zap.NewDevelopmentEncoderConfig()
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}
