// Package logger builds the structured zap logger shared by the binaries.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configures the zap logger.
type Config struct {
	Service     string
	Environment string
	Level       string
	Format      string
	// Output is a zap sink path; empty means stdout.
	Output string
}

// New builds a production zap logger.
func New(cfg Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = normalizeFormat(cfg.Format)
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stdout"}
	if out := strings.TrimSpace(cfg.Output); out != "" {
		zapCfg.OutputPaths = []string{out}
	}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	if zapCfg.Encoding == "console" {
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level := strings.TrimSpace(cfg.Level)
	if level == "" {
		level = "info"
	}
	if err := zapCfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	service := strings.TrimSpace(cfg.Service)
	if service == "" {
		service = "docrecon"
	}
	return logger.With(
		zap.String("service", service),
		zap.String("env", strings.TrimSpace(cfg.Environment)),
	), nil
}

func normalizeFormat(format string) string {
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		return "console"
	}
	return "json"
}
