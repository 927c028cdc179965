/*
Package options contains the global CLI flags and helpers to turn them into
configuration, loggers and contexts.
*/
package options

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JaechanAnUMD/merkletree-demo/config"
)

// ConfigFile points to a YAML configuration file.
var ConfigFile = &cli.StringFlag{
	Name:  "config-file",
	Usage: "path to the configuration file (built-in defaults are used when omitted)",
}

// Debug forces debug logging.
var Debug = &cli.BoolFlag{
	Name:    "debug",
	Aliases: []string{"d"},
	Usage:   "enable debug logging (overrides configuration)",
}

// GetConfigFromContext loads the file given with --config-file or returns
// the default configuration.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	if path := ctx.String(ConfigFile.Name); path != "" {
		return config.Load(path)
	}
	return config.Default(), nil
}

// HandleLoggingParams builds a logger from the configured level and log
// path. debug overrides the configured level. Log files are written to
// LogPath, creating its directory if needed.
func HandleLoggingParams(debug bool, cfg config.ApplicationConfiguration) (*zap.Logger, *zap.AtomicLevel, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(cfg.LogLevel) > 0 {
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil

	if logPath := cfg.LogPath; logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("could not create dir for logger: %w", err)
		}
		cc.OutputPaths = []string{logPath}
	}

	log, err := cc.Build()
	if err != nil {
		return nil, nil, err
	}
	return log, &cc.Level, nil
}

// Setup is the common prologue of every command: configuration followed
// by the logger.
func Setup(ctx *cli.Context) (config.Config, *zap.Logger, error) {
	cfg, err := GetConfigFromContext(ctx)
	if err != nil {
		return config.Config{}, nil, cli.Exit(err, 1)
	}
	log, _, err := HandleLoggingParams(ctx.Bool(Debug.Name), cfg.ApplicationConfiguration)
	if err != nil {
		return config.Config{}, nil, cli.Exit(err, 1)
	}
	return cfg, log, nil
}

// GetTimeoutContext returns a context bounded by the configured prove
// timeout. A zero timeout means no bound.
func GetTimeoutContext(ctx *cli.Context, cfg config.Config) (context.Context, context.CancelFunc) {
	if cfg.Attestation.Timeout == 0 {
		return context.WithCancel(ctx.Context)
	}
	return context.WithTimeout(ctx.Context, cfg.Attestation.Timeout)
}
