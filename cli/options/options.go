/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"fmt"

	"github.com/nspcc-dev/utreexo-go/pkg/accumulator"
	"github.com/nspcc-dev/utreexo-go/pkg/config"
	"github.com/nspcc-dev/utreexo-go/pkg/io"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConfigFile is a flag for commands that use the tool configuration.
var ConfigFile = cli.StringFlag{
	Name:  "config-file",
	Usage: "path to the configuration file",
	Value: config.DefaultConfigFile,
}

// RelativePath is a flag for commands that use the tool configuration and
// provide a prefix to all relative paths in config files.
var RelativePath = cli.StringFlag{
	Name:  "relative-path",
	Usage: "a prefix to all relative paths in the configuration file",
}

// Debug is a flag for commands that allow debug logging.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (LOTS of output, overrides configuration)",
}

// Config is a set of flags used by commands working with the node store.
var Config = []cli.Flag{ConfigFile, RelativePath, Debug}

// GetConfigFromContext loads the configuration file pointed to by the
// context flags.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	return config.LoadFile(ctx.String("config-file"), ctx.String("relative-path"))
}

// ParseNodeHash parses a node hash given on the command line. Besides
// 64-character hex digests it accepts "empty" and "placeholder" literals.
func ParseNodeHash(s string) (accumulator.NodeHash, error) {
	switch s {
	case "empty":
		return accumulator.Empty(), nil
	case "placeholder":
		return accumulator.Placeholder(), nil
	}
	return accumulator.DecodeString(s)
}

// HandleLoggingParams reads logging parameters.
// If a user selected debug level -- function enables it.
// If logPath is configured -- function creates a dir and a file for logging.
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
	cc.OutputPaths = []string{"stderr"}

	if logPath := cfg.LogPath; logPath != "" {
		if err := io.MakeDirForFile(logPath, "logger"); err != nil {
			return nil, nil, err
		}
		cc.OutputPaths = []string{logPath}
	}

	log, err := cc.Build()
	return log, &cc.Level, err
}
