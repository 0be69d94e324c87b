/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"fmt"

	"github.com/tvmkit/tvmabi/pkg/config"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConfigFile is a flag for commands that take an optional tool
// configuration file.
var ConfigFile = cli.StringFlag{
	Name:  "config-file",
	Usage: "path to the tool configuration file",
}

// Debug is a flag for commands that allow debug logging.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (overrides configuration)",
}

// ABI is a flag naming the contract ABI file a command operates on.
var ABI = cli.StringFlag{
	Name:  "abi, a",
	Usage: "path to the contract ABI file (JSON)",
}

// Common is the flag set every codec command carries.
var Common = []cli.Flag{ABI, ConfigFile, Debug}

// GetConfigFromContext reads the tool configuration if the --config-file
// flag is given and returns the defaults otherwise.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	return config.Load(ctx.String("config-file"))
}

// HandleLoggingParams reads logging parameters.
// If a user selected debug level -- function enables it.
// If LogPath is configured -- log output goes to that file as well.
func HandleLoggingParams(debug bool, cfg config.ApplicationConfiguration) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if len(cfg.LogLevel) > 0 {
		var err error
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log setting: %w", err)
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
	if cfg.LogPath != "" {
		cc.OutputPaths = append(cc.OutputPaths, cfg.LogPath)
	}

	return cc.Build()
}
