package options

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tvmkit/tvmabi/pkg/config"
	"github.com/urfave/cli"
	"go.uber.org/zap/zapcore"
)

func TestGetConfigFromContext(t *testing.T) {
	set := flag.NewFlagSet("flagSet", flag.ExitOnError)
	set.String("config-file", "", "")
	ctx := cli.NewContext(cli.NewApp(), set, nil)
	cfg, err := GetConfigFromContext(ctx)
	require.NoError(t, err)
	require.Equal(t, config.Config{}, cfg)
}

func TestHandleLoggingParams(t *testing.T) {
	t.Run("bad level", func(t *testing.T) {
		_, err := HandleLoggingParams(false, config.ApplicationConfiguration{LogLevel: "shrieking"})
		require.Error(t, err)
	})

	t.Run("default", func(t *testing.T) {
		logger, err := HandleLoggingParams(false, config.ApplicationConfiguration{})
		require.NoError(t, err)
		require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("debug", func(t *testing.T) {
		logger, err := HandleLoggingParams(true, config.ApplicationConfiguration{LogLevel: "warn"})
		require.NoError(t, err)
		require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})
}
