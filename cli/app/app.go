package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/tvmkit/tvmabi/cli/codec"
	"github.com/tvmkit/tvmabi/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "TVMABI\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a tvmabi instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "tvmabi"
	ctl.Version = config.Version
	ctl.Usage = "TVM contract ABI message codec"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, codec.NewCommands()...)
	return ctl
}
