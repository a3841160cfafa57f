package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nspcc-dev/utreexo-go/cli/nodehash"
	"github.com/nspcc-dev/utreexo-go/cli/store"
	"github.com/nspcc-dev/utreexo-go/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "utreexo-go\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a utreexo-go instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "utreexo-go"
	ctl.Version = config.Version
	ctl.Usage = "Utreexo forest node hash tool"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, nodehash.NewCommands()...)
	ctl.Commands = append(ctl.Commands, store.NewCommands()...)
	return ctl
}
