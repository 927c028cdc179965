package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/JaechanAnUMD/merkletree-demo/cli/options"
	"github.com/JaechanAnUMD/merkletree-demo/cli/tree"
	"github.com/JaechanAnUMD/merkletree-demo/cli/zk"
)

// Version is set at build time.
var Version = "dev"

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "merkletree\nVersion: %s\nGoVersion: %s\n",
		Version,
		runtime.Version(),
	)
}

// New creates the merkletree [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "merkletree"
	ctl.Version = Version
	ctl.Usage = "Keyed Merkle commitments with attested sampling"
	ctl.ErrWriter = os.Stdout
	ctl.Flags = []cli.Flag{options.ConfigFile, options.Debug}

	ctl.Commands = append(ctl.Commands, tree.NewCommands()...)
	ctl.Commands = append(ctl.Commands, zk.NewCommands()...)
	return ctl
}
