// kalmansim simulates tracked rigid bodies and runs a Kalman filter on each of them.
package main

import (
	"github.com/alecthomas/kong"
)

// CLI is the kalmansim command line.
type CLI struct {
	Run     RunCmd     `cmd:"" help:"run a simulation scenario"`
	Version VersionCmd `cmd:"" help:"show version"`
}

var version = "dev"

// VersionCmd prints the version.
type VersionCmd struct{}

// Run runs the version command.
func (v *VersionCmd) Run(ctx *kong.Context) error {
	_, err := ctx.Stdout.Write([]byte("kalmansim " + version + "\n"))
	return err
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("kalmansim"),
		kong.Description("Kalman filter pose tracking simulator"),
		kong.HelpOptions{NoAppSummary: false, Compact: true, FlagsLast: true},
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
