package main

import (
	"os"

	"github.com/hashicorp/cli"
)

// mockside has exactly one thing it does, so main drives ServeCommand
// directly rather than routing through cli.CLI's subcommand registry —
// there is no verb in "mockside [host]:port config-file" to dispatch on.
// The cli.Command interface is kept anyway since it is what buys us
// cli.BasicUi and its well-behaved Error/Output/Info methods.
func main() {
	ui := &cli.BasicUi{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Reader:      os.Stdin,
	}
	cmd := &ServeCommand{Ui: ui}
	os.Exit(cmd.Run(os.Args[1:]))
}
