package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/lxc/incus/v6/shared/ask"
	"github.com/spf13/cobra"

	"github.com/FuturFusion/compute-manager/cmd/compute-manager/cmds"
	"github.com/FuturFusion/compute-manager/internal/version"
)

func main() {
	// Setup the parser
	app := &cobra.Command{}
	app.Use = "compute-manager"
	app.Short = "Command line client for compute manager"
	app.Long = `Description:
  Command line client for compute manager

  The compute manager can be interacted with through the various commands
  below. For help with any of those, simply call them with --help.
`

	app.SilenceUsage = true
	app.SilenceErrors = true
	app.CompletionOptions = cobra.CompletionOptions{HiddenDefaultCmd: true}

	// Global flags
	asker := ask.NewAsker(bufio.NewReader(os.Stdin))
	globalCmd := cmds.CmdGlobal{Cmd: app, Asker: &asker}

	app.PersistentFlags().BoolVar(&globalCmd.FlagVersion, "version", false, "Print version number")
	app.PersistentFlags().BoolVarP(&globalCmd.FlagHelp, "help", "h", false, "Print help")

	// Wrappers
	app.PersistentPreRunE = globalCmd.PreRun

	// Version handling
	app.SetVersionTemplate("{{.Version}}\n")
	app.Version = version.Version

	// server sub-command
	serverCmd := cmds.CmdServer{Global: &globalCmd}
	app.AddCommand(serverCmd.Command())

	// migration sub-command
	migrationCmd := cmds.CmdMigration{Global: &globalCmd}
	app.AddCommand(migrationCmd.Command())

	// Run the main command and handle errors
	err := app.Execute()
	if err != nil {
		fmt.Printf("%s\n", err)
		os.Exit(1)
	}
}
