package cmds

import (
	"net/http"
	"sort"

	"github.com/spf13/cobra"

	"github.com/FuturFusion/compute-manager/internal/util"
	"github.com/FuturFusion/compute-manager/shared/api"
)

type CmdMigration struct {
	Global *CmdGlobal
}

func (c *CmdMigration) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "migration"
	cmd.Short = "Inspect resize migration records"
	cmd.Long = `Description:
  Inspect resize migration records

  Every resize creates a migration record that tracks the flavor change
  until it is confirmed or reverted.
`

	// List
	migrationListCmd := cmdMigrationList{global: c.Global}
	cmd.AddCommand(migrationListCmd.Command())

	// Workaround for subcommand usage errors. See: https://github.com/spf13/cobra/issues/706
	cmd.Args = cobra.NoArgs
	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Usage() }

	return cmd
}

// List the migrations.
type cmdMigrationList struct {
	global *CmdGlobal

	flagFormat string
}

func (c *cmdMigrationList) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "list"
	cmd.Short = "List resize migration records"
	cmd.Long = `Description:
  List the resize migration records
`

	cmd.RunE = c.Run
	cmd.Flags().StringVarP(&c.flagFormat, "format", "f", "table", `Format (csv|json|table|yaml|compact), use suffix ",noheader" to disable headers and ",header" to enable if demanded, e.g. csv,header`)
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		return validateFlagFormat(cmd.Flag("format").Value.String())
	}

	return cmd
}

func (c *cmdMigrationList) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 0, 0)
	if exit {
		return err
	}

	// Get the list of all migrations.
	resp, err := c.global.doHTTPRequestV1("/migrations", http.MethodGet, "recursion=1", nil)
	if err != nil {
		return err
	}

	migrations := []api.Migration{}

	err = responseToStruct(resp, &migrations)
	if err != nil {
		return err
	}

	// Render the table.
	header := []string{"UUID", "Server UUID", "Status", "Old Flavor", "New Flavor"}
	data := [][]string{}

	for _, mig := range migrations {
		data = append(data, []string{mig.UUID.String(), mig.ServerUUID.String(), string(mig.Status), mig.OldFlavorID, mig.NewFlavorID})
	}

	sort.Sort(util.SortColumnsNaturally(data))

	return util.RenderTable(cmd.OutOrStdout(), c.flagFormat, header, data, migrations)
}
