package cmds

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/FuturFusion/compute-manager/internal/util"
	"github.com/FuturFusion/compute-manager/shared/api"
)

type CmdServer struct {
	Global *CmdGlobal
}

func (c *CmdServer) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "server"
	cmd.Short = "Interact with compute servers"
	cmd.Long = `Description:
  Interact with compute servers

  Manage the server records held by the compute manager and run actions
  against them.
`

	// Add
	serverAddCmd := cmdServerAdd{global: c.Global}
	cmd.AddCommand(serverAddCmd.Command())

	// List
	serverListCmd := cmdServerList{global: c.Global}
	cmd.AddCommand(serverListCmd.Command())

	// Show
	serverShowCmd := cmdServerShow{global: c.Global}
	cmd.AddCommand(serverShowCmd.Command())

	// Remove
	serverRemoveCmd := cmdServerRemove{global: c.Global}
	cmd.AddCommand(serverRemoveCmd.Command())

	// Rename
	serverRenameCmd := cmdServerRename{global: c.Global}
	cmd.AddCommand(serverRenameCmd.Command())

	// Actions
	for _, actionCmd := range serverActionCommands(c.Global) {
		cmd.AddCommand(actionCmd)
	}

	// Workaround for subcommand usage errors. See: https://github.com/spf13/cobra/issues/706
	cmd.Args = cobra.NoArgs
	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Usage() }

	return cmd
}

// Add the server.
type cmdServerAdd struct {
	global *CmdGlobal

	flagSecurityGroups []string
}

func (c *cmdServerAdd) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "add <name> <flavor> <image>"
	cmd.Short = "Add a new server"
	cmd.Long = `Description:
  Add a new server

  Creates a new server record built from the given flavor and image.
`

	cmd.RunE = c.Run
	cmd.Flags().StringSliceVar(&c.flagSecurityGroups, "security-group", nil, "Security group to attach, may be repeated")

	return cmd
}

func (c *cmdServerAdd) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 3, 3)
	if exit {
		return err
	}

	srv := api.ServerPut{
		Name:           args[0],
		FlavorID:       args[1],
		ImageID:        args[2],
		SecurityGroups: c.flagSecurityGroups,
	}

	content, err := json.Marshal(srv)
	if err != nil {
		return err
	}

	_, err = c.global.doHTTPRequestV1("/servers", http.MethodPost, "", content)
	if err != nil {
		return err
	}

	cmd.Printf("Successfully added new server '%s'.\n", srv.Name)
	return nil
}

// List the servers.
type cmdServerList struct {
	global *CmdGlobal

	flagFormat string
	flagFilter string
}

func (c *cmdServerList) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "list"
	cmd.Short = "List available servers"
	cmd.Long = `Description:
  List the available servers
`

	cmd.RunE = c.Run
	cmd.Flags().StringVarP(&c.flagFormat, "format", "f", "table", `Format (csv|json|table|yaml|compact), use suffix ",noheader" to disable headers and ",header" to enable if demanded, e.g. csv,header`)
	cmd.Flags().StringVar(&c.flagFilter, "filter", "", "Filter expression applied to the server list")
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		return validateFlagFormat(cmd.Flag("format").Value.String())
	}

	return cmd
}

func (c *cmdServerList) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 0, 0)
	if exit {
		return err
	}

	// Get the list of all servers.
	query := "recursion=1"
	if c.flagFilter != "" {
		query += "&filter=" + strings.ReplaceAll(c.flagFilter, " ", "%20")
	}

	resp, err := c.global.doHTTPRequestV1("/servers", http.MethodGet, query, nil)
	if err != nil {
		return err
	}

	servers := []api.Server{}

	err = responseToStruct(resp, &servers)
	if err != nil {
		return err
	}

	// Render the table.
	header := []string{"Name", "UUID", "Status", "Task State", "Flavor", "Image", "Locked"}
	data := [][]string{}

	for _, srv := range servers {
		data = append(data, []string{srv.Name, srv.UUID.String(), string(srv.Status), string(srv.TaskState), srv.FlavorID, srv.ImageID, strconv.FormatBool(srv.Locked)})
	}

	sort.Sort(util.SortColumnsNaturally(data))

	return util.RenderTable(cmd.OutOrStdout(), c.flagFormat, header, data, servers)
}

// Show the server.
type cmdServerShow struct {
	global *CmdGlobal
}

func (c *cmdServerShow) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "show <uuid>"
	cmd.Short = "Show server details"
	cmd.Long = `Description:
  Show server details
`

	cmd.RunE = c.Run

	return cmd
}

func (c *cmdServerShow) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 1)
	if exit {
		return err
	}

	resp, err := c.global.doHTTPRequestV1("/servers/"+args[0], http.MethodGet, "", nil)
	if err != nil {
		return err
	}

	srv := api.Server{}

	err = responseToStruct(resp, &srv)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(srv)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s", out)
	return err
}

// Remove the server.
type cmdServerRemove struct {
	global *CmdGlobal
}

func (c *cmdServerRemove) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "remove <uuid>"
	cmd.Short = "Remove server"
	cmd.Long = `Description:
  Remove server

  Removes the server record. Refused while an action is still in flight.
`

	cmd.RunE = c.Run

	return cmd
}

func (c *cmdServerRemove) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 1, 1)
	if exit {
		return err
	}

	_, err = c.global.doHTTPRequestV1("/servers/"+args[0], http.MethodDelete, "", nil)
	if err != nil {
		return err
	}

	cmd.Printf("Successfully removed server '%s'.\n", args[0])
	return nil
}

// Rename the server.
type cmdServerRename struct {
	global *CmdGlobal
}

func (c *cmdServerRename) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "rename <uuid> <new-name>"
	cmd.Short = "Rename server"
	cmd.Long = `Description:
  Rename server
`

	cmd.RunE = c.Run

	return cmd
}

func (c *cmdServerRename) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 2, 2)
	if exit {
		return err
	}

	content, err := json.Marshal(api.ServerPut{Name: args[1]})
	if err != nil {
		return err
	}

	_, err = c.global.doHTTPRequestV1("/servers/"+args[0], http.MethodPut, "", content)
	if err != nil {
		return err
	}

	cmd.Printf("Successfully renamed server '%s'.\n", args[0])
	return nil
}
